package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/cellular-semantics/braincellkg/errors"
)

// safeLabel restricts interpolated graph labels (entity families come from a
// fixed enum, taxonomy names from config) to identifier characters. Values
// always travel as bolt parameters.
var safeLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Neo4jCatalog implements Catalog against a Neo4j bolt endpoint.
type Neo4jCatalog struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// Neo4jOption configures a Neo4jCatalog.
type Neo4jOption func(*Neo4jCatalog)

// WithDatabase selects a database other than the server default.
func WithDatabase(name string) Neo4jOption {
	return func(c *Neo4jCatalog) {
		c.database = name
	}
}

// WithLogger attaches a logger for query diagnostics.
func WithLogger(logger *slog.Logger) Neo4jOption {
	return func(c *Neo4jCatalog) {
		c.logger = logger
	}
}

// NewNeo4jCatalog connects to a Neo4j endpoint and verifies connectivity.
// Connection failure is fatal: the batch must not start against an
// unreachable catalog.
func NewNeo4jCatalog(ctx context.Context, uri, username, password string, opts ...Neo4jOption) (*Neo4jCatalog, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.WrapFatal(err, "Neo4jCatalog", "NewNeo4jCatalog", "create driver")
	}

	c := &Neo4jCatalog{
		driver: driver,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.Ping(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}

	c.logger.Info("connected to graph catalog", "uri", uri, "database", c.database)
	return c, nil
}

// Ping verifies connectivity with a trivial read.
func (c *Neo4jCatalog) Ping(ctx context.Context) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, "RETURN 1", nil)
	if err == nil {
		_, err = result.Consume(ctx)
	}
	if err != nil {
		return errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrCatalogUnavailable, err),
			"Neo4jCatalog", "Ping", "verify connectivity")
	}
	return nil
}

// Close releases the bolt driver.
func (c *Neo4jCatalog) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// LookupByCURIE implements Lookup.
func (c *Neo4jCatalog) LookupByCURIE(ctx context.Context, family Family, curie string) (*Entity, error) {
	query := fmt.Sprintf(
		"MATCH (e:%s) WHERE e.curie = $id RETURN e.curie AS curie, e.label AS label LIMIT 1",
		familyLabel(family))
	return c.lookupOne(ctx, "LookupByCURIE", query, map[string]any{"id": curie})
}

// LookupByLabel implements Lookup. The match is a substring match on the
// entity label, mirroring the last-resort symbol search of the upstream tool.
func (c *Neo4jCatalog) LookupByLabel(ctx context.Context, family Family, text string) (*Entity, error) {
	query := fmt.Sprintf(
		"MATCH (e:%s) WHERE e.label CONTAINS $text RETURN e.curie AS curie, e.label AS label LIMIT 1",
		familyLabel(family))
	return c.lookupOne(ctx, "LookupByLabel", query, map[string]any{"text": text})
}

// LookupByShortForm implements Lookup.
func (c *Neo4jCatalog) LookupByShortForm(ctx context.Context, family Family, shortForm string) (*Entity, error) {
	query := fmt.Sprintf(
		"MATCH (e:%s) WHERE e.short_form = $sf RETURN e.curie AS curie, e.label AS label LIMIT 1",
		familyLabel(family))
	return c.lookupOne(ctx, "LookupByShortForm", query, map[string]any{"sf": shortForm})
}

// TaxonomyNodes implements Traversal. One round trip fetches every node of
// the taxonomy with its parent edges, tier labels, neurotransmitter combo and
// exemplar cell; hierarchy walks then run in memory over the snapshot.
func (c *Neo4jCatalog) TaxonomyNodes(ctx context.Context, taxonomy string) ([]NodeRow, error) {
	if !safeLabel.MatchString(taxonomy) {
		return nil, errors.WrapInvalid(
			fmt.Errorf("taxonomy label %q is not a valid graph label", taxonomy),
			"Neo4jCatalog", "TaxonomyNodes", "validate taxonomy")
	}

	query := fmt.Sprintf(`
		MATCH (cc:Cell_cluster:%s)
		OPTIONAL MATCH (cc)-[:subcluster_of]->(parent:Cell_cluster:%s)
		OPTIONAL MATCH (cc)<-[:has_exemplar_data]-(cell:Cell)
		RETURN cc.curie AS curie,
		       cc.label AS label,
		       labels(cc) AS tiers,
		       cc.nt_type_combo_label AS nt_combo,
		       collect(DISTINCT parent.curie) AS parents,
		       head(collect(DISTINCT cell.curie)) AS cell_curie,
		       head(collect(DISTINCT cell.label)) AS cell_label
		ORDER BY cc.label`, taxonomy, taxonomy)

	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, c.catalogErr("TaxonomyNodes", err)
	}

	var rows []NodeRow
	for result.Next(ctx) {
		row, err := nodeRowFromRecord(result.Record())
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, c.catalogErr("TaxonomyNodes", err)
	}

	c.logger.Debug("fetched taxonomy nodes", "taxonomy", taxonomy, "count", len(rows))
	return rows, nil
}

func (c *Neo4jCatalog) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: c.database,
	})
}

func (c *Neo4jCatalog) lookupOne(ctx context.Context, op, query string, params map[string]any) (*Entity, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, c.catalogErr(op, err)
	}

	if result.Next(ctx) {
		record := result.Record()
		entity := &Entity{
			CURIE: stringField(record, "curie"),
			Label: stringField(record, "label"),
		}
		if entity.CURIE == "" {
			return nil, errors.WrapInvalid(errors.ErrMalformedRow, "Neo4jCatalog", op, "read entity row")
		}
		return entity, nil
	}
	if err := result.Err(); err != nil {
		return nil, c.catalogErr(op, err)
	}

	return nil, fmt.Errorf("%s: %w", op, errors.ErrEntityNotFound)
}

// catalogErr converts a driver failure into a fatal batch error. There is no
// retry here: the batch fails fast on an unreachable catalog.
func (c *Neo4jCatalog) catalogErr(op string, err error) error {
	return errors.WrapFatal(
		fmt.Errorf("%w: %v", errors.ErrCatalogUnavailable, err),
		"Neo4jCatalog", op, "run query")
}

func familyLabel(family Family) string {
	label := family.String()
	if !safeLabel.MatchString(label) {
		// Family is a closed enum; anything else is a programming error.
		panic(fmt.Sprintf("invalid family label %q", label))
	}
	return label
}

func nodeRowFromRecord(record *neo4j.Record) (NodeRow, error) {
	row := NodeRow{
		CURIE:   stringField(record, "curie"),
		Label:   stringField(record, "label"),
		NTCombo: stringField(record, "nt_combo"),
	}
	if row.CURIE == "" {
		return NodeRow{}, errors.WrapInvalid(errors.ErrMalformedRow, "Neo4jCatalog", "TaxonomyNodes", "read node row")
	}

	row.Tiers = stringListField(record, "tiers")
	row.Parents = stringListField(record, "parents")
	row.ExemplarCell = Entity{
		CURIE: stringField(record, "cell_curie"),
		Label: stringField(record, "cell_label"),
	}
	return row, nil
}

func stringField(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []any:
		// Some exports store single-valued properties as one-element lists.
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func stringListField(record *neo4j.Record, key string) []string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
