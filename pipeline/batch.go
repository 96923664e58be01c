package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cellular-semantics/braincellkg/analysis"
	"github.com/cellular-semantics/braincellkg/catalog"
	"github.com/cellular-semantics/braincellkg/errors"
	"github.com/cellular-semantics/braincellkg/metric"
	"github.com/cellular-semantics/braincellkg/pkg/worker"
	"github.com/cellular-semantics/braincellkg/report"
	"github.com/cellular-semantics/braincellkg/resolver"
	"github.com/cellular-semantics/braincellkg/taxonomy"
	"github.com/cellular-semantics/braincellkg/token"
)

// pipeline stages reported through the batch-status gauge
const (
	stageIdle = iota
	stageLoading
	stageTokenizing
	stageResolving
	stageAggregating
	stageReporting
	stageDone
	stageFailed
)

const stopTimeout = 30 * time.Second

// Batch runs one end-to-end pass over a taxonomy.
type Batch struct {
	id        string
	taxonomy  string
	catalog   catalog.Catalog
	tokenizer *token.Tokenizer
	resolver  *resolver.Resolver
	aggOpts   []analysis.Option
	sinks     []report.Sink
	registry  *metric.Registry
	logger    *slog.Logger
	workers   int
	queueSize int
}

// Option configures a Batch.
type Option func(*Batch)

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(t *token.Tokenizer) Option {
	return func(b *Batch) {
		b.tokenizer = t
	}
}

// WithResolver replaces the default resolver.
func WithResolver(r *resolver.Resolver) Option {
	return func(b *Batch) {
		b.resolver = r
	}
}

// WithAggregatorOptions forwards options to the hierarchy aggregator.
func WithAggregatorOptions(opts ...analysis.Option) Option {
	return func(b *Batch) {
		b.aggOpts = opts
	}
}

// WithSinks sets the report destinations. Tables are written to every sink.
func WithSinks(sinks ...report.Sink) Option {
	return func(b *Batch) {
		b.sinks = sinks
	}
}

// WithMetrics wires the batch to the metrics registry.
func WithMetrics(registry *metric.Registry) Option {
	return func(b *Batch) {
		b.registry = registry
	}
}

// WithLogger sets the batch logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Batch) {
		b.logger = logger
	}
}

// WithWorkers sizes the parallel resolution stage.
func WithWorkers(workers, queueSize int) Option {
	return func(b *Batch) {
		b.workers = workers
		b.queueSize = queueSize
	}
}

// NewBatch creates a batch over one taxonomy. The catalog is the single
// shared resource; it is treated as read-only for the batch's duration.
func NewBatch(cat catalog.Catalog, taxonomyName string, opts ...Option) *Batch {
	b := &Batch{
		id:       uuid.NewString(),
		taxonomy: taxonomyName,
		catalog:  cat,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.tokenizer == nil {
		b.tokenizer = token.New()
	}
	if b.resolver == nil {
		b.resolver = resolver.New(cat, resolver.WithLogger(b.logger))
	}
	return b
}

// ID returns the batch run identifier.
func (b *Batch) ID() string {
	return b.id
}

// Run executes the batch. It returns the first fatal error; per-token
// unmatched outcomes are reported, never returned.
func (b *Batch) Run(ctx context.Context) error {
	logger := b.logger.With("batch", b.id, "taxonomy", b.taxonomy)
	start := time.Now()

	if err := b.run(ctx, logger); err != nil {
		b.setStage(stageFailed)
		b.recordError("Batch", err)
		return err
	}

	b.setStage(stageDone)
	logger.Info("batch complete", "duration", time.Since(start))
	return nil
}

func (b *Batch) run(ctx context.Context, logger *slog.Logger) error {
	b.setStage(stageLoading)
	if err := b.catalog.Ping(ctx); err != nil {
		b.setCatalogStatus(false)
		return err
	}
	b.setCatalogStatus(true)

	snapshot, err := taxonomy.Load(ctx, b.catalog, b.taxonomy)
	if err != nil {
		return err
	}
	logger.Info("taxonomy loaded", "nodes", snapshot.Len())

	b.setStage(stageTokenizing)
	results := b.tokenizeClusters(snapshot)

	b.setStage(stageResolving)
	resolutions, err := b.resolveAll(ctx, results)
	if err != nil {
		return err
	}

	b.setStage(stageAggregating)
	agg := analysis.NewAggregator(snapshot, b.aggOpts...)

	var (
		generality  []analysis.GeneralityRow
		consistency []analysis.ConsistencyRow
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		generality = agg.MostGeneralTerms(resolutions)
		return nil
	})
	g.Go(func() error {
		consistency = agg.NeurotransmitterConsistency()
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	b.setStage(stageReporting)
	tables := []report.Table{
		report.TokenMapping(resolutions),
		report.MostGeneralTerms(generality),
		report.NeurotransmitterConsistency(consistency),
		report.ClusterComposition(analysis.ClusterComposition(resolutions)),
		report.TokenUsage(analysis.TokenUsage(resolutions)),
		report.ProblemTokens(analysis.ProblemTokens(resolutions)),
		report.MatchingSummary(analysis.MatchingSummary(resolutions)),
	}
	return b.emit(tables, logger)
}

// tokenizeClusters tokenizes every leaf cluster label in snapshot order.
func (b *Batch) tokenizeClusters(snapshot *taxonomy.Snapshot) []token.Result {
	clusters := snapshot.Clusters()
	results := make([]token.Result, 0, len(clusters))
	for _, cluster := range clusters {
		result := b.tokenizer.Tokenize(cluster.Label)
		results = append(results, result)
		if b.registry != nil {
			b.registry.CoreMetrics().RecordLabelTokenized(result.Flagged)
		}
	}
	return results
}

// tokenKey identifies a distinct token for de-duplication. Resolution depends
// only on text and kind, so one lookup serves every occurrence.
type tokenKey struct {
	text string
	kind token.Kind
}

type resolveJob struct {
	index int
	tok   token.Token
}

// resolveAll resolves the distinct tokens of all labels in parallel and fans
// the shared outcomes back out to every occurrence.
func (b *Batch) resolveAll(ctx context.Context, results []token.Result) ([]analysis.LabelResolution, error) {
	// Collect distinct resolvable tokens.
	var jobs []resolveJob
	indexByKey := make(map[tokenKey]int)
	for _, result := range results {
		for _, tok := range result.Tokens {
			if _, ok := resolver.FamilyForKind(tok.Kind); !ok {
				continue
			}
			key := tokenKey{text: tok.Text, kind: tok.Kind}
			if _, seen := indexByKey[key]; seen {
				continue
			}
			indexByKey[key] = len(jobs)
			jobs = append(jobs, resolveJob{index: len(jobs), tok: tok})
		}
	}

	resolved := make([]resolver.ResolvedToken, len(jobs))
	jobErrs := make([]error, len(jobs))

	// Each job writes only its own slot, so no locking is needed.
	queueSize := b.queueSize
	if queueSize < len(jobs) {
		queueSize = len(jobs)
	}
	pool := worker.NewPool(b.workers, queueSize,
		func(ctx context.Context, job resolveJob) error {
			start := time.Now()
			out, err := b.resolver.Resolve(ctx, job.tok)
			if err != nil {
				jobErrs[job.index] = err
				return err
			}
			resolved[job.index] = out
			if b.registry != nil {
				b.registry.CoreMetrics().RecordTokenResolved(
					out.Strategy.String(), out.TargetFamily.String(), time.Since(start))
			}
			return nil
		},
		poolMetricsOption(b.registry))

	if err := pool.Start(ctx); err != nil {
		return nil, errors.WrapFatal(err, "Batch", "resolveAll", "start worker pool")
	}
	for _, job := range jobs {
		if err := pool.Submit(job); err != nil {
			pool.Stop(stopTimeout)
			return nil, errors.WrapFatal(err, "Batch", "resolveAll", "submit token "+job.tok.Text)
		}
	}
	if err := pool.Stop(stopTimeout); err != nil {
		return nil, errors.WrapFatal(err, "Batch", "resolveAll", "drain worker pool")
	}

	// A fatal catalog error aborts the batch with no partial report.
	for _, err := range jobErrs {
		if err != nil {
			return nil, errors.WrapFatal(
				fmt.Errorf("%w: %w", errors.ErrBatchAborted, err),
				"Batch", "resolveAll", "resolve tokens")
		}
	}

	// Fan the shared outcomes back out, preserving per-label token order.
	resolutions := make([]analysis.LabelResolution, 0, len(results))
	for _, result := range results {
		lr := analysis.LabelResolution{Tokens: result}
		for _, tok := range result.Tokens {
			if _, ok := resolver.FamilyForKind(tok.Kind); !ok {
				continue
			}
			out := resolved[indexByKey[tokenKey{text: tok.Text, kind: tok.Kind}]]
			// Stamp the occurrence's own provenance; the lookup outcome is
			// shared, the token identity is not.
			out.Token = tok
			lr.Resolved = append(lr.Resolved, out)
		}
		resolutions = append(resolutions, lr)
	}
	return resolutions, nil
}

// emit writes every table to every sink. Every sink is closed even when an
// earlier one fails, so a partial failure never leaks an open workbook.
func (b *Batch) emit(tables []report.Table, logger *slog.Logger) error {
	var firstErr error
	for _, sink := range b.sinks {
		if firstErr != nil {
			_ = sink.Close()
			continue
		}
		for _, table := range tables {
			if err := sink.Write(table); err != nil {
				firstErr = err
				break
			}
		}
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}
	for _, table := range tables {
		if b.registry != nil {
			b.registry.CoreMetrics().RecordReportRows(table.Name, len(table.Rows))
		}
		logger.Info("report written", "table", table.Name, "rows", len(table.Rows))
	}
	return nil
}

func (b *Batch) setStage(stage int) {
	if b.registry != nil {
		b.registry.CoreMetrics().RecordBatchStatus(stage)
	}
}

func (b *Batch) setCatalogStatus(connected bool) {
	if b.registry != nil {
		b.registry.CoreMetrics().RecordCatalogStatus(connected)
	}
}

func (b *Batch) recordError(component string, err error) {
	if b.registry == nil {
		return
	}
	b.registry.CoreMetrics().RecordError(component, errors.Classify(err).String())
}

// poolMetricsOption wires the resolution pool into the registry when metrics
// are enabled.
func poolMetricsOption(registry *metric.Registry) worker.Option[resolveJob] {
	if registry == nil {
		return func(*worker.Pool[resolveJob]) {}
	}
	return worker.WithMetricsRegistry[resolveJob](registry, "resolution")
}
