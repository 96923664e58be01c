package config

import (
	"encoding/json"
	"fmt"

	"github.com/cellular-semantics/braincellkg/errors"
	"github.com/cellular-semantics/braincellkg/resolver"
	"github.com/cellular-semantics/braincellkg/taxonomy"
)

// Config is the complete batch configuration.
type Config struct {
	Version  string         `json:"version,omitempty"`
	Neo4j    Neo4jConfig    `json:"neo4j"`
	Taxonomy TaxonomyConfig `json:"taxonomy"`
	Resolver ResolverConfig `json:"resolver,omitempty"`
	Analysis AnalysisConfig `json:"analysis,omitempty"`
	Batch    BatchConfig    `json:"batch,omitempty"`
	Reports  ReportsConfig  `json:"reports"`
	Metrics  MetricsConfig  `json:"metrics,omitempty"`
}

// Neo4jConfig is the graph catalog connection.
type Neo4jConfig struct {
	URI      string `json:"uri"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database,omitempty"`
}

// TaxonomyConfig names the taxonomy to process and the curated token table.
type TaxonomyConfig struct {
	// Name is the taxonomy's graph label, e.g. "WMB".
	Name string `json:"name"`
	// TokenCatalog is the path of the curated token table CSV. Optional;
	// without it only neurotransmitter tokens derive identifiers.
	TokenCatalog string `json:"token_catalog,omitempty"`
}

// ResolverConfig tunes the resolution strategy chain.
type ResolverConfig struct {
	// StrategyOrder overrides the default chain order by strategy name.
	StrategyOrder []string `json:"strategy_order,omitempty"`
	// LabelSearch enables the last-resort label substring strategy.
	LabelSearch bool `json:"label_search,omitempty"`
}

// AnalysisConfig scopes the hierarchy reports.
type AnalysisConfig struct {
	// StopTier is the most general tier included in ancestor walks.
	StopTier string `json:"stop_tier,omitempty"`
	// ExcludeLabels removes branches by label substring, e.g. "Nonneuron".
	ExcludeLabels []string `json:"exclude_labels,omitempty"`
	// ConsistencyDepth bounds the consistency fold's descendant walk.
	ConsistencyDepth int `json:"consistency_depth,omitempty"`
	// ComboSeparator splits neurotransmitter combo labels.
	ComboSeparator string `json:"combo_separator,omitempty"`
}

// BatchConfig sizes the parallel resolution stage.
type BatchConfig struct {
	Workers   int `json:"workers,omitempty"`
	QueueSize int `json:"queue_size,omitempty"`
}

// ReportsConfig selects the report destinations.
type ReportsConfig struct {
	// OutputDir receives the per-table CSV files.
	OutputDir string `json:"output_dir"`
	// Workbook is the consolidated XLSX path. Empty disables the workbook.
	Workbook string `json:"workbook,omitempty"`
}

// MetricsConfig exposes the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address, e.g. ":9090". Empty disables serving.
	Addr string `json:"addr,omitempty"`
}

// defaults applied after parsing, before validation
const (
	DefaultWorkers          = 8
	DefaultQueueSize        = 1024
	DefaultDatabase         = "neo4j"
	DefaultStopTier         = "class"
	DefaultComboSeparator   = ":"
	DefaultConsistencyDepth = 3
)

func (c *Config) applyDefaults() {
	if c.Neo4j.Database == "" {
		c.Neo4j.Database = DefaultDatabase
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = DefaultWorkers
	}
	if c.Batch.QueueSize <= 0 {
		c.Batch.QueueSize = DefaultQueueSize
	}
	if c.Analysis.StopTier == "" {
		c.Analysis.StopTier = DefaultStopTier
	}
	if c.Analysis.ComboSeparator == "" {
		c.Analysis.ComboSeparator = DefaultComboSeparator
	}
	if c.Analysis.ConsistencyDepth <= 0 {
		c.Analysis.ConsistencyDepth = DefaultConsistencyDepth
	}
}

// Validate rejects configurations that would fail mid-batch.
func (c *Config) Validate() error {
	if c.Neo4j.URI == "" {
		return errors.WrapInvalid(
			fmt.Errorf("neo4j.uri is required"),
			"Config", "Validate", "check connection settings")
	}
	if c.Taxonomy.Name == "" {
		return errors.WrapInvalid(
			fmt.Errorf("taxonomy.name is required"),
			"Config", "Validate", "check taxonomy settings")
	}
	if c.Reports.OutputDir == "" {
		return errors.WrapInvalid(
			fmt.Errorf("reports.output_dir is required"),
			"Config", "Validate", "check report settings")
	}

	if _, err := taxonomy.ParseTier(c.Analysis.StopTier); err != nil {
		return errors.WrapInvalid(err, "Config", "Validate", "parse analysis.stop_tier")
	}
	for _, name := range c.Resolver.StrategyOrder {
		if _, err := resolver.ParseStrategy(name); err != nil {
			return errors.WrapInvalid(err, "Config", "Validate", "parse resolver.strategy_order")
		}
	}
	return nil
}

// StopTier returns the parsed analysis stop tier. Call after Validate.
func (c *Config) StopTier() taxonomy.Tier {
	tier, _ := taxonomy.ParseTier(c.Analysis.StopTier)
	return tier
}

// StrategyOrder returns the parsed resolver chain order, or nil when the
// default order applies. Call after Validate.
func (c *Config) StrategyOrder() []resolver.Strategy {
	if len(c.Resolver.StrategyOrder) == 0 {
		return nil
	}
	order := make([]resolver.Strategy, 0, len(c.Resolver.StrategyOrder))
	for _, name := range c.Resolver.StrategyOrder {
		strategy, err := resolver.ParseStrategy(name)
		if err != nil {
			continue
		}
		order = append(order, strategy)
	}
	return order
}

// Load reads, parses and validates a JSON config file.
func Load(path string) (*Config, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Config", "Load", "read config file")
	}
	if err := validateJSONDepth(data); err != nil {
		return nil, errors.WrapInvalid(err, "Config", "Load", "validate JSON structure")
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapInvalid(err, "Config", "Load", "parse config")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ToJSON renders the config for debugging, with the password masked.
func (c *Config) ToJSON() (string, error) {
	clone := *c
	if clone.Neo4j.Password != "" {
		clone.Neo4j.Password = "********"
	}
	data, err := json.MarshalIndent(&clone, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
