package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellular-semantics/braincellkg/resolver"
	"github.com/cellular-semantics/braincellkg/taxonomy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `{
  "neo4j": {
    "uri": "bolt://localhost:7687",
    "username": "neo4j",
    "password": "secret"
  },
  "taxonomy": {"name": "WMB"},
  "reports": {"output_dir": "out"}
}`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "neo4j", cfg.Neo4j.Database)
	assert.Equal(t, DefaultWorkers, cfg.Batch.Workers)
	assert.Equal(t, DefaultQueueSize, cfg.Batch.QueueSize)
	assert.Equal(t, "class", cfg.Analysis.StopTier)
	assert.Equal(t, ":", cfg.Analysis.ComboSeparator)
	assert.Equal(t, DefaultConsistencyDepth, cfg.Analysis.ConsistencyDepth)

	assert.Equal(t, taxonomy.TierClass, cfg.StopTier())
	assert.Nil(t, cfg.StrategyOrder())
}

func TestLoadMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing uri", `{"taxonomy": {"name": "WMB"}, "reports": {"output_dir": "out"}}`},
		{"missing taxonomy", `{"neo4j": {"uri": "bolt://x"}, "reports": {"output_dir": "out"}}`},
		{"missing output dir", `{"neo4j": {"uri": "bolt://x"}, "taxonomy": {"name": "WMB"}}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, test.content))
			require.Error(t, err)
		})
	}
}

func TestLoadCustomStrategyOrder(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{
	  "neo4j": {"uri": "bolt://localhost:7687"},
	  "taxonomy": {"name": "WMB"},
	  "reports": {"output_dir": "out"},
	  "resolver": {"strategy_order": ["DIRECT", "SHORT_FORM", "CLASS_FALLBACK"]}
	}`))
	require.NoError(t, err)

	assert.Equal(t, []resolver.Strategy{
		resolver.StrategyDirect,
		resolver.StrategyShortForm,
		resolver.StrategyClassFallback,
	}, cfg.StrategyOrder())
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	_, err := Load(writeConfig(t, `{
	  "neo4j": {"uri": "bolt://localhost:7687"},
	  "taxonomy": {"name": "WMB"},
	  "reports": {"output_dir": "out"},
	  "resolver": {"strategy_order": ["FUZZY"]}
	}`))
	require.Error(t, err)
}

func TestLoadRejectsUnknownTier(t *testing.T) {
	_, err := Load(writeConfig(t, `{
	  "neo4j": {"uri": "bolt://localhost:7687"},
	  "taxonomy": {"name": "WMB"},
	  "reports": {"output_dir": "out"},
	  "analysis": {"stop_tier": "kingdom"}
	}`))
	require.Error(t, err)
}

func TestLoadRejectsNonJSONPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("neo4j:"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load(writeConfig(t, `{"neo4j": {`))
	require.Error(t, err)
}

func TestToJSONMasksPassword(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	out, err := cfg.ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "********")
}
