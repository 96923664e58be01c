// Package config loads and validates the batch configuration from JSON.
// Loading is defensive: the file path, size and JSON nesting depth are
// checked before parsing, and Validate rejects configurations that would
// fail mid-batch (unknown tiers, unknown strategy names, missing
// connection settings). Environment-variable overrides are resolved by the
// CLI layer, not here.
package config
