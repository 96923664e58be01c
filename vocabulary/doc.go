// Package vocabulary provides the curated vocabularies that drive label
// tokenization and entity resolution: the closed neurotransmitter vocabulary,
// the CURIE prefix registry (including inconsistent-case counterparts and
// short-form rules), and the token catalog mapping known token texts to their
// kinds and primary identifiers.
//
// The neurotransmitter vocabulary and prefix registry are process-global and
// seeded in init(); callers may register additional entries during startup.
// Both registries are safe for concurrent reads once startup registration is
// complete.
package vocabulary
