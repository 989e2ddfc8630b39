// Package testutil provides utilities for testing packmerge components.
//
// Key components:
//   - TestEnvironment: builds packs on an in-memory or temp-dir filesystem
//   - ScriptedChooser: a Chooser that answers conflicts from a fixed script
//   - Tree helpers: read and compare output trees
//
// Usage guidelines:
//   - Most tests should use EnvMemoryOnly for speed and isolation
//   - Use EnvIsolated when a test exercises the real OS filesystem
//   - All test data should be defined inline, not in external files
package testutil
