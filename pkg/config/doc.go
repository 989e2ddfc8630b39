// Package config loads packmerge settings.
//
// Settings are layered, later layers winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. environment variables: PACKMERGE_MERGE_WORKERS sets merge.workers
//  3. overrides passed by the caller, usually command line flags
//
// There is no configuration file on disk.
package config
