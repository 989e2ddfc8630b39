// Package filesystem provides the filesystem used by packmerge.
//
// Every stage reads and writes through an afero.Fs so the merge can run
// against the real OS filesystem or an in-memory one in tests.
package filesystem
