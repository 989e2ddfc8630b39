// Package types defines the data model shared by every stage of a merge:
// packs, relative paths, digests, file entries, conflicts and resolutions.
package types
