// Package models defines the data objects shared across lazycommit packages.
package models

// CommitFile represents a file entry from a staged name-status diff.
type CommitFile struct {
	Filename   string
	ChangeType string // A=Added, M=Modified, D=Deleted, R=Renamed, C=Copied
	OldPath    string // For renames: the original path
}
