package domain

import (
	"path"
	"sort"
	"time"
)

// PathEntry is the flat metadata of one remote object, keyed by its path.
// A deleted entry carries only its path, and its display path when known.
type PathEntry struct {
	// Path is the normalised absolute path and the key within a change set.
	Path string

	// DisplayPath is the path with its original casing, if the remote provides one.
	DisplayPath string

	// ID is the remote's stable identifier, if any.
	ID string

	// Size is the object size in bytes.
	Size uint64

	// ContentHash is the remote-computed content hash.
	ContentHash string

	// Rev is the remote revision token.
	Rev string

	// Modified is the remote-supplied modification time.
	// It is never used to order changes.
	Modified time.Time

	// MIMEType is a type hint derived from the name or supplied by the remote.
	MIMEType string

	// IsDir marks folders.
	IsDir bool

	// IsDeleted marks removed objects.
	IsDeleted bool
}

// Name returns the last element of the display path, falling back to the key.
func (e PathEntry) Name() string {
	if e.DisplayPath != "" {
		return path.Base(e.DisplayPath)
	}
	return path.Base(e.Path)
}

// RawChange is one change record as delivered by a change feed.
// A nil Meta signals that the path was deleted.
type RawChange struct {
	Path string
	Meta *PathEntry
}

// ChangePage is one page of a paginated change feed response.
type ChangePage struct {
	// Records are the changes in delivery order.
	Records []RawChange

	// Marker resumes the feed after this page.
	Marker string

	// HasMore is true when another page is immediately available.
	HasMore bool
}

// ChangeSet is the reconciled result of one fetch cycle.
// It is built in memory and never persisted; only Marker survives the cycle.
type ChangeSet struct {
	// Entries maps path to the last known state of that path.
	Entries map[string]PathEntry

	// Marker is the position to resume from in the next cycle.
	Marker string
}

// NewChangeSet creates an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{Entries: make(map[string]PathEntry)}
}

// Apply folds one raw change into the set. Records must be applied in
// delivery order: the last record for a path wins, and a deletion
// replaces any earlier metadata for the same path.
func (c *ChangeSet) Apply(change RawChange) {
	if change.Meta == nil {
		c.Entries[change.Path] = PathEntry{Path: change.Path, IsDeleted: true}
		return
	}
	if change.Meta.IsDeleted {
		c.Entries[change.Path] = PathEntry{Path: change.Path, DisplayPath: change.Meta.DisplayPath, IsDeleted: true}
		return
	}

	entry := *change.Meta
	entry.Path = change.Path
	c.Entries[change.Path] = entry
}

// ApplyPage applies every record of a page in order and adopts its marker.
func (c *ChangeSet) ApplyPage(page *ChangePage) {
	for _, rec := range page.Records {
		c.Apply(rec)
	}
	c.Marker = page.Marker
}

// Len returns the number of distinct paths in the set.
func (c *ChangeSet) Len() int {
	return len(c.Entries)
}

// Paths returns the keys in lexical order.
func (c *ChangeSet) Paths() []string {
	paths := make([]string, 0, len(c.Entries))
	for p := range c.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
