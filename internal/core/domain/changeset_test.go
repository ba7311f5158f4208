package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meta(rev string) *PathEntry {
	return &PathEntry{Rev: rev, Size: 10, MIMEType: "text/plain"}
}

func TestChangeSet_Apply_LastWins(t *testing.T) {
	cs := NewChangeSet()

	cs.Apply(RawChange{Path: "/a", Meta: meta("1")})
	cs.Apply(RawChange{Path: "/b", Meta: meta("2")})
	cs.Apply(RawChange{Path: "/a", Meta: meta("3")})

	require.Equal(t, 2, cs.Len())
	assert.Equal(t, "3", cs.Entries["/a"].Rev)
	assert.Equal(t, "2", cs.Entries["/b"].Rev)
	assert.Equal(t, "/a", cs.Entries["/a"].Path)
}

func TestChangeSet_Apply_DeleteOverwrites(t *testing.T) {
	cs := NewChangeSet()

	cs.Apply(RawChange{Path: "/a", Meta: meta("1")})
	cs.Apply(RawChange{Path: "/a"})

	entry := cs.Entries["/a"]
	assert.True(t, entry.IsDeleted)
	assert.Empty(t, entry.Rev)
	assert.Zero(t, entry.Size)
}

func TestChangeSet_Apply_RecreateAfterDelete(t *testing.T) {
	cs := NewChangeSet()

	cs.Apply(RawChange{Path: "/a"})
	cs.Apply(RawChange{Path: "/a", Meta: meta("4")})

	assert.False(t, cs.Entries["/a"].IsDeleted)
	assert.Equal(t, "4", cs.Entries["/a"].Rev)
}

func TestChangeSet_Apply_DeletedMetaStripped(t *testing.T) {
	cs := NewChangeSet()

	cs.Apply(RawChange{Path: "/a", Meta: &PathEntry{Rev: "9", IsDeleted: true}})

	assert.Equal(t, PathEntry{Path: "/a", IsDeleted: true}, cs.Entries["/a"])
}

func TestChangeSet_Apply_KeepsDirectories(t *testing.T) {
	cs := NewChangeSet()

	cs.Apply(RawChange{Path: "/docs", Meta: &PathEntry{IsDir: true}})

	assert.True(t, cs.Entries["/docs"].IsDir)
}

func TestChangeSet_ApplyPage(t *testing.T) {
	cs := NewChangeSet()

	cs.ApplyPage(&ChangePage{
		Records: []RawChange{{Path: "/a", Meta: meta("1")}},
		Marker:  "m1",
		HasMore: true,
	})
	cs.ApplyPage(&ChangePage{
		Records: []RawChange{{Path: "/a"}, {Path: "/c", Meta: meta("2")}},
		Marker:  "m2",
	})

	assert.Equal(t, "m2", cs.Marker)
	assert.True(t, cs.Entries["/a"].IsDeleted)
	assert.Equal(t, []string{"/a", "/c"}, cs.Paths())
}

func TestPathEntry_Name(t *testing.T) {
	assert.Equal(t, "Report.PDF", PathEntry{Path: "/team/report.pdf", DisplayPath: "/Team/Report.PDF"}.Name())
	assert.Equal(t, "report.pdf", PathEntry{Path: "/team/report.pdf"}.Name())
}

func TestChangeSet_Apply_DeletedKeepsDisplayPath(t *testing.T) {
	cs := NewChangeSet()

	cs.Apply(RawChange{Path: "/a.pdf", Meta: &PathEntry{DisplayPath: "/A.PDF", Size: 3, IsDeleted: true}})

	assert.Equal(t, PathEntry{Path: "/a.pdf", DisplayPath: "/A.PDF", IsDeleted: true}, cs.Entries["/a.pdf"])
}
