package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"literal match", "report.doc", "report.doc", true},
		{"literal mismatch", "report.doc", "report.docx", false},
		{"star suffix", "*.doc", "report.doc", true},
		{"star matches empty", "report*", "report", true},
		{"star crosses separators", "/team/*.md", "/team/notes/a.md", true},
		{"question mark single char", "a.d?c", "a.doc", true},
		{"question mark needs one char", "a.d?c", "a.dc", false},
		{"question mark multibyte", "caf?", "café", true},
		{"anchored start", "*.doc", "report.doc.bak", false},
		{"anchored end", "report", "my-report", false},
		{"backtracking", "a*b*c", "axxbyyc", true},
		{"backtracking fails", "a*b*c", "axxbyy", false},
		{"case sensitive", "*.DOC", "report.doc", false},
		{"bracket is literal", "[ab].txt", "a.txt", false},
		{"bracket literal match", "[ab].txt", "[ab].txt", true},
		{"backslash is literal", `a\*`, `a\xyz`, true},
		{"empty pattern empty path", "", "", true},
		{"empty pattern", "", "a", false},
		{"only star", "*", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchGlob(tt.pattern, tt.path))
		})
	}
}

func TestIsSyncWorthy(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		includes []string
		excludes []string
		want     bool
	}{
		{"no patterns", "report.doc", nil, nil, true},
		{"excluded", "report.doc", nil, []string{"*.doc"}, false},
		{"not excluded", "report.xls", nil, []string{"*.doc"}, true},
		{"exclude dominates include", "a.doc.xls", []string{"*.xls"}, []string{"a.d?c*.xls"}, false},
		{"question mark mismatch keeps include", "my.douc.xls", nil, []string{"my.d?c*.xls"}, true},
		{"question mark exclude", "my.doc.xls", nil, []string{"my.d?c*.xls"}, false},
		{"included", "notes.md", []string{"*.md", "*.txt"}, nil, true},
		{"not included", "image.png", []string{"*.md", "*.txt"}, nil, false},
		{"included and excluded", "draft.md", []string{"*.md"}, []string{"draft*"}, false},
		{"exclude only matches full path", "/a/report.doc", nil, []string{"report.doc"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSyncWorthy(tt.path, tt.includes, tt.excludes))
		})
	}
}

func TestFilterSpec_Allows(t *testing.T) {
	f := FilterSpec{Includes: []string{"*.xls"}, Excludes: []string{"a.d?c*.xls"}}

	assert.False(t, f.Allows("a.doc.xls"))
	assert.True(t, f.Allows("b.xls"))
	assert.False(t, f.Allows("b.doc"))
}

func TestFilterSpec_IsEmpty(t *testing.T) {
	assert.True(t, FilterSpec{}.IsEmpty())
	assert.False(t, FilterSpec{Excludes: []string{"*.tmp"}}.IsEmpty())
}
