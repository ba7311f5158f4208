package dropbox

import (
	"testing"
	"time"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRawChange_File(t *testing.T) {
	modTime := time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC)
	file := newTestFileMetadata(
		"id:abc123def456",
		"document.pdf",
		"/Documents/Work/document.pdf",
		"/documents/work/document.pdf",
		1024,
		modTime,
	)
	file.Rev = "rev123"
	file.ContentHash = "hash456"

	rc, ok := toRawChange(file)
	require.True(t, ok)
	assert.Equal(t, "/documents/work/document.pdf", rc.Path)
	require.NotNil(t, rc.Meta)
	assert.Equal(t, "/documents/work/document.pdf", rc.Meta.Path)
	assert.Equal(t, "/Documents/Work/document.pdf", rc.Meta.DisplayPath)
	assert.Equal(t, "id:abc123def456", rc.Meta.ID)
	assert.Equal(t, uint64(1024), rc.Meta.Size)
	assert.Equal(t, "rev123", rc.Meta.Rev)
	assert.Equal(t, "hash456", rc.Meta.ContentHash)
	assert.Equal(t, "application/pdf", rc.Meta.MIMEType)
	assert.Equal(t, "document.pdf", rc.Meta.Name())
}

func TestToRawChange_Folder(t *testing.T) {
	rc, ok := toRawChange(newTestFolderMetadata("id:dir", "/Documents", "/documents"))
	require.True(t, ok)
	assert.Equal(t, "/documents", rc.Path)
	assert.True(t, rc.Meta.IsDir)
	assert.False(t, rc.Meta.IsDeleted)
}

func TestToRawChange_Deleted(t *testing.T) {
	rc, ok := toRawChange(newTestDeletedMetadata("/Documents/Gone.txt", "/documents/gone.txt"))
	require.True(t, ok)
	assert.Equal(t, "/documents/gone.txt", rc.Path)
	assert.True(t, rc.Meta.IsDeleted)
	assert.Equal(t, "/Documents/Gone.txt", rc.Meta.DisplayPath)
	assert.Zero(t, rc.Meta.Size)
}

func TestToRawChange_Unknown(t *testing.T) {
	var entry files.IsMetadata
	_, ok := toRawChange(entry)
	assert.False(t, ok)
}

func TestShouldDownloadContent(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		expected bool
	}{
		// Text types (should download)
		{"text/plain", "text/plain", true},
		{"text/html", "text/html", true},
		{"text/css", "text/css", true},
		{"text/csv", "text/csv", true},
		{"text/markdown", "text/markdown", true},
		{"text/x-python", "text/x-python", true},

		// Application types that should download
		{"application/json", "application/json", true},
		{"application/xml", "application/xml", true},
		{"application/javascript", "application/javascript", true},
		{"application/x-yaml", "application/x-yaml", true},
		{"application/x-sh", "application/x-sh", true},
		{"application/sql", "application/sql", true},
		{"application/pdf", "application/pdf", true},

		// Binary types (should not download)
		{"image/png", "image/png", false},
		{"image/jpeg", "image/jpeg", false},
		{"application/zip", "application/zip", false},
		{"application/octet-stream", "application/octet-stream", false},
		{"application/vnd.ms-excel", "application/vnd.ms-excel", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shouldDownloadContent(tt.mimeType))
		})
	}
}

func TestGetMIMEType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"document.txt", "text/plain"},
		{"readme.md", "text/markdown"},
		{"page.html", "text/html"},
		{"page.htm", "text/html"},
		{"data.csv", "text/csv"},
		{"config.xml", "application/xml"},
		{"config.json", "application/json"},
		{"settings.yml", "application/x-yaml"},
		{"main.go", "text/x-go"},
		{"header.hpp", "text/x-c++"},
		{"query.sql", "application/sql"},
		{"document.pdf", "application/pdf"},
		{"spreadsheet.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"photo.jpeg", "image/jpeg"},
		{"archive.gz", "application/gzip"},
		{"file.unknown", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
		{"FILE.TXT", "text/plain"}, // Case insensitive
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, getMIMEType(tt.filename))
		})
	}
}
