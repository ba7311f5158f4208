package dropbox

import (
	"path"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

// toRawChange normalises one list_folder entry.
// Unknown metadata kinds are dropped.
func toRawChange(entry files.IsMetadata) (domain.RawChange, bool) {
	switch m := entry.(type) {
	case *files.FileMetadata:
		return domain.RawChange{Path: m.PathLower, Meta: fileEntry(m)}, true
	case *files.FolderMetadata:
		return domain.RawChange{Path: m.PathLower, Meta: &domain.PathEntry{
			Path:        m.PathLower,
			DisplayPath: m.PathDisplay,
			ID:          m.Id,
			IsDir:       true,
		}}, true
	case *files.DeletedMetadata:
		return domain.RawChange{Path: m.PathLower, Meta: &domain.PathEntry{
			Path:        m.PathLower,
			DisplayPath: m.PathDisplay,
			IsDeleted:   true,
		}}, true
	default:
		return domain.RawChange{}, false
	}
}

func fileEntry(m *files.FileMetadata) *domain.PathEntry {
	return &domain.PathEntry{
		Path:        m.PathLower,
		DisplayPath: m.PathDisplay,
		ID:          m.Id,
		Size:        m.Size,
		ContentHash: m.ContentHash,
		Rev:         m.Rev,
		Modified:    m.ServerModified,
		MIMEType:    getMIMEType(m.Name),
	}
}

// shouldDownloadContent determines if content should be downloaded based on MIME type.
func shouldDownloadContent(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}

	switch mimeType {
	case "application/json",
		"application/xml",
		"application/javascript",
		"application/typescript",
		"application/x-yaml",
		"application/x-sh",
		"application/sql",
		"application/pdf":
		return true
	}
	return false
}

var mimeTypes = map[string]string{
	// Text
	".txt":  "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".csv":  "text/csv",
	".xml":  "application/xml",

	// Code
	".js":   "application/javascript",
	".ts":   "application/typescript",
	".json": "application/json",
	".yaml": "application/x-yaml",
	".yml":  "application/x-yaml",
	".py":   "text/x-python",
	".go":   "text/x-go",
	".java": "text/x-java",
	".c":    "text/x-c",
	".h":    "text/x-c",
	".cpp":  "text/x-c++",
	".hpp":  "text/x-c++",
	".rs":   "text/x-rust",
	".rb":   "text/x-ruby",
	".php":  "text/x-php",
	".sql":  "application/sql",
	".sh":   "application/x-sh",

	// Documents
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",

	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",

	// Archives
	".zip": "application/zip",
	".tar": "application/x-tar",
	".gz":  "application/gzip",
}

// getMIMEType returns the MIME type for a filename by extension.
func getMIMEType(filename string) string {
	if mt, ok := mimeTypes[strings.ToLower(path.Ext(filename))]; ok {
		return mt
	}
	return "application/octet-stream"
}
