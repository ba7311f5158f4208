package dropbox

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
)

var errNetwork = errors.New("network down")

// fakeFilesAPI serves list_folder results keyed by cursor ("" for the initial listing).
type fakeFilesAPI struct {
	mu          sync.Mutex
	results     map[string]*files.ListFolderResult
	listErr     error
	contents    map[string][]byte
	downloadErr error
	listArgs    []*files.ListFolderArg
	cursors     []string
	downloads   []string
}

func newFakeFilesAPI() *fakeFilesAPI {
	return &fakeFilesAPI{
		results:  make(map[string]*files.ListFolderResult),
		contents: make(map[string][]byte),
	}
}

func (f *fakeFilesAPI) ListFolder(arg *files.ListFolderArg) (*files.ListFolderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listArgs = append(f.listArgs, arg)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.result(""), nil
}

func (f *fakeFilesAPI) ListFolderContinue(arg *files.ListFolderContinueArg) (*files.ListFolderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursors = append(f.cursors, arg.Cursor)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.result(arg.Cursor), nil
}

func (f *fakeFilesAPI) result(cursor string) *files.ListFolderResult {
	if res, ok := f.results[cursor]; ok {
		return res
	}
	return &files.ListFolderResult{Cursor: cursor}
}

func (f *fakeFilesAPI) Download(arg *files.DownloadArg) (*files.FileMetadata, io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, arg.Path)
	if f.downloadErr != nil {
		return nil, nil, f.downloadErr
	}
	data, ok := f.contents[arg.Path]
	if !ok {
		return nil, nil, errors.New("path/not_found/")
	}
	return &files.FileMetadata{}, io.NopCloser(bytes.NewReader(data)), nil
}

// newTestFileMetadata creates a FileMetadata for testing with embedded Metadata fields.
func newTestFileMetadata(id, name, pathDisplay, pathLower string, size uint64, serverMod time.Time) *files.FileMetadata {
	fm := &files.FileMetadata{
		Id:             id,
		Size:           size,
		ServerModified: serverMod,
	}
	fm.Name = name
	fm.PathDisplay = pathDisplay
	fm.PathLower = pathLower
	return fm
}

func newTestFolderMetadata(id, pathDisplay, pathLower string) *files.FolderMetadata {
	fm := &files.FolderMetadata{Id: id}
	fm.PathDisplay = pathDisplay
	fm.PathLower = pathLower
	return fm
}

func newTestDeletedMetadata(pathDisplay, pathLower string) *files.DeletedMetadata {
	dm := &files.DeletedMetadata{}
	dm.PathDisplay = pathDisplay
	dm.PathLower = pathLower
	return dm
}

// fastConfig avoids token bucket delays in tests.
func fastConfig(root string) *Config {
	return &Config{Root: root, RateLimit: RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 100}}
}
