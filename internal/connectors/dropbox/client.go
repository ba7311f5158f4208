package dropbox

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

// Dropbox OAuth endpoints.
const (
	AuthURL  = "https://www.dropbox.com/oauth2/authorize"
	TokenURL = "https://api.dropboxapi.com/oauth2/token"
)

const requestTimeout = 2 * time.Minute

// filesAPI is the subset of the SDK files client the connector calls.
type filesAPI interface {
	ListFolder(arg *files.ListFolderArg) (*files.ListFolderResult, error)
	ListFolderContinue(arg *files.ListFolderContinueArg) (*files.ListFolderResult, error)
	Download(arg *files.DownloadArg) (*files.FileMetadata, io.ReadCloser, error)
}

// NewTokenSource returns a token source for the feed credentials.
// With a refresh token the source mints new access tokens as they expire.
func NewTokenSource(ctx context.Context, creds domain.FeedCredentials) oauth2.TokenSource {
	tok := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
	}
	if !creds.HasRefresh() {
		return oauth2.StaticTokenSource(tok)
	}

	conf := &oauth2.Config{
		ClientID:     creds.AppKey,
		ClientSecret: creds.AppSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
	}
	// A zero expiry with a refresh token forces a refresh on first use.
	return conf.TokenSource(ctx, tok)
}

// newFilesClient builds the SDK client.
// The http client carries the bearer token, so Config.Token stays empty.
func newFilesClient(ctx context.Context, creds domain.FeedCredentials) filesAPI {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: requestTimeout})
	httpClient := oauth2.NewClient(ctx, NewTokenSource(ctx, creds))
	httpClient.Timeout = requestTimeout

	return files.New(dropbox.Config{
		LogLevel: dropbox.LogOff,
		Client:   httpClient,
	})
}
