package dropbox

import (
	"errors"
	"fmt"
	"time"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/auth"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

// IsCursorReset reports whether Dropbox rejected a list_folder cursor.
func IsCursorReset(err error) bool {
	var apiErr files.ListFolderContinueAPIError
	if errors.As(err, &apiErr) {
		return apiErr.EndpointError != nil && apiErr.EndpointError.Tag == files.ListFolderContinueErrorReset
	}
	var apiErrPtr *files.ListFolderContinueAPIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.EndpointError != nil && apiErrPtr.EndpointError.Tag == files.ListFolderContinueErrorReset
	}
	return false
}

// IsUnauthorized reports whether the access token was rejected.
func IsUnauthorized(err error) bool {
	var authErr auth.AuthAPIError
	return errors.As(err, &authErr)
}

// IsExpiredToken reports whether the access token has expired.
func IsExpiredToken(err error) bool {
	var authErr auth.AuthAPIError
	if errors.As(err, &authErr) {
		return authErr.AuthError != nil && authErr.AuthError.Tag == auth.AuthErrorExpiredAccessToken
	}
	return false
}

// RetryAfter returns the backoff requested by a rate limit error.
func RetryAfter(err error) (time.Duration, bool) {
	var rlErr auth.RateLimitAPIError
	if !errors.As(err, &rlErr) {
		return 0, false
	}
	if rlErr.RateLimitError == nil {
		return 0, true
	}
	return time.Duration(rlErr.RateLimitError.RetryAfter) * time.Second, true
}

// WrapError maps a Dropbox SDK error onto the domain sentinels.
// The original error stays in the chain.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case IsCursorReset(err):
		return fmt.Errorf("%w: %w", domain.ErrMarkerExpired, err)
	case IsExpiredToken(err):
		return fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
	case IsUnauthorized(err):
		return fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}
	if _, ok := RetryAfter(err); ok {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return err
}
