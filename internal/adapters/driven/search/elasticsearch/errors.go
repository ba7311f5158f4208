package elasticsearch

import (
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

// handleAPIError turns a transport error or a non-2xx reply into an error.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("elasticsearch %s: %w", operation, requestErr)
	}

	if resp.IsErrorState() {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("elasticsearch %s: %w: status %d", operation, domain.ErrAuthRequired, resp.StatusCode)
		case http.StatusTooManyRequests:
			return fmt.Errorf("elasticsearch %s: %w", operation, domain.ErrRateLimited)
		default:
			return fmt.Errorf("elasticsearch %s: status %d: %s", operation, resp.StatusCode, resp.String())
		}
	}

	return nil
}
