package client

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/tillpoint/internal/api"
	"github.com/dmitrijs2005/tillpoint/internal/common"
)

// mapAPIError converts an HTTP status and error body into the shared error
// taxonomy. Server-side 5xx responses are treated as transient, the same as
// an unreachable backend, so the outbox will retry them.
func mapAPIError(status int, body *api.ErrorResponse) error {
	if status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: server error (%d)", common.ErrUnavailable, status)
	}

	msg := http.StatusText(status)
	code := ""
	if body != nil {
		if body.Error != "" {
			msg = body.Error
		}
		code = body.Code
	}

	switch code {
	case api.CodeValidation:
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case api.CodeConflict:
		return fmt.Errorf("%w: %s", common.ErrConflict, msg)
	case api.CodeAuthorization:
		return fmt.Errorf("%w: %s", common.ErrAuthorization, msg)
	case api.CodeNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, msg)
	case api.CodeRejected:
		return fmt.Errorf("%w: %s", common.ErrRejected, msg)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrAuthorization, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrConflict, msg)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", common.ErrRejected, msg)
	}
	return fmt.Errorf("%w: %s", common.ErrValidation, msg)
}
