package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tillpoint/internal/api"
	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/gin-gonic/gin"
)

// writeError maps the shared error taxonomy onto HTTP statuses and the
// uniform error body. The operator-facing message is the error text itself;
// services phrase their errors accordingly.
func writeError(c *gin.Context, err error) {
	var (
		status = http.StatusInternalServerError
		code   = api.CodeInternal
	)

	switch {
	case errors.Is(err, common.ErrValidation):
		status, code = http.StatusBadRequest, api.CodeValidation
	case errors.Is(err, common.ErrAuthorization):
		status, code = http.StatusForbidden, api.CodeAuthorization
	case errors.Is(err, common.ErrNotFound):
		status, code = http.StatusNotFound, api.CodeNotFound
	case errors.Is(err, common.ErrConflict):
		status, code = http.StatusConflict, api.CodeConflict
	case errors.Is(err, common.ErrRejected):
		status, code = http.StatusUnprocessableEntity, api.CodeRejected
	case errors.Is(err, common.ErrInvariantViolation):
		status, code = http.StatusInternalServerError, api.CodeInvariant
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
		status, code = http.StatusUnauthorized, api.CodeAuthorization
	}

	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: err.Error(), Code: code})
}
