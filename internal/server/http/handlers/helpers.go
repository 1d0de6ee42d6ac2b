package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/solstream/rewards/internal/domain/errors"
	"github.com/solstream/rewards/internal/server/http/middleware"
)

// CurrentIdentity extracts authenticated principal identity from context.
func CurrentIdentity(c *gin.Context) string {
	val, ok := c.Get(middleware.IdentityContextKey)
	if !ok {
		return ""
	}
	identity, _ := val.(string)
	return identity
}

// statusForError maps domain failures to HTTP statuses. Authentication
// failures never reach here; middleware rejects them with 401 before the
// handler runs, so ErrUnauthorized always means a forbidden transition.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidArgument), errors.Is(err, domainErrors.ErrOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
