package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtside/rosterd/internal/authn"
	"github.com/courtside/rosterd/internal/saga"

	grantdomain "github.com/courtside/rosterd/internal/grant/domain"
	identitydomain "github.com/courtside/rosterd/internal/identity/domain"
	provdomain "github.com/courtside/rosterd/internal/provisioning/domain"
	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"
)

var (
	errMissingAuth = errors.New("Missing authorization header")
	errInvalidBody = errors.New("Invalid request body")
)

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// ErrorHandlingMiddleware funnels handler errors into the fixed
// response shape. Handlers report errors through AbortWithError and
// never write failure payloads themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{OK: false, Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	status, message := classify(err)

	// Surface incomplete rollback so the operator knows stores may
	// disagree until cleaned up.
	var sagaErr *saga.Error
	if errors.As(err, &sagaErr) && !sagaErr.Compensation.AllSucceeded {
		message += "; rollback incomplete, manual cleanup may be required"
	}
	return status, message
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, provdomain.ErrInvalidEmail),
		errors.Is(err, provdomain.ErrMissingFields),
		errors.Is(err, provdomain.ErrInvalidRole),
		errors.Is(err, provdomain.ErrPlayerIDRequired),
		errors.Is(err, provdomain.ErrPlayerTeamOnly),
		errors.Is(err, identitydomain.ErrInvalidCredential),
		errors.Is(err, rosterdomain.ErrTeamNotFound):
		return http.StatusBadRequest, causeMessage(err)

	case errors.Is(err, errMissingAuth),
		errors.Is(err, authn.ErrInvalidToken):
		return http.StatusUnauthorized, causeMessage(err)

	case errors.Is(err, provdomain.ErrForbidden):
		return http.StatusForbidden, causeMessage(err)

	case errors.Is(err, rosterdomain.ErrPlayerNotFound),
		errors.Is(err, identitydomain.ErrNotFound),
		errors.Is(err, grantdomain.ErrGrantNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, causeMessage(err)

	case errors.Is(err, rosterdomain.ErrAlreadyLinked),
		errors.Is(err, identitydomain.ErrDuplicateIdentity),
		errors.Is(err, grantdomain.ErrDuplicateGrant):
		return http.StatusConflict, causeMessage(err)

	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// causeMessage unwraps workflow errors down to the caller-facing
// sentinel string.
func causeMessage(err error) string {
	var sagaErr *saga.Error
	for errors.As(err, &sagaErr) {
		err = sagaErr.Cause
		sagaErr = nil
	}
	return err.Error()
}

func classifyErrorForLog(err error) (string, string) {
	status, _ := classify(err)
	switch {
	case status == http.StatusUnauthorized:
		return "unauthorized", "401"
	case status == http.StatusForbidden:
		return "forbidden", "403"
	case status == http.StatusNotFound:
		return "not_found", "404"
	case status == http.StatusConflict:
		return "conflict", "409"
	case status >= http.StatusInternalServerError:
		return "internal_error", "500"
	default:
		return "validation_error", "400"
	}
}
