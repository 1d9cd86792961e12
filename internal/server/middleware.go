package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/courtside/rosterd/internal/authn"
	obscontext "github.com/courtside/rosterd/internal/observability/context"
)

const callerKey = "caller"

// requireAuth resolves the bearer token to a caller and attaches it to
// the request. Role checks happen inside the workflows.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, errMissingAuth)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			AbortWithError(c, authn.ErrInvalidToken)
			return
		}

		caller, err := s.auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(callerKey, *caller)
		ctx := obscontext.WithActor(c.Request.Context(), caller.ID.String(), caller.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func callerFrom(c *gin.Context) authn.Caller {
	value, ok := c.Get(callerKey)
	if !ok {
		return authn.Caller{}
	}
	caller, _ := value.(authn.Caller)
	return caller
}
