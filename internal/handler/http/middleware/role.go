package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/loopwork/insights-backend-go/internal/handler/http/response"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleHR     Role = "hr"
	RoleLeader Role = "leader"
	RoleViewer Role = "viewer"
)

// RequireRole allows the request through only when the token's role
// claim matches one of the given roles.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			for _, role := range roles {
				if Role(roleStr) == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "Insufficient permissions")
		})
	}
}

// HasRole reports whether the request's token carries one of the given
// roles. Handlers use it for per-field decisions that do not warrant
// rejecting the whole request.
func HasRole(r *http.Request, roles ...Role) bool {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return false
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return false
	}
	for _, role := range roles {
		if Role(roleStr) == role {
			return true
		}
	}
	return false
}
