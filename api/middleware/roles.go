package middleware

import (
	"net/http"
	"slices"

	"github.com/meetpatel1235/rrrr/api/responses"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

// RequireRole admits only principals holding one of roles. It must run
// after Auth.
func RequireRole(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok || !slices.Contains(roles, p.Role) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "Access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
