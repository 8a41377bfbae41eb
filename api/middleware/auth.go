package middleware

import (
	"net/http"
	"strings"

	"github.com/meetpatel1235/rrrr/api/responses"
	pkgAuth "github.com/meetpatel1235/rrrr/pkg/auth"
	"github.com/meetpatel1235/rrrr/pkg/auth/session"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (*pkgAuth.Claims, error)
}

// Auth admits requests carrying a valid bearer token whose session is still
// open. A missing token is 401; one that is present but unusable is 403.
func Auth(tokens TokenVerifier, sessions session.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return responses.Handle(logg, func(w http.ResponseWriter, r *http.Request) error {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				return pkgerrors.New(pkgerrors.CodeUnauthorized, "No token, authorization denied")
			}
			claims, err := tokens.Verify(raw)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "Token is not valid")
			}
			if sessions != nil {
				open, err := sessions.Active(r.Context(), claims.SessionID())
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
				}
				if !open {
					return pkgerrors.New(pkgerrors.CodeForbidden, "Session has ended")
				}
			}

			ctx := WithPrincipal(r.Context(), Principal{
				UserID:    claims.UserID,
				Role:      claims.Role,
				SessionID: claims.SessionID(),
			})
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
				ctx = logg.WithActorRole(ctx, string(claims.Role))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
			return nil
		})
	}
}

// bearerToken extracts the credential of an "Authorization: Bearer x"
// header. A bare token without the scheme is accepted too.
func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme, rest, found := strings.Cut(header, " ")
	switch {
	case found && strings.EqualFold(scheme, "bearer"):
		header = strings.TrimSpace(rest)
	case strings.EqualFold(header, "bearer"):
		header = ""
	}
	return header, header != ""
}
