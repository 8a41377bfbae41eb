package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    uuid.UUID
	Role      enums.UserRole
	SessionID string
}

type principalKey struct{}

// WithPrincipal stores p on ctx. Auth does this; tests use it to skip Auth.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller stored by Auth, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// ActorID is the caller's user id, or a 401 when the request is anonymous.
func ActorID(ctx context.Context) (uuid.UUID, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok || p.UserID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return p.UserID, nil
}

// SessionIDFrom returns the jti of the token that authenticated the request.
func SessionIDFrom(ctx context.Context) string {
	p, _ := PrincipalFrom(ctx)
	return p.SessionID
}
