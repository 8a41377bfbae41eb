package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/meetpatel1235/rrrr/pkg/logger"
)

var acceptableRequestID = regexp.MustCompile(`^[A-Za-z0-9._\-]{8,64}$`)

// RequestID reuses an inbound X-Request-Id when it looks sane, otherwise
// mints a UUID. The id is echoed on the response, stored where chi's
// GetReqID finds it and attached to the log context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(middleware.RequestIDHeader)
			if !acceptableRequestID.MatchString(id) {
				id = uuid.NewString()
			}
			w.Header().Set(middleware.RequestIDHeader, id)

			ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
