package responses

import (
	"net/http"

	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

// Handler is an endpoint that returns its failure instead of writing it.
type Handler func(w http.ResponseWriter, r *http.Request) error

// Handle adapts h to net/http, rendering a returned error as the error
// envelope. Nothing must have been written when h fails.
func Handle(logg *logger.Logger, h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			WriteError(r.Context(), logg, w, err)
		}
	}
}

// Unavailable answers 500 for an endpoint whose backing service was not wired.
func Unavailable(service string) Handler {
	return func(http.ResponseWriter, *http.Request) error {
		return pkgerrors.New(pkgerrors.CodeInternal, service+" service unavailable")
	}
}
