package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/pagination"
)

// PathUUID reads the chi URL parameter param as a UUID.
func PathUUID(r *http.Request, param string) (uuid.UUID, error) {
	return ParseUUID(chi.URLParam(r, param), param)
}

// ParseUUID validates a path or query value as a UUID.
func ParseUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.Validation(field, "must be a valid UUID")
	}
	return id, nil
}

// PageParams reads ?limit= and ?cursor=. limit must lie in 1..MaxLimit.
func PageParams(r *http.Request) (pagination.Params, error) {
	q := r.URL.Query()
	params := pagination.Params{Limit: pagination.DefaultLimit, Cursor: strings.TrimSpace(q.Get("cursor"))}

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > pagination.MaxLimit {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a number between 1 and "+strconv.Itoa(pagination.MaxLimit)).
				WithDetails(map[string]any{"field": "limit", "min": 1, "max": pagination.MaxLimit})
		}
		params.Limit = limit
	}
	if err := params.Validate(); err != nil {
		return params, pkgerrors.Validation("cursor", "cursor is not from a previous page")
	}
	return params, nil
}

// QueryEnum parses an optional filter such as ?status=. A blank value yields
// nil; an unknown one is a validation error carrying hint.
func QueryEnum[T any](r *http.Request, key string, parse func(string) (T, error), hint string) (*T, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	if raw == "" {
		return nil, nil
	}
	value, err := parse(raw)
	if err != nil {
		return nil, pkgerrors.Validation(key, hint)
	}
	return &value, nil
}
