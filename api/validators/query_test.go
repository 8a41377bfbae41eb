package validators

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/pagination"
)

func TestParseUUID(t *testing.T) {
	_, err := ParseUUID("x", "id")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	id, err := ParseUUID(" 8b0d3c8e-5b7a-4d5c-9c1c-1b2a3c4d5e6f ", "id")
	require.NoError(t, err)
	assert.Equal(t, "8b0d3c8e-5b7a-4d5c-9c1c-1b2a3c4d5e6f", id.String())
}

func TestPathUUIDReadsChiParam(t *testing.T) {
	want := uuid.New()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", want.String())
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+want.String(), nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	got, err := PathUUID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPageParams(t *testing.T) {
	params, err := PageParams(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, pagination.DefaultLimit, params.Limit)

	cursor := pagination.Key{CreatedAt: time.Now(), ID: uuid.New()}.Encode()
	params, err = PageParams(httptest.NewRequest(http.MethodGet, "/?limit=5&cursor="+cursor, nil))
	require.NoError(t, err)
	assert.Equal(t, 5, params.Limit)
	assert.Equal(t, cursor, params.Cursor)

	for _, query := range []string{"?limit=0", "?limit=abc", "?limit=101", "?cursor=%25%25"} {
		_, err := PageParams(httptest.NewRequest(http.MethodGet, "/"+query, nil))
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), query)
	}
}

func TestQueryEnum(t *testing.T) {
	parse := func(s string) (string, error) {
		if s == "paid" {
			return s, nil
		}
		return "", errors.New("unknown")
	}

	got, err := QueryEnum(httptest.NewRequest(http.MethodGet, "/", nil), "status", parse, "bad")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = QueryEnum(httptest.NewRequest(http.MethodGet, "/?status=PAID", nil), "status", parse, "bad")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "paid", *got)

	_, err = QueryEnum(httptest.NewRequest(http.MethodGet, "/?status=lost", nil), "status", parse, "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
