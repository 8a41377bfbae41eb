package pagination

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsSize(t *testing.T) {
	assert.Equal(t, DefaultLimit, Params{}.Size())
	assert.Equal(t, DefaultLimit, Params{Limit: -3}.Size())
	assert.Equal(t, 10, Params{Limit: 10}.Size())
	assert.Equal(t, MaxLimit, Params{Limit: 1000}.Size())
}

func TestKeyEncodeDecode(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	in := Key{CreatedAt: time.Date(2026, 5, 1, 16, 0, 0, 123, ist), ID: uuid.New()}

	out, ok, err := DecodeKey(in.Encode())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, time.UTC, out.CreatedAt.Location())
	assert.Equal(t, in.ID, out.ID)
}

func TestDecodeKeyRejectsGarbage(t *testing.T) {
	_, ok, err := DecodeKey("  ")
	require.NoError(t, err)
	assert.False(t, ok)

	for _, token := range []string{
		"!!!",
		base64.RawURLEncoding.EncodeToString([]byte("nope")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"at":"2026-05-01T00:00:00Z"}`)),
	} {
		_, _, err := DecodeKey(token)
		assert.ErrorIs(t, err, ErrInvalidCursor, token)
		assert.ErrorIs(t, Params{Cursor: token}.Validate(), ErrInvalidCursor)
	}
}

type row struct {
	at time.Time
	id uuid.UUID
	n  int
}

func TestBuildTrimsAndLinksNextPage(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []row{
		{base.Add(3 * time.Minute), uuid.New(), 3},
		{base.Add(2 * time.Minute), uuid.New(), 2},
		{base.Add(time.Minute), uuid.New(), 1},
	}
	keyOf := func(r row) Key { return Key{CreatedAt: r.at, ID: r.id} }
	label := func(r row) string { return strconv.Itoa(r.n) }

	page := Build(rows, Params{Limit: 2}, keyOf, label)
	assert.Equal(t, []string{"3", "2"}, page.Items)
	next, ok, err := DecodeKey(page.NextCursor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rows[1].id, next.ID)

	last := Build(rows[2:], Params{Limit: 2}, keyOf, label)
	assert.Equal(t, []string{"1"}, last.Items)
	assert.Empty(t, last.NextCursor)

	empty := Build(nil, Params{}, keyOf, label)
	assert.NotNil(t, empty.Items)
}
