// Package pagination implements newest-first keyset paging over
// (created_at, id) for list endpoints.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

var ErrInvalidCursor = errors.New("pagination: invalid cursor")

// Params is what a list request asks for. Cursor is the opaque token from
// the previous page's NextCursor.
type Params struct {
	Limit  int
	Cursor string
}

// Size clamps Limit into [1, MaxLimit], using DefaultLimit when unset.
func (p Params) Size() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// Page is one slice of results. NextCursor is empty on the last page.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// Key is the position of a row in created_at DESC, id DESC order.
type Key struct {
	CreatedAt time.Time `json:"at"`
	ID        uuid.UUID `json:"id"`
}

func (k Key) Encode() string {
	k.CreatedAt = k.CreatedAt.UTC()
	raw, _ := json.Marshal(k)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeKey parses a cursor token. A blank token yields ok=false and no error.
func DecodeKey(token string) (key Key, ok bool, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Key{}, false, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Key{}, false, ErrInvalidCursor
	}
	if err := json.Unmarshal(raw, &key); err != nil || key.ID == uuid.Nil || key.CreatedAt.IsZero() {
		return Key{}, false, ErrInvalidCursor
	}
	return key, true, nil
}

// Validate reports ErrInvalidCursor for a token DecodeKey would reject.
func (p Params) Validate() error {
	_, _, err := DecodeKey(p.Cursor)
	return err
}

// Scope orders the query newest first, resumes after the cursor and fetches
// one extra row so Build can tell whether another page exists. Use it via
// db.Scopes(params.Scope).
func (p Params) Scope(db *gorm.DB) *gorm.DB {
	key, ok, err := DecodeKey(p.Cursor)
	if err != nil {
		_ = db.AddError(err)
		return db
	}
	if ok {
		db = db.Where("(created_at < ?) OR (created_at = ? AND id < ?)", key.CreatedAt, key.CreatedAt, key.ID)
	}
	return db.Order("created_at DESC").Order("id DESC").Limit(p.Size() + 1)
}

// Build turns rows fetched through Scope into a page of DTOs.
func Build[R, T any](rows []R, p Params, keyOf func(R) Key, convert func(R) T) Page[T] {
	more := len(rows) > p.Size()
	if more {
		rows = rows[:p.Size()]
	}
	page := Page[T]{Items: make([]T, 0, len(rows))}
	for _, row := range rows {
		page.Items = append(page.Items, convert(row))
	}
	if more && len(rows) > 0 {
		page.NextCursor = keyOf(rows[len(rows)-1]).Encode()
	}
	return page
}
