// Package identifiers allocates the human-readable sequential numbers shown
// on orders (ORD0001) and invoices (INV0001).
package identifiers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/pkg/db"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
)

const maxAttempts = 5

// Kind describes one numbered series.
type Kind struct {
	Prefix     string
	Table      string
	Column     string
	Constraint string
}

var (
	Orders   = Kind{Prefix: "ORD", Table: "orders", Column: "order_number", Constraint: "orders_order_number_key"}
	Invoices = Kind{Prefix: "INV", Table: "invoices", Column: "invoice_number", Constraint: "invoices_invoice_number_key"}
)

// Format renders n zero padded to four digits. Larger numbers keep growing.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}

// Parse extracts the numeric suffix of an identifier in the given series.
func Parse(prefix, value string) (int64, bool) {
	if !strings.HasPrefix(value, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(value[len(prefix):], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Next derives a candidate from the current row count.
func Next(ctx context.Context, tx *gorm.DB, kind Kind) (string, error) {
	var count int64
	if err := tx.WithContext(ctx).Table(kind.Table).Count(&count).Error; err != nil {
		return "", err
	}
	return Format(kind.Prefix, count+1), nil
}

// NextAfterMax derives a candidate from the highest number in use. Used when
// the count based guess collided, e.g. after deletions or a concurrent insert.
func NextAfterMax(ctx context.Context, tx *gorm.DB, kind Kind) (string, error) {
	var current string
	err := tx.WithContext(ctx).
		Table(kind.Table).
		Select(kind.Column).
		Order(fmt.Sprintf("LENGTH(%s) DESC", kind.Column)).
		Order(kind.Column + " DESC").
		Limit(1).
		Row().
		Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	n, _ := Parse(kind.Prefix, current)
	return Format(kind.Prefix, n+1), nil
}

// Allocate picks a number and hands it to insert. On a unique violation of
// the series column the insert is rolled back to a savepoint and retried with
// a fresh number, up to maxAttempts times.
func Allocate(ctx context.Context, tx *gorm.DB, kind Kind, insert func(number string) error) (string, error) {
	number, err := Next(ctx, tx, kind)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate "+kind.Column)
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		savepoint := fmt.Sprintf("sp_%s_%d", kind.Column, attempt)
		if err := tx.SavePoint(savepoint).Error; err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create savepoint")
		}

		err := insert(number)
		if err == nil {
			return number, nil
		}
		if !db.IsUniqueViolation(err, kind.Constraint, kind.Column) {
			return "", err
		}
		if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, rbErr, "rollback savepoint")
		}

		number, err = NextAfterMax(ctx, tx, kind)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate "+kind.Column)
		}
	}

	return "", pkgerrors.Newf(pkgerrors.CodeConflict, "could not allocate a unique %s", kind.Column)
}
