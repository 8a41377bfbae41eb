package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetpatel1235/rrrr/pkg/db/dbtest"
	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestCreateAndGetItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateItemRequest{
		Name:          "  Steel Tapeli ",
		NameLocalized: "સ્ટીલ તપેલી",
		Category:      "vessels",
		TotalQuantity: intPtr(25),
		Price:         decimal.RequireFromString("40.555"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Steel Tapeli", created.Name)
	assert.Equal(t, "piece", created.Unit)
	assert.Equal(t, "40.56", created.Price.StringFixed(2))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, got.TotalQuantity)
	assert.Equal(t, "સ્ટીલ તપેલી", got.NameLocalized)
}

func TestCreateItemValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := map[string]CreateItemRequest{
		"blank name":       {Name: " ", Category: "c", TotalQuantity: intPtr(1)},
		"blank category":   {Name: "n", Category: "", TotalQuantity: intPtr(1)},
		"missing quantity": {Name: "n", Category: "c"},
		"negative qty":     {Name: "n", Category: "c", TotalQuantity: intPtr(-1)},
		"negative price":   {Name: "n", Category: "c", TotalQuantity: intPtr(1), Price: decimal.NewFromInt(-5)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, req)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestListFiltersByCategoryAndSearch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, req := range []CreateItemRequest{
		{Name: "Tapeli", Category: "vessels", TotalQuantity: intPtr(1)},
		{Name: "Kadai", Category: "vessels", TotalQuantity: intPtr(1)},
		{Name: "Chair", Category: "furniture", TotalQuantity: intPtr(1)},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	vessels, err := svc.List(ctx, ListFilters{Category: "vessels"})
	require.NoError(t, err)
	require.Len(t, vessels, 2)
	assert.Equal(t, "Kadai", vessels[0].Name)

	found, err := svc.List(ctx, ListFilters{Search: "tap"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Tapeli", found[0].Name)
}

func TestUpdateItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateItemRequest{Name: "Tavo", Category: "vessels", TotalQuantity: intPtr(3)})
	require.NoError(t, err)

	price := decimal.NewFromInt(15)
	updated, err := svc.Update(ctx, created.ID, UpdateItemRequest{
		Name:          strPtr("Loh Tavo"),
		TotalQuantity: intPtr(8),
		Price:         &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "Loh Tavo", updated.Name)
	assert.Equal(t, 8, updated.TotalQuantity)
	assert.True(t, updated.Price.Equal(price))

	_, err = svc.Update(ctx, created.ID, UpdateItemRequest{TotalQuantity: intPtr(-1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Update(ctx, uuid.New(), UpdateItemRequest{Name: strPtr("x")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteItemBlockedByOpenOrder(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	item := seedItem(t, conn, "Tapeli", 5)
	order := models.Order{
		OrderNumber:  "ORD0001",
		CustomerName: "Ravi",
		Phone:        "9999999999",
		Address:      "Ahmedabad",
		EventDate:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		ReturnDate:   time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		TotalAmount:  decimal.NewFromInt(100),
		Status:       enums.OrderStatusPending,
		CreatedBy:    uuid.New(),
	}
	require.NoError(t, conn.Create(&order).Error)
	require.NoError(t, conn.Create(&models.OrderItem{
		OrderID:         order.ID,
		InventoryItemID: &item.ID,
		ItemName:        item.Name,
		Rate:            decimal.NewFromInt(50),
		Quantity:        2,
		LineTotal:       decimal.NewFromInt(100),
	}).Error)

	err = svc.Delete(ctx, item.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	require.NoError(t, conn.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", enums.OrderStatusCompleted).Error)
	require.NoError(t, svc.Delete(ctx, item.ID))

	_, err = svc.Get(ctx, item.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestTotals(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	seedItem(t, conn, "A", 4)
	seedItem(t, conn, "B", 6)

	items, units, err := repo.Totals(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, items)
	assert.EqualValues(t, 10, units)
}
