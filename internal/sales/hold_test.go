package sales

import (
	"testing"

	"pos-backend/internal/models"
	"pos-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldOrderHasNoSideEffects(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 10)

	held, err := HoldOrder(db, HoldOrderInput{
		StoreID: store.ID,
		Items:   []OrderItemInput{{ProductID: product.ID, Quantity: 4, UnitPrice: 20}},
		Total:   80,
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderHeld, held.Status)
	assert.Nil(t, held.ReceiptNumber)
	assert.NotNil(t, held.ParkedAt)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 10.0, fresh.Stock)

	var movements int64
	db.Model(&models.StockMovement{}).Count(&movements)
	assert.Zero(t, movements)
}

func TestHeldOrderDoesNotConsumeReceiptNumber(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 10)

	_, err := HoldOrder(db, HoldOrderInput{
		StoreID: store.ID,
		Items:   []OrderItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: 20}},
		Total:   20,
	})
	require.NoError(t, err)

	order, err := SettleOrder(db, cashOrder(store.ID, product.ID, 1, 20))
	require.NoError(t, err)
	assert.Equal(t, uint(1), *order.ReceiptNumber)
}

func TestRestoreHeldOrderReturnsItemsAndDeletes(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 10)

	held, err := HoldOrder(db, HoldOrderInput{
		StoreID: store.ID,
		Items:   []OrderItemInput{{ProductID: product.ID, Quantity: 2, UnitPrice: 20}},
		Total:   40,
	})
	require.NoError(t, err)

	items, _, err := RestoreHeldOrder(db, held.ID, store.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
	assert.Equal(t, 2.0, items[0].Quantity)

	var count int64
	db.Model(&models.Order{}).Where("id = ?", held.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.OrderItem{}).Where("order_id = ?", held.ID).Count(&count)
	assert.Zero(t, count)
}

func TestRestoreCompletedOrderRejected(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 10)

	order, err := SettleOrder(db, cashOrder(store.ID, product.ID, 1, 20))
	require.NoError(t, err)

	_, _, err = RestoreHeldOrder(db, order.ID, store.ID)
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

func TestCancelHeldOrderDeletes(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 10)

	held, err := HoldOrder(db, HoldOrderInput{
		StoreID: store.ID,
		Items:   []OrderItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: 20}},
		Total:   20,
	})
	require.NoError(t, err)

	require.NoError(t, CancelHeldOrder(db, held.ID, store.ID))

	var count int64
	db.Model(&models.Order{}).Where("id = ?", held.ID).Count(&count)
	assert.Zero(t, count)
}
