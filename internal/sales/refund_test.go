package sales

import (
	"testing"
	"time"

	"pos-backend/internal/models"
	"pos-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundRestoresStockAndCreditDebt(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 10)
	customer := testutil.SeedCustomer(t, db, store.ID, "Ayşe", 0, testutil.Ptr(1000.0))

	in := cashOrder(store.ID, product.ID, 3, 60)
	in.Payments = []PaymentInput{{Method: models.PaymentCredit, Amount: 60}}
	in.CustomerID = &customer.ID

	order, err := SettleOrder(db, in)
	require.NoError(t, err)

	refunded, err := RefundOrder(db, order.ID, store.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderRefunded, refunded.Status)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 10.0, fresh.Stock)

	var freshCustomer models.Customer
	require.NoError(t, db.First(&freshCustomer, "id = ?", customer.ID).Error)
	assert.Equal(t, 0.0, freshCustomer.TotalDebt)

	// İade ayrı RETURN hareketi yazar; SALE hareketi yerinde durur (append-only).
	var kinds []models.StockMovement
	require.NoError(t, db.Where("product_id = ?", product.ID).Order("id asc").Find(&kinds).Error)
	require.Len(t, kinds, 2)
	assert.Equal(t, models.MovementSale, kinds[0].Kind)
	assert.Equal(t, -3.0, kinds[0].Quantity)
	assert.Equal(t, models.MovementReturn, kinds[1].Kind)
	assert.Equal(t, 3.0, kinds[1].Quantity)
}

func TestRefundTwiceRejected(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 10)

	order, err := SettleOrder(db, cashOrder(store.ID, product.ID, 2, 40))
	require.NoError(t, err)

	_, err = RefundOrder(db, order.ID, store.ID, nil)
	require.NoError(t, err)

	_, err = RefundOrder(db, order.ID, store.ID, nil)
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)

	// İkinci deneme stok üzerinde iz bırakmamalı.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 10.0, fresh.Stock)
}

func TestRefundHeldOrderRejected(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 10)

	held, err := HoldOrder(db, HoldOrderInput{
		StoreID: store.ID,
		Items:   []OrderItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: 20}},
		Total:   20,
	})
	require.NoError(t, err)

	_, err = RefundOrder(db, held.ID, store.ID, nil)
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

func TestRefundDoesNotRefillBatches(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Yoğurt", 15, 5)

	batch := models.StockBatch{ProductID: product.ID, InitialQuantity: 5, Remaining: 5, UnitCost: 8, ReceivedAt: time.Now()}
	require.NoError(t, db.Create(&batch).Error)

	order, err := SettleOrder(db, cashOrder(store.ID, product.ID, 3, 45))
	require.NoError(t, err)

	_, err = RefundOrder(db, order.ID, store.ID, nil)
	require.NoError(t, err)

	// Sayaç geri döner ama parti dolmaz; iade edilen mal eski partiye karışmaz.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 5.0, fresh.Stock)

	var freshBatch models.StockBatch
	require.NoError(t, db.First(&freshBatch, "id = ?", batch.ID).Error)
	assert.Equal(t, 2.0, freshBatch.Remaining)
}

func TestRefundDoesNotRestoreGiftCard(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Sepet", 50, 10)
	card := testutil.SeedGiftCard(t, db, store.ID, "GC-2001", 50)

	in := cashOrder(store.ID, product.ID, 1, 50)
	in.Payments = []PaymentInput{{Method: models.PaymentGiftCard, Amount: 50, Reference: card.Code}}

	order, err := SettleOrder(db, in)
	require.NoError(t, err)

	_, err = RefundOrder(db, order.ID, store.ID, nil)
	require.NoError(t, err)

	// Hediye kartı tahsilatı iade kapsamı dışında: kart kullanılmış kalır.
	var freshCard models.GiftCard
	require.NoError(t, db.First(&freshCard, "id = ?", card.ID).Error)
	assert.Equal(t, 0.0, freshCard.CurrentBalance)
	assert.Equal(t, models.GiftCardUsed, freshCard.Status)
}
