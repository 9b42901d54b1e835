package shift

import (
	"testing"

	"pos-backend/internal/models"
	"pos-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCompletedOrder(t *testing.T, db *gorm.DB, storeID, shiftID uint, total float64, method models.PaymentMethod) *models.Order {
	t.Helper()

	receipt := uint(0)
	db.Model(&models.Order{}).
		Where("store_id = ? AND receipt_number IS NOT NULL", storeID).
		Select("COALESCE(MAX(receipt_number), 0)").
		Scan(&receipt)
	receipt++

	order := models.Order{
		StoreID:       storeID,
		ReceiptNumber: &receipt,
		Status:        models.OrderCompleted,
		Total:         total,
		PaymentMethod: method,
		AmountPaid:    total,
		ShiftID:       &shiftID,
		Payments:      []models.Payment{{Method: method, Amount: total}},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("sipariş oluşturulamadı: %v", err)
	}
	return &order
}

func TestOpenShiftRejectsSecondOpenShiftForStore(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")

	_, err := OpenShift(db, store.ID, 1, 1000)
	require.NoError(t, err)

	_, err = OpenShift(db, store.ID, 2, 500)
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

func TestOpenShiftAllowedOnDifferentStores(t *testing.T) {
	db := testutil.NewDB(t)
	storeA := testutil.SeedStore(t, db, "Merkez")
	storeB := testutil.SeedStore(t, db, "Şube")

	_, err := OpenShift(db, storeA.ID, 1, 1000)
	require.NoError(t, err)
	_, err = OpenShift(db, storeB.ID, 2, 1000)
	require.NoError(t, err)
}

func TestOpenShiftAllowedAfterPreviousClosed(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")

	first, err := OpenShift(db, store.ID, 1, 1000)
	require.NoError(t, err)

	_, err = CloseShift(db, first.ID, store.ID, 1000, "")
	require.NoError(t, err)

	_, err = OpenShift(db, store.ID, 1, 800)
	require.NoError(t, err)
}

func TestOpenShiftRejectsNegativeStartCash(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")

	_, err := OpenShift(db, store.ID, 1, -1)
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestCloseShiftComputesExpectedCashAndVariance(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")

	shift, err := OpenShift(db, store.ID, 1, 5000)
	require.NoError(t, err)

	seedCompletedOrder(t, db, store.ID, shift.ID, 1200, models.PaymentCash)
	seedCompletedOrder(t, db, store.ID, shift.ID, 900, models.PaymentCard) // nakit dışı tahsilat beklenen kasaya girmez

	closed, err := CloseShift(db, shift.ID, store.ID, 6150, "Akşam sayımı")
	require.NoError(t, err)

	require.NotNil(t, closed.ExpectedCash)
	require.NotNil(t, closed.Variance)
	assert.Equal(t, 6200.0, *closed.ExpectedCash)
	assert.Equal(t, -50.0, *closed.Variance)
	assert.Equal(t, models.ShiftClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)
}

func TestCloseShiftCountsOnlyCashTenderOfSplitOrders(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")

	shift, err := OpenShift(db, store.ID, 1, 1000)
	require.NoError(t, err)

	receipt := uint(1)
	order := models.Order{
		StoreID:       store.ID,
		ReceiptNumber: &receipt,
		Status:        models.OrderCompleted,
		Total:         100,
		PaymentMethod: models.PaymentSplit,
		AmountPaid:    100,
		ShiftID:       &shift.ID,
		Payments: []models.Payment{
			{Method: models.PaymentCash, Amount: 40},
			{Method: models.PaymentCard, Amount: 60},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	closed, err := CloseShift(db, shift.ID, store.ID, 1040, "")
	require.NoError(t, err)
	assert.Equal(t, 1040.0, *closed.ExpectedCash)
	assert.Equal(t, 0.0, *closed.Variance)
}

func TestCloseShiftTwiceRejected(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")

	shift, err := OpenShift(db, store.ID, 1, 1000)
	require.NoError(t, err)

	_, err = CloseShift(db, shift.ID, store.ID, 1000, "")
	require.NoError(t, err)

	_, err = CloseShift(db, shift.ID, store.ID, 1000, "")
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

func TestZReadingAggregatesCompletedOrdersOnly(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")

	shift, err := OpenShift(db, store.ID, 1, 1000)
	require.NoError(t, err)

	seedCompletedOrder(t, db, store.ID, shift.ID, 100, models.PaymentCash)
	seedCompletedOrder(t, db, store.ID, shift.ID, 200, models.PaymentCard)

	// İade edilmiş sipariş rapora girmemeli.
	refundedReceipt := uint(99)
	refunded := models.Order{
		StoreID:       store.ID,
		ReceiptNumber: &refundedReceipt,
		Status:        models.OrderRefunded,
		Total:         500,
		PaymentMethod: models.PaymentCash,
		AmountPaid:    500,
		ShiftID:       &shift.ID,
	}
	require.NoError(t, db.Create(&refunded).Error)

	report, err := ZReading(db, shift.ID, store.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, report.OrderCount)
	assert.Equal(t, 300.0, report.TotalSales)
	assert.Equal(t, 150.0, report.AverageOrder)
	assert.Equal(t, 100.0, report.ByMethod["cash"])
	assert.Equal(t, 200.0, report.ByMethod["card"])
}

func TestZReadingIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")

	shift, err := OpenShift(db, store.ID, 1, 1000)
	require.NoError(t, err)
	seedCompletedOrder(t, db, store.ID, shift.ID, 120, models.PaymentCash)

	first, err := ZReading(db, shift.ID, store.ID)
	require.NoError(t, err)
	second, err := ZReading(db, shift.ID, store.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestZReadingAvailableAfterClose(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")

	shift, err := OpenShift(db, store.ID, 1, 1000)
	require.NoError(t, err)
	seedCompletedOrder(t, db, store.ID, shift.ID, 120, models.PaymentCash)

	_, err = CloseShift(db, shift.ID, store.ID, 1120, "")
	require.NoError(t, err)

	report, err := ZReading(db, shift.ID, store.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrderCount)
	assert.Equal(t, 120.0, report.TotalSales)
}
