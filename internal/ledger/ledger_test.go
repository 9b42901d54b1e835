package ledger

import (
	"testing"
	"time"

	"pos-backend/internal/models"
	"pos-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRecordMovementWritesEntryAndCounterTogether(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 10)

	var movement *models.StockMovement
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		movement, _, err = RecordMovement(tx, product.ID, -3, models.MovementSale, MovementOptions{})
		return err
	})
	require.NoError(t, err)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 7.0, fresh.Stock)

	var movements []models.StockMovement
	require.NoError(t, db.Where("product_id = ?", product.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, movement.ID, movements[0].ID)
	assert.Equal(t, -3.0, movements[0].Quantity)
	assert.Equal(t, models.MovementSale, movements[0].Kind)
}

func TestRecordMovementRejectsZeroQuantity(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, err := RecordMovement(tx, product.ID, 0, models.MovementAdjustment, MovementOptions{})
		return err
	})
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestRecordMovementRejectsInsufficientStock(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Süt", 20, 5)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, err := RecordMovement(tx, product.ID, -6, models.MovementSale, MovementOptions{})
		return err
	})
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)

	// Hata durumunda ne sayaç ne hareket değişmiş olmalı.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 5.0, fresh.Stock)

	var count int64
	db.Model(&models.StockMovement{}).Where("product_id = ?", product.ID).Count(&count)
	assert.Zero(t, count)
}

func TestDepleteFIFOOrdersByExpiryThenReceipt(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Yoğurt", 15, 12)

	now := time.Now()
	soon := now.Add(24 * time.Hour)
	later := now.Add(72 * time.Hour)

	// Giriş sırası bilerek karışık: tüketim sırası SKT'ye göre olmalı.
	batchLater := models.StockBatch{ProductID: product.ID, InitialQuantity: 4, Remaining: 4, UnitCost: 8, ExpiryDate: &later, ReceivedAt: now.Add(-48 * time.Hour)}
	batchNoExpiry := models.StockBatch{ProductID: product.ID, InitialQuantity: 4, Remaining: 4, UnitCost: 8, ReceivedAt: now.Add(-72 * time.Hour)}
	batchSoon := models.StockBatch{ProductID: product.ID, InitialQuantity: 4, Remaining: 4, UnitCost: 8, ExpiryDate: &soon, ReceivedAt: now.Add(-24 * time.Hour)}
	require.NoError(t, db.Create(&batchLater).Error)
	require.NoError(t, db.Create(&batchNoExpiry).Error)
	require.NoError(t, db.Create(&batchSoon).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		return DepleteFIFO(tx, product.ID, 6)
	})
	require.NoError(t, err)

	var soonFresh, laterFresh, noExpiryFresh models.StockBatch
	require.NoError(t, db.First(&soonFresh, "id = ?", batchSoon.ID).Error)
	require.NoError(t, db.First(&laterFresh, "id = ?", batchLater.ID).Error)
	require.NoError(t, db.First(&noExpiryFresh, "id = ?", batchNoExpiry.ID).Error)

	// En yakın SKT tamamen tükenir, sonraki SKT kısmen, SKT'siz parti en sona kalır.
	assert.Equal(t, 0.0, soonFresh.Remaining)
	assert.Equal(t, 2.0, laterFresh.Remaining)
	assert.Equal(t, 4.0, noExpiryFresh.Remaining)
}

func TestDepleteFIFOTieBreaksOnReceivedAt(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Pirinç", 30, 10)

	now := time.Now()
	older := models.StockBatch{ProductID: product.ID, InitialQuantity: 5, Remaining: 5, UnitCost: 10, ReceivedAt: now.Add(-48 * time.Hour)}
	newer := models.StockBatch{ProductID: product.ID, InitialQuantity: 5, Remaining: 5, UnitCost: 12, ReceivedAt: now.Add(-1 * time.Hour)}
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&older).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		return DepleteFIFO(tx, product.ID, 3)
	})
	require.NoError(t, err)

	var olderFresh, newerFresh models.StockBatch
	require.NoError(t, db.First(&olderFresh, "id = ?", older.ID).Error)
	require.NoError(t, db.First(&newerFresh, "id = ?", newer.ID).Error)
	assert.Equal(t, 2.0, olderFresh.Remaining)
	assert.Equal(t, 5.0, newerFresh.Remaining)
}

func TestDepleteFIFOAllowsPartialBatchCoverage(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Un", 12, 8)

	batch := models.StockBatch{ProductID: product.ID, InitialQuantity: 3, Remaining: 3, UnitCost: 6, ReceivedAt: time.Now()}
	require.NoError(t, db.Create(&batch).Error)

	// Partiler talebi karşılamasa da hata yok: esas kaynak sayaçtır.
	err := db.Transaction(func(tx *gorm.DB) error {
		return DepleteFIFO(tx, product.ID, 5)
	})
	require.NoError(t, err)

	var fresh models.StockBatch
	require.NoError(t, db.First(&fresh, "id = ?", batch.ID).Error)
	assert.Equal(t, 0.0, fresh.Remaining)
}
