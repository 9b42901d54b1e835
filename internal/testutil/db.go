package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// NewDB: test başına izole in-memory sqlite veritabanı. Şema production ile
// aynı Migrate çağrısıyla kurulur.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}

	return db
}

func SeedStore(t *testing.T, db *gorm.DB, name string) *models.Store {
	t.Helper()

	store := models.Store{
		Name:           name,
		PointValue:     1,
		PointsEarnRate: 0.01,
	}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("mağaza oluşturulamadı: %v", err)
	}
	return &store
}

func SeedProduct(t *testing.T, db *gorm.DB, storeID uint, name string, price, stock float64) *models.Product {
	t.Helper()

	product := models.Product{
		StoreID:   storeID,
		Name:      name,
		Price:     price,
		CostPrice: price / 2,
		Stock:     stock,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}
	return &product
}

func SeedCustomer(t *testing.T, db *gorm.DB, storeID uint, name string, debt float64, limit *float64) *models.Customer {
	t.Helper()

	customer := models.Customer{
		StoreID:     storeID,
		Name:        name,
		TotalDebt:   debt,
		CreditLimit: limit,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("müşteri oluşturulamadı: %v", err)
	}
	return &customer
}

func SeedGiftCard(t *testing.T, db *gorm.DB, storeID uint, code string, balance float64) *models.GiftCard {
	t.Helper()

	card := models.GiftCard{
		StoreID:        storeID,
		Code:           code,
		InitialBalance: balance,
		CurrentBalance: balance,
		Status:         models.GiftCardActive,
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("hediye kartı oluşturulamadı: %v", err)
	}
	return &card
}

func Ptr[T any](v T) *T { return &v }
