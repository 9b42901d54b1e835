package database

import (
	"log"

	"pos-backend/internal/config"
	"pos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Migration hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: AutoMigrate + AutoMigrate'in ifade edemediği manuel index'ler.
// Testler aynı şemayı sqlite üzerinde kurmak için de bunu çağırır.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Store{},
		&models.User{},
		&models.Product{},
		&models.StockBatch{},
		&models.StockMovement{},
		&models.Customer{},
		&models.GiftCard{},
		&models.Shift{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}

	// Mağaza başına tek açık vardiya: uygulama ön kontrolü check-create arasındaki
	// yarışa açık, kısmi unique index o pencereyi kapatır.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_open ON shifts (store_id) WHERE status = 'open'`,
	).Error
}

// LockForUpdate: satır kilidi (SELECT ... FOR UPDATE). SQLite bu sözdizimini
// desteklemediği için testlerde kilitsiz çalışır; sqlite zaten tek yazıcıdır.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
