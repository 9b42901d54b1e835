package models

import "time"

type Product struct {
	ID        uint `gorm:"primaryKey"`
	StoreID   uint `gorm:"index;not null"`
	Store     Store
	Name      string  `gorm:"size:100;not null"`
	Barcode   string  `gorm:"size:50;index"`
	Unit      string  `gorm:"size:20"`  // kg, adet, koli vs.
	Price     float64 `gorm:"not null"` // satış fiyatı
	CostPrice float64 `gorm:"not null"` // maliyet

	// Denormalize stok sayacı. Sadece ledger.RecordMovement üzerinden değişir;
	// her değişiklik tam olarak bir StockMovement kaydıyla eşleşir.
	Stock float64 `gorm:"not null;default:0"`

	ReorderPoint float64 `gorm:"not null;default:0"` // yeniden sipariş noktası
	LeadTimeDays int     `gorm:"not null;default:0"` // tedarik süresi (gün)
	SafetyStock  float64 `gorm:"not null;default:0"` // emniyet stoğu
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
