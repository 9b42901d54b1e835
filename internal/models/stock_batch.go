package models

import "time"

// StockBatch: FIFO parti kaydı. Teslim almada oluşturulur, satışta eksiltilir;
// asla silinmez, asla yeniden doldurulmaz. Yeni mal girişi her zaman yeni parti açar.
type StockBatch struct {
	ID              uint `gorm:"primaryKey"`
	ProductID       uint `gorm:"index;not null"`
	Product         Product
	InitialQuantity float64    `gorm:"not null"` // girişteki miktar
	Remaining       float64    `gorm:"not null"` // kalan miktar
	UnitCost        float64    `gorm:"not null"` // girişteki birim maliyet
	ExpiryDate      *time.Time `gorm:"index"`    // opsiyonel son kullanma tarihi
	ReceivedAt      time.Time  `gorm:"index;not null"`
	PurchaseOrderID *uint      `gorm:"index"` // partiyi oluşturan satın alma siparişi
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
