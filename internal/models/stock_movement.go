package models

import "time"

type MovementKind string

const (
	MovementSale       MovementKind = "sale"
	MovementPurchase   MovementKind = "purchase"
	MovementAdjustment MovementKind = "adjustment"
	MovementReturn     MovementKind = "return"
	MovementWaste      MovementKind = "waste"
)

// StockMovement: append-only stok hareket kaydı. Her Product.Stock değişikliğinde
// tam olarak bir satır oluşur; sonradan güncellenmez, silinmez.
type StockMovement struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  float64      `gorm:"not null"`              // işaretli: + giriş, - çıkış
	Kind      MovementKind `gorm:"size:20;index;not null"`

	// Hareketi oluşturan belge (ör: "order", "purchase_order")
	ReferenceType string `gorm:"size:30"`
	ReferenceID   *uint  `gorm:"index"`

	Reason    string `gorm:"size:255"` // opsiyonel açıklama
	UserID    *uint  // işlemi yapan kullanıcı
	CreatedAt time.Time
}
