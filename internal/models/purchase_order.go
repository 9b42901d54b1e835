package models

import "time"

type PurchaseOrderStatus string

const (
	PurchaseOrderOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderReceived  PurchaseOrderStatus = "received"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
)

type PurchaseOrder struct {
	ID         uint `gorm:"primaryKey"`
	StoreID    uint `gorm:"index;not null"`
	Supplier   string              `gorm:"size:100"`
	Status     PurchaseOrderStatus `gorm:"size:20;index;not null;default:'ordered'"`
	OrderedAt  time.Time           `gorm:"not null"`
	ReceivedAt *time.Time // teslim alma tarihi
	Note       string     `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

type PurchaseOrderItem struct {
	ID              uint `gorm:"primaryKey"`
	PurchaseOrderID uint `gorm:"index;not null"`
	ProductID       uint `gorm:"index;not null"`
	Product         Product
	Quantity        float64    `gorm:"not null"`
	UnitCost        float64    `gorm:"not null"`
	ExpiryDate      *time.Time // teslim alınan partiye yazılır
	CreatedAt       time.Time
}
