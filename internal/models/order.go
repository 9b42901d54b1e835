package models

import "time"

type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
	OrderHeld      OrderStatus = "held"
	OrderRefunded  OrderStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCard          PaymentMethod = "card"
	PaymentMobileWallet  PaymentMethod = "mobile_wallet"
	PaymentCredit        PaymentMethod = "credit"
	PaymentGiftCard      PaymentMethod = "gift_card"
	PaymentLoyaltyPoints PaymentMethod = "loyalty_points"
	PaymentSplit         PaymentMethod = "split" // birden fazla tender'lı sipariş özeti
)

type Order struct {
	ID      uint `gorm:"primaryKey"`
	StoreID uint `gorm:"index;not null;uniqueIndex:idx_orders_store_receipt"`
	Store   Store

	// Mağaza bazında artan fiş numarası. Commit anında atanır, asla yeniden
	// kullanılmaz. Beklemedeki (held) siparişlerde boş kalır.
	ReceiptNumber *uint `gorm:"uniqueIndex:idx_orders_store_receipt"`

	Status         OrderStatus `gorm:"size:20;index;not null"`
	Total          float64     `gorm:"not null"`
	DiscountType   string      `gorm:"size:20"` // "percentage" / "fixed" / "tax_exempt"
	DiscountAmount float64     `gorm:"not null;default:0"`

	// Özet ödeme bilgisi; satır bazlı kayıtlar Payments'ta.
	PaymentMethod  PaymentMethod `gorm:"size:20"`
	AmountPaid     float64       `gorm:"not null;default:0"`
	AmountTendered float64       `gorm:"not null;default:0"` // nakit için verilen tutar

	CustomerID *uint `gorm:"index"`
	Customer   *Customer
	ShiftID    *uint `gorm:"index"`
	UserID     *uint // satışı yapan kasiyer

	// Park (beklemeye alma) bilgileri
	ParkedAt *time.Time
	ParkedBy *uint

	CreatedAt time.Time
	UpdatedAt time.Time

	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments []Payment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem: satış anındaki fiyat ve maliyetle dondurulmuş sipariş satırı.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  float64 `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"` // satış anındaki birim fiyat
	UnitCost  float64 `gorm:"not null"` // satış anındaki birim maliyet
	CreatedAt time.Time
}

// Payment: sipariş üzerindeki tek bir ödeme satırı.
type Payment struct {
	ID        uint          `gorm:"primaryKey"`
	OrderID   uint          `gorm:"index;not null"`
	Method    PaymentMethod `gorm:"size:20;not null"`
	Amount    float64       `gorm:"not null"`
	Reference string        `gorm:"size:100"` // kart işlem no / hediye kartı kodu
	CreatedAt time.Time
}
