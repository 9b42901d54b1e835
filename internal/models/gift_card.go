package models

import "time"

type GiftCardStatus string

const (
	GiftCardActive  GiftCardStatus = "active"
	GiftCardUsed    GiftCardStatus = "used"
	GiftCardExpired GiftCardStatus = "expired"
)

type GiftCard struct {
	ID             uint    `gorm:"primaryKey"`
	StoreID        uint    `gorm:"index;not null"`
	Code           string  `gorm:"size:50;uniqueIndex;not null"`
	InitialBalance float64 `gorm:"not null"`
	CurrentBalance float64 `gorm:"not null"`
	// Bakiye 0'a düştüğü anda "used" olur.
	Status    GiftCardStatus `gorm:"size:20;not null;default:'active'"`
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
