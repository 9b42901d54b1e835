package models

import "time"

type Customer struct {
	ID            uint `gorm:"primaryKey"`
	StoreID       uint `gorm:"index;not null"`
	Name          string   `gorm:"size:100;not null"`
	Phone         string   `gorm:"size:50"`
	TotalDebt     float64  `gorm:"not null;default:0"` // veresiye bakiyesi
	CreditLimit   *float64 // nil = limitsiz
	PointsBalance int64    `gorm:"not null;default:0"` // sadakat puanı
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
