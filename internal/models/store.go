package models

import "time"

type Store struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"size:100;not null;unique"`
	Address        string  `gorm:"size:255"`
	Phone          string  `gorm:"size:50"` // Opsiyonel telefon
	PointValue     float64 `gorm:"not null;default:1"`    // 1 sadakat puanının TL karşılığı
	PointsEarnRate float64 `gorm:"not null;default:0.01"` // ödenen tutar başına puan kazanma oranı
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Users []User
}
