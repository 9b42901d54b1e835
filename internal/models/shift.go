package models

import "time"

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

// Shift: tek bir kasa vardiyası. Mağaza başına aynı anda en fazla bir açık
// vardiya olabilir (uygulama kontrolü + kısmi unique index, bkz. database.Migrate).
type Shift struct {
	ID        uint `gorm:"primaryKey"`
	StoreID   uint `gorm:"index;not null"`
	Store     Store
	CashierID uint        `gorm:"index;not null"`
	Status    ShiftStatus `gorm:"size:20;index;not null"`

	StartCash    float64  `gorm:"not null"` // açılış kasası
	EndCash      *float64 // sayılan kapanış kasası
	ExpectedCash *float64 // StartCash + vardiyadaki nakit tahsilat
	Variance     *float64 // EndCash - ExpectedCash (+ fazla, - eksik)

	Notes    string    `gorm:"size:500"`
	OpenedAt time.Time `gorm:"not null"`
	ClosedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
