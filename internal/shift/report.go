package shift

import (
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ZReadingReport struct {
	ShiftID        uint               `json:"shift_id"`
	StoreID        uint               `json:"store_id"`
	OrderCount     int                `json:"order_count"`
	TotalSales     float64            `json:"total_sales"`
	AverageOrder   float64            `json:"average_order"`
	TotalDiscounts float64            `json:"total_discounts"`
	ByMethod       map[string]float64 `json:"by_method"`
}

// ZReading: vardiyanın salt-okunur satış özeti. Sadece tamamlanmış siparişlerden
// türetilir, yan etkisi yoktur; aynı sipariş kümesinden her zaman aynı sonucu verir.
func ZReading(db *gorm.DB, shiftID, storeID uint) (*ZReadingReport, error) {
	var shift models.Shift
	if err := db.First(&shift, "id = ? AND store_id = ?", shiftID, storeID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Vardiya bulunamadı")
	}

	var orders []models.Order
	if err := db.Preload("Payments").
		Where("shift_id = ? AND status = ?", shift.ID, models.OrderCompleted).
		Find(&orders).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Vardiya siparişleri okunamadı")
	}

	report := &ZReadingReport{
		ShiftID:  shift.ID,
		StoreID:  shift.StoreID,
		ByMethod: make(map[string]float64),
	}

	for _, o := range orders {
		report.OrderCount++
		report.TotalSales = models.Round2(report.TotalSales + o.Total)
		report.TotalDiscounts = models.Round2(report.TotalDiscounts + o.DiscountAmount)

		if len(o.Payments) > 0 {
			for _, p := range o.Payments {
				key := string(p.Method)
				report.ByMethod[key] = models.Round2(report.ByMethod[key] + p.Amount)
			}
			continue
		}
		// Ödeme satırı olmayan eski kayıtlar için özet alana düşülür.
		if o.PaymentMethod != "" {
			key := string(o.PaymentMethod)
			amount := o.AmountPaid
			if amount == 0 {
				amount = o.Total
			}
			report.ByMethod[key] = models.Round2(report.ByMethod[key] + amount)
		}
	}

	if report.OrderCount > 0 {
		report.AverageOrder = models.Round2(report.TotalSales / float64(report.OrderCount))
	}

	return report, nil
}
