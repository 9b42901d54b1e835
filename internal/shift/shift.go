package shift

import (
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OpenShift: mağaza için yeni vardiya açar. Aynı mağazada ikinci açık vardiyaya
// izin verilmez; ön kontrolün kaçırdığı yarışı kısmi unique index yakalar.
func OpenShift(db *gorm.DB, storeID, cashierID uint, startCash float64) (*models.Shift, error) {
	if startCash < 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Açılış kasası negatif olamaz")
	}

	var store models.Store
	if err := db.First(&store, "id = ?", storeID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Mağaza bulunamadı")
	}

	var openCount int64
	db.Model(&models.Shift{}).
		Where("store_id = ? AND status = ?", storeID, models.ShiftOpen).
		Count(&openCount)
	if openCount > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Bu mağaza için zaten açık bir vardiya var")
	}

	shift := models.Shift{
		StoreID:   storeID,
		CashierID: cashierID,
		Status:    models.ShiftOpen,
		StartCash: models.Round2(startCash),
		OpenedAt:  time.Now(),
	}

	if err := db.Create(&shift).Error; err != nil {
		// check-create arasına giren yarış: unique index ihlali
		return nil, fiber.NewError(fiber.StatusConflict, "Bu mağaza için zaten açık bir vardiya var")
	}

	return &shift, nil
}

// CloseShift: beklenen kasayı vardiyadaki tamamlanmış siparişlerin nakit
// tahsilatından yeniden hesaplar ve farkı kaydeder.
func CloseShift(db *gorm.DB, shiftID, storeID uint, endCash float64, notes string) (*models.Shift, error) {
	if endCash < 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Sayılan kasa negatif olamaz")
	}

	var closed models.Shift
	txErr := db.Transaction(func(tx *gorm.DB) error {
		var shift models.Shift
		if err := database.LockForUpdate(tx).
			First(&shift, "id = ? AND store_id = ?", shiftID, storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vardiya bulunamadı")
		}
		if shift.Status != models.ShiftOpen {
			return fiber.NewError(fiber.StatusConflict, "Vardiya zaten kapalı")
		}

		cashSum, err := cashTenderSum(tx, shift.ID)
		if err != nil {
			return err
		}

		now := time.Now()
		expected := models.Round2(shift.StartCash + cashSum)
		variance := models.Round2(endCash - expected)
		end := models.Round2(endCash)

		shift.Status = models.ShiftClosed
		shift.EndCash = &end
		shift.ExpectedCash = &expected
		shift.Variance = &variance
		shift.Notes = notes
		shift.ClosedAt = &now

		if err := tx.Save(&shift).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vardiya kapatılamadı")
		}

		closed = shift
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &closed, nil
}

// cashTenderSum: vardiyanın tamamlanmış siparişlerindeki nakit tahsilat toplamı.
// Satır bazlı ödeme kayıtları tercih edilir (çok tender'lı siparişler için);
// ödeme satırı olmayan eski kayıtlarda sipariş özetine düşülür.
func cashTenderSum(tx *gorm.DB, shiftID uint) (float64, error) {
	var orders []models.Order
	if err := tx.Preload("Payments").
		Where("shift_id = ? AND status = ?", shiftID, models.OrderCompleted).
		Find(&orders).Error; err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Vardiya siparişleri okunamadı")
	}

	total := 0.0
	for _, o := range orders {
		if len(o.Payments) > 0 {
			for _, p := range o.Payments {
				if p.Method == models.PaymentCash {
					total = models.Round2(total + p.Amount)
				}
			}
			continue
		}
		if o.PaymentMethod == models.PaymentCash {
			amount := o.AmountPaid
			if amount == 0 {
				amount = o.Total
			}
			total = models.Round2(total + amount)
		}
	}
	return total, nil
}
