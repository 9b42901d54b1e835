package sales

import (
	"fmt"
	"math"
	"strings"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentInput struct {
	Method    models.PaymentMethod `json:"method"`
	Amount    float64              `json:"amount"`
	Reference string               `json:"reference"` // kart işlem no / hediye kartı kodu
}

// applyTender: tek bir ödeme satırının bakiye etkisini transaction içinde uygular.
// Ödeme yöntemi dağıtımı yalnızca burada yapılır; her dal sadece kendi ihtiyacı
// olan alanları okur. Herhangi bir hata tüm sipariş transaction'ını geri alır.
func applyTender(tx *gorm.DB, store *models.Store, customer *models.Customer, p PaymentInput) error {
	switch p.Method {
	case models.PaymentCash, models.PaymentCard, models.PaymentMobileWallet:
		// Bakiye kontrolü yok; tutar olduğu gibi kaydedilir. Nakitte para üstü
		// takibi çağıranın amount_tendered alanıyla yapılır.
		return nil

	case models.PaymentCredit:
		if customer == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Veresiye satış için müşteri zorunlu")
		}
		if customer.CreditLimit != nil && models.Round2(customer.TotalDebt+p.Amount) > *customer.CreditLimit {
			available := models.Round2(*customer.CreditLimit - customer.TotalDebt)
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Kredi limiti aşıldı (kullanılabilir: %.2f)", available))
		}
		customer.TotalDebt = models.Round2(customer.TotalDebt + p.Amount)
		if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
			Update("total_debt", customer.TotalDebt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri bakiyesi güncellenemedi")
		}
		return nil

	case models.PaymentGiftCard:
		code := strings.TrimSpace(p.Reference)
		if code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Hediye kartı kodu zorunlu")
		}
		var card models.GiftCard
		if err := database.LockForUpdate(tx).First(&card, "code = ?", code).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hediye kartı bulunamadı")
		}
		if card.Status != models.GiftCardActive {
			return fiber.NewError(fiber.StatusConflict, "Hediye kartı aktif değil")
		}
		if card.CurrentBalance < p.Amount {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Hediye kartı bakiyesi yetersiz (bakiye: %.2f)", card.CurrentBalance))
		}
		newBalance := models.Round2(card.CurrentBalance - p.Amount)
		status := models.GiftCardActive
		if newBalance <= 0 {
			status = models.GiftCardUsed
		}
		if err := tx.Model(&models.GiftCard{}).Where("id = ?", card.ID).
			Updates(map[string]interface{}{"current_balance": newBalance, "status": status}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hediye kartı güncellenemedi")
		}
		return nil

	case models.PaymentLoyaltyPoints:
		if customer == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Puan ödemesi için müşteri zorunlu")
		}
		pointValue := store.PointValue
		if pointValue <= 0 {
			pointValue = 1.0
		}
		required := int64(math.Ceil(p.Amount / pointValue))
		if customer.PointsBalance < required {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Puan bakiyesi yetersiz (gerekli: %d, mevcut: %d)", required, customer.PointsBalance))
		}
		customer.PointsBalance -= required
		if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
			Update("points_balance", customer.PointsBalance).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Puan bakiyesi güncellenemedi")
		}
		return nil

	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Geçersiz ödeme yöntemi: %s", p.Method))
	}
}
