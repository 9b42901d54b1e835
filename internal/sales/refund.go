package sales

import (
	"pos-backend/internal/database"
	"pos-backend/internal/ledger"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RefundOrder: tamamlanmış bir siparişin stok ve veresiye etkilerini geri alır.
// Stok toplam sayaca RETURN hareketiyle döner; partiler geri doldurulmaz.
// Hediye kartı ve puan tender'ları bilinçli olarak geri alınmaz (kapsam sınırı).
// İkinci iade denemesi hata döner, sessizce geçilmez.
func RefundOrder(db *gorm.DB, orderID, storeID uint, userID *uint) (*models.Order, error) {
	var refunded models.Order

	txErr := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := database.LockForUpdate(tx).
			First(&order, "id = ? AND store_id = ?", orderID, storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if order.Status == models.OrderRefunded {
			return fiber.NewError(fiber.StatusConflict, "Sipariş zaten iade edilmiş")
		}
		if order.Status != models.OrderCompleted {
			return fiber.NewError(fiber.StatusConflict, "Sadece tamamlanmış siparişler iade edilebilir")
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş satırları okunamadı")
		}

		for _, it := range items {
			if _, _, err := ledger.RecordMovement(tx, it.ProductID, it.Quantity, models.MovementReturn, ledger.MovementOptions{
				ReferenceType: "order",
				ReferenceID:   &order.ID,
				Reason:        "İade",
				UserID:        userID,
			}); err != nil {
				return err
			}
		}

		// Veresiye tahsilatı geri alınır.
		var payments []models.Payment
		if err := tx.Where("order_id = ?", order.ID).Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme satırları okunamadı")
		}
		creditSum := 0.0
		for _, p := range payments {
			if p.Method == models.PaymentCredit {
				creditSum = models.Round2(creditSum + p.Amount)
			}
		}
		if creditSum > 0 && order.CustomerID != nil {
			var customer models.Customer
			if err := database.LockForUpdate(tx).First(&customer, "id = ?", *order.CustomerID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
			}
			newDebt := models.Round2(customer.TotalDebt - creditSum)
			if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
				Update("total_debt", newDebt).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Müşteri bakiyesi güncellenemedi")
			}
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", models.OrderRefunded).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş güncellenemedi")
		}

		order.Status = models.OrderRefunded
		refunded = order
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	var full models.Order
	if err := db.Preload("Items").Preload("Payments").First(&full, "id = ?", refunded.ID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
	}
	return &full, nil
}
