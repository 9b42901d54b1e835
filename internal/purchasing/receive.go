package purchasing

import (
	"fmt"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/ledger"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReceivePurchaseOrder: "ordered" durumundaki satın alma siparişini teslim alır.
// Her satır için yeni bir FIFO partisi açılır (remaining = initial = miktar,
// maliyet o anki birim maliyet) ve PURCHASE hareketi yazılır. Sipariş "received"
// durumuna geçer; tekrar teslim alma 409 döner.
func ReceivePurchaseOrder(db *gorm.DB, poID, storeID uint, userID *uint) (*models.PurchaseOrder, []models.StockBatch, error) {
	var received models.PurchaseOrder
	var batches []models.StockBatch

	txErr := db.Transaction(func(tx *gorm.DB) error {
		var po models.PurchaseOrder
		if err := database.LockForUpdate(tx).
			First(&po, "id = ? AND store_id = ?", poID, storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satın alma siparişi bulunamadı")
		}

		if po.Status == models.PurchaseOrderReceived {
			return fiber.NewError(fiber.StatusConflict, "Satın alma siparişi zaten teslim alınmış")
		}
		if po.Status != models.PurchaseOrderOrdered {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Satın alma siparişi teslim alınabilir durumda değil (durum: %s)", po.Status))
		}

		var items []models.PurchaseOrderItem
		if err := tx.Where("purchase_order_id = ?", po.ID).Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş satırları okunamadı")
		}
		if len(items) == 0 {
			return fiber.NewError(fiber.StatusConflict, "Satın alma siparişinde satır yok")
		}

		now := time.Now()
		for _, it := range items {
			batch := models.StockBatch{
				ProductID:       it.ProductID,
				InitialQuantity: it.Quantity,
				Remaining:       it.Quantity,
				UnitCost:        models.Round2(it.UnitCost),
				ExpiryDate:      it.ExpiryDate,
				ReceivedAt:      now,
				PurchaseOrderID: &po.ID,
			}
			if err := tx.Create(&batch).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Parti oluşturulamadı")
			}
			batches = append(batches, batch)

			if _, _, err := ledger.RecordMovement(tx, it.ProductID, it.Quantity, models.MovementPurchase, ledger.MovementOptions{
				ReferenceType: "purchase_order",
				ReferenceID:   &po.ID,
				UserID:        userID,
			}); err != nil {
				return err
			}
		}

		po.Status = models.PurchaseOrderReceived
		po.ReceivedAt = &now
		if err := tx.Save(&po).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş güncellenemedi")
		}

		received = po
		return nil
	})
	if txErr != nil {
		return nil, nil, txErr
	}

	return &received, batches, nil
}
