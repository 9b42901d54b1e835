package sales

import (
	"fmt"
	"time"

	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HoldOrderInput struct {
	StoreID        uint
	Items          []OrderItemInput
	Total          float64
	DiscountType   string
	DiscountAmount float64
	CustomerID     *uint
	UserID         *uint
}

// HoldOrder: sepeti beklemeye alır. Stok, bakiye ve fiş numarası hiçbir şekilde
// etkilenmez; sadece satır anlık görüntüsü saklanır.
func HoldOrder(db *gorm.DB, in HoldOrderInput) (*models.Order, error) {
	if in.StoreID == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "store_id zorunlu")
	}
	if len(in.Items) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "En az bir ürün satırı gerekli")
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == 0 || it.Quantity <= 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Miktar 0'dan büyük olmalı")
		}
		var product models.Product
		if err := db.First(&product, "id = ? AND store_id = ?", it.ProductID, in.StoreID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Ürün bulunamadı (ID: %d)", it.ProductID))
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  it.Quantity,
			UnitPrice: models.Round2(it.UnitPrice),
			UnitCost:  models.Round2(product.CostPrice),
		})
	}

	now := time.Now()
	order := models.Order{
		StoreID:        in.StoreID,
		Status:         models.OrderHeld,
		Total:          models.Round2(in.Total),
		DiscountType:   in.DiscountType,
		DiscountAmount: models.Round2(in.DiscountAmount),
		CustomerID:     in.CustomerID,
		UserID:         in.UserID,
		ParkedAt:       &now,
		ParkedBy:       in.UserID,
		Items:          items,
	}

	if err := db.Create(&order).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Sipariş beklemeye alınamadı")
	}

	return &order, nil
}

// RestoreHeldOrder: beklemedeki siparişi siler ve satırlarını geri döner.
// Satırlar satış akışına yeniden girilmek üzere çağırana teslim edilir.
func RestoreHeldOrder(db *gorm.DB, orderID, storeID uint) ([]models.OrderItem, *models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ? AND store_id = ?", orderID, storeID).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
	}
	if order.Status != models.OrderHeld {
		return nil, nil, fiber.NewError(fiber.StatusConflict, "Sipariş beklemede değil")
	}

	items := make([]models.OrderItem, len(order.Items))
	copy(items, order.Items)

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if txErr != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Sipariş geri alınamadı")
	}

	return items, &order, nil
}

// CancelHeldOrder: beklemedeki siparişi kalıcı olarak siler.
func CancelHeldOrder(db *gorm.DB, orderID, storeID uint) error {
	var order models.Order
	if err := db.First(&order, "id = ? AND store_id = ?", orderID, storeID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
	}
	if order.Status != models.OrderHeld {
		return fiber.NewError(fiber.StatusConflict, "Sipariş beklemede değil")
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if txErr != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Sipariş silinemedi")
	}
	return nil
}
