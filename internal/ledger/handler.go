package ledger

import (
	"fmt"
	"strings"
	"time"

	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdjustStockRequest struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"` // işaretli; waste için pozitif gönderilir
	Kind      string  `json:"kind"`     // "adjustment" / "waste" / "return"
	Reason    string  `json:"reason"`
	StoreID   *uint   `json:"store_id"` // admin için
}

type AdjustStockResponse struct {
	MovementID uint    `json:"movement_id"`
	ProductID  uint    `json:"product_id"`
	Quantity   float64 `json:"quantity"`
	Kind       string  `json:"kind"`
	Stock      float64 `json:"stock"`
	CreatedAt  string  `json:"created_at"`
}

type MovementResponse struct {
	ID            uint    `json:"id"`
	ProductID     uint    `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Quantity      float64 `json:"quantity"`
	Kind          string  `json:"kind"`
	ReferenceType string  `json:"reference_type,omitempty"`
	ReferenceID   *uint   `json:"reference_id,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// POST /api/stock/adjust
func AdjustStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AdjustStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}
		if body.Quantity == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar sıfır olamaz")
		}

		kind := models.MovementKind(strings.TrimSpace(body.Kind))
		switch kind {
		case models.MovementAdjustment, models.MovementWaste, models.MovementReturn:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "kind 'adjustment', 'waste' veya 'return' olmalı")
		}

		quantity := body.Quantity
		// Zayiat her zaman stok düşümüdür: pozitif gelen miktarın işareti çevrilir.
		if kind == models.MovementWaste && quantity > 0 {
			quantity = -quantity
		}
		if kind == models.MovementWaste && strings.TrimSpace(body.Reason) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Zayiat için reason zorunlu")
		}

		storeID, err := auth.ResolveStoreIDFromBody(c, body.StoreID)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ? AND store_id = ?", body.ProductID, storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		userID, _ := auth.UserIDFromCtx(c)

		var movement *models.StockMovement
		var updated *models.Product
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			movement, updated, err = RecordMovement(tx, product.ID, quantity, kind, MovementOptions{
				Reason: strings.TrimSpace(body.Reason),
				UserID: &userID,
			})
			return err
		})
		if txErr != nil {
			return txErr
		}

		// Audit log
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				StoreID:     &storeID,
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "stock_movement",
				EntityID:    movement.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Stok düzeltmesi (%s): %s %.2f", kind, product.Name, quantity),
				After: map[string]interface{}{
					"product_id": product.ID,
					"quantity":   quantity,
					"kind":       string(kind),
					"stock":      updated.Stock,
				},
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(AdjustStockResponse{
			MovementID: movement.ID,
			ProductID:  updated.ID,
			Quantity:   movement.Quantity,
			Kind:       string(movement.Kind),
			Stock:      updated.Stock,
			CreatedAt:  movement.CreatedAt.Format(time.RFC3339),
		})
	}
}

// GET /api/stock/movements?product_id=...&store_id=...
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.StockMovement{}).
			Joins("JOIN products ON products.id = stock_movements.product_id").
			Where("products.store_id = ?", storeID)

		if pidStr := c.Query("product_id"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err != nil || pid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "product_id geçersiz")
			}
			dbq = dbq.Where("stock_movements.product_id = ?", pid)
		}

		var movements []models.StockMovement
		if err := dbq.Preload("Product").
			Order("stock_movements.created_at desc, stock_movements.id desc").
			Limit(200).
			Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareketler listelenemedi")
		}

		resp := make([]MovementResponse, 0, len(movements))
		for _, m := range movements {
			resp = append(resp, MovementResponse{
				ID:            m.ID,
				ProductID:     m.ProductID,
				ProductName:   m.Product.Name,
				Quantity:      m.Quantity,
				Kind:          string(m.Kind),
				ReferenceType: m.ReferenceType,
				ReferenceID:   m.ReferenceID,
				Reason:        m.Reason,
				CreatedAt:     m.CreatedAt.Format(time.RFC3339),
			})
		}

		return c.JSON(resp)
	}
}
