package ledger

import (
	"fmt"
	"math"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MovementOptions struct {
	Reason        string
	ReferenceType string // "order" / "purchase_order"
	ReferenceID   *uint
	UserID        *uint
}

// RecordMovement: Product.Stock'u değiştiren tek yol. Ürün satırını kilitler,
// hareket kaydını yazar ve sayacı aynı adımda günceller — biri olmadan diğeri
// asla çağrılmaz. Çağıranın transaction'ı içinde çalışır.
func RecordMovement(tx *gorm.DB, productID uint, quantity float64, kind models.MovementKind, opts MovementOptions) (*models.StockMovement, *models.Product, error) {
	if quantity == 0 {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Miktar sıfır olamaz")
	}

	var product models.Product
	if err := database.LockForUpdate(tx).First(&product, "id = ?", productID).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
	}

	newStock := models.Round2(product.Stock + quantity)
	if newStock < 0 {
		return nil, nil, fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("Yetersiz stok: %s (mevcut: %.2f, istenen: %.2f)", product.Name, product.Stock, -quantity))
	}

	movement := models.StockMovement{
		ProductID:     product.ID,
		Quantity:      quantity,
		Kind:          kind,
		ReferenceType: opts.ReferenceType,
		ReferenceID:   opts.ReferenceID,
		Reason:        opts.Reason,
		UserID:        opts.UserID,
	}

	if err := tx.Create(&movement).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Stok hareketi kaydedilemedi")
	}

	if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("stock", newStock).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Stok güncellenemedi")
	}
	product.Stock = newStock

	return &movement, &product, nil
}

// DepleteFIFO: partileri son kullanma tarihi (null'lar en sonda), sonra giriş
// tarihi sırasıyla eksiltir. Parti kapsamı yetersizse kalan, sayaçtan düşülmeye
// devam eder; esas kaynak denormalize sayaçtır (partisiz eski stok satılabilir).
func DepleteFIFO(tx *gorm.DB, productID uint, quantity float64) error {
	var batches []models.StockBatch
	if err := database.LockForUpdate(tx).
		Where("product_id = ? AND remaining > 0", productID).
		Order("expiry_date ASC NULLS LAST, received_at ASC, id ASC").
		Find(&batches).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Partiler okunamadı")
	}

	remaining := quantity
	for i := range batches {
		if remaining <= 0 {
			break
		}
		take := math.Min(batches[i].Remaining, remaining)
		newRemaining := models.Round2(batches[i].Remaining - take)
		if err := tx.Model(&models.StockBatch{}).Where("id = ?", batches[i].ID).
			Update("remaining", newRemaining).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parti güncellenemedi")
		}
		remaining = models.Round2(remaining - take)
	}

	return nil
}
