package inventory

import (
	"strings"

	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequest struct {
	Name         string  `json:"name"`
	Barcode      string  `json:"barcode"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price"`
	CostPrice    float64 `json:"cost_price"`
	InitialStock float64 `json:"initial_stock"` // parti açılmaz; açılış sayacı
	ReorderPoint float64 `json:"reorder_point"`
	LeadTimeDays int     `json:"lead_time_days"`
	SafetyStock  float64 `json:"safety_stock"`
	StoreID      *uint   `json:"store_id"` // admin için
}

type UpdateProductRequest struct {
	Name         *string  `json:"name"`
	Barcode      *string  `json:"barcode"`
	Unit         *string  `json:"unit"`
	Price        *float64 `json:"price"`
	CostPrice    *float64 `json:"cost_price"`
	ReorderPoint *float64 `json:"reorder_point"`
	LeadTimeDays *int     `json:"lead_time_days"`
	SafetyStock  *float64 `json:"safety_stock"`
}

type ProductResponse struct {
	ID           uint    `json:"id"`
	StoreID      uint    `json:"store_id"`
	Name         string  `json:"name"`
	Barcode      string  `json:"barcode,omitempty"`
	Unit         string  `json:"unit,omitempty"`
	Price        float64 `json:"price"`
	CostPrice    float64 `json:"cost_price"`
	Stock        float64 `json:"stock"`
	ReorderPoint float64 `json:"reorder_point"`
	LeadTimeDays int     `json:"lead_time_days"`
	SafetyStock  float64 `json:"safety_stock"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		StoreID:      p.StoreID,
		Name:         p.Name,
		Barcode:      p.Barcode,
		Unit:         p.Unit,
		Price:        p.Price,
		CostPrice:    p.CostPrice,
		Stock:        p.Stock,
		ReorderPoint: p.ReorderPoint,
		LeadTimeDays: p.LeadTimeDays,
		SafetyStock:  p.SafetyStock,
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim boş olamaz")
		}
		if body.Price < 0 || body.CostPrice < 0 || body.InitialStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat ve stok negatif olamaz")
		}

		storeID, err := auth.ResolveStoreIDFromBody(c, body.StoreID)
		if err != nil {
			return err
		}

		var store models.Store
		if err := database.DB.First(&store, "id = ?", storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mağaza bulunamadı")
		}

		product := models.Product{
			StoreID:      storeID,
			Name:         body.Name,
			Barcode:      strings.TrimSpace(body.Barcode),
			Unit:         strings.TrimSpace(body.Unit),
			Price:        models.Round2(body.Price),
			CostPrice:    models.Round2(body.CostPrice),
			Stock:        body.InitialStock,
			ReorderPoint: body.ReorderPoint,
			LeadTimeDays: body.LeadTimeDays,
			SafetyStock:  body.SafetyStock,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ? AND store_id = ?", id, storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "İsim boş olamaz")
			}
			product.Name = name
		}
		if body.Barcode != nil {
			product.Barcode = strings.TrimSpace(*body.Barcode)
		}
		if body.Unit != nil {
			product.Unit = strings.TrimSpace(*body.Unit)
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
			}
			product.Price = models.Round2(*body.Price)
		}
		if body.CostPrice != nil {
			if *body.CostPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Maliyet negatif olamaz")
			}
			product.CostPrice = models.Round2(*body.CostPrice)
		}
		if body.ReorderPoint != nil {
			product.ReorderPoint = *body.ReorderPoint
		}
		if body.LeadTimeDays != nil {
			product.LeadTimeDays = *body.LeadTimeDays
		}
		if body.SafetyStock != nil {
			product.SafetyStock = *body.SafetyStock
		}

		// Stock alanı bilinçli olarak güncellenmez; stok sadece ledger üzerinden değişir.

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(toProductResponse(&product))
	}
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := database.DB.Where("store_id = ?", storeID).
			Order("name asc").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		resp := make([]ProductResponse, 0, len(products))
		for i := range products {
			resp = append(resp, toProductResponse(&products[i]))
		}
		return c.JSON(resp)
	}
}
