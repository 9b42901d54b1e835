package purchasing

import (
	"fmt"
	"strings"
	"time"

	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PurchaseOrderItemInput struct {
	ProductID  uint    `json:"product_id"`
	Quantity   float64 `json:"quantity"`
	UnitCost   float64 `json:"unit_cost"`
	ExpiryDate *string `json:"expiry_date"` // "2026-01-31"
}

type CreatePurchaseOrderRequest struct {
	Supplier string                   `json:"supplier"`
	Note     string                   `json:"note"`
	Items    []PurchaseOrderItemInput `json:"items"`
	StoreID  *uint                    `json:"store_id"` // admin için
}

type PurchaseOrderItemResponse struct {
	ProductID  uint    `json:"product_id"`
	Quantity   float64 `json:"quantity"`
	UnitCost   float64 `json:"unit_cost"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
}

type PurchaseOrderResponse struct {
	ID         uint                        `json:"id"`
	StoreID    uint                        `json:"store_id"`
	Supplier   string                      `json:"supplier,omitempty"`
	Status     string                      `json:"status"`
	OrderedAt  string                      `json:"ordered_at"`
	ReceivedAt *string                     `json:"received_at,omitempty"`
	Note       string                      `json:"note,omitempty"`
	Items      []PurchaseOrderItemResponse `json:"items"`
}

type BatchResponse struct {
	ID              uint    `json:"id"`
	ProductID       uint    `json:"product_id"`
	InitialQuantity float64 `json:"initial_quantity"`
	Remaining       float64 `json:"remaining"`
	UnitCost        float64 `json:"unit_cost"`
	ExpiryDate      *string `json:"expiry_date,omitempty"`
	ReceivedAt      string  `json:"received_at"`
}

func toPurchaseOrderResponse(po *models.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:        po.ID,
		StoreID:   po.StoreID,
		Supplier:  po.Supplier,
		Status:    string(po.Status),
		OrderedAt: po.OrderedAt.Format(time.RFC3339),
		Note:      po.Note,
		Items:     make([]PurchaseOrderItemResponse, 0, len(po.Items)),
	}
	if po.ReceivedAt != nil {
		t := po.ReceivedAt.Format(time.RFC3339)
		resp.ReceivedAt = &t
	}
	for _, it := range po.Items {
		item := PurchaseOrderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
		}
		if it.ExpiryDate != nil {
			d := it.ExpiryDate.Format("2006-01-02")
			item.ExpiryDate = &d
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

// POST /api/purchase-orders
func CreatePurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir ürün satırı gerekli")
		}

		storeID, err := auth.ResolveStoreIDFromBody(c, body.StoreID)
		if err != nil {
			return err
		}

		items := make([]models.PurchaseOrderItem, 0, len(body.Items))
		for _, it := range body.Items {
			if it.ProductID == 0 || it.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Miktar 0'dan büyük olmalı")
			}
			if it.UnitCost < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Birim maliyet negatif olamaz")
			}

			var product models.Product
			if err := database.DB.First(&product, "id = ? AND store_id = ?", it.ProductID, storeID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Ürün bulunamadı (ID: %d)", it.ProductID))
			}

			item := models.PurchaseOrderItem{
				ProductID: product.ID,
				Quantity:  it.Quantity,
				UnitCost:  models.Round2(it.UnitCost),
			}
			if it.ExpiryDate != nil && *it.ExpiryDate != "" {
				d, err := time.Parse("2006-01-02", *it.ExpiryDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
				}
				item.ExpiryDate = &d
			}
			items = append(items, item)
		}

		po := models.PurchaseOrder{
			StoreID:   storeID,
			Supplier:  strings.TrimSpace(body.Supplier),
			Status:    models.PurchaseOrderOrdered,
			OrderedAt: time.Now(),
			Note:      strings.TrimSpace(body.Note),
			Items:     items,
		}

		if err := database.DB.Create(&po).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(toPurchaseOrderResponse(&po))
	}
}

// GET /api/purchase-orders?status=...
func ListPurchaseOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.PurchaseOrder{}).Where("store_id = ?", storeID)
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var pos []models.PurchaseOrder
		if err := dbq.Preload("Items").Order("ordered_at desc, id desc").Find(&pos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]PurchaseOrderResponse, 0, len(pos))
		for i := range pos {
			resp = append(resp, toPurchaseOrderResponse(&pos[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/purchase-orders/:id/receive
func ReceivePurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}
		userID, _ := auth.UserIDFromCtx(c)

		po, batches, err := ReceivePurchaseOrder(database.DB, uint(id), storeID, &userID)
		if err != nil {
			return err
		}

		batchResp := make([]BatchResponse, 0, len(batches))
		for _, b := range batches {
			br := BatchResponse{
				ID:              b.ID,
				ProductID:       b.ProductID,
				InitialQuantity: b.InitialQuantity,
				Remaining:       b.Remaining,
				UnitCost:        b.UnitCost,
				ReceivedAt:      b.ReceivedAt.Format(time.RFC3339),
			}
			if b.ExpiryDate != nil {
				d := b.ExpiryDate.Format("2006-01-02")
				br.ExpiryDate = &d
			}
			batchResp = append(batchResp, br)
		}

		var full models.PurchaseOrder
		if err := database.DB.Preload("Items").First(&full, "id = ?", po.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
		}

		return c.JSON(fiber.Map{
			"purchase_order": toPurchaseOrderResponse(&full),
			"batches":        batchResp,
		})
	}
}
