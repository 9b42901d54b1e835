package sales

import (
	"fmt"
	"time"

	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateOrderRequest struct {
	Items          []OrderItemInput `json:"items"`
	Payments       []PaymentInput   `json:"payments"`
	Total          float64          `json:"total"`
	DiscountType   string           `json:"discount_type"`   // "percentage" / "fixed" / "tax_exempt"
	DiscountAmount float64          `json:"discount_amount"`
	AmountTendered float64          `json:"amount_tendered"` // nakit için verilen tutar
	CustomerID     *uint            `json:"customer_id"`
	ShiftID        *uint            `json:"shift_id"`
	StoreID        *uint            `json:"store_id"` // admin için
}

type HoldOrderRequest struct {
	Items          []OrderItemInput `json:"items"`
	Total          float64          `json:"total"`
	DiscountType   string           `json:"discount_type"`
	DiscountAmount float64          `json:"discount_amount"`
	CustomerID     *uint            `json:"customer_id"`
	StoreID        *uint            `json:"store_id"` // admin için
}

type OrderItemResponse struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	UnitCost  float64 `json:"unit_cost"`
}

type PaymentResponse struct {
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference,omitempty"`
}

type OrderResponse struct {
	ID             uint                `json:"id"`
	StoreID        uint                `json:"store_id"`
	ReceiptNumber  *uint               `json:"receipt_number"`
	Status         string              `json:"status"`
	Total          float64             `json:"total"`
	DiscountType   string              `json:"discount_type,omitempty"`
	DiscountAmount float64             `json:"discount_amount"`
	PaymentMethod  string              `json:"payment_method,omitempty"`
	AmountPaid     float64             `json:"amount_paid"`
	AmountTendered float64             `json:"amount_tendered"`
	CustomerID     *uint               `json:"customer_id,omitempty"`
	ShiftID        *uint               `json:"shift_id,omitempty"`
	ParkedAt       *string             `json:"parked_at,omitempty"`
	CreatedAt      string              `json:"created_at"`
	Items          []OrderItemResponse `json:"items"`
	Payments       []PaymentResponse   `json:"payments"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:             o.ID,
		StoreID:        o.StoreID,
		ReceiptNumber:  o.ReceiptNumber,
		Status:         string(o.Status),
		Total:          o.Total,
		DiscountType:   o.DiscountType,
		DiscountAmount: o.DiscountAmount,
		PaymentMethod:  string(o.PaymentMethod),
		AmountPaid:     o.AmountPaid,
		AmountTendered: o.AmountTendered,
		CustomerID:     o.CustomerID,
		ShiftID:        o.ShiftID,
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
		Items:          make([]OrderItemResponse, 0, len(o.Items)),
		Payments:       make([]PaymentResponse, 0, len(o.Payments)),
	}
	if o.ParkedAt != nil {
		s := o.ParkedAt.Format(time.RFC3339)
		resp.ParkedAt = &s
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			UnitCost:  it.UnitCost,
		})
	}
	for _, p := range o.Payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			Method:    string(p.Method),
			Amount:    p.Amount,
			Reference: p.Reference,
		})
	}
	return resp
}

// -------------------------
// Handlers
// -------------------------

// POST /api/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		storeID, err := auth.ResolveStoreIDFromBody(c, body.StoreID)
		if err != nil {
			return err
		}
		userID, _ := auth.UserIDFromCtx(c)

		order, err := SettleOrder(database.DB, CreateOrderInput{
			StoreID:        storeID,
			Items:          body.Items,
			Payments:       body.Payments,
			Total:          body.Total,
			DiscountType:   body.DiscountType,
			DiscountAmount: body.DiscountAmount,
			AmountTendered: body.AmountTendered,
			CustomerID:     body.CustomerID,
			ShiftID:        body.ShiftID,
			UserID:         &userID,
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
	}
}

// POST /api/orders/hold
func HoldOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body HoldOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		storeID, err := auth.ResolveStoreIDFromBody(c, body.StoreID)
		if err != nil {
			return err
		}
		userID, _ := auth.UserIDFromCtx(c)

		order, err := HoldOrder(database.DB, HoldOrderInput{
			StoreID:        storeID,
			Items:          body.Items,
			Total:          body.Total,
			DiscountType:   body.DiscountType,
			DiscountAmount: body.DiscountAmount,
			CustomerID:     body.CustomerID,
			UserID:         &userID,
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
	}
}

// POST /api/orders/:id/restore — beklemedeki siparişi söküp satırlarını döner
func RestoreHeldOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		items, order, err := RestoreHeldOrder(database.DB, uint(id), storeID)
		if err != nil {
			return err
		}

		lines := make([]OrderItemResponse, 0, len(items))
		for _, it := range items {
			lines = append(lines, OrderItemResponse{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				UnitCost:  it.UnitCost,
			})
		}

		return c.JSON(fiber.Map{
			"customer_id":     order.CustomerID,
			"discount_type":   order.DiscountType,
			"discount_amount": order.DiscountAmount,
			"items":           lines,
		})
	}
}

// DELETE /api/orders/:id/hold
func CancelHeldOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		if err := CancelHeldOrder(database.DB, uint(id), storeID); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/orders/:id/refund
func RefundOrderHandler() fiber.Handler {
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

		order, err := RefundOrder(database.DB, uint(id), storeID, &userID)
		if err != nil {
			return err
		}

		// Audit log
		var user models.User
		if dbErr := database.DB.First(&user, "id = ?", userID).Error; dbErr == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				StoreID:     &storeID,
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Sipariş iade edildi: %.2f TL", order.Total),
				After:       map[string]interface{}{"status": order.Status},
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.JSON(toOrderResponse(order))
	}
}

// GET /api/orders?status=...&shift_id=...
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Order{}).Where("store_id = ?", storeID)

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if shiftStr := c.Query("shift_id"); shiftStr != "" {
			var sid uint
			if _, err := fmt.Sscan(shiftStr, &sid); err != nil || sid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "shift_id geçersiz")
			}
			dbq = dbq.Where("shift_id = ?", sid)
		}

		var orders []models.Order
		if err := dbq.Preload("Items").Preload("Payments").
			Order("created_at desc, id desc").
			Limit(200).
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.Preload("Items").Preload("Payments").
			First(&order, "id = ? AND store_id = ?", id, storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(toOrderResponse(&order))
	}
}
