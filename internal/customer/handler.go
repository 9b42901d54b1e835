package customer

import (
	"strings"

	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCustomerRequest struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	CreditLimit *float64 `json:"credit_limit"` // nil = limitsiz
	StoreID     *uint    `json:"store_id"`     // admin için
}

type CustomerResponse struct {
	ID            uint     `json:"id"`
	StoreID       uint     `json:"store_id"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone,omitempty"`
	TotalDebt     float64  `json:"total_debt"`
	CreditLimit   *float64 `json:"credit_limit"`
	PointsBalance int64    `json:"points_balance"`
}

func toCustomerResponse(cu *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            cu.ID,
		StoreID:       cu.StoreID,
		Name:          cu.Name,
		Phone:         cu.Phone,
		TotalDebt:     cu.TotalDebt,
		CreditLimit:   cu.CreditLimit,
		PointsBalance: cu.PointsBalance,
	}
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim boş olamaz")
		}
		if body.CreditLimit != nil && *body.CreditLimit < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Kredi limiti negatif olamaz")
		}

		storeID, err := auth.ResolveStoreIDFromBody(c, body.StoreID)
		if err != nil {
			return err
		}

		cu := models.Customer{
			StoreID:     storeID,
			Name:        body.Name,
			Phone:       strings.TrimSpace(body.Phone),
			CreditLimit: body.CreditLimit,
		}

		if err := database.DB.Create(&cu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(&cu))
	}
}

// GET /api/customers
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var customers []models.Customer
		if err := database.DB.Where("store_id = ?", storeID).
			Order("name asc").
			Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			resp = append(resp, toCustomerResponse(&customers[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var cu models.Customer
		if err := database.DB.First(&cu, "id = ? AND store_id = ?", id, storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		return c.JSON(toCustomerResponse(&cu))
	}
}
