package admin

import (
	"strings"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateStoreRequest struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Phone          string   `json:"phone"`
	PointValue     *float64 `json:"point_value"`      // 1 puanın TL karşılığı (varsayılan 1)
	PointsEarnRate *float64 `json:"points_earn_rate"` // ödenen tutar başına puan (varsayılan 0.01)
}

type UpdateStoreRequest struct {
	Name           *string  `json:"name"`
	Address        *string  `json:"address"`
	Phone          *string  `json:"phone"`
	PointValue     *float64 `json:"point_value"`
	PointsEarnRate *float64 `json:"points_earn_rate"`
}

type StoreResponse struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	PointValue     float64 `json:"point_value"`
	PointsEarnRate float64 `json:"points_earn_rate"`
}

func toStoreResponse(s *models.Store) StoreResponse {
	return StoreResponse{
		ID:             s.ID,
		Name:           s.Name,
		Address:        s.Address,
		Phone:          s.Phone,
		PointValue:     s.PointValue,
		PointsEarnRate: s.PointsEarnRate,
	}
}

// POST /api/admin/stores
func CreateStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Mağaza adı boş olamaz")
		}

		store := models.Store{
			Name:           body.Name,
			Address:        strings.TrimSpace(body.Address),
			Phone:          strings.TrimSpace(body.Phone),
			PointValue:     1,
			PointsEarnRate: 0.01,
		}
		if body.PointValue != nil {
			if *body.PointValue <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Puan değeri 0'dan büyük olmalı")
			}
			store.PointValue = *body.PointValue
		}
		if body.PointsEarnRate != nil {
			if *body.PointsEarnRate < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Puan kazanma oranı negatif olamaz")
			}
			store.PointsEarnRate = *body.PointsEarnRate
		}

		if err := database.DB.Create(&store).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Bu isimde bir mağaza zaten var")
		}

		return c.Status(fiber.StatusCreated).JSON(toStoreResponse(&store))
	}
}

// GET /api/admin/stores
func ListStoresHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var stores []models.Store
		if err := database.DB.Order("name asc").Find(&stores).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mağazalar listelenemedi")
		}

		resp := make([]StoreResponse, 0, len(stores))
		for i := range stores {
			resp = append(resp, toStoreResponse(&stores[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/stores/:id
func GetStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var store models.Store
		if err := database.DB.First(&store, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mağaza bulunamadı")
		}

		return c.JSON(toStoreResponse(&store))
	}
}

// PUT /api/admin/stores/:id
func UpdateStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var store models.Store
		if err := database.DB.First(&store, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mağaza bulunamadı")
		}

		var body UpdateStoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Mağaza adı boş olamaz")
			}
			store.Name = name
		}
		if body.Address != nil {
			store.Address = strings.TrimSpace(*body.Address)
		}
		if body.Phone != nil {
			store.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.PointValue != nil {
			if *body.PointValue <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Puan değeri 0'dan büyük olmalı")
			}
			store.PointValue = *body.PointValue
		}
		if body.PointsEarnRate != nil {
			if *body.PointsEarnRate < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Puan kazanma oranı negatif olamaz")
			}
			store.PointsEarnRate = *body.PointsEarnRate
		}

		if err := database.DB.Save(&store).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mağaza güncellenemedi")
		}

		return c.JSON(toStoreResponse(&store))
	}
}
