package giftcard

import (
	"strings"
	"time"

	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateGiftCardRequest struct {
	Code           string  `json:"code"`
	InitialBalance float64 `json:"initial_balance"`
	ExpiresAt      *string `json:"expires_at"` // "2026-12-31"
	StoreID        *uint   `json:"store_id"`   // admin için
}

type GiftCardResponse struct {
	ID             uint    `json:"id"`
	StoreID        uint    `json:"store_id"`
	Code           string  `json:"code"`
	InitialBalance float64 `json:"initial_balance"`
	CurrentBalance float64 `json:"current_balance"`
	Status         string  `json:"status"`
	ExpiresAt      *string `json:"expires_at,omitempty"`
}

func toGiftCardResponse(g *models.GiftCard) GiftCardResponse {
	resp := GiftCardResponse{
		ID:             g.ID,
		StoreID:        g.StoreID,
		Code:           g.Code,
		InitialBalance: g.InitialBalance,
		CurrentBalance: g.CurrentBalance,
		Status:         string(g.Status),
	}
	if g.ExpiresAt != nil {
		d := g.ExpiresAt.Format("2006-01-02")
		resp.ExpiresAt = &d
	}
	return resp
}

// POST /api/gift-cards
func CreateGiftCardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateGiftCardRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Code = strings.ToUpper(strings.TrimSpace(body.Code))
		if body.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kod boş olamaz")
		}
		if body.InitialBalance <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Başlangıç bakiyesi 0'dan büyük olmalı")
		}

		storeID, err := auth.ResolveStoreIDFromBody(c, body.StoreID)
		if err != nil {
			return err
		}

		card := models.GiftCard{
			StoreID:        storeID,
			Code:           body.Code,
			InitialBalance: models.Round2(body.InitialBalance),
			CurrentBalance: models.Round2(body.InitialBalance),
			Status:         models.GiftCardActive,
		}
		if body.ExpiresAt != nil && *body.ExpiresAt != "" {
			d, err := time.Parse("2006-01-02", *body.ExpiresAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			card.ExpiresAt = &d
		}

		if err := database.DB.Create(&card).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Bu kodla bir hediye kartı zaten var")
		}

		return c.Status(fiber.StatusCreated).JSON(toGiftCardResponse(&card))
	}
}

// GET /api/gift-cards
func ListGiftCardsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var cards []models.GiftCard
		if err := database.DB.Where("store_id = ?", storeID).
			Order("created_at desc").
			Find(&cards).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hediye kartları listelenemedi")
		}

		resp := make([]GiftCardResponse, 0, len(cards))
		for i := range cards {
			resp = append(resp, toGiftCardResponse(&cards[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/gift-cards/:code
func GetGiftCardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
		if code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kod boş olamaz")
		}

		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var card models.GiftCard
		if err := database.DB.First(&card, "code = ? AND store_id = ?", code, storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hediye kartı bulunamadı")
		}

		return c.JSON(toGiftCardResponse(&card))
	}
}
