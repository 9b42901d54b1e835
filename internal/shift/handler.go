package shift

import (
	"fmt"
	"strings"
	"time"

	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OpenShiftRequest struct {
	StartCash float64 `json:"start_cash"`
	StoreID   *uint   `json:"store_id"` // admin için
}

type CloseShiftRequest struct {
	EndCash float64 `json:"end_cash"` // sayılan kasa
	Notes   string  `json:"notes"`
	StoreID *uint   `json:"store_id"` // admin için
}

type ShiftResponse struct {
	ID           uint     `json:"id"`
	StoreID      uint     `json:"store_id"`
	CashierID    uint     `json:"cashier_id"`
	Status       string   `json:"status"`
	StartCash    float64  `json:"start_cash"`
	EndCash      *float64 `json:"end_cash,omitempty"`
	ExpectedCash *float64 `json:"expected_cash,omitempty"`
	Variance     *float64 `json:"variance,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	OpenedAt     string   `json:"opened_at"`
	ClosedAt     *string  `json:"closed_at,omitempty"`
}

func toShiftResponse(s *models.Shift) ShiftResponse {
	resp := ShiftResponse{
		ID:           s.ID,
		StoreID:      s.StoreID,
		CashierID:    s.CashierID,
		Status:       string(s.Status),
		StartCash:    s.StartCash,
		EndCash:      s.EndCash,
		ExpectedCash: s.ExpectedCash,
		Variance:     s.Variance,
		Notes:        s.Notes,
		OpenedAt:     s.OpenedAt.Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}

// POST /api/shifts/open
func OpenShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body OpenShiftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		storeID, err := auth.ResolveStoreIDFromBody(c, body.StoreID)
		if err != nil {
			return err
		}
		userID, err := auth.UserIDFromCtx(c)
		if err != nil {
			return err
		}

		shift, err := OpenShift(database.DB, storeID, userID, body.StartCash)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toShiftResponse(shift))
	}
}

// POST /api/shifts/:id/close
func CloseShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var body CloseShiftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		storeID, err := auth.ResolveStoreIDFromBody(c, body.StoreID)
		if err != nil {
			return err
		}

		shift, err := CloseShift(database.DB, uint(id), storeID, body.EndCash, strings.TrimSpace(body.Notes))
		if err != nil {
			return err
		}

		// Audit log
		userID, uErr := auth.UserIDFromCtx(c)
		if uErr == nil {
			var user models.User
			if dbErr := database.DB.First(&user, "id = ?", userID).Error; dbErr == nil {
				if logErr := audit.WriteLog(audit.LogOptions{
					StoreID:     &storeID,
					UserID:      user.ID,
					UserName:    user.Name,
					EntityType:  "shift",
					EntityID:    shift.ID,
					Action:      models.AuditActionUpdate,
					Description: fmt.Sprintf("Vardiya kapatıldı (fark: %.2f TL)", *shift.Variance),
					After: map[string]interface{}{
						"end_cash":      *shift.EndCash,
						"expected_cash": *shift.ExpectedCash,
						"variance":      *shift.Variance,
					},
				}); logErr != nil {
					fmt.Printf("Audit log yazılamadı: %v\n", logErr)
				}
			}
		}

		return c.JSON(toShiftResponse(shift))
	}
}

// GET /api/shifts/current
func CurrentShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		var shift models.Shift
		if err := database.DB.
			First(&shift, "store_id = ? AND status = ?", storeID, models.ShiftOpen).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Açık vardiya yok")
		}

		return c.JSON(toShiftResponse(&shift))
	}
}

// GET /api/shifts/:id/z-reading
func ZReadingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		storeID, err := auth.ResolveStoreIDFromQuery(c)
		if err != nil {
			return err
		}

		report, err := ZReading(database.DB, uint(id), storeID)
		if err != nil {
			return err
		}

		return c.JSON(report)
	}
}
