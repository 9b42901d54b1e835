package auth

import (
	"fmt"

	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Mağaza bağlamı her çağrıda açıkça çözülür: kasiyer token'ındaki mağazaya
// bağlıdır, admin her istekte mağazayı kendisi belirtmek zorundadır.
// Örtük "ilk mağazayı seç" davranışı yoktur.

// body'den gelen store_id + role
func ResolveStoreIDFromBody(c *fiber.Ctx, bodyStoreID *uint) (uint, error) {
	roleVal := c.Locals(CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleCashier {
		sVal := c.Locals(CtxStoreIDKey)
		sPtr, ok := sVal.(*uint)
		if !ok || sPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Mağaza bilgisi bulunamadı")
		}
		return *sPtr, nil
	}

	// admin
	if bodyStoreID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id zorunlu")
	}
	return *bodyStoreID, nil
}

// query'den gelen store_id + role
func ResolveStoreIDFromQuery(c *fiber.Ctx) (uint, error) {
	roleVal := c.Locals(CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleCashier {
		sVal := c.Locals(CtxStoreIDKey)
		sPtr, ok := sVal.(*uint)
		if !ok || sPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Mağaza bilgisi bulunamadı")
		}
		return *sPtr, nil
	}

	// admin
	sidStr := c.Query("store_id")
	if sidStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id zorunlu")
	}
	var sid uint
	if _, err := fmt.Sscan(sidStr, &sid); err != nil || sid == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id geçersiz")
	}
	return sid, nil
}

// UserIDFromCtx: middleware'in koyduğu kullanıcı kimliği.
func UserIDFromCtx(c *fiber.Ctx) (uint, error) {
	userIDVal := c.Locals(CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}
	return userID, nil
}
