package ledger

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"
	"pos-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test app'i: JWT middleware yerine locals'ı doğrudan dolduran stub kullanılır.
func newTestApp(t *testing.T, role models.UserRole, storeID *uint, userID uint) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, userID)
		c.Locals(auth.CtxUserRoleKey, role)
		c.Locals(auth.CtxStoreIDKey, storeID)
		return c.Next()
	})
	app.Post("/stock/adjust", AdjustStockHandler())
	return app
}

func TestAdjustStockHandlerFlipsWasteSign(t *testing.T) {
	db := testutil.NewDB(t)
	database.DB = db

	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Domates", 10, 9)
	user := models.User{StoreID: &store.ID, Name: "Kasiyer", Email: "kasiyer@pos.local", PasswordHash: "x", Role: models.RoleCashier}
	require.NoError(t, db.Create(&user).Error)

	app := newTestApp(t, models.RoleCashier, &store.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"product_id": product.ID,
		"quantity":   4, // pozitif gönderilir, sunucu işareti çevirir
		"kind":       "waste",
		"reason":     "Bozulma",
	})
	req := httptest.NewRequest("POST", "/stock/adjust", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out AdjustStockResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, -4.0, out.Quantity)
	assert.Equal(t, "waste", out.Kind)
	assert.Equal(t, 5.0, out.Stock)

	var movement models.StockMovement
	require.NoError(t, db.First(&movement, "product_id = ?", product.ID).Error)
	assert.Equal(t, -4.0, movement.Quantity)
	assert.Equal(t, models.MovementWaste, movement.Kind)
}

func TestAdjustStockHandlerRequiresWasteReason(t *testing.T) {
	db := testutil.NewDB(t)
	database.DB = db

	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Domates", 10, 9)
	user := models.User{StoreID: &store.ID, Name: "Kasiyer", Email: "kasiyer2@pos.local", PasswordHash: "x", Role: models.RoleCashier}
	require.NoError(t, db.Create(&user).Error)

	app := newTestApp(t, models.RoleCashier, &store.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"product_id": product.ID,
		"quantity":   4,
		"kind":       "waste",
	})
	req := httptest.NewRequest("POST", "/stock/adjust", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 9.0, fresh.Stock)
}

func TestAdjustStockHandlerRejectsUnknownKind(t *testing.T) {
	db := testutil.NewDB(t)
	database.DB = db

	store := testutil.SeedStore(t, db, "Merkez")
	product := testutil.SeedProduct(t, db, store.ID, "Domates", 10, 9)
	user := models.User{StoreID: &store.ID, Name: "Kasiyer", Email: "kasiyer3@pos.local", PasswordHash: "x", Role: models.RoleCashier}
	require.NoError(t, db.Create(&user).Error)

	app := newTestApp(t, models.RoleCashier, &store.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"product_id": product.ID,
		"quantity":   -1,
		"kind":       "sale", // satış hareketi sadece sipariş akışından yazılabilir
	})
	req := httptest.NewRequest("POST", "/stock/adjust", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
