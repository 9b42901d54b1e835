package main

import (
	"log"
	"strings"

	"pos-backend/internal/admin"
	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/config"
	"pos-backend/internal/customer"
	"pos-backend/internal/database"
	"pos-backend/internal/giftcard"
	"pos-backend/internal/inventory"
	"pos-backend/internal/ledger"
	"pos-backend/internal/models"
	"pos-backend/internal/purchasing"
	"pos-backend/internal/sales"
	"pos-backend/internal/shift"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Mağaza yönetimi
	adminRoutes.Post("/stores", admin.CreateStoreHandler())
	adminRoutes.Get("/stores", admin.ListStoresHandler())
	adminRoutes.Get("/stores/:id", admin.GetStoreHandler())
	adminRoutes.Put("/stores/:id", admin.UpdateStoreHandler())
	adminRoutes.Post("/cashiers", auth.CreateCashierHandler())

	// Ürün yönetimi
	adminRoutes.Post("/products", inventory.CreateProductHandler())
	adminRoutes.Put("/products/:id", inventory.UpdateProductHandler())

	// Hediye kartı tanımlama
	adminRoutes.Post("/gift-cards", giftcard.CreateGiftCardHandler())

	// Ortak (auth gerektiren) route'lar

	// Ürünler
	protected.Get("/products", inventory.ListProductsHandler())

	// Müşteriler
	protected.Post("/customers", customer.CreateCustomerHandler())
	protected.Get("/customers", customer.ListCustomersHandler())
	protected.Get("/customers/:id", customer.GetCustomerHandler())

	// Hediye kartları
	protected.Get("/gift-cards", giftcard.ListGiftCardsHandler())
	protected.Get("/gift-cards/:code", giftcard.GetGiftCardHandler())

	// Satış / sipariş
	protected.Post("/orders", sales.CreateOrderHandler())
	protected.Get("/orders", sales.ListOrdersHandler())
	protected.Get("/orders/:id", sales.GetOrderHandler())
	protected.Post("/orders/hold", sales.HoldOrderHandler())
	protected.Post("/orders/:id/restore", sales.RestoreHeldOrderHandler())
	protected.Delete("/orders/:id/hold", sales.CancelHeldOrderHandler())
	protected.Post("/orders/:id/refund", sales.RefundOrderHandler())

	// Stok hareketleri
	protected.Post("/stock/adjust", ledger.AdjustStockHandler())
	protected.Get("/stock/movements", ledger.ListMovementsHandler())

	// Satın alma siparişleri
	protected.Post("/purchase-orders", purchasing.CreatePurchaseOrderHandler())
	protected.Get("/purchase-orders", purchasing.ListPurchaseOrdersHandler())
	protected.Post("/purchase-orders/:id/receive", purchasing.ReceivePurchaseOrderHandler())

	// Vardiyalar
	protected.Post("/shifts/open", shift.OpenShiftHandler())
	protected.Post("/shifts/:id/close", shift.CloseShiftHandler())
	protected.Get("/shifts/current", shift.CurrentShiftHandler())
	protected.Get("/shifts/:id/z-reading", shift.ZReadingHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
