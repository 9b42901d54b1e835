package sales

import (
	"fmt"
	"math"

	"pos-backend/internal/database"
	"pos-backend/internal/ledger"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type CreateOrderInput struct {
	StoreID        uint
	Items          []OrderItemInput
	Payments       []PaymentInput
	Total          float64
	DiscountType   string
	DiscountAmount float64
	AmountTendered float64
	CustomerID     *uint
	ShiftID        *uint
	UserID         *uint
}

// SettleOrder: bir sepeti tek atomik transaction içinde tamamlanmış satışa çevirir.
// Sıra: tender etkileri → fiş numarası + sipariş/satır/ödeme kayıtları → FIFO parti
// düşümü + SALE hareketleri → puan kazanımı. Herhangi bir adımda hata olursa hiçbir
// etki görünür kalmaz.
func SettleOrder(db *gorm.DB, in CreateOrderInput) (*models.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	// Transaction açmadan önceki ön kontroller. Yarış penceresini kapatan asıl
	// kontroller transaction içinde tekrarlanır.
	if err := preflight(db, in); err != nil {
		return nil, err
	}

	var order models.Order
	txErr := db.Transaction(func(tx *gorm.DB) error {
		// Mağaza satırı kilidi fiş numarası atamayı serileştirir.
		var store models.Store
		if err := database.LockForUpdate(tx).First(&store, "id = ?", in.StoreID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mağaza bulunamadı")
		}

		var customer *models.Customer
		if in.CustomerID != nil {
			var cu models.Customer
			if err := database.LockForUpdate(tx).
				First(&cu, "id = ? AND store_id = ?", *in.CustomerID, in.StoreID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
			}
			customer = &cu
		}

		// 1) Ürün dışı bakiye etkileri; ilk ihlalde tüm transaction geri döner.
		for _, p := range in.Payments {
			if err := applyTender(tx, &store, customer, p); err != nil {
				return err
			}
		}

		// 2) Satış anındaki maliyeti dondurmak için ürünler okunur.
		items := make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			var product models.Product
			if err := tx.First(&product, "id = ? AND store_id = ?", it.ProductID, in.StoreID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Ürün bulunamadı (ID: %d)", it.ProductID))
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  it.Quantity,
				UnitPrice: models.Round2(it.UnitPrice),
				UnitCost:  models.Round2(product.CostPrice),
			})
		}

		// 3) Fiş numarası + sipariş/satır/ödeme kayıtları.
		var maxNo uint
		if err := tx.Model(&models.Order{}).
			Where("store_id = ? AND receipt_number IS NOT NULL", in.StoreID).
			Select("COALESCE(MAX(receipt_number), 0)").
			Scan(&maxNo).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiş numarası üretilemedi")
		}
		receiptNo := maxNo + 1

		payments := make([]models.Payment, 0, len(in.Payments))
		amountPaid := 0.0
		for _, p := range in.Payments {
			payments = append(payments, models.Payment{
				Method:    p.Method,
				Amount:    models.Round2(p.Amount),
				Reference: p.Reference,
			})
			amountPaid = models.Round2(amountPaid + p.Amount)
		}

		methodSummary := models.PaymentSplit
		if len(in.Payments) == 1 {
			methodSummary = in.Payments[0].Method
		}

		order = models.Order{
			StoreID:        in.StoreID,
			ReceiptNumber:  &receiptNo,
			Status:         models.OrderCompleted,
			Total:          models.Round2(in.Total),
			DiscountType:   in.DiscountType,
			DiscountAmount: models.Round2(in.DiscountAmount),
			PaymentMethod:  methodSummary,
			AmountPaid:     amountPaid,
			AmountTendered: models.Round2(in.AmountTendered),
			CustomerID:     in.CustomerID,
			ShiftID:        in.ShiftID,
			UserID:         in.UserID,
			Items:          items,
			Payments:       payments,
		}

		if err := tx.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş kaydedilemedi")
		}

		// 4) FIFO parti düşümü + ürün başına tek SALE hareketi (referans: sipariş).
		for _, it := range in.Items {
			if err := ledger.DepleteFIFO(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			if _, _, err := ledger.RecordMovement(tx, it.ProductID, -it.Quantity, models.MovementSale, ledger.MovementOptions{
				ReferenceType: "order",
				ReferenceID:   &order.ID,
				UserID:        in.UserID,
			}); err != nil {
				return err
			}
		}

		// 5) Puan kazanımı: sadece tamamlanan ve müşterili satışta.
		if customer != nil {
			rate := store.PointsEarnRate
			if rate <= 0 {
				rate = 0.01
			}
			earned := int64(math.Floor(in.AmountTendered * rate))
			if earned > 0 {
				customer.PointsBalance += earned
				if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
					Update("points_balance", customer.PointsBalance).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Puan kazanımı kaydedilemedi")
				}
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	var full models.Order
	if err := db.Preload("Items").Preload("Payments").First(&full, "id = ?", order.ID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
	}
	return &full, nil
}

func validateOrderInput(in CreateOrderInput) error {
	if in.StoreID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "store_id zorunlu")
	}
	if len(in.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "En az bir ürün satırı gerekli")
	}
	if len(in.Payments) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "En az bir ödeme satırı gerekli")
	}
	for _, it := range in.Items {
		if it.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}
		if it.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar 0'dan büyük olmalı")
		}
		if it.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat negatif olamaz")
		}
	}
	for _, p := range in.Payments {
		if p.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ödeme tutarı 0'dan büyük olmalı")
		}
	}
	if in.Total < 0 || in.DiscountAmount < 0 || in.AmountTendered < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Tutarlar negatif olamaz")
	}
	return nil
}

// preflight: transaction açılmadan yapılan ucuz ön kontroller. Stok ve kredi
// limiti için nihai karar transaction içindeki kilitli okumalarda verilir.
func preflight(db *gorm.DB, in CreateOrderInput) error {
	var store models.Store
	if err := db.First(&store, "id = ?", in.StoreID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Mağaza bulunamadı")
	}

	for _, it := range in.Items {
		var product models.Product
		if err := db.First(&product, "id = ? AND store_id = ?", it.ProductID, in.StoreID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Ürün bulunamadı (ID: %d)", it.ProductID))
		}
		if product.Stock < it.Quantity {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Yetersiz stok: %s (mevcut: %.2f, istenen: %.2f)", product.Name, product.Stock, it.Quantity))
		}
	}

	hasCredit := false
	for _, p := range in.Payments {
		if p.Method == models.PaymentCredit {
			hasCredit = true
		}
	}
	if hasCredit {
		if in.CustomerID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Veresiye satış için müşteri zorunlu")
		}
		var customer models.Customer
		if err := db.First(&customer, "id = ? AND store_id = ?", *in.CustomerID, in.StoreID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}
		creditTotal := 0.0
		for _, p := range in.Payments {
			if p.Method == models.PaymentCredit {
				creditTotal = models.Round2(creditTotal + p.Amount)
			}
		}
		if customer.CreditLimit != nil && models.Round2(customer.TotalDebt+creditTotal) > *customer.CreditLimit {
			available := models.Round2(*customer.CreditLimit - customer.TotalDebt)
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Kredi limiti aşıldı (kullanılabilir: %.2f)", available))
		}
	}

	if in.ShiftID != nil {
		var shift models.Shift
		if err := db.First(&shift, "id = ? AND store_id = ?", *in.ShiftID, in.StoreID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vardiya bulunamadı")
		}
		if shift.Status != models.ShiftOpen {
			return fiber.NewError(fiber.StatusConflict, "Vardiya kapalı, satış kaydedilemez")
		}
	}

	return nil
}
