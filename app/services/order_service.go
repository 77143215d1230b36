package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/metrics"
	"gorm.io/gorm"
)

// OrderItemInput is one requested line of a new order. A zero or negative
// UnitPrice means "charge the current catalogue price".
type OrderItemInput struct {
	ProductID uint
	Quantity  int
	UnitPrice float64
}

// CreateOrderInput carries everything needed to open an order.
type CreateOrderInput struct {
	CustomerID     *uint
	UserID         uint
	PaymentMethod  string
	DiscountAmount float64
	Notes          string
	Items          []OrderItemInput
}

// UpdateOrderInput patches a pending order. Nil fields are left untouched.
type UpdateOrderInput struct {
	CustomerID     *uint
	DiscountAmount *float64
	PaymentMethod  *string
	Status         *string
	Notes          *string
}

// OrderConfig holds the pricing knobs the service needs.
type OrderConfig struct {
	TaxRate float64
}

// OrderService implements the order lifecycle. All stock movement happens
// inside database transactions; a failed order leaves no trace.
type OrderService struct {
	db  *gorm.DB
	cfg OrderConfig

	// injected for deterministic order numbers in tests
	now   func() time.Time
	token func() string
}

func NewOrderService(db *gorm.DB, cfg OrderConfig) *OrderService {
	return &OrderService{
		db:    db,
		cfg:   cfg,
		now:   time.Now,
		token: func() string { return strings.ToUpper(uuid.NewString()[:8]) },
	}
}

// nextOrderNumber builds ORD-<timestamp>-<8 char token>. The token keeps two
// orders created within the same second distinct.
func (s *OrderService) nextOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", s.now().Format("20060102150405"), s.token())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateOrder validates the request, prices each line, and commits the order
// together with its stock decrements in one transaction. Stock is checked
// with a conditional update so two concurrent orders can never both take the
// last unit.
func (s *OrderService) CreateOrder(input CreateOrderInput) (models.Order, error) {
	if len(input.Items) == 0 {
		return models.Order{}, apperr.Validation("Order must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return models.Order{}, apperr.Validation("Item quantity must be greater than zero")
		}
	}

	if input.CustomerID != nil {
		var customer models.Customer
		if err := s.db.First(&customer, *input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Order{}, apperr.NotFoundIn(
					fmt.Sprintf("Customer with ID %d not found", *input.CustomerID))
			}
			return models.Order{}, apperr.Internal(err)
		}
	}

	// Resolve products and freeze unit prices before touching stock.
	products := make(map[uint]models.Product, len(input.Items))
	for _, item := range input.Items {
		if _, ok := products[item.ProductID]; ok {
			continue
		}
		var product models.Product
		if err := s.db.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Order{}, apperr.NotFoundIn(
					fmt.Sprintf("Product with ID %d not found", item.ProductID))
			}
			return models.Order{}, apperr.Internal(err)
		}
		if !product.IsActive {
			return models.Order{}, apperr.NotFoundIn(
				fmt.Sprintf("Product with ID %d is not active", item.ProductID))
		}
		products[item.ProductID] = product
	}

	// Fail-fast stock check. The conditional decrement inside the transaction
	// is the authoritative guard against concurrent orders; this just rejects
	// obviously-doomed requests before any work is done.
	for _, item := range input.Items {
		if product := products[item.ProductID]; product.StockQuantity < item.Quantity {
			metrics.StockRejections.Inc()
			return models.Order{}, apperr.InsufficientStock(
				product.Name, product.StockQuantity, item.Quantity)
		}
	}

	var subtotal float64
	lines := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		unitPrice := item.UnitPrice
		if unitPrice <= 0 {
			unitPrice = products[item.ProductID].Price
		}
		lineTotal := round2(unitPrice * float64(item.Quantity))
		subtotal += lineTotal
		lines = append(lines, models.OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: lineTotal,
		})
	}

	subtotal = round2(subtotal)
	tax := round2(subtotal * s.cfg.TaxRate)
	total := round2(subtotal + tax - input.DiscountAmount)
	if total < 0 {
		return models.Order{}, apperr.Validation("Order total cannot be negative")
	}

	order := models.Order{
		OrderNumber:    s.nextOrderNumber(),
		CustomerID:     input.CustomerID,
		UserID:         input.UserID,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: input.DiscountAmount,
		TotalAmount:    total,
		PaymentMethod:  input.PaymentMethod,
		Status:         models.OrderPending,
		Notes:          input.Notes,
		Items:          lines,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			// Decrement only succeeds when enough stock remains; losing the
			// race surfaces as zero rows affected.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", line.ProductID, line.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
			if res.Error != nil {
				return apperr.Internal(res.Error)
			}
			if res.RowsAffected == 0 {
				var current models.Product
				if err := tx.First(&current, line.ProductID).Error; err != nil {
					current = products[line.ProductID]
				}
				metrics.StockRejections.Inc()
				return apperr.InsufficientStock(current.Name, current.StockQuantity, line.Quantity)
			}
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return models.Order{}, err
		}
		return models.Order{}, apperr.FromDB(err, "Order", order.OrderNumber)
	}

	metrics.OrdersCreated.Inc()
	metrics.OrderValue.Observe(total)
	return s.reload(order.ID)
}

// UpdateOrder patches a pending order. Totals are recomputed only when the
// discount changes; item lines are immutable after creation.
func (s *OrderService) UpdateOrder(id uint, input UpdateOrderInput) (models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return models.Order{}, apperr.FromDB(err, "Order", id)
	}
	if order.Status != models.OrderPending {
		return models.Order{}, apperr.InvalidTransition("update", string(order.Status))
	}

	if input.CustomerID != nil {
		var customer models.Customer
		if err := s.db.First(&customer, *input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Order{}, apperr.NotFoundIn(
					fmt.Sprintf("Customer with ID %d not found", *input.CustomerID))
			}
			return models.Order{}, apperr.Internal(err)
		}
		order.CustomerID = input.CustomerID
	}
	if input.DiscountAmount != nil {
		order.DiscountAmount = *input.DiscountAmount
		order.TotalAmount = round2(order.Subtotal + order.TaxAmount - order.DiscountAmount)
		if order.TotalAmount < 0 {
			return models.Order{}, apperr.Validation("Order total cannot be negative")
		}
	}
	if input.PaymentMethod != nil {
		order.PaymentMethod = *input.PaymentMethod
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}
	if input.Status != nil {
		// Administrative override: the only way an order becomes refunded.
		next := models.OrderStatus(*input.Status)
		switch next {
		case models.OrderPending, models.OrderCompleted, models.OrderCancelled, models.OrderRefunded:
			order.Status = next
		default:
			return models.Order{}, apperr.Validation(fmt.Sprintf("Invalid order status: %s", next))
		}
	}

	if err := s.db.Save(&order).Error; err != nil {
		return models.Order{}, apperr.FromDB(err, "Order", id)
	}
	return s.reload(order.ID)
}

// CompleteOrder marks a pending order as paid and done.
func (s *OrderService) CompleteOrder(id uint) (models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return models.Order{}, apperr.FromDB(err, "Order", id)
	}
	if !models.CanTransition(order.Status, models.OrderCompleted) {
		return models.Order{}, apperr.InvalidTransition("complete", string(order.Status))
	}

	if err := s.db.Model(&order).Update("status", models.OrderCompleted).Error; err != nil {
		return models.Order{}, apperr.FromDB(err, "Order", id)
	}
	metrics.OrdersCompleted.Inc()
	return s.reload(order.ID)
}

// CancelOrder cancels a pending order and returns its stock. Products that
// were removed from the catalogue since the sale are skipped; their units are
// unrecoverable and that is accepted.
func (s *OrderService) CancelOrder(id uint) (models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, id).Error; err != nil {
		return models.Order{}, apperr.FromDB(err, "Order", id)
	}
	if !models.CanTransition(order.Status, models.OrderCancelled) {
		return models.Order{}, apperr.InvalidTransition("cancel", string(order.Status))
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
		}
		return tx.Model(&order).Update("status", models.OrderCancelled).Error
	})
	if err != nil {
		return models.Order{}, apperr.FromDB(err, "Order", id)
	}
	metrics.OrdersCancelled.Inc()
	return s.reload(order.ID)
}

func (s *OrderService) reload(id uint) (models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.Product").Preload("Customer").First(&order, id).Error
	if err != nil {
		return models.Order{}, apperr.FromDB(err, "Order", id)
	}
	return order, nil
}
