package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/internal/testdb"
	"github.com/tillworks/tillpoint/pkg/apperr"
	"gorm.io/gorm"
)

func newTestOrderService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)

	svc := NewOrderService(db, OrderConfig{TaxRate: 0.08})
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 14, 30, 5, 0, time.UTC)
	}

	// deterministic but unique per order, since order numbers carry a
	// unique index
	n := 33
	svc.token = func() string {
		n++
		return fmt.Sprintf("AB12CD%02d", n)
	}
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		Username:       "cashier",
		Email:          "cashier@example.com",
		HashedPassword: "x",
		IsActive:       true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return product.StockQuantity
}

func TestCreateOrderTotals(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	productA := seedProduct(t, db, "Widget", 10.00, 10)
	productB := seedProduct(t, db, "Gadget", 5.00, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:         user.ID,
		DiscountAmount: 1.00,
		Items: []OrderItemInput{
			{ProductID: productA.ID, Quantity: 2},
			{ProductID: productB.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 25.00, order.Subtotal)
	assert.Equal(t, 2.00, order.TaxAmount)
	assert.Equal(t, 1.00, order.DiscountAmount)
	assert.Equal(t, 26.00, order.TotalAmount)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "ORD-20260315143005-AB12CD34", order.OrderNumber)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 10.00, order.Items[0].UnitPrice)
	assert.Equal(t, 20.00, order.Items[0].TotalPrice)
	assert.Equal(t, 5.00, order.Items[1].TotalPrice)

	assert.Equal(t, 8, stockOf(t, db, productA.ID))
	assert.Equal(t, 9, stockOf(t, db, productB.ID))
}

func TestCreateOrderInactiveProduct(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Retired", 5.00, 10)
	require.NoError(t, db.Model(&product).Update("is_active", false).Error)

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
	assert.Equal(t, 10, stockOf(t, db, product.ID))
}

func TestCreateOrderUnitPriceOverrideAndFallback(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 10.00, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 1, UnitPrice: 7.50}, // explicit price
			{ProductID: product.ID, Quantity: 1},                  // catalogue price
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 7.50, order.Items[0].UnitPrice)
	assert.Equal(t, 10.00, order.Items[1].UnitPrice)
	assert.Equal(t, 17.50, order.Subtotal)
}

func TestCreateOrderTaxRounding(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 0.99, 100)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	// 2.97 * 0.08 = 0.2376 → 0.24
	assert.Equal(t, 2.97, order.Subtotal)
	assert.Equal(t, 0.24, order.TaxAmount)
	assert.Equal(t, 3.21, order.TotalAmount)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)

	_, err := svc.CreateOrder(CreateOrderInput{UserID: user.ID})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateOrderZeroQuantity(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 5.00, 10)

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateOrderNegativeTotal(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 1.00, 10)

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID:         user.ID,
		DiscountAmount: 50.00,
		Items:          []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 10, stockOf(t, db, product.ID))
}

func TestCreateOrderMissingProduct(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: 999, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}

func TestCreateOrderMissingCustomer(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 5.00, 10)
	missing := uint(999)

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID:     user.ID,
		CustomerID: &missing,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	cheap := seedProduct(t, db, "Cheap", 1.00, 100)
	scarce := seedProduct(t, db, "Scarce", 5.00, 2)

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items: []OrderItemInput{
			{ProductID: cheap.ID, Quantity: 10},
			{ProductID: scarce.ID, Quantity: 3},
		},
	})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Scarce")
	assert.Contains(t, err.Error(), "Available: 2")
	assert.Contains(t, err.Error(), "Requested: 3")

	// The whole transaction rolled back: no order, no stock movement.
	assert.Equal(t, 100, stockOf(t, db, cheap.ID))
	assert.Equal(t, 2, stockOf(t, db, scarce.ID))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderLosesStockRaceToConcurrentSale(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "LastUnit", 5.00, 1)

	// Simulate a competing sale taking the unit after validation has read
	// the stock level but before the decrement runs: the order-number token
	// source is invoked between those two points, so a side effect there
	// lands exactly inside the window.
	base := svc.token
	svc.token = func() string {
		require.NoError(t, db.Model(&models.Product{}).
			Where("id = ?", product.ID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", 1)).Error)
		return base()
	}

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Available: 0, Requested: 1")

	// The losing request rolled back completely: stock reflects only the
	// winning sale and never goes negative.
	assert.Equal(t, 0, stockOf(t, db, product.ID))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 5.00, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, stockOf(t, db, product.ID))

	cancelled, err := svc.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Equal(t, 10, stockOf(t, db, product.ID))
}

func TestCancelOrderSkipsDeletedProducts(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	kept := seedProduct(t, db, "Kept", 5.00, 10)
	doomed := seedProduct(t, db, "Doomed", 5.00, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items: []OrderItemInput{
			{ProductID: kept.ID, Quantity: 2},
			{ProductID: doomed.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.NoError(t, db.Unscoped().Delete(&models.Product{}, doomed.ID).Error)

	cancelled, err := svc.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Equal(t, 10, stockOf(t, db, kept.ID))
}

func TestCompleteOrder(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 5.00, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	completed, err := svc.CompleteOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, completed.Status)

	// Completion does not touch stock; it was taken at creation.
	assert.Equal(t, 9, stockOf(t, db, product.ID))
}

func TestLifecycleOperationsRequirePending(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 5.00, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = svc.CompleteOrder(order.ID)
	require.NoError(t, err)

	_, err = svc.CompleteOrder(order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "Cannot complete order with status: completed")

	_, err = svc.CancelOrder(order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = svc.UpdateOrder(order.ID, UpdateOrderInput{})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	// Cancelling a completed order must not hand back stock.
	assert.Equal(t, 8, stockOf(t, db, product.ID))
}

func TestUpdateOrderDiscountRecomputesTotal(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 12.50, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 27.00, order.TotalAmount)

	discount := 5.00
	updated, err := svc.UpdateOrder(order.ID, UpdateOrderInput{DiscountAmount: &discount})
	require.NoError(t, err)
	assert.Equal(t, 25.00, updated.Subtotal)
	assert.Equal(t, 2.00, updated.TaxAmount)
	assert.Equal(t, 22.00, updated.TotalAmount)
}

func TestUpdateOrderRejectsNegativeTotal(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 1.00, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	discount := 100.00
	_, err = svc.UpdateOrder(order.ID, UpdateOrderInput{DiscountAmount: &discount})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateOrderStatusOverride(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 5.00, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	status := "refunded"
	updated, err := svc.UpdateOrder(order.ID, UpdateOrderInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.OrderRefunded, updated.Status)

	second, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	bogus := "mislaid"
	_, err = svc.UpdateOrder(second.ID, UpdateOrderInput{Status: &bogus})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateOrderMissingCustomer(t *testing.T) {
	svc, db := newTestOrderService(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 5.00, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	missing := uint(999)
	_, err = svc.UpdateOrder(order.ID, UpdateOrderInput{CustomerID: &missing})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}

func TestOrderNumberFormat(t *testing.T) {
	svc, _ := newTestOrderService(t)
	assert.Equal(t, "ORD-20260315143005-AB12CD34", svc.nextOrderNumber())
}
