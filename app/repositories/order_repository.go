package repositories

import (
	"time"

	"github.com/tillworks/tillpoint/app/models"
	"gorm.io/gorm"
)

// OrderFilter narrows List results.
type OrderFilter struct {
	Skip       int
	Limit      int
	Status     models.OrderStatus // "" = any
	CustomerID uint               // 0 = any
	Start      *time.Time         // created_at >= Start
	End        *time.Time         // created_at <= End
}

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) preloaded() *gorm.DB {
	return r.db.Preload("Items.Product").Preload("Customer")
}

func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := r.preloaded().First(&order, id).Error
	return order, err
}

func (r *OrderRepository) FindByNumber(orderNumber string) (models.Order, error) {
	var order models.Order
	err := r.preloaded().Where("order_number = ?", orderNumber).First(&order).Error
	return order, err
}

// List returns orders newest first.
func (r *OrderRepository) List(filter OrderFilter) ([]models.Order, error) {
	q := r.preloaded().Model(&models.Order{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != 0 {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Start != nil {
		q = q.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("created_at <= ?", *filter.End)
	}

	var orders []models.Order
	err := q.Order("created_at DESC").Offset(filter.Skip).Limit(filter.Limit).Find(&orders).Error
	return orders, err
}
