package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
	// OrderRefunded is reachable only through an administrative status
	// override; no lifecycle operation transitions into it.
	OrderRefunded OrderStatus = "refunded"
)

// validNext encodes the lifecycle transitions. All non-pending states are
// terminal with respect to complete/cancel/update.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:   {OrderCompleted: true, OrderCancelled: true},
	OrderCompleted: {},
	OrderCancelled: {},
	OrderRefunded:  {},
}

// CanTransition reports whether a lifecycle operation may move from → to.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Order is a sale: monetary totals frozen at creation time plus its line
// items. Once status leaves pending the totals and item list are immutable.
type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	OrderNumber    string      `gorm:"size:40;uniqueIndex;not null" json:"order_number"`
	CustomerID     *uint       `gorm:"index" json:"customer_id,omitempty"`
	Customer       *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	UserID         uint        `gorm:"index;not null" json:"user_id"`
	Subtotal       float64     `gorm:"not null" json:"subtotal"`
	TaxAmount      float64     `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount float64     `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount    float64     `gorm:"not null" json:"total_amount"`
	PaymentMethod  string      `gorm:"size:50" json:"payment_method,omitempty"`
	Status         OrderStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	Notes          string      `gorm:"type:text" json:"notes,omitempty"`
	Items          []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	CreatedAt      time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderItem is one product/quantity/price line within an order. UnitPrice is
// a snapshot taken at order time and does not follow later catalogue changes.
type OrderItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	OrderID    uint     `gorm:"index;not null" json:"order_id"`
	ProductID  uint     `gorm:"index;not null" json:"product_id"`
	Product    *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity   int      `gorm:"not null" json:"quantity"`
	UnitPrice  float64  `gorm:"not null" json:"unit_price"`
	TotalPrice float64  `gorm:"not null" json:"total_price"`
}
