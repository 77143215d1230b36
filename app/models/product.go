package models

import "time"

// Product is a catalogue item. Products are never hard-deleted, since order
// history keeps referencing them; IsActive=false is the only delete path.
// StockQuantity is only ever mutated inside the order transaction or by an
// administrative edit; it is never persisted negative.
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null;index" json:"name"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	Price         float64   `gorm:"not null" json:"price"`
	Cost          float64   `gorm:"not null;default:0" json:"cost"`
	SKU           *string   `gorm:"size:100;uniqueIndex" json:"sku,omitempty"`
	Barcode       *string   `gorm:"size:100;uniqueIndex" json:"barcode,omitempty"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	MinStockLevel int       `gorm:"not null;default:0" json:"min_stock_level"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CategoryID    *uint     `gorm:"index" json:"category_id,omitempty"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
