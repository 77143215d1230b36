package repositories

import (
	"fmt"
	"time"

	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/pkg/cache"
	"github.com/tillworks/tillpoint/pkg/metrics"
	"gorm.io/gorm"
)

// barcodeCacheTTL bounds staleness of the register's barcode scans; every
// product mutation also invalidates the entry eagerly.
const barcodeCacheTTL = 5 * time.Minute

// ProductFilter narrows List results.
type ProductFilter struct {
	Skip       int
	Limit      int
	CategoryID uint   // 0 = any
	Search     string // substring over name/description/sku/barcode
	ActiveOnly bool
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.Preload("Category").First(&product, id).Error
	return product, err
}

// FindActiveByBarcode is the register's scan path: Redis-cached, active
// products only.
func (r *ProductRepository) FindActiveByBarcode(barcode string) (models.Product, error) {
	key := barcodeKey(barcode)

	var product models.Product
	if cache.Get(key, &product) {
		metrics.CacheHits.Inc()
		return product, nil
	}
	metrics.CacheMisses.Inc()

	err := r.db.Where("barcode = ? AND is_active = ?", barcode, true).First(&product).Error
	if err != nil {
		return product, err
	}

	cache.Set(key, product, barcodeCacheTTL) //nolint:errcheck
	return product, nil
}

func (r *ProductRepository) List(filter ProductFilter) ([]models.Product, error) {
	q := r.db.Model(&models.Product{}).Preload("Category")

	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ? OR sku LIKE ? OR barcode LIKE ?",
			like, like, like, like)
	}

	var products []models.Product
	err := q.Offset(filter.Skip).Limit(filter.Limit).Find(&products).Error
	return products, err
}

// SKUTaken reports whether another product already uses the SKU.
func (r *ProductRepository) SKUTaken(sku string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("sku = ? AND id <> ?", sku, excludeID).
		Count(&count).Error
	return count > 0, err
}

// BarcodeTaken reports whether another product already uses the barcode.
func (r *ProductRepository) BarcodeTaken(barcode string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("barcode = ? AND id <> ?", barcode, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProductRepository) Save(product *models.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		return err
	}
	r.invalidate(product)
	return nil
}

// Deactivate is the only delete path for products: order history must keep
// resolving its product references, so the row stays.
func (r *ProductRepository) Deactivate(product *models.Product) error {
	if err := r.db.Model(product).Update("is_active", false).Error; err != nil {
		return err
	}
	product.IsActive = false
	r.invalidate(product)
	return nil
}

func (r *ProductRepository) invalidate(product *models.Product) {
	if product.Barcode != nil && *product.Barcode != "" {
		cache.Del(barcodeKey(*product.Barcode)) //nolint:errcheck
	}
}

func barcodeKey(barcode string) string {
	return fmt.Sprintf("product:barcode:%s", barcode)
}
