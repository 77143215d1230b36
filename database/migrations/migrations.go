// Package migrations registers the schema migrations. Import it for its side
// effects:
//
//	import _ "github.com/tillworks/tillpoint/database/migrations"
package migrations

import (
	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260115000001_create_users_table", &createUsersTable{})
	migration.Register("20260115000002_create_customers_table", &createCustomersTable{})
	migration.Register("20260115000003_create_categories_table", &createCategoriesTable{})
	migration.Register("20260115000004_create_products_table", &createProductsTable{})
	migration.Register("20260115000005_create_orders_tables", &createOrdersTables{})
}

type createUsersTable struct{}

func (m *createUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *createUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type createCustomersTable struct{}

func (m *createCustomersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Customer{})
}

func (m *createCustomersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("customers")
}

type createCategoriesTable struct{}

func (m *createCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *createCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

type createProductsTable struct{}

func (m *createProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *createProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

type createOrdersTables struct{}

func (m *createOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *createOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}
