package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/internal/testdb"
	"gorm.io/gorm"
)

func TestCustomerSearch(t *testing.T) {
	db := testdb.Open(t)
	repo := NewCustomerRepository(db)

	require.NoError(t, repo.Create(&models.Customer{Name: "Ada Lovelace", Email: str("ada@example.com"), Phone: "555-0101"}))
	require.NoError(t, repo.Create(&models.Customer{Name: "Grace Hopper", Email: str("grace@example.com"), Phone: "555-0102"}))

	byName, err := repo.List("Ada", 0, 50)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Ada Lovelace", byName[0].Name)

	byEmail, err := repo.List("grace@", 0, 50)
	require.NoError(t, err)
	require.Len(t, byEmail, 1)

	byPhone, err := repo.List("555-010", 0, 50)
	require.NoError(t, err)
	assert.Len(t, byPhone, 2)
}

func TestCustomerOrderCountGuard(t *testing.T) {
	db := testdb.Open(t)
	repo := NewCustomerRepository(db)

	customer := models.Customer{Name: "Regular"}
	require.NoError(t, repo.Create(&customer))

	count, err := repo.OrderCount(customer.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	order := models.Order{
		OrderNumber: "ORD-20260315143005-TESTTEST",
		CustomerID:  &customer.ID,
		UserID:      1,
		Subtotal:    10,
		TotalAmount: 10.80,
		TaxAmount:   0.80,
		Status:      models.OrderPending,
	}
	require.NoError(t, db.Create(&order).Error)

	count, err = repo.OrderCount(customer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCustomerDelete(t *testing.T) {
	db := testdb.Open(t)
	repo := NewCustomerRepository(db)

	customer := models.Customer{Name: "One Timer"}
	require.NoError(t, repo.Create(&customer))
	require.NoError(t, repo.Delete(customer.ID))

	_, err := repo.FindByID(customer.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCategoryProductCountGuard(t *testing.T) {
	db := testdb.Open(t)
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)

	category := models.Category{Name: "Beverages"}
	require.NoError(t, categories.Create(&category))

	count, err := categories.ProductCount(category.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, products.Create(&models.Product{
		Name: "Espresso", Price: 3.50, CategoryID: &category.ID, IsActive: true,
	}))

	count, err = categories.ProductCount(category.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
