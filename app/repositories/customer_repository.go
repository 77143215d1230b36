package repositories

import (
	"github.com/tillworks/tillpoint/app/models"
	"gorm.io/gorm"
)

// CustomerRepository handles database operations for Customer.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

func (r *CustomerRepository) FindByID(id uint) (models.Customer, error) {
	var customer models.Customer
	err := r.db.First(&customer, id).Error
	return customer, err
}

// List returns customers, optionally filtered by a substring over
// name/email/phone.
func (r *CustomerRepository) List(search string, skip, limit int) ([]models.Customer, error) {
	q := r.db.Model(&models.Customer{})

	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}

	var customers []models.Customer
	err := q.Offset(skip).Limit(limit).Find(&customers).Error
	return customers, err
}

// EmailTaken reports whether another customer already uses the email.
func (r *CustomerRepository) EmailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *CustomerRepository) Save(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// OrderCount returns how many orders reference the customer. Deletion is
// refused while this is non-zero.
func (r *CustomerRepository) OrderCount(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("customer_id = ?", id).Count(&count).Error
	return count, err
}

func (r *CustomerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Customer{}, id).Error
}
