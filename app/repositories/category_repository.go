package repositories

import (
	"github.com/tillworks/tillpoint/app/models"
	"gorm.io/gorm"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *CategoryRepository) FindByID(id uint) (models.Category, error) {
	var category models.Category
	err := r.db.First(&category, id).Error
	return category, err
}

func (r *CategoryRepository) All(skip, limit int) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Offset(skip).Limit(limit).Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Save(category *models.Category) error {
	return r.db.Save(category).Error
}

// ProductCount returns how many products reference the category. Deletion is
// refused while this is non-zero.
func (r *CategoryRepository) ProductCount(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

func (r *CategoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}
