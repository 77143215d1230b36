// Package seeders fills a fresh database with a usable starting state: an
// admin account and a small demo catalogue. Seeding is idempotent; existing
// rows are left alone.
package seeders

import (
	"errors"

	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/pkg/auth"
	"github.com/tillworks/tillpoint/pkg/logger"
	"gorm.io/gorm"
)

// Run executes all seeders in order.
func Run(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCatalogue(db)
}

func seedAdmin(db *gorm.DB) error {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("admin123!")
	if err != nil {
		return err
	}

	admin := models.User{
		Username:       "admin",
		Email:          "admin@tillpoint.local",
		HashedPassword: hash,
		FullName:       "Administrator",
		IsActive:       true,
		IsAdmin:        true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("seeded admin user", "username", admin.Username)
	return nil
}

func seedCatalogue(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	beverages := models.Category{Name: "Beverages", Description: "Hot and cold drinks"}
	snacks := models.Category{Name: "Snacks", Description: "Packaged snacks"}
	for _, c := range []*models.Category{&beverages, &snacks} {
		if err := db.Create(c).Error; err != nil {
			return err
		}
	}

	str := func(s string) *string { return &s }
	products := []models.Product{
		{
			Name:          "Espresso",
			Description:   "Double shot",
			Price:         3.50,
			Cost:          0.80,
			SKU:           str("BEV-ESP-001"),
			Barcode:       str("1000000000017"),
			StockQuantity: 500,
			MinStockLevel: 50,
			IsActive:      true,
			CategoryID:    &beverages.ID,
		},
		{
			Name:          "Sparkling Water 500ml",
			Price:         2.00,
			Cost:          0.60,
			SKU:           str("BEV-SPW-001"),
			Barcode:       str("1000000000024"),
			StockQuantity: 200,
			MinStockLevel: 20,
			IsActive:      true,
			CategoryID:    &beverages.ID,
		},
		{
			Name:          "Salted Pretzels",
			Price:         1.75,
			Cost:          0.45,
			SKU:           str("SNK-PRZ-001"),
			Barcode:       str("1000000000031"),
			StockQuantity: 120,
			MinStockLevel: 15,
			IsActive:      true,
			CategoryID:    &snacks.ID,
		},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	logger.Info("seeded demo catalogue", "categories", 2, "products", len(products))
	return nil
}
