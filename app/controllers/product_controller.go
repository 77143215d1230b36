package controllers

import (
	"errors"
	"net/http"

	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/app/repositories"
	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/bind"
	"github.com/tillworks/tillpoint/pkg/response"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type productRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=255"`
	Description   string  `json:"description" validate:"nullable,max=2000"`
	Price         float64 `json:"price" validate:"required,gte=0"`
	Cost          float64 `json:"cost" validate:"nullable,gte=0"`
	SKU           *string `json:"sku" validate:"nullable,max=100"`
	Barcode       *string `json:"barcode" validate:"nullable,max=100"`
	StockQuantity int     `json:"stock_quantity" validate:"nullable,gte=0"`
	MinStockLevel int     `json:"min_stock_level" validate:"nullable,gte=0"`
	CategoryID    *uint   `json:"category_id"`
}

type productUpdateRequest struct {
	Name          *string  `json:"name" validate:"nullable,min=1,max=255"`
	Description   *string  `json:"description" validate:"nullable,max=2000"`
	Price         *float64 `json:"price" validate:"nullable,gte=0"`
	Cost          *float64 `json:"cost" validate:"nullable,gte=0"`
	SKU           *string  `json:"sku" validate:"nullable,max=100"`
	Barcode       *string  `json:"barcode" validate:"nullable,max=100"`
	StockQuantity *int     `json:"stock_quantity" validate:"nullable,gte=0"`
	MinStockLevel *int     `json:"min_stock_level" validate:"nullable,gte=0"`
	CategoryID    *uint    `json:"category_id"`
	IsActive      *bool    `json:"is_active"`
}

// ProductController exposes the product catalogue.
type ProductController struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
}

func NewProductController(products *repositories.ProductRepository, categories *repositories.CategoryRepository) *ProductController {
	return &ProductController{products: products, categories: categories}
}

// checkCategory verifies the referenced category exists.
func (c *ProductController) checkCategory(id uint) error {
	if _, err := c.categories.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundIn("Category not found")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !bind.Body(w, r, &req) {
		return
	}

	if req.CategoryID != nil {
		if err := c.checkCategory(*req.CategoryID); err != nil {
			response.WriteError(w, r, err)
			return
		}
	}

	product := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Cost:          req.Cost,
		SKU:           req.SKU,
		Barcode:       req.Barcode,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		CategoryID:    req.CategoryID,
		IsActive:      true,
	}
	if err := c.products.Create(&product); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Product", req.Name))
		return
	}

	created, err := c.products.FindByID(product.ID)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Product", product.ID))
		return
	}
	response.Created(w, created)
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	filter := repositories.ProductFilter{
		Skip:       skip,
		Limit:      limit,
		CategoryID: queryUint(r, "category_id"),
		Search:     r.URL.Query().Get("search"),
		ActiveOnly: queryBool(r, "active_only"),
	}

	products, err := c.products.List(filter)
	if err != nil {
		response.WriteError(w, r, apperr.Internal(err))
		return
	}
	response.Success(w, products)
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid product ID"))
		return
	}

	product, err := c.products.FindByID(id)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Product", id))
		return
	}
	response.Success(w, product)
}

// ShowByBarcode is the register's scan lookup; inactive products are treated
// as missing.
func (c *ProductController) ShowByBarcode(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	if barcode == "" {
		response.WriteError(w, r, apperr.Validation("Barcode is required"))
		return
	}

	product, err := c.products.FindActiveByBarcode(barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.WriteError(w, r, apperr.NotFound("Product", barcode))
			return
		}
		response.WriteError(w, r, apperr.Internal(err))
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid product ID"))
		return
	}

	var req productUpdateRequest
	if !bind.Body(w, r, &req) {
		return
	}

	product, err := c.products.FindByID(id)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Product", id))
		return
	}

	if req.CategoryID != nil {
		if err := c.checkCategory(*req.CategoryID); err != nil {
			response.WriteError(w, r, err)
			return
		}
		product.CategoryID = req.CategoryID
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.SKU != nil {
		product.SKU = req.SKU
	}
	if req.Barcode != nil {
		product.Barcode = req.Barcode
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.MinStockLevel != nil {
		product.MinStockLevel = *req.MinStockLevel
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := c.products.Save(&product); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Product", id))
		return
	}

	updated, err := c.products.FindByID(product.ID)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Product", product.ID))
		return
	}
	response.Success(w, updated)
}

// Delete deactivates the product. The row is kept so past orders still
// resolve their line items.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid product ID"))
		return
	}

	product, err := c.products.FindByID(id)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Product", id))
		return
	}

	if err := c.products.Deactivate(&product); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Product", id))
		return
	}
	response.Message(w, "Product deleted successfully", nil)
}
