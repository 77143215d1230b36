package controllers

import (
	"net/http"

	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/app/repositories"
	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/bind"
	"github.com/tillworks/tillpoint/pkg/response"
)

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"nullable,max=1000"`
}

type categoryUpdateRequest struct {
	Name        *string `json:"name" validate:"nullable,min=1,max=100"`
	Description *string `json:"description" validate:"nullable,max=1000"`
}

// CategoryController exposes CRUD for product categories.
type CategoryController struct {
	categories *repositories.CategoryRepository
}

func NewCategoryController(categories *repositories.CategoryRepository) *CategoryController {
	return &CategoryController{categories: categories}
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !bind.Body(w, r, &req) {
		return
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := c.categories.Create(&category); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Category", req.Name))
		return
	}
	response.Created(w, category)
}

func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	categories, err := c.categories.All(skip, limit)
	if err != nil {
		response.WriteError(w, r, apperr.Internal(err))
		return
	}
	response.Success(w, categories)
}

func (c *CategoryController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid category ID"))
		return
	}

	category, err := c.categories.FindByID(id)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Category", id))
		return
	}
	response.Success(w, category)
}

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid category ID"))
		return
	}

	var req categoryUpdateRequest
	if !bind.Body(w, r, &req) {
		return
	}

	category, err := c.categories.FindByID(id)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Category", id))
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := c.categories.Save(&category); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Category", id))
		return
	}
	response.Success(w, category)
}

// Delete removes a category that no product references.
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid category ID"))
		return
	}

	if _, err := c.categories.FindByID(id); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Category", id))
		return
	}

	count, err := c.categories.ProductCount(id)
	if err != nil {
		response.WriteError(w, r, apperr.Internal(err))
		return
	}
	if count > 0 {
		response.WriteError(w, r, apperr.Validation("Cannot delete category with existing products"))
		return
	}

	if err := c.categories.Delete(id); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Category", id))
		return
	}
	response.Message(w, "Category deleted successfully", nil)
}
