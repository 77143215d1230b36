package controllers

import (
	"net/http"

	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/app/repositories"
	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/bind"
	"github.com/tillworks/tillpoint/pkg/response"
)

type customerRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=255"`
	Email   *string `json:"email" validate:"nullable,email,max=255"`
	Phone   string  `json:"phone" validate:"nullable,max=50"`
	Address string  `json:"address" validate:"nullable,max=1000"`
}

type customerUpdateRequest struct {
	Name    *string `json:"name" validate:"nullable,min=1,max=255"`
	Email   *string `json:"email" validate:"nullable,email,max=255"`
	Phone   *string `json:"phone" validate:"nullable,max=50"`
	Address *string `json:"address" validate:"nullable,max=1000"`
}

// CustomerController exposes the customer directory.
type CustomerController struct {
	customers *repositories.CustomerRepository
}

func NewCustomerController(customers *repositories.CustomerRepository) *CustomerController {
	return &CustomerController{customers: customers}
}

func (c *CustomerController) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !bind.Body(w, r, &req) {
		return
	}

	customer := models.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := c.customers.Create(&customer); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Customer", req.Name))
		return
	}
	response.Created(w, customer)
}

func (c *CustomerController) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	customers, err := c.customers.List(r.URL.Query().Get("search"), skip, limit)
	if err != nil {
		response.WriteError(w, r, apperr.Internal(err))
		return
	}
	response.Success(w, customers)
}

func (c *CustomerController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid customer ID"))
		return
	}

	customer, err := c.customers.FindByID(id)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Customer", id))
		return
	}
	response.Success(w, customer)
}

func (c *CustomerController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid customer ID"))
		return
	}

	var req customerUpdateRequest
	if !bind.Body(w, r, &req) {
		return
	}

	customer, err := c.customers.FindByID(id)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Customer", id))
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}

	if err := c.customers.Save(&customer); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Customer", id))
		return
	}
	response.Success(w, customer)
}

// Delete removes a customer with no order history.
func (c *CustomerController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid customer ID"))
		return
	}

	if _, err := c.customers.FindByID(id); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Customer", id))
		return
	}

	count, err := c.customers.OrderCount(id)
	if err != nil {
		response.WriteError(w, r, apperr.Internal(err))
		return
	}
	if count > 0 {
		response.WriteError(w, r, apperr.Validation("Cannot delete customer with existing orders"))
		return
	}

	if err := c.customers.Delete(id); err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Customer", id))
		return
	}
	response.Message(w, "Customer deleted successfully", nil)
}
