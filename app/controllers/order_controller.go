package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tillworks/tillpoint/app/models"
	"github.com/tillworks/tillpoint/app/repositories"
	"github.com/tillworks/tillpoint/app/services"
	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/bind"
	"github.com/tillworks/tillpoint/pkg/collection"
	"github.com/tillworks/tillpoint/pkg/middleware"
	"github.com/tillworks/tillpoint/pkg/response"
)

type orderItemRequest struct {
	ProductID uint    `json:"product_id" validate:"required,gte=1"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice float64 `json:"unit_price" validate:"nullable,gte=0"`
}

type createOrderRequest struct {
	CustomerID     *uint              `json:"customer_id"`
	PaymentMethod  string             `json:"payment_method" validate:"nullable,max=50"`
	DiscountAmount float64            `json:"discount_amount" validate:"nullable,gte=0"`
	Notes          string             `json:"notes" validate:"nullable,max=2000"`
	Items          []orderItemRequest `json:"items" validate:"required"`
}

type updateOrderRequest struct {
	CustomerID     *uint    `json:"customer_id"`
	DiscountAmount *float64 `json:"discount_amount" validate:"nullable,gte=0"`
	PaymentMethod  *string  `json:"payment_method" validate:"nullable,max=50"`
	Status         *string  `json:"status" validate:"nullable,in=pending,completed,cancelled,refunded"`
	Notes          *string  `json:"notes" validate:"nullable,max=2000"`
}

// OrderController exposes the order lifecycle endpoints.
type OrderController struct {
	service *services.OrderService
	orders  *repositories.OrderRepository
}

func NewOrderController(service *services.OrderService, orders *repositories.OrderRepository) *OrderController {
	return &OrderController{service: service, orders: orders}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !bind.Body(w, r, &req) {
		return
	}

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		response.WriteError(w, r, apperr.Unauthorized(""))
		return
	}

	order, err := c.service.CreateOrder(services.CreateOrderInput{
		CustomerID:     req.CustomerID,
		UserID:         principal.ID,
		PaymentMethod:  req.PaymentMethod,
		DiscountAmount: req.DiscountAmount,
		Notes:          req.Notes,
		Items: collection.Map(req.Items, func(item orderItemRequest) services.OrderItemInput {
			return services.OrderItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			}
		}),
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, order)
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	filter := repositories.OrderFilter{
		Skip:       skip,
		Limit:      limit,
		Status:     models.OrderStatus(r.URL.Query().Get("status")),
		CustomerID: queryUint(r, "customer_id"),
		Start:      queryTime(r, "start_date"),
		End:        queryTime(r, "end_date"),
	}

	orders, err := c.orders.List(filter)
	if err != nil {
		response.WriteError(w, r, apperr.Internal(err))
		return
	}
	response.Success(w, orders)
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid order ID"))
		return
	}

	order, err := c.orders.FindByID(id)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Order", id))
		return
	}
	response.Success(w, order)
}

// ShowByNumber looks up an order by its receipt number.
func (c *OrderController) ShowByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "order_number")
	if number == "" {
		response.WriteError(w, r, apperr.Validation("Order number is required"))
		return
	}

	order, err := c.orders.FindByNumber(number)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "Order", number))
		return
	}
	response.Success(w, order)
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid order ID"))
		return
	}

	var req updateOrderRequest
	if !bind.Body(w, r, &req) {
		return
	}

	order, err := c.service.UpdateOrder(id, services.UpdateOrderInput{
		CustomerID:     req.CustomerID,
		DiscountAmount: req.DiscountAmount,
		PaymentMethod:  req.PaymentMethod,
		Status:         req.Status,
		Notes:          req.Notes,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid order ID"))
		return
	}

	order, err := c.service.CompleteOrder(id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.WriteError(w, r, apperr.Validation("Invalid order ID"))
		return
	}

	order, err := c.service.CancelOrder(id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Success(w, order)
}
