// Package routes wires every HTTP endpoint to its controller.
package routes

import (
	"net/http"

	"github.com/tillworks/tillpoint/app/controllers"
	"github.com/tillworks/tillpoint/app/repositories"
	"github.com/tillworks/tillpoint/app/services"
	"github.com/tillworks/tillpoint/config"
	"github.com/tillworks/tillpoint/pkg/middleware"
	"github.com/tillworks/tillpoint/pkg/response"
	"github.com/tillworks/tillpoint/pkg/router"
	"gorm.io/gorm"
)

// RegisterAPI mounts the full API surface on r. Everything under /api except
// register and login requires a Bearer token.
func RegisterAPI(r *router.Router, db *gorm.DB) {
	users := repositories.NewUserRepository(db)
	categories := repositories.NewCategoryRepository(db)
	products := repositories.NewProductRepository(db)
	customers := repositories.NewCustomerRepository(db)
	orders := repositories.NewOrderRepository(db)

	authService := services.NewAuthService(users)
	orderService := services.NewOrderService(db, services.OrderConfig{TaxRate: config.TaxRate()})

	authCtrl := controllers.NewAuthController(authService, users)
	categoryCtrl := controllers.NewCategoryController(categories)
	productCtrl := controllers.NewProductController(products, categories)
	customerCtrl := controllers.NewCustomerController(customers)
	orderCtrl := controllers.NewOrderController(orderService, orders)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	api := r.Group("/api")
	api.Post("/auth/register", "auth.register", authCtrl.Register)
	api.Post("/auth/login", "auth.login", authCtrl.Login)

	authed := api.Group("", middleware.Auth(users))
	authed.Get("/auth/me", "auth.me", authCtrl.Me)

	// Categories live under the products prefix; the static segment wins
	// over /products/{id}.
	authed.Post("/products/categories", "categories.create", categoryCtrl.Create)
	authed.Get("/products/categories", "categories.list", categoryCtrl.List)
	authed.Get("/products/categories/{id}", "categories.show", categoryCtrl.Show)
	authed.Put("/products/categories/{id}", "categories.update", categoryCtrl.Update)
	authed.Delete("/products/categories/{id}", "categories.delete", categoryCtrl.Delete)

	authed.Post("/products", "products.create", productCtrl.Create)
	authed.Get("/products", "products.list", productCtrl.List)
	authed.Get("/products/barcode/{barcode}", "products.barcode", productCtrl.ShowByBarcode)
	authed.Get("/products/{id}", "products.show", productCtrl.Show)
	authed.Put("/products/{id}", "products.update", productCtrl.Update)
	authed.Delete("/products/{id}", "products.delete", productCtrl.Delete)

	authed.Post("/customers", "customers.create", customerCtrl.Create)
	authed.Get("/customers", "customers.list", customerCtrl.List)
	authed.Get("/customers/{id}", "customers.show", customerCtrl.Show)
	authed.Put("/customers/{id}", "customers.update", customerCtrl.Update)
	authed.Delete("/customers/{id}", "customers.delete", customerCtrl.Delete)

	authed.Post("/orders", "orders.create", orderCtrl.Create)
	authed.Get("/orders", "orders.list", orderCtrl.List)
	authed.Get("/orders/number/{order_number}", "orders.by_number", orderCtrl.ShowByNumber)
	authed.Get("/orders/{id}", "orders.show", orderCtrl.Show)
	authed.Put("/orders/{id}", "orders.update", orderCtrl.Update)
	authed.Post("/orders/{id}/complete", "orders.complete", orderCtrl.Complete)
	authed.Post("/orders/{id}/cancel", "orders.cancel", orderCtrl.Cancel)
}
