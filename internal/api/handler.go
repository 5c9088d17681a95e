// Package api exposes the JSON HTTP surface: entity CRUD, the order
// lifecycle, analytics reports, and the datastore health probe.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/marketplace-api/internal/domain/analytics"
	"github.com/xenking/marketplace-api/internal/domain/category"
	"github.com/xenking/marketplace-api/internal/domain/customer"
	"github.com/xenking/marketplace-api/internal/domain/order"
	"github.com/xenking/marketplace-api/internal/domain/product"
	"github.com/xenking/marketplace-api/internal/domain/vendor"
)

// PingFunc reports datastore liveness for the health route.
type PingFunc func(ctx context.Context) error

// Handler implements the JSON API, delegating to the injected domain
// repositories and the order service.
type Handler struct {
	categories category.Repository
	vendors    vendor.Repository
	customers  customer.Repository
	products   product.Repository
	orders     order.Repository
	orderSvc   *order.Service
	analytics  analytics.Repository
	ping       PingFunc
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	categories category.Repository,
	vendors vendor.Repository,
	customers customer.Repository,
	products product.Repository,
	orders order.Repository,
	orderSvc *order.Service,
	reports analytics.Repository,
	ping PingFunc,
) *Handler {
	return &Handler{
		categories: categories,
		vendors:    vendors,
		customers:  customers,
		products:   products,
		orders:     orders,
		orderSvc:   orderSvc,
		analytics:  reports,
		ping:       ping,
	}
}

// Routes returns the /api router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
		r.Get("/{id}", h.getCategory)
		r.Put("/{id}", h.updateCategory)
		r.Delete("/{id}", h.deleteCategory)
	})

	r.Route("/vendors", func(r chi.Router) {
		r.Get("/", h.listVendors)
		r.Post("/", h.createVendor)
		r.Get("/{id}", h.getVendor)
		r.Put("/{id}", h.updateVendor)
		r.Delete("/{id}", h.deleteVendor)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.listCustomers)
		r.Post("/", h.createCustomer)
		r.Get("/{id}", h.getCustomer)
		r.Put("/{id}", h.updateCustomer)
		r.Delete("/{id}", h.deleteCustomer)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)
		r.Post("/", h.placeOrder)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}", h.updateOrderStatus)
		r.Delete("/{id}", h.cancelOrder)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/summary", h.analyticsSummary)
		r.Get("/top-categories", h.topCategories)
		r.Get("/sales-by-day", h.salesByDay)
		r.Get("/vendors-with-many-products", h.vendorsWithManyProducts)
		r.Get("/products-not-ordered", h.productsNotOrdered)
		r.Get("/top-products", h.topProducts)
		r.Get("/product-ratings", h.productRatings)
	})

	r.Get("/health", h.health)

	return r
}
