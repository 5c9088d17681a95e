package api

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/marketplace-api/internal/domain/analytics"
	"github.com/xenking/marketplace-api/internal/domain/category"
	"github.com/xenking/marketplace-api/internal/domain/customer"
	"github.com/xenking/marketplace-api/internal/domain/order"
	"github.com/xenking/marketplace-api/internal/domain/product"
	"github.com/xenking/marketplace-api/internal/domain/vendor"
)

// fakeStore is an in-memory stand-in for the postgres repositories. Order
// placement mirrors the transactional contract: either every line item is
// applied or no stock changes at all.
type fakeStore struct {
	categories map[int64]category.Category
	vendors    map[int64]vendor.Vendor
	customers  map[int64]customer.Customer
	products   map[int64]*product.Product
	orders     map[int64]*order.Detail
	nextID     int64

	lastFilter product.Filter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: map[int64]category.Category{},
		vendors:    map[int64]vendor.Vendor{},
		customers:  map[int64]customer.Customer{},
		products:   map[int64]*product.Product{},
		orders:     map[int64]*order.Detail{},
		nextID:     100,
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeCategoryRepo struct{ s *fakeStore }

func (r *fakeCategoryRepo) List(context.Context) ([]category.Category, error) {
	out := make([]category.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*category.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, category.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *category.Category) error {
	c.ID = r.s.id()
	r.s.categories[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *category.Category) error {
	if _, ok := r.s.categories[c.ID]; !ok {
		return category.ErrNotFound
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.categories[id]; !ok {
		return category.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

type fakeVendorRepo struct{ s *fakeStore }

func (r *fakeVendorRepo) List(context.Context) ([]vendor.Vendor, error) {
	out := make([]vendor.Vendor, 0, len(r.s.vendors))
	for _, v := range r.s.vendors {
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeVendorRepo) GetByID(_ context.Context, id int64) (*vendor.Vendor, error) {
	v, ok := r.s.vendors[id]
	if !ok {
		return nil, vendor.ErrNotFound
	}
	return &v, nil
}

func (r *fakeVendorRepo) Create(_ context.Context, v *vendor.Vendor) error {
	v.ID = r.s.id()
	v.CreatedAt = time.Now()
	r.s.vendors[v.ID] = *v
	return nil
}

func (r *fakeVendorRepo) Update(_ context.Context, v *vendor.Vendor) error {
	if _, ok := r.s.vendors[v.ID]; !ok {
		return vendor.ErrNotFound
	}
	r.s.vendors[v.ID] = *v
	return nil
}

func (r *fakeVendorRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.vendors[id]; !ok {
		return vendor.ErrNotFound
	}
	delete(r.s.vendors, id)
	return nil
}

type fakeCustomerRepo struct{ s *fakeStore }

func (r *fakeCustomerRepo) List(context.Context) ([]customer.Customer, error) {
	out := make([]customer.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *customer.Customer) error {
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	r.s.customers[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *customer.Customer) error {
	if _, ok := r.s.customers[c.ID]; !ok {
		return customer.ErrNotFound
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.customers[id]; !ok {
		return customer.ErrNotFound
	}
	delete(r.s.customers, id)
	return nil
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) List(_ context.Context, f product.Filter) ([]product.Product, error) {
	r.s.lastFilter = f
	out := make([]product.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Detail, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &product.Detail{Product: *p}, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *product.Product, _ []int64) error {
	p.ID = r.s.id()
	p.CreatedAt = time.Now()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *product.Product, _ []int64) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return product.ErrNotFound
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) List(context.Context) ([]order.Summary, error) {
	out := make([]order.Summary, 0, len(r.s.orders))
	for _, d := range r.s.orders {
		out = append(out, r.summarize(d))
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*order.Detail, error) {
	d, ok := r.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return d, nil
}

func (r *fakeOrderRepo) Place(_ context.Context, customerID int64, status order.Status, items []order.NewItem) (*order.Summary, error) {
	d := &order.Detail{Order: order.Order{
		ID:         r.s.id(),
		CustomerID: customerID,
		Status:     status,
		CreatedAt:  time.Now(),
	}}

	// Stock is decremented line by line so a later line sees the decrements
	// of earlier ones. A failing line restores every applied decrement,
	// matching the transaction rollback.
	var applied []order.NewItem
	rollback := func() {
		for _, it := range applied {
			r.s.products[it.ProductID].Stock += it.Quantity
		}
	}
	for _, it := range items {
		p, ok := r.s.products[it.ProductID]
		if !ok {
			rollback()
			return nil, &order.ProductNotFoundError{ProductID: it.ProductID}
		}
		if p.Stock < it.Quantity {
			rollback()
			return nil, &order.InsufficientStockError{
				ProductID: it.ProductID,
				Requested: it.Quantity,
				Available: p.Stock,
			}
		}
		p.Stock -= it.Quantity
		applied = append(applied, it)
		d.Items = append(d.Items, order.Item{
			ID:        r.s.id(),
			OrderID:   d.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     p.Price,
		})
	}
	r.s.orders[d.ID] = d

	sum := r.summarize(d)
	return &sum, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status order.Status) (*order.Order, error) {
	d, ok := r.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	d.Status = status
	return &d.Order, nil
}

func (r *fakeOrderRepo) Cancel(_ context.Context, id int64) error {
	d, ok := r.s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	for _, it := range d.Items {
		if p, ok := r.s.products[it.ProductID]; ok {
			p.Stock += it.Quantity
		}
	}
	delete(r.s.orders, id)
	return nil
}

func (r *fakeOrderRepo) summarize(d *order.Detail) order.Summary {
	total := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	name := ""
	if c, ok := r.s.customers[d.CustomerID]; ok {
		name = c.Name
	}
	return order.Summary{
		Order:        d.Order,
		CustomerName: name,
		TotalAmount:  total,
		ItemCount:    len(d.Items),
	}
}

type fakeAnalyticsRepo struct {
	topCategories []analytics.CategoryCount
	salesByDay    []analytics.DailySales
	vendors       []vendor.Vendor
	notOrdered    []product.Product
	topProducts   []analytics.ProductSales
	ratings       []analytics.ProductRating

	minProducts int
}

func (r *fakeAnalyticsRepo) TopCategories(context.Context) ([]analytics.CategoryCount, error) {
	return r.topCategories, nil
}

func (r *fakeAnalyticsRepo) SalesByDay(context.Context) ([]analytics.DailySales, error) {
	return r.salesByDay, nil
}

func (r *fakeAnalyticsRepo) VendorsWithManyProducts(_ context.Context, minProducts int) ([]vendor.Vendor, error) {
	r.minProducts = minProducts
	return r.vendors, nil
}

func (r *fakeAnalyticsRepo) ProductsNotOrdered(context.Context) ([]product.Product, error) {
	return r.notOrdered, nil
}

func (r *fakeAnalyticsRepo) TopProducts(context.Context) ([]analytics.ProductSales, error) {
	return r.topProducts, nil
}

func (r *fakeAnalyticsRepo) ProductRatings(context.Context) ([]analytics.ProductRating, error) {
	return r.ratings, nil
}
