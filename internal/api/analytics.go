package api

import (
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/xenking/marketplace-api/internal/domain/analytics"
	"github.com/xenking/marketplace-api/internal/domain/product"
	"github.com/xenking/marketplace-api/internal/domain/vendor"
)

// analyticsSummary bundles every report into one response for the dashboard
// page.
type analyticsSummary struct {
	TopCategories      []analytics.CategoryCount `json:"top_categories"`
	SalesByDay         []analytics.DailySales    `json:"sales_by_day"`
	ProlificVendors    []vendor.Vendor           `json:"prolific_vendors"`
	ProductsNotOrdered []product.Product         `json:"products_not_ordered"`
	TopProducts        []analytics.ProductSales  `json:"top_products"`
	ProductRatings     []analytics.ProductRating `json:"product_ratings"`
}

func (h *Handler) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	var out analyticsSummary

	// The reports are independent reads, so run them concurrently.
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		out.TopCategories, err = h.analytics.TopCategories(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.SalesByDay, err = h.analytics.SalesByDay(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.ProlificVendors, err = h.analytics.VendorsWithManyProducts(ctx, 2)
		return err
	})
	g.Go(func() (err error) {
		out.ProductsNotOrdered, err = h.analytics.ProductsNotOrdered(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.TopProducts, err = h.analytics.TopProducts(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.ProductRatings, err = h.analytics.ProductRatings(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) topCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.analytics.TopCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) salesByDay(w http.ResponseWriter, r *http.Request) {
	rows, err := h.analytics.SalesByDay(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) vendorsWithManyProducts(w http.ResponseWriter, r *http.Request) {
	min := 2
	if v := r.URL.Query().Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid n")
			return
		}
		min = n
	}

	rows, err := h.analytics.VendorsWithManyProducts(r.Context(), min)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) productsNotOrdered(w http.ResponseWriter, r *http.Request) {
	rows, err := h.analytics.ProductsNotOrdered(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) topProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.analytics.TopProducts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) productRatings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.analytics.ProductRatings(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
