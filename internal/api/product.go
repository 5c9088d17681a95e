package api

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/xenking/marketplace-api/internal/domain/product"
)

type productRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       int              `json:"stock"`
	VendorID    int64            `json:"vendor_id"`
	CategoryIDs []int64          `json:"category_ids"`
}

// parseProductFilter decodes the composable list predicates from the query
// string. Any malformed value is a client error.
func parseProductFilter(r *http.Request) (product.Filter, string, bool) {
	q := r.URL.Query()
	f := product.Filter{Search: q.Get("search")}

	if v := q.Get("vendor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, "invalid vendor_id", false
		}
		f.VendorID = id
	}
	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, "invalid category_id", false
		}
		f.CategoryID = id
	}
	if v := q.Get("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, "invalid min_price", false
		}
		f.MinPrice = &d
	}
	if v := q.Get("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, "invalid max_price", false
		}
		f.MaxPrice = &d
	}

	sort, err := product.ParseSort(q.Get("sort"))
	if err != nil {
		return f, err.Error(), false
	}
	f.Sort = sort

	return f, "", true
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	f, msg, ok := parseProductFilter(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	products, err := h.products.List(r.Context(), f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Price == nil || req.VendorID == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	p := &product.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       req.Stock,
		VendorID:    req.VendorID,
	}
	if err := h.products.Create(r.Context(), p, req.CategoryIDs); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Price == nil || req.VendorID == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	p := &product.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       req.Stock,
		VendorID:    req.VendorID,
	}
	if err := h.products.Update(r.Context(), p, req.CategoryIDs); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
