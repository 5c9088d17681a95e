package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/marketplace-api/internal/domain/category"
	"github.com/xenking/marketplace-api/internal/domain/customer"
	"github.com/xenking/marketplace-api/internal/domain/order"
	"github.com/xenking/marketplace-api/internal/domain/product"
	"github.com/xenking/marketplace-api/internal/domain/vendor"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// idParam parses the {id} route parameter. A non-numeric id is a client
// error, reported before any datastore work.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// respondError maps domain errors to HTTP responses: missing entities to
// 404, validation failures to 400, mid-transaction domain conflicts
// (insufficient stock, dangling product reference) to 422, everything else
// to 500. Every failure path produces an {error: message} body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, category.ErrNotFound),
		errors.Is(err, vendor.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
		return

	case errors.Is(err, order.ErrMissingFields),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, product.ErrInvalidSort):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var invalidItem *order.InvalidItemError
	if errors.As(err, &invalidItem) {
		writeError(w, http.StatusBadRequest, invalidItem.Error())
		return
	}

	var noStock *order.InsufficientStockError
	if errors.As(err, &noStock) {
		writeError(w, http.StatusUnprocessableEntity, noStock.Error())
		return
	}

	var noProduct *order.ProductNotFoundError
	if errors.As(err, &noProduct) {
		writeError(w, http.StatusUnprocessableEntity, noProduct.Error())
		return
	}

	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, err.Error())
}
