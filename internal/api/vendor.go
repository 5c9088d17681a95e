package api

import (
	"net/http"

	"github.com/xenking/marketplace-api/internal/domain/vendor"
)

type vendorRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.vendors.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	v, err := h.vendors.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req vendorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name required")
		return
	}

	v := &vendor.Vendor{Name: req.Name, Email: req.Email}
	if err := h.vendors.Create(r.Context(), v); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req vendorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	v := &vendor.Vendor{ID: id, Name: req.Name, Email: req.Email}
	if err := h.vendors.Update(r.Context(), v); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) deleteVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.vendors.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
