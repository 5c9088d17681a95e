package api

import "net/http"

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
