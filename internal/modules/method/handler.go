package method

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes shipping method HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the admin endpoints behind requireAdmin.
func (h *Handler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/v1/shipping-methods", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/", h.listMethods)         // GET    /api/v1/shipping-methods?country_id=
		r.Post("/", h.createMethod)       // POST   /api/v1/shipping-methods
		r.Get("/{id}", h.getMethod)       // GET    /api/v1/shipping-methods/{id}
		r.Put("/{id}", h.updateMethod)    // PUT    /api/v1/shipping-methods/{id}
		r.Delete("/{id}", h.deleteMethod) // DELETE /api/v1/shipping-methods/{id}
	})
}

func (h *Handler) listMethods(w http.ResponseWriter, r *http.Request) {
	countryID := 0
	if v := r.URL.Query().Get("country_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid country_id"})
			return
		}
		countryID = id
	}
	methods, err := h.service.ListMethods(r.Context(), countryID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if methods == nil {
		methods = []ShippingMethod{}
	}
	respond(w, http.StatusOK, methods)
}

func (h *Handler) createMethod(w http.ResponseWriter, r *http.Request) {
	var req CreateMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.CreateMethod(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if strings.Contains(err.Error(), "required") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, m)
}

func (h *Handler) getMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := methodID(w, r)
	if !ok {
		return
	}
	m, err := h.service.GetMethod(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, m)
}

func (h *Handler) updateMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := methodID(w, r)
	if !ok {
		return
	}
	var req CreateMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.UpdateMethod(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, m)
}

func (h *Handler) deleteMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := methodID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteMethod(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func methodID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid shipping method id"})
		return 0, false
	}
	return id, true
}

func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, ErrNotFound) {
		code = http.StatusNotFound
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
