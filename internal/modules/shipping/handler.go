package shipping

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPageSize = 20
	maxPageSize     = 1000
)

// Handler exposes shipping rate HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the checkout endpoints and, behind requireAdmin, the
// configuration endpoints.
func (h *Handler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/v1/shipping", func(r chi.Router) {
		// Checkout
		r.Post("/options", h.getOptions)      // POST   /api/v1/shipping/options
		r.Post("/fixed-rate", h.getFixedRate) // POST   /api/v1/shipping/fixed-rate

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			// Settings
			r.Get("/settings", h.getSettings)   // GET    /api/v1/shipping/settings
			r.Put("/settings", h.saveSettings)  // PUT    /api/v1/shipping/settings
			r.Put("/settings/mode", h.saveMode) // PUT    /api/v1/shipping/settings/mode

			// Fixed rates
			r.Get("/fixed-rates", h.listFixedRates)           // GET    /api/v1/shipping/fixed-rates
			r.Put("/fixed-rates/{method_id}", h.setFixedRate) // PUT    /api/v1/shipping/fixed-rates/{method_id}

			// Rules management
			r.Get("/rules", h.listRules)                 // GET    /api/v1/shipping/rules
			r.Post("/rules", h.createRule)               // POST   /api/v1/shipping/rules
			r.Get("/rules/{id}", h.getRule)              // GET    /api/v1/shipping/rules/{id}
			r.Put("/rules/{id}", h.updateRule)           // PUT    /api/v1/shipping/rules/{id}
			r.Delete("/rules/{id}", h.deleteRule)        // DELETE /api/v1/shipping/rules/{id}
			r.Post("/rules/{id}/preview", h.previewRule) // POST   /api/v1/shipping/rules/{id}/preview
		})
	})
}

// ── Checkout ──────────────────────────────────────────────────────────────────

func (h *Handler) getOptions(w http.ResponseWriter, r *http.Request) {
	var req OptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	options, err := h.service.GetShippingOptions(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidRequest) {
			code = http.StatusUnprocessableEntity
		}
		respond(w, code, OptionsResponse{ShippingOptions: []ShippingOption{}, Errors: []string{err.Error()}})
		return
	}
	respond(w, http.StatusOK, OptionsResponse{ShippingOptions: options})
}

func (h *Handler) getFixedRate(w http.ResponseWriter, r *http.Request) {
	var req OptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rate, err := h.service.GetFixedRate(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, FixedRateResponse{Rate: rate})
}

// ── Settings ──────────────────────────────────────────────────────────────────

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, settings)
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	var req Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.SaveSettings(r.Context(), req); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, req)
}

func (h *Handler) saveMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TieredModeEnabled bool `json:"tiered_mode_enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.SaveMode(r.Context(), req.TieredModeEnabled); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Fixed rates ───────────────────────────────────────────────────────────────

func (h *Handler) listFixedRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.service.ListFixedRates(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, rates)
}

func (h *Handler) setFixedRate(w http.ResponseWriter, r *http.Request) {
	methodID, ok := pathID(w, r, "method_id")
	if !ok {
		return
	}
	var req FixedRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	fr, err := h.service.SetFixedRate(r.Context(), methodID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, fr)
}

// ── Rules management ──────────────────────────────────────────────────────────

func (h *Handler) listRules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f RuleFilter
	var err error
	for name, dst := range map[string]**int{
		"shipping_method_id": &f.ShippingMethodID,
		"store_id":           &f.StoreID,
		"warehouse_id":       &f.WarehouseID,
		"country_id":         &f.CountryID,
		"state_province_id":  &f.StateProvinceID,
	} {
		if *dst, err = optionalInt(q, name); err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	if zip := q.Get("zip"); zip != "" {
		f.Zip = &zip
	}

	pageIndex, pageSize := 0, defaultPageSize
	if v, err := optionalInt(q, "page_index"); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	} else if v != nil {
		pageIndex = *v
	}
	if v, err := optionalInt(q, "page_size"); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	} else if v != nil {
		pageSize = *v
	}

	if pageIndex < 0 || pageSize < 0 || pageSize > maxPageSize {
		respond(w, http.StatusBadRequest, map[string]string{"error": "page_index must be >= 0 and page_size between 0 and 1000"})
		return
	}

	page, err := h.service.ListRules(r.Context(), f, pageIndex, pageSize)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, page)
}

func (h *Handler) createRule(w http.ResponseWriter, r *http.Request) {
	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rule, err := h.service.CreateRule(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, rule)
}

func (h *Handler) getRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rule, err := h.service.GetRule(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, rule)
}

func (h *Handler) updateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rule, err := h.service.UpdateRule(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, rule)
}

func (h *Handler) deleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteRule(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) previewRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	preview, err := h.service.PreviewCharge(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, preview)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func pathID(w http.ResponseWriter, r *http.Request, param string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}

func optionalInt(q url.Values, name string) (*int, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	return &n, nil
}

func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrRuleNotFound):
		code = http.StatusNotFound
	case IsClientError(err):
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
