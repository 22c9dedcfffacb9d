package decision

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shrinksense/shrinksense-backend/internal/modules/donation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
)

// Handler exposes decision engine HTTP endpoints.
type Handler struct {
	service Service
	facts   donation.Facts
}

func NewHandler(service Service, defaultFacts donation.Facts) *Handler {
	return &Handler{service: service, facts: defaultFacts}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/decisions", func(r chi.Router) {
		r.Post("/evaluate", h.evaluate) // POST /api/v1/decisions/evaluate (ad-hoc items)
		r.Post("/run", h.run)           // POST /api/v1/decisions/run (stored inventory)
	})
}

// EvaluateRequest carries ad-hoc items plus optional fact overrides from the
// compliance and logistics collaborators.
type EvaluateRequest struct {
	Items []inventory.CreateItemRequest `json:"items"`
	Facts *donation.Facts               `json:"facts,omitempty"`
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}
	facts := h.facts
	if req.Facts != nil {
		facts = *req.Facts
	}
	result, err := h.service.EvaluateRequests(r.Context(), req.Items, facts)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.EvaluateStored(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, result)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
