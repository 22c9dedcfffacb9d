package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Handler exposes reporting HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Get("/summary", h.summary)        // GET /api/v1/reports/summary
		r.Get("/export.xlsx", h.exportXLSX) // GET /api/v1/reports/export.xlsx
		r.Get("/export.csv", h.exportCSV)   // GET /api/v1/reports/export.csv
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("shrink-report-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := h.service.ExportExcel(r.Context(), w); err != nil {
		http.Error(w, "failed to write export", http.StatusInternalServerError)
	}
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("shrink-report-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := h.service.ExportCSV(r.Context(), w); err != nil {
		http.Error(w, "failed to write export", http.StatusInternalServerError)
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
