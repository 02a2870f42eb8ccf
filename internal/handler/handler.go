package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/cashflow-service/internal/export"
	"github.com/Dan9191/cashflow-service/internal/middleware"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/service"
	"github.com/sirupsen/logrus"
)

// maxPreviewBody bounds the size of a preview snapshot
const maxPreviewBody = 1 << 20

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Forecast returns the projected events for the authenticated user
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	userID, days, ok := h.params(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Forecast(r.Context(), userID, days)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, service.ToForecastResponse(p))
}

// Summary returns aggregates and day/week groupings
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, days, ok := h.params(w, r)
	if !ok {
		return
	}
	s, err := h.svc.Summary(r.Context(), userID, days)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, s)
}

// Daily returns the closing balance of each day
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	userID, days, ok := h.params(w, r)
	if !ok {
		return
	}
	f, err := h.svc.Daily(r.Context(), userID, days)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, f)
}

// Debts returns the debt outlook
func (h *Handler) Debts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	out, err := h.svc.Debts(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, out)
}

// Export streams the projection as CSV or XML
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatXML {
		http.Error(w, "format must be csv or xml", http.StatusBadRequest)
		return
	}
	userID, days, ok := h.params(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Forecast(r.Context(), userID, days)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", "attachment; filename=forecast-"+p.AsOf.Format(service.DateLayout)+"."+format)
	if err := export.Write(w, format, p); err != nil {
		h.log.WithError(err).Error("Export failed")
	}
}

// Preview projects the snapshot in the request body
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var in models.Snapshot
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPreviewBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		http.Error(w, "Invalid snapshot: "+err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.svc.Preview(in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, service.ToForecastResponse(p))
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) params(w http.ResponseWriter, r *http.Request) (int64, int, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return 0, 0, false
		}
		days = n
	}
	return userID, days, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidHorizon), errors.Is(err, service.ErrInvalidSnapshot):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.WithError(err).Error("Forecast request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
