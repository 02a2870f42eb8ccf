package handler

import (
	"net/http"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the public and authenticated routes
func NewRouter(h *Handler, cfg *config.Config, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))

	// Public routes
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Protected routes
	authRouter := r.PathPrefix("/forecast").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("", h.Forecast).Methods(http.MethodGet)
	authRouter.HandleFunc("/summary", h.Summary).Methods(http.MethodGet)
	authRouter.HandleFunc("/daily", h.Daily).Methods(http.MethodGet)
	authRouter.HandleFunc("/debts", h.Debts).Methods(http.MethodGet)
	authRouter.HandleFunc("/export", h.Export).Methods(http.MethodGet)
	authRouter.HandleFunc("/preview", h.Preview).Methods(http.MethodPost)

	return r
}
