package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bike-counter/server/handlers"
)

type Router struct {
	bikeStatsHandler *handlers.BikeStatsHandler
	router           *mux.Router
	publicDir        string
	logger           *zap.Logger
}

// NewRouter creates a router with the app's routes. Static files are served
// from publicDir.
func NewRouter(
	bikeStatsHandler *handlers.BikeStatsHandler,
	router *mux.Router,
	publicDir string,
	logger *zap.Logger) *Router {
	return &Router{
		bikeStatsHandler: bikeStatsHandler,
		router:           router,
		publicDir:        publicDir,
		logger:           logger.Named("Router"),
	}
}

// RegisterRoutes installs the middleware and routes. Call it once per router.
func (r *Router) RegisterRoutes() {
	// AccessLog wraps Recover so a recovered panic is still logged as a 500.
	r.router.Use(RequestID, AccessLog(r.logger), Recover(r.logger))

	r.router.HandleFunc("/ping", handlers.Ping).Methods(http.MethodGet)

	// expects ?month={1-12}&year={yyyy}
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/bikes/stats", r.bikeStatsHandler.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/bikes/chart", r.bikeStatsHandler.GetChart).Methods(http.MethodGet)

	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.router.PathPrefix("/").Handler(http.FileServer(http.Dir(r.publicDir))).Methods(http.MethodGet, http.MethodHead)
}
