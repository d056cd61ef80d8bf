package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ecotrace/ecotrace-server/internal/agents"
	"github.com/ecotrace/ecotrace-server/internal/api/recovery"
	"github.com/ecotrace/ecotrace-server/internal/calc"
	"github.com/ecotrace/ecotrace-server/internal/services"
	"github.com/ecotrace/ecotrace-server/internal/store"
)

// Deps bundles everything the router needs.
type Deps struct {
	Store        store.Store
	Engine       *calc.Engine
	Orchestrator *agents.Orchestrator
	SeedDemoData bool
	Logger       zerolog.Logger
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	userSvc := services.NewUserService(d.Store, d.Engine, d.SeedDemoData, d.Logger)
	activitySvc := services.NewActivityService(d.Store, d.Engine)
	analysisSvc := services.NewAnalysisService(d.Store, d.Orchestrator, d.Logger)
	dashboardSvc := services.NewDashboardService(d.Store)

	healthHandler := NewHealthHandler(d.Store)
	userHandler := NewUserHandler(userSvc)
	activityHandler := NewActivityHandler(activitySvc, d.Engine)
	analysisHandler := NewAnalysisHandler(analysisSvc, d.Orchestrator)
	dashboardHandler := NewDashboardHandler(dashboardSvc)

	// Health endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStorageHealth).Methods("GET")

	// User endpoints
	router.HandleFunc("/api/users", userHandler.CreateUser).Methods("POST")
	router.HandleFunc("/api/users/{userId}", userHandler.GetUser).Methods("GET")

	// Activity endpoints
	router.HandleFunc("/api/users/{userId}/activities", activityHandler.AddActivity).Methods("POST")
	router.HandleFunc("/api/users/{userId}/activities", activityHandler.ListActivities).Methods("GET")

	// Analysis endpoints
	router.HandleFunc("/api/users/{userId}/analyze", analysisHandler.Analyze).Methods("POST")
	router.HandleFunc("/api/users/{userId}/insights", analysisHandler.Insights).Methods("GET")
	router.HandleFunc("/api/users/{userId}/recommendations", analysisHandler.Recommendations).Methods("GET")

	// Dashboard and statistics
	router.HandleFunc("/api/users/{userId}/dashboard", dashboardHandler.Dashboard).Methods("GET")
	router.HandleFunc("/api/users/{userId}/stats/trends", dashboardHandler.Trends).Methods("GET")

	// Calculation and catalog endpoints
	router.HandleFunc("/api/calculate", activityHandler.Calculate).Methods("POST")
	router.HandleFunc("/api/categories", activityHandler.Categories).Methods("GET")

	// Agent descriptors
	router.HandleFunc("/api/agents", analysisHandler.Agents).Methods("GET")

	return router
}
