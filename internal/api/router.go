package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mclarke-dev/momentum-sim/internal/api/handlers"
	"github.com/mclarke-dev/momentum-sim/internal/api/middleware"
	"github.com/mclarke-dev/momentum-sim/internal/engine"
	"github.com/mclarke-dev/momentum-sim/internal/providers"
	"github.com/mclarke-dev/momentum-sim/internal/services"
	"github.com/mclarke-dev/momentum-sim/pkg/config"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, db *gorm.DB, cache *services.CacheService, wsHub *services.WebSocketHub, provider *providers.OpenDataProvider, sweeps *services.SweepService, cfg *config.Config) {
	tables := engine.DefaultTables()

	referenceHandler := handlers.NewReferenceHandler(engine.DefaultSquad, tables)
	simulationHandler := handlers.NewSimulationHandler(cache, cfg.SimulationWorkers, cfg.MaxIterations, cfg.ResultCacheTTL)
	probeHandler := handlers.NewProbeHandler(tables)
	sweepHandler := handlers.NewSweepHandler(sweeps)
	scenarioHandler := handlers.NewScenarioHandler(db)
	exportHandler := handlers.NewExportHandler(db)
	validationHandler := handlers.NewValidationHandler(cache, provider, cfg.SimulationWorkers)

	// Reference data
	group.GET("/players", referenceHandler.GetPlayers)
	group.GET("/formations", referenceHandler.GetFormations)
	group.GET("/events", referenceHandler.GetEvents)

	// Simulation
	group.POST("/simulate", simulationHandler.RunSimulation)
	group.POST("/simulate/quick", simulationHandler.RunQuickSimulation)

	// Formula probes for calibration tooling
	group.POST("/event", probeHandler.ProbeEvent)
	group.POST("/pressure", probeHandler.ProbePressure)
	group.POST("/fatigue", probeHandler.ProbeFatigue)
	group.POST("/crowd", probeHandler.ProbeCrowd)

	// Grid sweeps
	group.POST("/sweep", sweepHandler.StartSweep)
	group.GET("/sweep/jobs/:id", sweepHandler.GetSweepJob)

	// Scenario store (optional auth attaches ownership metadata)
	scenarios := group.Group("/scenarios")
	scenarios.Use(middleware.OptionalAuth(cfg.JWTSecret))
	{
		scenarios.POST("", scenarioHandler.CreateScenario)
		scenarios.GET("", scenarioHandler.ListScenarios)
		scenarios.GET("/:id", scenarioHandler.GetScenario)
		scenarios.DELETE("/:id", scenarioHandler.DeleteScenario)
		scenarios.PATCH("/:id/metadata", scenarioHandler.UpdateScenarioMetadata)
		scenarios.GET("/:id/export", exportHandler.ExportScenario)
	}

	// Comparisons
	group.POST("/comparisons", scenarioHandler.CreateComparison)
	group.GET("/comparisons", scenarioHandler.ListComparisons)
	group.GET("/comparisons/:id", scenarioHandler.GetComparison)

	// Cross-match validation against historical reference data
	group.GET("/validation/cross-match", validationHandler.CrossMatch)

	// Operational endpoints, token required
	adminHandler := handlers.NewAdminHandler(cache)
	admin := group.Group("/admin")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		admin.POST("/cache/flush", adminHandler.FlushCache)
		admin.DELETE("/cache/reference", adminHandler.EvictReferenceData)
	}
}
