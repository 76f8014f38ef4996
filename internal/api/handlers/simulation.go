package handlers

import (
	"context"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
	"github.com/mclarke-dev/momentum-sim/internal/services"
	"github.com/mclarke-dev/momentum-sim/pkg/utils"
)

type SimulationHandler struct {
	cache         *services.CacheService
	squad         []engine.SquadRow
	tables        *engine.Tables
	workers       int
	maxIterations int
	ttl           time.Duration
}

func NewSimulationHandler(cache *services.CacheService, workers, maxIterations int, cacheTTL time.Duration) *SimulationHandler {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	return &SimulationHandler{
		cache:         cache,
		squad:         engine.DefaultSquad,
		tables:        engine.DefaultTables(),
		workers:       workers,
		maxIterations: maxIterations,
		ttl:           cacheTTL,
	}
}

type simulateRequest struct {
	Formation   string        `json:"formation" binding:"required"`
	FormationB  string        `json:"formation_b"`
	Tactic      engine.Tactic `json:"tactic" binding:"required"`
	TacticB     engine.Tactic `json:"tactic_b"`
	Iterations  int           `json:"iterations"`
	StartMinute int           `json:"start_minute"`
	EndMinute   int           `json:"end_minute"`
	CrowdNoise  *float64      `json:"crowd_noise"`
	Scenario    string        `json:"scenario"`
}

func (r *simulateRequest) normalise() {
	if r.FormationB == "" {
		r.FormationB = "4-3-3"
	}
	if r.TacticB == "" {
		r.TacticB = engine.TacticBalanced
	}
	if r.EndMinute == 0 {
		r.EndMinute = 90
	}
	// A pointer keeps "absent" distinct from an explicit 0 dB empty
	// stadium, which is a valid setting.
	if r.CrowdNoise == nil {
		noise := 75.0
		r.CrowdNoise = &noise
	}
}

func (r *simulateRequest) toConfig(workers int) engine.SimulationConfig {
	return engine.SimulationConfig{
		Formation:   r.Formation,
		FormationB:  r.FormationB,
		Tactic:      r.Tactic,
		TacticB:     r.TacticB,
		Iterations:  r.Iterations,
		StartMinute: r.StartMinute,
		EndMinute:   r.EndMinute,
		CrowdNoise:  *r.CrowdNoise,
		Scenario:    r.Scenario,
		Workers:     workers,
	}
}

// RunSimulation runs a full Monte Carlo simulation for one tactical setup.
// Identical configurations hit the cache instead of recomputing.
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	req.normalise()

	if err := validateSimulationRequest(req.Formation, req.FormationB, req.Tactic, req.TacticB,
		req.Iterations, h.maxIterations, req.StartMinute, req.EndMinute, *req.CrowdNoise); err != nil {
		utils.SendValidationError(c, "Invalid simulation parameters", err.Error())
		return
	}

	cfg := req.toConfig(h.workers)

	ctx := context.Background()
	cacheKey := services.SimulationCacheKey(cfg)

	var cached engine.Aggregate
	if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
		utils.SendSuccess(c, gin.H{"result": cached, "cached": true})
		return
	}

	started := time.Now()
	result, err := engine.NewMonteCarloEngine(cfg, h.squad, h.tables).Run(nil)
	if err != nil {
		utils.SendInternalError(c, "Simulation failed: "+err.Error())
		return
	}
	logrus.WithFields(logrus.Fields{
		"formation":  req.Formation,
		"tactic":     req.Tactic,
		"iterations": result.Iterations,
		"elapsed":    time.Since(started),
	}).Info("Simulation completed")

	h.cache.SetWithRetry(ctx, cacheKey, result, h.ttl, 3)

	utils.SendSuccess(c, gin.H{"result": result, "cached": false})
}

// RunQuickSimulation runs a single match and returns the full per-player
// state dump with event logs and momentum history. Used by the timeline
// view, which wants one concrete trajectory rather than an ensemble.
func (h *SimulationHandler) RunQuickSimulation(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	req.normalise()

	if err := validateSimulationRequest(req.Formation, req.FormationB, req.Tactic, req.TacticB,
		0, 0, req.StartMinute, req.EndMinute, *req.CrowdNoise); err != nil {
		utils.SendValidationError(c, "Invalid simulation parameters", err.Error())
		return
	}

	cfg := engine.MatchConfig{
		FormationA:  req.Formation,
		FormationB:  req.FormationB,
		TacticA:     req.Tactic,
		TacticB:     req.TacticB,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		CrowdNoise:  *req.CrowdNoise,
		Scenario:    req.Scenario,
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	result := engine.NewMatchSimulator(cfg, h.squad, h.tables, rng).Run()

	utils.SendSuccess(c, result)
}
