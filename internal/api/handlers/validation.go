package handlers

import (
	"context"
	"math"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
	"github.com/mclarke-dev/momentum-sim/internal/providers"
	"github.com/mclarke-dev/momentum-sim/internal/services"
	"github.com/mclarke-dev/momentum-sim/pkg/utils"
)

// ValidationHandler cross-checks simulated outcome rates against historical
// match results from the open-data reference set.
type ValidationHandler struct {
	cache    *services.CacheService
	provider *providers.OpenDataProvider
	squad    []engine.SquadRow
	tables   *engine.Tables
	workers  int
}

func NewValidationHandler(cache *services.CacheService, provider *providers.OpenDataProvider, workers int) *ValidationHandler {
	return &ValidationHandler{
		cache:    cache,
		provider: provider,
		squad:    engine.DefaultSquad,
		tables:   engine.DefaultTables(),
		workers:  workers,
	}
}

// CrossMatch simulates the balanced 4-3-3 baseline and compares its
// win/draw/loss split and goals-per-match with historical frequencies.
// Reference data comes from cache when the refresher has run, otherwise a
// live fetch through the circuit breaker.
func (h *ValidationHandler) CrossMatch(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	var matches []providers.ReferenceMatch
	if err := h.cache.Get(ctx, services.ReferenceMatchesKey, &matches); err != nil {
		fetched, err := h.provider.FetchMatches(ctx)
		if err != nil {
			utils.SendUnavailable(c, "Reference data unavailable: "+err.Error())
			return
		}
		matches = fetched
		h.cache.SetWithRetry(ctx, services.ReferenceMatchesKey, matches, 24*time.Hour, 3)
	}
	if len(matches) == 0 {
		utils.SendUnavailable(c, "No reference matches available")
		return
	}

	historical := providers.ComputeOutcomeRates(matches)

	cfg := engine.SimulationConfig{
		Formation:  "4-3-3",
		FormationB: "4-3-3",
		Tactic:     engine.TacticBalanced,
		TacticB:    engine.TacticBalanced,
		Iterations: 500,
		EndMinute:  90,
		CrowdNoise: 75,
		Workers:    h.workers,
	}
	agg, err := engine.NewMonteCarloEngine(cfg, h.squad, h.tables).Run(nil)
	if err != nil {
		utils.SendInternalError(c, "Validation simulation failed: "+err.Error())
		return
	}

	simGoals := agg.ScoreDistribution.AvgGoalsA + agg.ScoreDistribution.AvgGoalsB

	utils.SendSuccess(c, gin.H{
		"historical": historical,
		"simulated": gin.H{
			"matches":             agg.Iterations,
			"home_wins":           agg.OutcomeDistribution.TeamAWins,
			"away_wins":           agg.OutcomeDistribution.TeamBWins,
			"draws":               agg.OutcomeDistribution.Draws,
			"avg_goals_per_match": simGoals,
		},
		"deltas": gin.H{
			"home_wins": agg.OutcomeDistribution.TeamAWins - historical.HomeWins,
			"away_wins": agg.OutcomeDistribution.TeamBWins - historical.AwayWins,
			"draws":     agg.OutcomeDistribution.Draws - historical.Draws,
			"avg_goals": simGoals - historical.AvgGoals,
		},
		"max_outcome_delta": math.Max(
			math.Abs(agg.OutcomeDistribution.TeamAWins-historical.HomeWins),
			math.Max(
				math.Abs(agg.OutcomeDistribution.TeamBWins-historical.AwayWins),
				math.Abs(agg.OutcomeDistribution.Draws-historical.Draws),
			),
		),
	})
}
