package engine

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"
)

const (
	// MinIterations and MaxIterations bound a Monte Carlo run.
	MinIterations     = 10
	MaxIterations     = 2000
	DefaultIterations = 500
)

// SimulationConfig fixes one Monte Carlo run: a single tactical
// configuration simulated Iterations times.
type SimulationConfig struct {
	Formation   string  `json:"formation"`
	FormationB  string  `json:"formation_b"`
	Tactic      Tactic  `json:"tactic"`
	TacticB     Tactic  `json:"tactic_b"`
	Iterations  int     `json:"iterations"`
	StartMinute int     `json:"start_minute"`
	EndMinute   int     `json:"end_minute"`
	CrowdNoise  float64 `json:"crowd_noise"`
	Scenario    string  `json:"scenario,omitempty"`
	Workers     int     `json:"-"`
}

func (c SimulationConfig) matchConfig() MatchConfig {
	return MatchConfig{
		FormationA:  c.Formation,
		FormationB:  c.FormationB,
		TacticA:     c.Tactic,
		TacticB:     c.TacticB,
		StartMinute: c.StartMinute,
		EndMinute:   c.EndMinute,
		CrowdNoise:  c.CrowdNoise,
		Scenario:    c.Scenario,
	}
}

// OutcomeDistribution holds win/draw/loss frequencies; the three always sum
// to 1 for any completed run.
type OutcomeDistribution struct {
	TeamAWins float64 `json:"teamA_wins"`
	TeamBWins float64 `json:"teamB_wins"`
	Draws     float64 `json:"draws"`
}

// ScoreDistribution summarises the goal counts across iterations.
type ScoreDistribution struct {
	AvgGoalsA float64 `json:"avg_goals_a"`
	AvgGoalsB float64 `json:"avg_goals_b"`
	StdGoalsA float64 `json:"std_goals_a"`
	StdGoalsB float64 `json:"std_goals_b"`
}

// PlayerAggregate is one player's cross-run momentum statistics.
type PlayerAggregate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Position    Position       `json:"position"`
	Team        Team           `json:"team"`
	Tier        ResilienceTier `json:"resilience_tier"`
	PMU         float64        `json:"pmu"`
	Std         float64        `json:"std"`
	Consistency float64        `json:"consistency"`
}

// RiskAssessment is the analytical layer derived from an aggregate.
type RiskAssessment struct {
	ShotProbability       float64 `json:"shot_probability"`
	TurnoverRisk          float64 `json:"turnover_risk"`
	CounterattackExposure float64 `json:"counterattack_exposure"`
	OverallRiskLevel      string  `json:"overall_risk_level"`
}

// Aggregate is the read-only result of one Monte Carlo run. It is built
// fresh by Run and never mutated afterwards.
type Aggregate struct {
	Iterations          int                 `json:"iterations"`
	AvgPMU              float64             `json:"avgPMU"`
	AvgPMUA             float64             `json:"avgPMU_A"`
	AvgPMUB             float64             `json:"avgPMU_B"`
	PeakPMU             float64             `json:"peakPMU"`
	GoalProbability     float64             `json:"goalProbability"`
	XG                  float64             `json:"xg"`
	AvgFatigueA         float64             `json:"avgFatigue_A"`
	AvgFatigueB         float64             `json:"avgFatigue_B"`
	OutcomeDistribution OutcomeDistribution `json:"outcomeDistribution"`
	ScoreDistribution   ScoreDistribution   `json:"scoreDistribution"`
	GoalProbBins        map[string]float64  `json:"goalProbDistribution"`
	TeamAPressure       PressureProfile     `json:"teamAPressure"`
	TeamBPressure       PressureProfile     `json:"teamBPressure"`
	PlayerMomentum      []PlayerAggregate   `json:"playerMomentum"`
	AllPlayerStats      []PlayerAggregate   `json:"allPlayerStats"`
	FormationCoherence  map[Team]float64    `json:"formationCoherence"`
	Risk                RiskAssessment      `json:"risk_assessment"`
	Config              SimulationConfig    `json:"config"`
}

// MonteCarloEngine runs N independent MatchSimulator iterations under one
// configuration and aggregates their outputs. Iterations share nothing
// mutable: each gets its own squad instances and its own seeded RNG, so the
// worker pool can run them in any order.
type MonteCarloEngine struct {
	cfg    SimulationConfig
	squad  []SquadRow
	tables *Tables
	seed   int64
}

// NewMonteCarloEngine builds an engine. A nil squad or tables falls back to
// the defaults. Iterations are clamped into [MinIterations, MaxIterations].
func NewMonteCarloEngine(cfg SimulationConfig, squad []SquadRow, tables *Tables) *MonteCarloEngine {
	if cfg.Iterations == 0 {
		cfg.Iterations = DefaultIterations
	}
	if cfg.Iterations < MinIterations {
		cfg.Iterations = MinIterations
	}
	if cfg.Iterations > MaxIterations {
		cfg.Iterations = MaxIterations
	}
	if tables == nil {
		tables = DefaultTables()
	}
	if squad == nil {
		squad = DefaultSquad
	}
	return &MonteCarloEngine{
		cfg:    cfg,
		squad:  squad,
		tables: tables,
		seed:   time.Now().UnixNano(),
	}
}

// Seed overrides the base seed iteration RNGs derive from. Used by tests.
func (e *MonteCarloEngine) Seed(seed int64) {
	e.seed = seed
}

// Progress reports how far a run has advanced.
type Progress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Run executes all iterations across a worker pool and aggregates. Any
// iteration failure aborts the whole run; dropping iterations silently
// would bias the aggregate. An optional progress channel receives counts as
// iterations finish and is never blocked on.
func (e *MonteCarloEngine) Run(progress chan<- Progress) (*Aggregate, error) {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > e.cfg.Iterations {
		workers = e.cfg.Iterations
	}

	jobs := make(chan int, e.cfg.Iterations)
	resultCh := make(chan *MatchResult, e.cfg.Iterations)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := range jobs {
				// Per-iteration RNG keeps iterations independent under
				// any scheduling.
				rng := rand.New(rand.NewSource(e.seed + int64(i)))
				sim := NewMatchSimulator(e.cfg.matchConfig(), e.squad, e.tables, rng)
				resultCh <- sim.Run()
			}
		}(w)
	}

	// Collect concurrently so progress streams out while workers are
	// still running rather than in one burst at the end.
	results := make([]*MatchResult, 0, e.cfg.Iterations)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range resultCh {
			results = append(results, r)
			if progress != nil {
				select {
				case progress <- Progress{Total: e.cfg.Iterations, Completed: len(results)}:
				default:
				}
			}
		}
	}()

	for i := 0; i < e.cfg.Iterations; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(resultCh)
	<-collected
	if len(results) != e.cfg.Iterations {
		return nil, fmt.Errorf("monte carlo run incomplete: %d of %d iterations produced results",
			len(results), e.cfg.Iterations)
	}

	return e.aggregate(results), nil
}

func (e *MonteCarloEngine) aggregate(results []*MatchResult) *Aggregate {
	n := float64(len(results))

	agg := &Aggregate{
		Iterations:   len(results),
		GoalProbBins: map[string]float64{"0-10%": 0, "10-25%": 0, "25-40%": 0, "40%+": 0},
		Config:       e.cfg,
	}

	var winsA, winsB int
	var goalsA, goalsB []float64
	cohA, cohB := 0.0, 0.0

	type acc struct {
		meta PlayerAggregate
		pmus []float64
	}
	playerAcc := make(map[string]*acc)
	var playerOrder []string

	for _, r := range results {
		agg.AvgPMUA += r.TeamA.AvgPMU
		agg.AvgPMUB += r.TeamB.AvgPMU
		agg.PeakPMU = math.Max(agg.PeakPMU, r.TeamA.PeakPMU)
		agg.GoalProbability += r.GoalProbability
		agg.XG += r.XG
		agg.AvgFatigueA += r.TeamA.AvgFatigue
		agg.AvgFatigueB += r.TeamB.AvgFatigue
		cohA += r.FormationCoherence[TeamA]
		cohB += r.FormationCoherence[TeamB]

		agg.TeamAPressure.Possession += r.TeamAPressure.Possession
		agg.TeamAPressure.OffBall += r.TeamAPressure.OffBall
		agg.TeamAPressure.Transition += r.TeamAPressure.Transition
		agg.TeamBPressure.Possession += r.TeamBPressure.Possession
		agg.TeamBPressure.OffBall += r.TeamBPressure.OffBall
		agg.TeamBPressure.Transition += r.TeamBPressure.Transition

		sa, sb := r.Score[TeamA], r.Score[TeamB]
		goalsA = append(goalsA, float64(sa))
		goalsB = append(goalsB, float64(sb))
		switch {
		case sa > sb:
			winsA++
		case sb > sa:
			winsB++
		}

		switch {
		case r.GoalProbability < 0.10:
			agg.GoalProbBins["0-10%"]++
		case r.GoalProbability < 0.25:
			agg.GoalProbBins["10-25%"]++
		case r.GoalProbability < 0.40:
			agg.GoalProbBins["25-40%"]++
		default:
			agg.GoalProbBins["40%+"]++
		}

		for _, p := range r.AllPlayers {
			a, ok := playerAcc[p.ID]
			if !ok {
				a = &acc{meta: PlayerAggregate{
					ID:       p.ID,
					Name:     p.Name,
					Position: p.Position,
					Team:     p.Team,
					Tier:     p.Tier,
				}}
				playerAcc[p.ID] = a
				playerOrder = append(playerOrder, p.ID)
			}
			a.pmus = append(a.pmus, p.PMU)
		}
	}

	agg.AvgPMUA /= n
	agg.AvgPMUB /= n
	agg.AvgPMU = (agg.AvgPMUA + agg.AvgPMUB) / 2
	agg.GoalProbability /= n
	agg.XG /= n
	agg.AvgFatigueA /= n
	agg.AvgFatigueB /= n
	agg.FormationCoherence = map[Team]float64{TeamA: cohA / n, TeamB: cohB / n}

	agg.TeamAPressure.Possession /= n
	agg.TeamAPressure.OffBall /= n
	agg.TeamAPressure.Transition /= n
	agg.TeamBPressure.Possession /= n
	agg.TeamBPressure.OffBall /= n
	agg.TeamBPressure.Transition /= n

	agg.OutcomeDistribution = OutcomeDistribution{
		TeamAWins: float64(winsA) / n,
		TeamBWins: float64(winsB) / n,
		Draws:     float64(len(results)-winsA-winsB) / n,
	}
	agg.ScoreDistribution = ScoreDistribution{
		AvgGoalsA: mean(goalsA),
		AvgGoalsB: mean(goalsB),
		StdGoalsA: stdDev(goalsA),
		StdGoalsB: stdDev(goalsB),
	}
	for k := range agg.GoalProbBins {
		agg.GoalProbBins[k] /= n
	}

	for _, id := range playerOrder {
		a := playerAcc[id]
		pa := a.meta
		pa.PMU = mean(a.pmus)
		pa.Std = stdDev(a.pmus)
		pa.Consistency = consistency(pa.PMU, pa.Std)
		agg.AllPlayerStats = append(agg.AllPlayerStats, pa)
	}
	sort.Slice(agg.AllPlayerStats, func(i, j int) bool {
		return agg.AllPlayerStats[i].PMU > agg.AllPlayerStats[j].PMU
	})
	if len(agg.AllPlayerStats) > 10 {
		agg.PlayerMomentum = agg.AllPlayerStats[:10]
	} else {
		agg.PlayerMomentum = agg.AllPlayerStats
	}

	agg.Risk = assessRisk(agg)
	return agg
}

// consistency is 1 - std/mean floored at 0, with a neutral 0 when the mean
// momentum is itself 0.
func consistency(mean, std float64) float64 {
	if mean <= 0 {
		return 0
	}
	return math.Max(0, 1.0-std/mean)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// assessRisk derives the tactical risk layer from an aggregate. Thresholds
// are calibrated against the balanced 4-3-3 baseline.
func assessRisk(agg *Aggregate) RiskAssessment {
	shotProb := clamp(agg.GoalProbability*100*2.5, 0, 100)
	turnover := clamp((agg.AvgFatigueA/100)*40+(1-agg.FormationCoherence[TeamA])*60, 0, 100)
	counter := clamp(agg.TeamAPressure.Possession*60+(1-agg.TeamAPressure.OffBall)*30, 0, 100)

	score := shotProb*0.3 + turnover*0.4 + counter*0.3
	level := "LOW"
	switch {
	case score >= 75:
		level = "CRITICAL"
	case score >= 55:
		level = "HIGH"
	case score >= 30:
		level = "MODERATE"
	}

	return RiskAssessment{
		ShotProbability:       shotProb,
		TurnoverRisk:          turnover,
		CounterattackExposure: counter,
		OverallRiskLevel:      level,
	}
}
