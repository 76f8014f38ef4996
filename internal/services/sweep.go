package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
)

// SweepIterationCap is the default per-combination iteration ceiling,
// keeping a full grid tractable. A 4x4 grid at the cap is 4800 match
// simulations. Operators can tighten or raise it through configuration.
const SweepIterationCap = 300

var sweepFormations = []string{"4-3-3", "4-4-2", "3-5-2", "5-3-2"}

var sweepTactics = []engine.Tactic{
	engine.TacticBalanced,
	engine.TacticAggressive,
	engine.TacticDefensive,
	engine.TacticPossession,
}

// SweepRequest configures a formation/tactic grid sweep. The opposition
// setup is held fixed while every formation/tactic combination for team A is
// simulated and ranked against the 4-3-3 balanced baseline.
type SweepRequest struct {
	FormationB  string        `json:"formation_b"`
	TacticB     engine.Tactic `json:"tactic_b"`
	Iterations  int           `json:"iterations"`
	StartMinute int           `json:"start_minute"`
	EndMinute   int           `json:"end_minute"`
	CrowdNoise  float64       `json:"crowd_noise"`
	RankBy      string        `json:"rank_by"`
}

// SweepCombination is one grid cell's outcome plus its deltas from baseline.
type SweepCombination struct {
	Formation     string        `json:"formation"`
	Tactic        engine.Tactic `json:"tactic"`
	XG            float64       `json:"xg"`
	GoalProb      float64       `json:"goal_prob"`
	AvgPMU        float64       `json:"avg_pmu"`
	RiskScore     float64       `json:"risk_score"`
	RiskLevel     string        `json:"risk_level"`
	DeltaXG       float64       `json:"delta_xg"`
	DeltaGoalProb float64       `json:"delta_goal_prob"`
	DeltaPMU      float64       `json:"delta_pmu"`
	Rank          int           `json:"rank"`
}

// SweepResult is the completed output of a sweep job.
type SweepResult struct {
	JobID        string             `json:"job_id"`
	RankBy       string             `json:"rank_by"`
	Baseline     SweepCombination   `json:"baseline"`
	Combinations []SweepCombination `json:"combinations"`
	Iterations   int                `json:"iterations_per_combination"`
	CompletedAt  time.Time          `json:"completed_at"`
}

// SweepJob tracks one background sweep.
type SweepJob struct {
	ID        string       `json:"job_id"`
	Status    string       `json:"status"` // pending, running, completed, failed
	Total     int          `json:"total_combinations"`
	Completed int          `json:"completed_combinations"`
	Error     string       `json:"error,omitempty"`
	Result    *SweepResult `json:"result,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type sweepProgressEvent struct {
	JobID     string  `json:"job_id"`
	Status    string  `json:"status"`
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Formation string  `json:"formation,omitempty"`
	Tactic    string  `json:"tactic,omitempty"`
	XG        float64 `json:"xg,omitempty"`
}

// SweepService runs formation/tactic grid sweeps as background jobs and
// streams per-combination progress over the websocket hub.
type SweepService struct {
	hub          *WebSocketHub
	cache        *CacheService
	squad        []engine.SquadRow
	tables       *engine.Tables
	iterationCap int

	mu   sync.RWMutex
	jobs map[string]*SweepJob
}

// NewSweepService builds a sweep service. A non-positive iterationCap falls
// back to SweepIterationCap.
func NewSweepService(hub *WebSocketHub, cache *CacheService, iterationCap int) *SweepService {
	if iterationCap <= 0 {
		iterationCap = SweepIterationCap
	}
	return &SweepService{
		hub:          hub,
		cache:        cache,
		squad:        engine.DefaultSquad,
		tables:       engine.DefaultTables(),
		iterationCap: iterationCap,
		jobs:         make(map[string]*SweepJob),
	}
}

// clampIterations applies the per-combination defaults and ceiling.
func (s *SweepService) clampIterations(n int) int {
	if n <= 0 {
		n = 100
	}
	if n > s.iterationCap {
		n = s.iterationCap
	}
	return n
}

// ValidRankKeys are the accepted rank_by values.
var ValidRankKeys = map[string]bool{
	"xg":        true,
	"goal_prob": true,
	"momentum":  true,
	"risk":      true,
}

// Start registers a sweep job and launches it in the background. The
// returned job is a snapshot; poll GetJob or subscribe to sweep:<job_id>
// for progress.
func (s *SweepService) Start(req SweepRequest) (*SweepJob, error) {
	if req.RankBy == "" {
		req.RankBy = "xg"
	}
	if !ValidRankKeys[req.RankBy] {
		return nil, fmt.Errorf("invalid rank_by %q", req.RankBy)
	}
	req.Iterations = s.clampIterations(req.Iterations)
	if req.FormationB == "" {
		req.FormationB = "4-3-3"
	}
	if req.TacticB == "" {
		req.TacticB = engine.TacticBalanced
	}
	if req.EndMinute == 0 {
		req.EndMinute = 90
	}

	job := &SweepJob{
		ID:        uuid.New().String(),
		Status:    "pending",
		Total:     len(sweepFormations) * len(sweepTactics),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go s.run(job.ID, req)

	snapshot := *job
	return &snapshot, nil
}

// GetJob returns a snapshot of a job's current state.
func (s *SweepService) GetJob(id string) (*SweepJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	snapshot := *job
	return &snapshot, true
}

func (s *SweepService) run(jobID string, req SweepRequest) {
	s.setStatus(jobID, "running", nil, "")
	s.publish(jobID, sweepProgressEvent{JobID: jobID, Status: "running",
		Total: len(sweepFormations) * len(sweepTactics)})

	simulate := func(formation string, tactic engine.Tactic) (*engine.Aggregate, error) {
		cfg := engine.SimulationConfig{
			Formation:   formation,
			FormationB:  req.FormationB,
			Tactic:      tactic,
			TacticB:     req.TacticB,
			Iterations:  req.Iterations,
			StartMinute: req.StartMinute,
			EndMinute:   req.EndMinute,
			CrowdNoise:  req.CrowdNoise,
		}
		key := SimulationCacheKey(cfg)
		if s.cache != nil {
			var cached engine.Aggregate
			if err := s.cache.Get(context.Background(), key, &cached); err == nil {
				return &cached, nil
			}
		}
		agg, err := engine.NewMonteCarloEngine(cfg, s.squad, s.tables).Run(nil)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.SetWithRetry(context.Background(), key, agg, time.Hour, 3)
		}
		return agg, nil
	}

	baselineAgg, err := simulate("4-3-3", engine.TacticBalanced)
	if err != nil {
		s.fail(jobID, err)
		return
	}
	baseline := toCombination("4-3-3", engine.TacticBalanced, baselineAgg, baselineAgg)

	combos := make([]SweepCombination, 0, len(sweepFormations)*len(sweepTactics))
	completed := 0
	total := len(sweepFormations) * len(sweepTactics)
	for _, formation := range sweepFormations {
		for _, tactic := range sweepTactics {
			var agg *engine.Aggregate
			if formation == "4-3-3" && tactic == engine.TacticBalanced {
				agg = baselineAgg
			} else {
				agg, err = simulate(formation, tactic)
				if err != nil {
					s.fail(jobID, err)
					return
				}
			}
			combo := toCombination(formation, tactic, agg, baselineAgg)
			combos = append(combos, combo)
			completed++
			s.setProgress(jobID, completed)
			s.publish(jobID, sweepProgressEvent{
				JobID:     jobID,
				Status:    "running",
				Total:     total,
				Completed: completed,
				Formation: formation,
				Tactic:    string(tactic),
				XG:        combo.XG,
			})
		}
	}

	rankCombinations(combos, req.RankBy)

	result := &SweepResult{
		JobID:        jobID,
		RankBy:       req.RankBy,
		Baseline:     baseline,
		Combinations: combos,
		Iterations:   req.Iterations,
		CompletedAt:  time.Now().UTC(),
	}
	s.setStatus(jobID, "completed", result, "")
	s.publish(jobID, sweepProgressEvent{JobID: jobID, Status: "completed",
		Total: total, Completed: total})
	logrus.Infof("Sweep %s completed: %d combinations ranked by %s", jobID, total, req.RankBy)
}

// rankCombinations sorts in place and assigns 1-based ranks. For risk a
// lower score ranks first; every other key ranks descending.
func rankCombinations(combos []SweepCombination, rankBy string) {
	sort.SliceStable(combos, func(i, j int) bool {
		switch rankBy {
		case "goal_prob":
			return combos[i].GoalProb > combos[j].GoalProb
		case "momentum":
			return combos[i].AvgPMU > combos[j].AvgPMU
		case "risk":
			return combos[i].RiskScore < combos[j].RiskScore
		default:
			return combos[i].XG > combos[j].XG
		}
	})
	for i := range combos {
		combos[i].Rank = i + 1
	}
}

func toCombination(formation string, tactic engine.Tactic, agg, baseline *engine.Aggregate) SweepCombination {
	risk := agg.Risk
	riskScore := risk.ShotProbability*0.3 + risk.TurnoverRisk*0.4 + risk.CounterattackExposure*0.3
	return SweepCombination{
		Formation:     formation,
		Tactic:        tactic,
		XG:            agg.XG,
		GoalProb:      agg.GoalProbability,
		AvgPMU:        agg.AvgPMUA,
		RiskScore:     riskScore,
		RiskLevel:     risk.OverallRiskLevel,
		DeltaXG:       agg.XG - baseline.XG,
		DeltaGoalProb: agg.GoalProbability - baseline.GoalProbability,
		DeltaPMU:      agg.AvgPMUA - baseline.AvgPMUA,
	}
}

func (s *SweepService) setStatus(jobID, status string, result *SweepResult, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = status
		job.Result = result
		job.Error = errMsg
		if result != nil {
			job.Completed = job.Total
		}
	}
}

func (s *SweepService) setProgress(jobID string, completed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Completed = completed
	}
}

func (s *SweepService) fail(jobID string, err error) {
	logrus.Errorf("Sweep %s failed: %v", jobID, err)
	s.setStatus(jobID, "failed", nil, err.Error())
	s.publish(jobID, sweepProgressEvent{JobID: jobID, Status: "failed"})
}

func (s *SweepService) publish(jobID string, event sweepProgressEvent) {
	if s.hub == nil {
		return
	}
	if err := s.hub.BroadcastToTopic("sweep:"+jobID, "sweep_progress", event); err != nil {
		logrus.Warnf("Failed to broadcast sweep progress: %v", err)
	}
}
