package engine

import (
	"math"
	"math/rand"
	"sort"
)

// MatchConfig fixes one match's tactical setup. Values are assumed already
// validated at the API boundary; the simulator itself only normalises
// formations it cannot score via the heuristic fallback.
type MatchConfig struct {
	FormationA  string
	FormationB  string
	TacticA     Tactic
	TacticB     Tactic
	StartMinute int
	EndMinute   int
	CrowdNoise  float64
	Scenario    string
}

// MatchState is the shared scoreboard for one simulated match. It is owned
// exclusively by its MatchSimulator; the complementary-game-state invariant
// is maintained by updateGameStates, the only place the states change.
type MatchState struct {
	Minute       int       `json:"minute"`
	GameStateA   GameState `json:"game_state_a"`
	GameStateB   GameState `json:"game_state_b"`
	ScoreA       int       `json:"score_a"`
	ScoreB       int       `json:"score_b"`
	Possession   Team      `json:"possession_team"`
	BallX        float64   `json:"ball_x"`
	BallY        float64   `json:"ball_y"`
	CrowdNoiseDB float64   `json:"crowd_noise_db"`
}

func (ms *MatchState) updateGameStates() {
	switch {
	case ms.ScoreA > ms.ScoreB:
		ms.GameStateA, ms.GameStateB = StateLeading, StateLosing
	case ms.ScoreB > ms.ScoreA:
		ms.GameStateA, ms.GameStateB = StateLosing, StateLeading
	default:
		ms.GameStateA, ms.GameStateB = StateTied, StateTied
	}
}

func (ms *MatchState) switchPossession() {
	ms.Possession = ms.Possession.Opponent()
}

func (ms *MatchState) goalScored(team Team) {
	if team == TeamA {
		ms.ScoreA++
	} else {
		ms.ScoreB++
	}
	ms.updateGameStates()
	ms.switchPossession()
}

// TeamStats summarises one team's momentum at full time.
type TeamStats struct {
	AvgPMU     float64 `json:"avg_pmu"`
	PeakPMU    float64 `json:"peak_pmu"`
	MinPMU     float64 `json:"min_pmu"`
	TotalPMU   float64 `json:"total_pmu"`
	AvgFatigue float64 `json:"avg_fatigue"`
}

// PressureProfile is a team's projected pressure split.
type PressureProfile struct {
	Possession float64 `json:"possession"`
	OffBall    float64 `json:"offBall"`
	Transition float64 `json:"transition"`
}

// PlayerMomentum is a compact per-player line for result payloads.
type PlayerMomentum struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Team     Team     `json:"team"`
	PMU      float64  `json:"pmu"`
	Fatigue  float64  `json:"fatigue"`
}

// MatchResult is the collated summary of one simulated match.
type MatchResult struct {
	Score              map[Team]int         `json:"score"`
	GameState          map[string]GameState `json:"game_state"`
	TeamA              TeamStats            `json:"team_a"`
	TeamB              TeamStats            `json:"team_b"`
	FormationCoherence map[Team]float64     `json:"formation_coherence"`
	TeamAPressure      PressureProfile      `json:"teamAPressure"`
	TeamBPressure      PressureProfile      `json:"teamBPressure"`
	GoalProbability    float64              `json:"goalProbability"`
	XG                 float64              `json:"xg"`
	PlayerMomentum     []PlayerMomentum     `json:"playerMomentum"`
	AllPlayers         []*PlayerState       `json:"allPlayers"`
}

// MatchSimulator runs one match minute-by-minute. It owns all 22
// PlayerStates plus the MatchState; none of them may outlive or be shared
// beyond the simulator. All randomness is drawn from the injected RNG so
// iterations are independent when parallelised.
type MatchSimulator struct {
	cfg    MatchConfig
	tables *Tables
	rng    *rand.Rand

	events    EventProcessor
	fatigue   FatigueModel
	decay     DecayModel
	pressure  PressureEngine
	crowd     CrowdEngine
	formation FormationEngine
	agent     AgentDecision

	playersA []*PlayerState
	playersB []*PlayerState
	state    MatchState
}

// NewMatchSimulator builds the squads and initial match state. A nil squad
// uses the default 22-player template; a nil tables uses DefaultTables.
func NewMatchSimulator(cfg MatchConfig, squad []SquadRow, tables *Tables, rng *rand.Rand) *MatchSimulator {
	if tables == nil {
		tables = DefaultTables()
	}
	if squad == nil {
		squad = DefaultSquad
	}

	sim := &MatchSimulator{
		cfg:       cfg,
		tables:    tables,
		rng:       rng,
		events:    NewEventProcessor(tables),
		fatigue:   NewFatigueModel(tables),
		decay:     NewDecayModel(tables),
		pressure:  NewPressureEngine(tables),
		crowd:     NewCrowdEngine(tables),
		formation: NewFormationEngine(tables),
		state: MatchState{
			Minute:       cfg.StartMinute,
			GameStateA:   StateTied,
			GameStateB:   StateTied,
			Possession:   TeamA,
			BallX:        PitchLength / 2,
			BallY:        PitchWidth / 2,
			CrowdNoiseDB: cfg.CrowdNoise,
		},
	}

	for _, row := range squad {
		p := NewPlayerState(row, tables, rng)
		if row.Team == TeamA {
			sim.playersA = append(sim.playersA, p)
		} else {
			sim.playersB = append(sim.playersB, p)
		}
	}
	return sim
}

// State exposes the scoreboard for inspection after a run.
func (s *MatchSimulator) State() MatchState {
	return s.state
}

func (s *MatchSimulator) allPlayers() []*PlayerState {
	out := make([]*PlayerState, 0, len(s.playersA)+len(s.playersB))
	out = append(out, s.playersA...)
	return append(out, s.playersB...)
}

// Run steps the match from start to end minute inclusive and collates the
// result. The loop has no early exit; structure is deterministic, content
// stochastic.
func (s *MatchSimulator) Run() *MatchResult {
	for minute := s.cfg.StartMinute; minute <= s.cfg.EndMinute; minute++ {
		s.step(minute)
	}
	return s.collate()
}

func (s *MatchSimulator) step(minute int) {
	tmodA := s.tables.TacticProfileFor(s.cfg.TacticA)
	tmodB := s.tables.TacticProfileFor(s.cfg.TacticB)
	cohA := s.formation.Coherence(s.playersA, s.cfg.FormationA)
	cohB := s.formation.Coherence(s.playersB, s.cfg.FormationB)

	for _, p := range s.allPlayers() {
		gs, tmod, coh := s.state.GameStateA, tmodA, cohA
		if p.Team == TeamB {
			gs, tmod, coh = s.state.GameStateB, tmodB, cohB
		}
		hasPoss := s.state.Possession == p.Team

		action := s.agent.DecideAction(p, gs, hasPoss, s.state.BallX, s.rng)
		success, event := s.agent.AttemptAction(action, p, s.rng)

		impact := s.events.Compute(event, p, gs, minute, success) * tmod.PMU
		p.EventImpact += impact
		p.RecalcPMU()
		p.LogEvent(EventLogEntry{
			Minute:  minute,
			Action:  string(action),
			Event:   event,
			Impact:  impact,
			Success: success,
		})

		if event == EventGoal {
			s.handleGoal(p, minute)
		}

		sprint := 0
		if action == ActionPress || action == ActionDribble || action == ActionTackle {
			sprint = 1
		}
		s.fatigue.Update(p, ActivitySample{
			Speed:        p.Speed * (0.3 + s.rng.Float64()*0.6),
			Distance:     50 + s.rng.Float64()*150,
			SprintEvents: sprint,
			IsStoppage:   s.rng.Float64() < 0.10,
		})

		s.decay.Apply(p, event, 1.0)

		crowdVal := s.crowd.Compute(p, CrowdConditions{
			NoiseDB:     s.state.CrowdNoiseDB,
			IsHome:      p.Team == TeamA,
			HeartRate:   80 + p.Fatigue*0.4,
			HRV:         80 - p.Fatigue*0.3,
			MatchMinute: minute,
		})
		s.crowd.Apply(p, crowdVal)

		// Opponent pressure: every opposing player contributes, a fraction
		// of the sum converts to momentum loss.
		opponents := s.playersB
		if p.Team == TeamB {
			opponents = s.playersA
		}
		total := 0.0
		for _, opp := range opponents {
			total += s.pressure.ComputeImpact(opp, p, coh)
		}
		if total > 0 {
			p.EventImpact -= total * 0.05
			p.RecalcPMU()
		}

		p.Snapshot()
	}

	if s.rng.Float64() < 0.35 {
		s.state.switchPossession()
		s.state.BallX = 20 + s.rng.Float64()*65
		s.state.BallY = 5 + s.rng.Float64()*58
	}
	s.state.Minute = minute
}

func (s *MatchSimulator) handleGoal(scorer *PlayerState, minute int) {
	s.state.goalScored(scorer.Team)

	concedingTactic := s.tables.TacticProfileFor(s.cfg.TacticB)
	opponents := s.playersB
	if scorer.Team == TeamB {
		concedingTactic = s.tables.TacticProfileFor(s.cfg.TacticA)
		opponents = s.playersA
	}

	base := s.tables.EventImpact[EventGoalConceded]
	mod := MinuteModifier(minute)
	for _, opp := range opponents {
		opp.EventImpact += base * mod * concedingTactic.PMU
		opp.RecalcPMU()
		opp.LogEvent(EventLogEntry{
			Minute:  minute,
			Event:   EventGoalConceded,
			Impact:  base * mod,
			Success: false,
		})
	}
}

func (s *MatchSimulator) teamStats(players []*PlayerState) TeamStats {
	stats := TeamStats{MinPMU: math.MaxFloat64}
	fat := 0.0
	for _, p := range players {
		stats.TotalPMU += p.PMU
		stats.PeakPMU = math.Max(stats.PeakPMU, p.PMU)
		stats.MinPMU = math.Min(stats.MinPMU, p.PMU)
		fat += p.Fatigue
	}
	n := float64(len(players))
	if n > 0 {
		stats.AvgPMU = stats.TotalPMU / n
		stats.AvgFatigue = fat / n
	} else {
		stats.MinPMU = 0
	}
	return stats
}

func (s *MatchSimulator) collate() *MatchResult {
	statsA := s.teamStats(s.playersA)
	statsB := s.teamStats(s.playersB)

	cohA := s.formation.Coherence(s.playersA, s.cfg.FormationA)
	cohB := s.formation.Coherence(s.playersB, s.cfg.FormationB)
	tmodA := s.tables.TacticProfileFor(s.cfg.TacticA)
	tmodB := s.tables.TacticProfileFor(s.cfg.TacticB)

	pressureA := PressureProfile{
		Possession: cohA * tmodA.Possession * (0.4 + s.rng.Float64()*0.3),
		OffBall:    cohA * tmodA.OffBall * (0.3 + s.rng.Float64()*0.3),
		Transition: 0.2 + s.rng.Float64()*0.3,
	}
	pressureB := PressureProfile{
		Possession: cohB * tmodB.Possession * (0.3 + s.rng.Float64()*0.3),
		OffBall:    cohB * tmodB.OffBall * (0.3 + s.rng.Float64()*0.3),
		Transition: 0.2 + s.rng.Float64()*0.3,
	}

	// Goal probability for the next short window, from the momentum gap.
	rawGoalProb := math.Max(0.0, (statsA.AvgPMU/55-statsB.AvgPMU/65)*0.15)
	goalProb := clamp(rawGoalProb+s.rng.NormFloat64()*0.02, 0.0, 0.55)
	xg := math.Max(0.0, goalProb*3.0*(0.8+s.rng.Float64()*0.4))

	all := s.allPlayers()
	sorted := make([]*PlayerState, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PMU > sorted[j].PMU })

	top := make([]PlayerMomentum, 0, 10)
	for _, p := range sorted {
		if len(top) == 10 {
			break
		}
		top = append(top, PlayerMomentum{
			Name:     p.Name,
			Position: p.Position,
			Team:     p.Team,
			PMU:      p.PMU,
			Fatigue:  p.Fatigue,
		})
	}

	return &MatchResult{
		Score:              map[Team]int{TeamA: s.state.ScoreA, TeamB: s.state.ScoreB},
		GameState:          map[string]GameState{"team_a": s.state.GameStateA, "team_b": s.state.GameStateB},
		TeamA:              statsA,
		TeamB:              statsB,
		FormationCoherence: map[Team]float64{TeamA: cohA, TeamB: cohB},
		TeamAPressure:      pressureA,
		TeamBPressure:      pressureB,
		GoalProbability:    goalProb,
		XG:                 xg,
		PlayerMomentum:     top,
		AllPlayers:         all,
	}
}
