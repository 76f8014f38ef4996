package engine

import "math/rand"

// SquadRow is one immutable line of the squad template. Rows seed
// PlayerStates at the start of every simulation and are never mutated.
type SquadRow struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Team  Team           `json:"team"`
	Pos   Position       `json:"position"`
	Tier  ResilienceTier `json:"resilience_tier"`
	Skill float64        `json:"skill"`
	Speed float64        `json:"speed"`
	Exp   int            `json:"experience_years"`
}

// DefaultSquad is the reference 22-player squad (11 per side).
var DefaultSquad = []SquadRow{
	{ID: "A1", Name: "M. Salah", Team: TeamA, Pos: Forward, Tier: TierVeteran, Skill: 9.2, Speed: 9.1, Exp: 10},
	{ID: "A2", Name: "K. De Bruyne", Team: TeamA, Pos: Midfielder, Tier: TierVeteran, Skill: 9.0, Speed: 8.4, Exp: 12},
	{ID: "A3", Name: "V. van Dijk", Team: TeamA, Pos: Defender, Tier: TierVeteran, Skill: 8.8, Speed: 7.6, Exp: 11},
	{ID: "A4", Name: "T. Alexander-Arnold", Team: TeamA, Pos: Defender, Tier: TierExperienced, Skill: 8.5, Speed: 8.7, Exp: 7},
	{ID: "A5", Name: "H. Kane", Team: TeamA, Pos: Forward, Tier: TierVeteran, Skill: 8.9, Speed: 7.8, Exp: 10},
	{ID: "A6", Name: "B. Saka", Team: TeamA, Pos: Forward, Tier: TierYoung, Skill: 8.4, Speed: 8.8, Exp: 4},
	{ID: "A7", Name: "R. James", Team: TeamA, Pos: Defender, Tier: TierExperienced, Skill: 8.2, Speed: 8.5, Exp: 6},
	{ID: "A8", Name: "D. Rice", Team: TeamA, Pos: Midfielder, Tier: TierExperienced, Skill: 8.3, Speed: 8.1, Exp: 7},
	{ID: "A9", Name: "P. Foden", Team: TeamA, Pos: Midfielder, Tier: TierExperienced, Skill: 8.7, Speed: 8.6, Exp: 7},
	{ID: "A10", Name: "L. Dunk", Team: TeamA, Pos: Defender, Tier: TierVeteran, Skill: 7.9, Speed: 7.2, Exp: 10},
	{ID: "A11", Name: "A. Ramsdale", Team: TeamA, Pos: Goalkeeper, Tier: TierExperienced, Skill: 8.0, Speed: 6.5, Exp: 6},
	{ID: "B1", Name: "E. Haaland", Team: TeamB, Pos: Forward, Tier: TierYoung, Skill: 9.3, Speed: 9.5, Exp: 4},
	{ID: "B2", Name: "B. Fernandes", Team: TeamB, Pos: Midfielder, Tier: TierVeteran, Skill: 8.6, Speed: 8.2, Exp: 10},
	{ID: "B3", Name: "R. Dias", Team: TeamB, Pos: Defender, Tier: TierVeteran, Skill: 8.7, Speed: 7.9, Exp: 9},
	{ID: "B4", Name: "T. Koulibaly", Team: TeamB, Pos: Defender, Tier: TierVeteran, Skill: 8.5, Speed: 7.8, Exp: 11},
	{ID: "B5", Name: "J. Bellingham", Team: TeamB, Pos: Midfielder, Tier: TierExperienced, Skill: 8.9, Speed: 8.7, Exp: 5},
	{ID: "B6", Name: "V. Osimhen", Team: TeamB, Pos: Forward, Tier: TierExperienced, Skill: 8.6, Speed: 9.2, Exp: 5},
	{ID: "B7", Name: "F. de Jong", Team: TeamB, Pos: Midfielder, Tier: TierExperienced, Skill: 8.5, Speed: 8.3, Exp: 6},
	{ID: "B8", Name: "T. Hernandez", Team: TeamB, Pos: Defender, Tier: TierExperienced, Skill: 8.1, Speed: 9.0, Exp: 6},
	{ID: "B9", Name: "K. Havertz", Team: TeamB, Pos: Forward, Tier: TierExperienced, Skill: 8.2, Speed: 8.4, Exp: 5},
	{ID: "B10", Name: "E. Camavinga", Team: TeamB, Pos: Midfielder, Tier: TierYoung, Skill: 8.3, Speed: 8.6, Exp: 3},
	{ID: "B11", Name: "E. Mendy", Team: TeamB, Pos: Goalkeeper, Tier: TierVeteran, Skill: 8.4, Speed: 6.8, Exp: 9},
}

// EventLogEntry records one resolved action for reporting.
type EventLogEntry struct {
	Minute  int       `json:"minute"`
	Action  string    `json:"action,omitempty"`
	Event   EventType `json:"event"`
	Impact  float64   `json:"impact"`
	Success bool      `json:"success"`
}

// PlayerState is one player's mutable momentum state during a simulation.
// A PlayerState is owned by exactly one MatchSimulator for its lifetime and
// must never be shared across concurrent iterations.
type PlayerState struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Position Position       `json:"position"`
	Team     Team           `json:"team"`
	Tier     ResilienceTier `json:"resilience_tier"`
	Skill    float64        `json:"skill"`
	Speed    float64        `json:"speed"`

	// Momentum decomposition. PMU is always derived, never written directly.
	BaselineEnergy float64 `json:"baseline_energy"`
	EventImpact    float64 `json:"event_impact"`
	CrowdImpact    float64 `json:"crowd_impact"`
	Fatigue        float64 `json:"fatigue"`
	PMU            float64 `json:"pmu"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	Resilience float64 `json:"resilience_factor"`

	PMUHistory []float64       `json:"pmu_history,omitempty"`
	EventLog   []EventLogEntry `json:"event_log,omitempty"`
}

// NewPlayerState seeds a PlayerState from a squad row. Baseline energy is
// fixed here from position and skill and never changes afterwards. The
// starting pitch position is drawn from the caller's RNG.
func NewPlayerState(row SquadRow, tables *Tables, rng *rand.Rand) *PlayerState {
	base := tables.BaseEnergy[row.Pos]
	if base == 0 {
		base = 12.0
	}
	decision := row.Skill * 0.9 // decision-making proxy
	base *= 1.0 + ((row.Skill+decision)/20.0)*0.3

	p := &PlayerState{
		ID:             row.ID,
		Name:           row.Name,
		Position:       row.Pos,
		Team:           row.Team,
		Tier:           row.Tier,
		Skill:          row.Skill,
		Speed:          row.Speed,
		BaselineEnergy: base,
		PMU:            base,
		X:              20 + rng.Float64()*65,
		Y:              5 + rng.Float64()*58,
		Resilience:     tables.Resilience(row.Tier),
	}
	return p
}

// RecalcPMU rederives PMU from the four accumulators. Must be called after
// any accumulator mutation; PMU is guaranteed to stay within [0,100] no
// matter how extreme the accumulators get.
func (p *PlayerState) RecalcPMU() {
	raw := p.BaselineEnergy + p.EventImpact + p.CrowdImpact - p.Fatigue*0.30
	p.PMU = clamp(raw, 0.0, 100.0)
}

// Snapshot appends the current PMU to the reporting history.
func (p *PlayerState) Snapshot() {
	p.PMUHistory = append(p.PMUHistory, p.PMU)
}

// LogEvent appends an entry to the reporting event log.
func (p *PlayerState) LogEvent(e EventLogEntry) {
	p.EventLog = append(p.EventLog, e)
}
