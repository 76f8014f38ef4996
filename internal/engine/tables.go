package engine

// Pitch dimensions in metres.
const (
	PitchLength = 105.0
	PitchWidth  = 68.0
)

// Position is a player's role on the pitch.
type Position string

const (
	Goalkeeper Position = "GK"
	Defender   Position = "DEF"
	Midfielder Position = "MID"
	Forward    Position = "FWD"
)

// Team identifies one of the two sides in a match.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// ResilienceTier buckets a player's experience for momentum decay purposes.
type ResilienceTier string

const (
	TierRookie      ResilienceTier = "rookie"
	TierYoung       ResilienceTier = "young"
	TierExperienced ResilienceTier = "experienced"
	TierVeteran     ResilienceTier = "veteran"
)

// GameState is a team's view of the scoreboard.
type GameState string

const (
	StateLeading GameState = "leading"
	StateTied    GameState = "tied"
	StateLosing  GameState = "losing"
)

// Zone is a third of the pitch relative to a team's attacking direction.
type Zone string

const (
	DefensiveThird Zone = "defensive_third"
	MiddleThird    Zone = "middle_third"
	AttackingThird Zone = "attacking_third"
)

// Tactic is a team-level playing style.
type Tactic string

const (
	TacticAggressive Tactic = "aggressive"
	TacticBalanced   Tactic = "balanced"
	TacticDefensive  Tactic = "defensive"
	TacticPossession Tactic = "possession"
)

// Tactics lists the valid tactic values.
var Tactics = []Tactic{TacticAggressive, TacticBalanced, TacticDefensive, TacticPossession}

// TacticProfile holds the multipliers one tactic applies.
type TacticProfile struct {
	PMU        float64
	OffBall    float64
	Possession float64
	Press      float64
}

// Tables is the immutable calibration set the engine runs against. A single
// shared instance is safe to use from any number of concurrent simulations;
// nothing ever writes to it after construction. Tests may build alternate
// calibrations to probe individual formulas.
type Tables struct {
	BaseEnergy         map[Position]float64
	EventImpact        map[EventType]float64
	PositionMods       map[Position]map[EventType]float64
	GameStateMods      map[GameState]float64
	ZoneMods           map[Zone]float64
	TacticMods         map[Tactic]TacticProfile
	ResilienceFactors  map[ResilienceTier]float64
	TierExperience     map[ResilienceTier]int
	FormationCoherence map[string]float64
	DecayRates         map[EventType]float64

	// DecayDefault applies to event types without a dedicated decay rate.
	DecayDefault float64
	// GoalConcededLambda drives the exponential shock decay after conceding.
	GoalConcededLambda float64
	// PressureRadius is the e-folding distance of pressure in metres.
	PressureRadius float64
	// PressureConeDeg is the full angle of the forward pressure cone.
	PressureConeDeg float64
	// FatigueFitness is the fitness factor used by the fatigue model.
	FatigueFitness float64
}

// DefaultTables returns the calibrated production table set.
func DefaultTables() *Tables {
	return &Tables{
		BaseEnergy: map[Position]float64{
			Goalkeeper: 8.0,
			Defender:   12.0,
			Midfielder: 15.0,
			Forward:    18.0,
		},
		EventImpact: map[EventType]float64{
			EventPass:           2.0,
			EventKeyPass:        3.5,
			EventThroughBall:    4.0,
			EventCross:          2.5,
			EventTackle:         5.0,
			EventTackleWon:      6.0,
			EventInterception:   3.0,
			EventClearance:      2.0,
			EventShot:           4.0,
			EventShotOnTarget:   5.5,
			EventGoal:           15.0,
			EventGoalConceded:   -10.0,
			EventSave:           5.0,
			EventFoul:           -3.0,
			EventYellowCard:     -4.0,
			EventRedCard:        -12.0,
			EventTurnover:       -2.5,
			EventDribble:        3.0,
			EventDribbleSuccess: 4.5,
			EventPress:          1.5,
		},
		PositionMods: map[Position]map[EventType]float64{
			Goalkeeper: {
				EventSave:   1.5,
				EventTackle: 0.9,
				EventPass:   0.8,
			},
			Defender: {
				EventTackle:       1.3,
				EventTackleWon:    1.4,
				EventClearance:    1.4,
				EventInterception: 1.3,
				EventGoal:         1.8,
			},
			Midfielder: {
				EventPass:        1.2,
				EventKeyPass:     1.3,
				EventThroughBall: 1.4,
				EventGoal:        1.5,
			},
			Forward: {
				EventShot:           1.3,
				EventShotOnTarget:   1.4,
				EventGoal:           1.2,
				EventDribbleSuccess: 1.3,
			},
		},
		GameStateMods: map[GameState]float64{
			StateLeading: 0.9,
			StateTied:    1.0,
			StateLosing:  1.2,
		},
		ZoneMods: map[Zone]float64{
			DefensiveThird: 0.8,
			MiddleThird:    1.0,
			AttackingThird: 1.5,
		},
		TacticMods: map[Tactic]TacticProfile{
			TacticAggressive: {PMU: 1.20, OffBall: 0.85, Possession: 0.95, Press: 1.35},
			TacticBalanced:   {PMU: 1.00, OffBall: 1.00, Possession: 1.00, Press: 1.00},
			TacticDefensive:  {PMU: 0.75, OffBall: 1.25, Possession: 0.80, Press: 0.70},
			TacticPossession: {PMU: 1.15, OffBall: 0.80, Possession: 1.20, Press: 0.90},
		},
		ResilienceFactors: map[ResilienceTier]float64{
			TierVeteran:     0.90,
			TierExperienced: 0.75,
			TierYoung:       0.60,
			TierRookie:      0.45,
		},
		TierExperience: map[ResilienceTier]int{
			TierVeteran:     12,
			TierExperienced: 7,
			TierYoung:       3,
			TierRookie:      1,
		},
		FormationCoherence: map[string]float64{
			"4-3-3":   0.87,
			"3-5-2":   0.82,
			"5-3-2":   0.85,
			"4-2-4":   0.78,
			"4-4-2":   0.84,
			"3-4-3":   0.80,
			"4-2-3-1": 0.86,
			"4-1-4-1": 0.83,
			"4-3-2-1": 0.82,
		},
		DecayRates: map[EventType]float64{
			EventGoal:         0.20,
			EventGoalConceded: 0.25,
			EventTackle:       0.15,
			EventShot:         0.12,
			EventPass:         0.05,
			EventFoul:         0.08,
		},
		DecayDefault:       0.08,
		GoalConcededLambda: 0.03,
		PressureRadius:     6.0,
		PressureConeDeg:    120.0,
		FatigueFitness:     0.85,
	}
}

// TacticProfileFor returns the profile for a tactic, defaulting to balanced.
func (t *Tables) TacticProfileFor(tactic Tactic) TacticProfile {
	if p, ok := t.TacticMods[tactic]; ok {
		return p
	}
	return t.TacticMods[TacticBalanced]
}

// Resilience returns the decay-resistance factor for a tier.
func (t *Tables) Resilience(tier ResilienceTier) float64 {
	if f, ok := t.ResilienceFactors[tier]; ok {
		return f
	}
	return 0.70
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
