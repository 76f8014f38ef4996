package engine

import (
	"fmt"
	"math"
)

// EventType is the closed set of discrete match events the engine understands.
// Using a real enum instead of free-form strings means an unknown event is a
// parse error at the boundary, not a silent zero-impact lookup miss.
type EventType int

const (
	EventPass EventType = iota
	EventKeyPass
	EventThroughBall
	EventCross
	EventTackle
	EventTackleWon
	EventInterception
	EventClearance
	EventShot
	EventShotOnTarget
	EventGoal
	EventGoalConceded
	EventSave
	EventFoul
	EventYellowCard
	EventRedCard
	EventTurnover
	EventDribble
	EventDribbleSuccess
	EventPress
	numEventTypes
)

var eventNames = [numEventTypes]string{
	EventPass:           "pass",
	EventKeyPass:        "key_pass",
	EventThroughBall:    "through_ball",
	EventCross:          "cross",
	EventTackle:         "tackle",
	EventTackleWon:      "tackle_won",
	EventInterception:   "interception",
	EventClearance:      "clearance",
	EventShot:           "shot",
	EventShotOnTarget:   "shot_on_target",
	EventGoal:           "goal",
	EventGoalConceded:   "goal_conceded",
	EventSave:           "save",
	EventFoul:           "foul",
	EventYellowCard:     "yellow_card",
	EventRedCard:        "red_card",
	EventTurnover:       "turnover",
	EventDribble:        "dribble",
	EventDribbleSuccess: "dribble_success",
	EventPress:          "press",
}

func (e EventType) String() string {
	if e < 0 || e >= numEventTypes {
		return "unknown"
	}
	return eventNames[e]
}

// MarshalJSON serialises events by their wire name.
func (e EventType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.String() + `"`), nil
}

// ParseEventType maps a wire name back to its enum value.
func ParseEventType(name string) (EventType, error) {
	for i, n := range eventNames {
		if n == name {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", name)
}

// EventTypes returns every known event type in declaration order.
func EventTypes() []EventType {
	out := make([]EventType, numEventTypes)
	for i := range out {
		out[i] = EventType(i)
	}
	return out
}

// EventProcessor computes the contextualised momentum impact of a single
// event:
//
//	impact = base × position × gameState × zone × minute [× 0.30 if failed]
//
// The product is clamped to ±25 so stacked modifiers can never run away.
type EventProcessor struct {
	tables *Tables
}

// NewEventProcessor builds a processor over the given calibration.
func NewEventProcessor(tables *Tables) EventProcessor {
	return EventProcessor{tables: tables}
}

// ZoneForX maps an x-coordinate to a pitch third relative to the team's
// attacking direction. Team A attacks toward x=105, team B toward x=0.
func ZoneForX(x float64, team Team) Zone {
	if team == TeamA {
		switch {
		case x < PitchLength/3:
			return DefensiveThird
		case x < 2*PitchLength/3:
			return MiddleThird
		default:
			return AttackingThird
		}
	}
	switch {
	case x > 2*PitchLength/3:
		return DefensiveThird
	case x > PitchLength/3:
		return MiddleThird
	default:
		return AttackingThird
	}
}

// MinuteModifier rises smoothly from ~0.65 at kickoff to ~1.30 near the 90th
// minute. The phase-shifted sine keeps the curve flat early and steep late,
// so stoppage-time events carry the most weight.
func MinuteModifier(minute int) float64 {
	t := float64(minute) / 90.0
	mod := 0.65 + 0.65*math.Sin(math.Pi*t-math.Pi/2)
	return clamp(mod, 0.55, 1.35)
}

// Compute returns the full contextualised impact for one event. A failed
// attempt still carries 30% of the base signal. Pure function of its inputs.
func (ep EventProcessor) Compute(event EventType, p *PlayerState, state GameState, minute int, success bool) float64 {
	base := ep.tables.EventImpact[event]
	if !success {
		base *= 0.30
	}

	posFactor := 1.0
	if mods, ok := ep.tables.PositionMods[p.Position]; ok {
		if f, ok := mods[event]; ok {
			posFactor = f
		}
	}

	stateFactor := 1.0
	if f, ok := ep.tables.GameStateMods[state]; ok {
		stateFactor = f
	}

	zoneFactor := 1.0
	if f, ok := ep.tables.ZoneMods[ZoneForX(p.X, p.Team)]; ok {
		zoneFactor = f
	}

	impact := base * posFactor * stateFactor * zoneFactor * MinuteModifier(minute)
	return clamp(impact, -25.0, 25.0)
}
