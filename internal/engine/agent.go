package engine

import "math/rand"

// Action is a tactical intent, distinct from the event it resolves into.
type Action string

const (
	ActionPass      Action = "pass"
	ActionKeyPass   Action = "key_pass"
	ActionShot      Action = "shot"
	ActionTackle    Action = "tackle"
	ActionDribble   Action = "dribble"
	ActionPress     Action = "press"
	ActionClearance Action = "clearance"
)

var baseSuccessRates = map[Action]float64{
	ActionPass:      0.82,
	ActionKeyPass:   0.60,
	ActionShot:      0.35,
	ActionTackle:    0.55,
	ActionDribble:   0.50,
	ActionPress:     0.70,
	ActionClearance: 0.85,
}

// AgentDecision picks and resolves per-player actions. Deciding (tactical
// intent) and attempting (stochastic outcome) are separate stages so the
// policy can be tested apart from the dice. All randomness comes from the
// caller's RNG; the decision layer holds no state of its own.
type AgentDecision struct{}

func skillFactor(p *PlayerState) float64 {
	return 0.7 + (p.Skill/10.0)*0.3 // 0.77 to 1.0 across the skill range
}

func fatiguePenalty(p *PlayerState) float64 {
	return p.Fatigue / 500.0 // 20% success penalty at full fatigue
}

// DecideAction chooses a tactical intent for one player this minute.
func (AgentDecision) DecideAction(p *PlayerState, state GameState, hasPossession bool, ballX float64, rng *rand.Rand) Action {
	distToGoal := PitchLength - ballX
	if p.Team == TeamB {
		distToGoal = ballX
	}

	if hasPossession {
		switch p.Position {
		case Forward:
			if distToGoal < 18 && rng.Float64() < 0.60 {
				return ActionShot
			}
			if distToGoal < 30 && rng.Float64() < 0.40 {
				return ActionDribble
			}
			return ActionPass
		case Midfielder:
			if distToGoal < 25 && rng.Float64() < 0.25 {
				return ActionShot
			}
			if rng.Float64() < 0.55 {
				if distToGoal < 40 {
					return ActionKeyPass
				}
				return ActionPass
			}
			return ActionPass
		case Defender:
			if rng.Float64() < 0.80 {
				return ActionPass
			}
			return ActionClearance
		default: // keepers just distribute
			return ActionPass
		}
	}

	// Off the ball: a losing side with momentum left intensifies the press.
	if state == StateLosing && p.PMU > 30 && rng.Float64() < 0.60 {
		return ActionPress
	}
	switch p.Position {
	case Defender:
		if rng.Float64() < 0.55 {
			return ActionTackle
		}
		return ActionClearance
	case Midfielder:
		if rng.Float64() < 0.45 {
			return ActionTackle
		}
		return ActionPress
	default:
		return ActionPress
	}
}

// AttemptAction resolves an intent into success/failure and a concrete event
// type. Success probability is base × skill − fatigue, clamped to
// [0.05, 0.97]. A successful shot may upgrade to shot_on_target and from
// there has a further chance of becoming a goal.
func (AgentDecision) AttemptAction(action Action, p *PlayerState, rng *rand.Rand) (bool, EventType) {
	base, ok := baseSuccessRates[action]
	if !ok {
		base = 0.60
	}
	prob := clamp(base*skillFactor(p)-fatiguePenalty(p), 0.05, 0.97)
	success := rng.Float64() < prob

	var resolved EventType
	if success {
		switch action {
		case ActionPass:
			resolved = EventPass
		case ActionKeyPass:
			resolved = EventKeyPass
		case ActionShot:
			if rng.Float64() < 0.40 {
				resolved = EventShotOnTarget
			} else {
				resolved = EventShot
			}
		case ActionTackle:
			if rng.Float64() < 0.55 {
				resolved = EventTackleWon
			} else {
				resolved = EventTackle
			}
		case ActionDribble:
			resolved = EventDribbleSuccess
		case ActionPress:
			resolved = EventPress
		case ActionClearance:
			resolved = EventClearance
		default:
			resolved = EventPass
		}
	} else {
		switch action {
		case ActionPass, ActionKeyPass, ActionDribble:
			resolved = EventTurnover
		case ActionShot:
			resolved = EventShot
		case ActionTackle:
			if rng.Float64() < 0.30 {
				resolved = EventFoul
			} else {
				resolved = EventTackle
			}
		case ActionPress:
			resolved = EventPress
		case ActionClearance:
			resolved = EventClearance
		default:
			resolved = EventTurnover
		}
	}

	if resolved == EventShotOnTarget && rng.Float64() < 0.25 {
		resolved = EventGoal
	}

	return success, resolved
}
