package engine

import "math"

// DecayModel shrinks accumulated event impact toward zero over time. Two
// regimes: an exponential shock for conceded goals and linear per-type rates
// for everything else. In both, the residual is scaled by the player's
// resilience factor first, so veterans hold accumulated momentum longer.
type DecayModel struct {
	tables *Tables
}

// NewDecayModel builds a model over the given calibration.
func NewDecayModel(tables *Tables) DecayModel {
	return DecayModel{tables: tables}
}

// Apply decays the player's event impact for a step of dt minutes and
// rederives PMU. Event impact never goes negative from decay.
func (dm DecayModel) Apply(p *PlayerState, event EventType, dt float64) {
	var amount float64
	if event == EventGoalConceded {
		amount = math.Abs(p.EventImpact) * (1.0 - math.Exp(-dm.tables.GoalConcededLambda*dt))
	} else {
		rate, ok := dm.tables.DecayRates[event]
		if !ok {
			rate = dm.tables.DecayDefault
		}
		amount = rate * dt
	}

	p.EventImpact = math.Max(0.0, p.EventImpact*p.Resilience-amount)
	p.RecalcPMU()
}
