package engine

import "math"

// CrowdConditions carries the ambient and biometric inputs to the crowd
// model for one player at one step.
type CrowdConditions struct {
	NoiseDB     float64
	IsHome      bool
	HeartRate   float64
	HRV         float64
	MatchMinute int
}

// CrowdEngine converts crowd noise and biometric stress proxies into a small
// bounded momentum adjustment. Noise helps the home side (α=+0.08) and
// actively hurts the away side (α=−0.12); the asymmetry is calibrated, not
// accidental. 75 dB is the neutral baseline.
type CrowdEngine struct {
	tables *Tables
}

// NewCrowdEngine builds an engine over the given calibration.
func NewCrowdEngine(tables *Tables) CrowdEngine {
	return CrowdEngine{tables: tables}
}

// experience modifier breakpoints: veterans shrug the crowd off.
var crowdExpBreaks = []struct {
	years int
	mod   float64
}{
	{1, 1.2},
	{5, 1.0},
	{10, 0.7},
	{15, 0.5},
}

func experienceModifier(years int) float64 {
	if years <= crowdExpBreaks[0].years {
		return crowdExpBreaks[0].mod
	}
	for i := 1; i < len(crowdExpBreaks); i++ {
		if years <= crowdExpBreaks[i].years {
			lo, hi := crowdExpBreaks[i-1], crowdExpBreaks[i]
			frac := float64(years-lo.years) / float64(hi.years-lo.years)
			return lo.mod*(1-frac) + hi.mod*frac
		}
	}
	return crowdExpBreaks[len(crowdExpBreaks)-1].mod
}

func heartRateStress(bpm float64) float64 {
	switch {
	case bpm < 80:
		return 0.3
	case bpm < 100:
		return 0.7
	case bpm < 120:
		return 1.0
	default:
		return 1.3 + (bpm-120)/50.0
	}
}

// Compute returns the crowd impact for one player, clamped to [−8,8].
func (ce CrowdEngine) Compute(p *PlayerState, cond CrowdConditions) float64 {
	alpha := -0.12
	if cond.IsHome {
		alpha = 0.08
	}
	noiseNorm := (cond.NoiseDB - 75.0) / 20.0

	expYears := 5
	if y, ok := ce.tables.TierExperience[p.Tier]; ok {
		expYears = y
	}
	expMod := experienceModifier(expYears)

	// Lower heart-rate variability reads as higher stress.
	hrvStress := 1.0 - math.Min(0.5, cond.HRV/200.0)
	stress := heartRateStress(cond.HeartRate)*0.6 + hrvStress*0.4

	return clamp(alpha*noiseNorm*expMod*stress, -8.0, 8.0)
}

// Apply stores the crowd impact on the player, capping the effective PMU
// adjustment at ±15% of the player's current momentum, and rederives PMU.
func (ce CrowdEngine) Apply(p *PlayerState, impact float64) {
	limit := math.Abs(p.PMU) * 0.15
	if limit > 0 {
		impact = clamp(impact, -limit, limit)
	}
	p.CrowdImpact = impact
	p.RecalcPMU()
}
