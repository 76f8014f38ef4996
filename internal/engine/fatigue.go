package engine

import "math"

// ActivitySample is the per-step physical load feeding the fatigue model.
type ActivitySample struct {
	Speed        float64
	Distance     float64
	Acceleration float64
	SprintEvents int
	IsStoppage   bool
}

// FatigueModel accumulates fatigue from physical activity and subtracts a
// small recovery each step (larger during stoppages). Fatigue is the only
// channel through which sustained activity degrades momentum over a match.
type FatigueModel struct {
	tables *Tables
}

// NewFatigueModel builds a model over the given calibration.
func NewFatigueModel(tables *Tables) FatigueModel {
	return FatigueModel{tables: tables}
}

// Update mutates the player's fatigue from one activity sample and
// rederives PMU. The fitness factor comes from the calibration tables
// rather than per-player attributes.
func (fm FatigueModel) Update(p *PlayerState, sample ActivitySample) {
	factor := 2.0 - fm.tables.FatigueFitness // lower fitness, faster fatigue

	delta := (sample.Speed*0.002 +
		sample.Distance*0.0001 +
		math.Abs(sample.Acceleration)*0.010 +
		float64(sample.SprintEvents)*0.50) * factor

	recovery := 0.010
	if sample.IsStoppage {
		recovery = 0.020
	}

	p.Fatigue = clamp(p.Fatigue+delta-recovery, 0.0, 100.0)
	p.RecalcPMU()
}
