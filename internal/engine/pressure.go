package engine

import "math"

// PressureEngine computes the momentum-suppressing effect one player exerts
// on an opponent:
//
//	impact = pressurer.PMU × coherence × e^(−d/radius) × cone
//
// Pressure is negligible beyond roughly 15 m and zero outside a 120° cone
// facing the target.
type PressureEngine struct {
	tables *Tables
}

// NewPressureEngine builds an engine over the given calibration.
func NewPressureEngine(tables *Tables) PressureEngine {
	return PressureEngine{tables: tables}
}

// DistanceDecay is e^(−d/r): 1.0 at contact, ~0.37 at one radius.
func (pe PressureEngine) DistanceDecay(dist float64) float64 {
	return math.Exp(-math.Max(0.1, dist) / pe.tables.PressureRadius)
}

// ConeFactor is 0 outside the pressure cone and rises linearly from the cone
// edge to 1 dead-ahead. (px,py) is the pressurer, (fx,fy) its facing vector,
// (tx,ty) the target.
func (pe PressureEngine) ConeFactor(px, py, fx, fy, tx, ty float64) float64 {
	dx, dy := tx-px, ty-py
	dist := math.Hypot(dx, dy)
	if dist < 0.1 {
		return 0.0
	}
	ndx, ndy := dx/dist, dy/dist

	fn := math.Hypot(fx, fy)
	if fn < 1e-9 {
		return 0.5
	}
	nfx, nfy := fx/fn, fy/fn

	cosA := ndx*nfx + ndy*nfy
	cosHalf := math.Cos(pe.tables.PressureConeDeg / 2 * math.Pi / 180)
	if cosA < cosHalf {
		return 0.0
	}
	return math.Max(0.0, (cosA-cosHalf)/(1.0-cosHalf+1e-9))
}

// ComputeImpact computes the pressure the pressurer exerts on the target,
// clamped to [0,50]. Facing is taken as toward the target since headings are
// not tracked; with that simplification the cone factor saturates for any
// in-range target.
func (pe PressureEngine) ComputeImpact(pressurer, target *PlayerState, coherence float64) float64 {
	dist := math.Hypot(pressurer.X-target.X, pressurer.Y-target.Y)
	d := pe.DistanceDecay(dist)
	c := pe.ConeFactor(
		pressurer.X, pressurer.Y,
		target.X-pressurer.X, target.Y-pressurer.Y,
		target.X, target.Y,
	)
	return clamp(pressurer.PMU*coherence*d*c, 0.0, 50.0)
}
