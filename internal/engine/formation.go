package engine

import (
	"math"
	"strconv"
	"strings"
)

// FormationEngine scores how well a team's formation is holding together.
// The score blends a static lookup for the nominal shape (70%) with the live
// spatial compactness of the defensive line (30%), so coherence responds to
// what is actually happening on the pitch, not just the shape label.
type FormationEngine struct {
	tables *Tables
}

// NewFormationEngine builds an engine over the given calibration.
func NewFormationEngine(tables *Tables) FormationEngine {
	return FormationEngine{tables: tables}
}

// LookupCoherence scores a formation string in [0.70, 0.92]. Known shapes
// come straight from the table; arbitrary N-N-...-N strings fall back to a
// heuristic that penalises deviating from 3 lines and uneven line sizes.
// Strings that cannot be parsed at all score a neutral 0.82.
func (fe FormationEngine) LookupCoherence(formation string) float64 {
	if v, ok := fe.tables.FormationCoherence[formation]; ok {
		return v
	}

	parts := strings.Split(formation, "-")
	lines := make([]float64, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0.82
		}
		lines = append(lines, float64(n))
	}
	if len(lines) == 0 {
		return 0.82
	}

	mean := 0.0
	for _, v := range lines {
		mean += v
	}
	mean /= float64(len(lines))
	variance := 0.0
	for _, v := range lines {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(lines))

	score := 0.88 - 0.015*math.Abs(float64(len(lines))-3) - 0.018*variance
	return clamp(score, 0.70, 0.92)
}

// maxDefensiveSpread normalises the defender position spread, in metres.
const maxDefensiveSpread = 25.0

// Coherence blends the lookup score with live defensive compactness
// (standard deviation of defender and keeper positions). Result in [0,1].
func (fe FormationEngine) Coherence(players []*PlayerState, formation string) float64 {
	lookup := fe.LookupCoherence(formation)

	var xs, ys []float64
	for _, p := range players {
		if p.Position == Defender || p.Position == Goalkeeper {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	}
	if len(xs) < 2 {
		return lookup
	}

	avgStd := (sampleStdDev(xs) + sampleStdDev(ys)) / 2.0
	live := math.Max(0.0, 1.0-avgStd/maxDefensiveSpread)

	return clamp(0.70*lookup+0.30*live, 0.0, 1.0)
}

func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0.0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}
