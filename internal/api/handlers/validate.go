package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
)

// Input validation for everything that reaches the simulation engine.
// Invalid tactical setups are rejected here, before any engine work starts.

var (
	formationPattern  = regexp.MustCompile(`^\d+(-\d+)+$`)
	scenarioIDPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)
)

const (
	minFormationLines = 2
	maxFormationLines = 5
	outfieldPlayers   = 10

	minScenarioName = 3
	maxScenarioName = 200
	maxTags         = 20
	maxTagLength    = 50

	minComparisonScenarios = 2
	maxComparisonScenarios = 10
)

// ValidateFormation checks a formation string like "4-3-3": digits joined
// by dashes, 2 to 5 lines, each line 1 to 6 players, outfield total exactly
// 10. The goalkeeper is implicit.
func ValidateFormation(formation string) error {
	if formation == "" {
		return fmt.Errorf("formation is required")
	}
	if !formationPattern.MatchString(formation) {
		return fmt.Errorf("formation %q must be digits separated by dashes, e.g. 4-3-3", formation)
	}

	parts := strings.Split(formation, "-")
	if len(parts) < minFormationLines || len(parts) > maxFormationLines {
		return fmt.Errorf("formation %q must have between %d and %d lines", formation, minFormationLines, maxFormationLines)
	}

	sum := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("formation %q has a non-numeric line", formation)
		}
		if n < 1 || n > 6 {
			return fmt.Errorf("formation %q line %d is out of range 1-6", formation, n)
		}
		sum += n
	}
	if sum != outfieldPlayers {
		return fmt.Errorf("formation %q fields %d outfield players, need exactly %d", formation, sum, outfieldPlayers)
	}
	return nil
}

// ValidateTactic accepts only the known tactical setups.
func ValidateTactic(tactic engine.Tactic) error {
	switch tactic {
	case engine.TacticAggressive, engine.TacticBalanced, engine.TacticDefensive, engine.TacticPossession:
		return nil
	case "":
		return fmt.Errorf("tactic is required")
	default:
		return fmt.Errorf("unknown tactic %q", tactic)
	}
}

// ValidateIterations bounds a Monte Carlo run size. Zero means "use the
// default" and passes. A non-positive limit falls back to the engine's
// hard ceiling; an operator-configured limit may only tighten it.
func ValidateIterations(iterations, limit int) error {
	if limit <= 0 || limit > engine.MaxIterations {
		limit = engine.MaxIterations
	}
	if iterations == 0 {
		return nil
	}
	if iterations < engine.MinIterations || iterations > limit {
		return fmt.Errorf("iterations %d out of range [%d, %d]", iterations, engine.MinIterations, limit)
	}
	return nil
}

// ValidateCrowdNoise bounds stadium noise in decibels.
func ValidateCrowdNoise(noise float64) error {
	if noise < 0 || noise > 120 {
		return fmt.Errorf("crowd noise %.1f dB out of range [0, 120]", noise)
	}
	return nil
}

// ValidateMinute bounds a match minute.
func ValidateMinute(minute int) error {
	if minute < 0 || minute > 90 {
		return fmt.Errorf("minute %d out of range [0, 90]", minute)
	}
	return nil
}

// ValidateMinuteWindow checks a start/end pair.
func ValidateMinuteWindow(start, end int) error {
	if err := ValidateMinute(start); err != nil {
		return err
	}
	if err := ValidateMinute(end); err != nil {
		return err
	}
	if end != 0 && end < start {
		return fmt.Errorf("end minute %d precedes start minute %d", end, start)
	}
	return nil
}

// ValidateScenarioName bounds stored scenario names.
func ValidateScenarioName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < minScenarioName || len(trimmed) > maxScenarioName {
		return fmt.Errorf("scenario name must be %d to %d characters", minScenarioName, maxScenarioName)
	}
	return nil
}

// ValidateTags bounds scenario tag lists.
func ValidateTags(tags []string) error {
	if len(tags) > maxTags {
		return fmt.Errorf("at most %d tags allowed", maxTags)
	}
	for _, tag := range tags {
		if tag == "" || len(tag) > maxTagLength {
			return fmt.Errorf("tags must be 1 to %d characters", maxTagLength)
		}
	}
	return nil
}

// ValidateScenarioID checks the 8-hex scenario identifier format.
func ValidateScenarioID(id string) error {
	if !scenarioIDPattern.MatchString(id) {
		return fmt.Errorf("invalid scenario id %q", id)
	}
	return nil
}

// ValidateComparisonIDs checks a comparison's scenario ID list.
func ValidateComparisonIDs(ids []string) error {
	if len(ids) < minComparisonScenarios || len(ids) > maxComparisonScenarios {
		return fmt.Errorf("comparison needs %d to %d scenario ids", minComparisonScenarios, maxComparisonScenarios)
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if err := ValidateScenarioID(id); err != nil {
			return err
		}
		if seen[id] {
			return fmt.Errorf("duplicate scenario id %q", id)
		}
		seen[id] = true
	}
	return nil
}

// validateSimulationRequest applies every boundary check a simulation
// request needs, in one place.
func validateSimulationRequest(formation, formationB string, tactic, tacticB engine.Tactic, iterations, iterationLimit, start, end int, noise float64) error {
	if err := ValidateFormation(formation); err != nil {
		return err
	}
	if formationB != "" {
		if err := ValidateFormation(formationB); err != nil {
			return err
		}
	}
	if err := ValidateTactic(tactic); err != nil {
		return err
	}
	if tacticB != "" {
		if err := ValidateTactic(tacticB); err != nil {
			return err
		}
	}
	if err := ValidateIterations(iterations, iterationLimit); err != nil {
		return err
	}
	if err := ValidateMinuteWindow(start, end); err != nil {
		return err
	}
	return ValidateCrowdNoise(noise)
}
