package models

import (
	"time"

	"gorm.io/datatypes"
)

// Scenario is a persisted simulation run: the configuration that produced it,
// the full aggregate result, and user-facing metadata for organising runs.
type Scenario struct {
	ID          string  `gorm:"primaryKey;size:8" json:"id"`
	Name        string  `gorm:"not null;size:200" json:"name"`
	Description string  `json:"description"`
	FormationA  string  `gorm:"not null" json:"formation_a"`
	FormationB  string  `gorm:"not null" json:"formation_b"`
	TacticA     string  `gorm:"not null" json:"tactic_a"`
	TacticB     string  `gorm:"not null" json:"tactic_b"`
	Iterations  int     `json:"iterations"`
	CrowdNoise  float64 `json:"crowd_noise"`

	Tags     datatypes.JSON `json:"tags"`
	Results  datatypes.JSON `json:"results,omitempty"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`

	// Zero for scenarios saved anonymously. Owned scenarios can only be
	// modified or deleted by their creator.
	CreatedBy uint `gorm:"index" json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comparison groups saved scenarios for side-by-side review.
type Comparison struct {
	ID          string         `gorm:"primaryKey;size:8" json:"id"`
	Name        string         `gorm:"not null;size:200" json:"name"`
	ScenarioIDs datatypes.JSON `json:"scenario_ids"`
	Notes       string         `json:"notes"`
	CreatedAt   time.Time      `json:"created_at"`
}
