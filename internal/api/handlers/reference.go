package handlers

import (
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
	"github.com/mclarke-dev/momentum-sim/pkg/utils"
)

// ReferenceHandler serves the static reference data clients need to build
// simulation requests: the squad, known formations and the event catalogue.
type ReferenceHandler struct {
	squad  []engine.SquadRow
	tables *engine.Tables
}

func NewReferenceHandler(squad []engine.SquadRow, tables *engine.Tables) *ReferenceHandler {
	return &ReferenceHandler{squad: squad, tables: tables}
}

// GetPlayers returns the reference squad.
func (h *ReferenceHandler) GetPlayers(c *gin.Context) {
	if team := c.Query("team"); team != "" {
		filtered := make([]engine.SquadRow, 0, len(h.squad))
		for _, row := range h.squad {
			if string(row.Team) == team {
				filtered = append(filtered, row)
			}
		}
		utils.SendSuccess(c, gin.H{"players": filtered, "count": len(filtered)})
		return
	}
	utils.SendSuccess(c, gin.H{"players": h.squad, "count": len(h.squad)})
}

// GetFormations returns the calibrated formations with their coherence
// scores, plus the tactics the engine accepts.
func (h *ReferenceHandler) GetFormations(c *gin.Context) {
	type formationInfo struct {
		Formation string  `json:"formation"`
		Coherence float64 `json:"coherence"`
	}
	formations := make([]formationInfo, 0, len(h.tables.FormationCoherence))
	for f, coh := range h.tables.FormationCoherence {
		formations = append(formations, formationInfo{Formation: f, Coherence: coh})
	}
	sort.Slice(formations, func(i, j int) bool {
		return formations[i].Coherence > formations[j].Coherence
	})

	utils.SendSuccess(c, gin.H{
		"formations": formations,
		"tactics": engine.Tactics,
	})
}

// GetEvents returns the event catalogue with base impacts and decay rates.
func (h *ReferenceHandler) GetEvents(c *gin.Context) {
	type eventInfo struct {
		Event      engine.EventType `json:"event"`
		BaseImpact float64          `json:"base_impact"`
		DecayRate  float64          `json:"decay_rate"`
	}
	events := make([]eventInfo, 0)
	for _, e := range engine.EventTypes() {
		rate, ok := h.tables.DecayRates[e]
		if !ok {
			rate = h.tables.DecayDefault
		}
		events = append(events, eventInfo{
			Event:      e,
			BaseImpact: h.tables.EventImpact[e],
			DecayRate:  rate,
		})
	}
	utils.SendSuccess(c, gin.H{"events": events, "count": len(events)})
}
