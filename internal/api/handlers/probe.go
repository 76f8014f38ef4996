package handlers

import (
	"math"

	"github.com/gin-gonic/gin"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
	"github.com/mclarke-dev/momentum-sim/pkg/utils"
)

// ProbeHandler exposes the individual momentum formulas directly so
// calibration tooling can inspect single computations without running a
// full match.
type ProbeHandler struct {
	tables    *engine.Tables
	events    engine.EventProcessor
	fatigue   engine.FatigueModel
	pressure  engine.PressureEngine
	crowd     engine.CrowdEngine
	formation engine.FormationEngine
}

func NewProbeHandler(tables *engine.Tables) *ProbeHandler {
	if tables == nil {
		tables = engine.DefaultTables()
	}
	return &ProbeHandler{
		tables:    tables,
		events:    engine.NewEventProcessor(tables),
		fatigue:   engine.NewFatigueModel(tables),
		pressure:  engine.NewPressureEngine(tables),
		crowd:     engine.NewCrowdEngine(tables),
		formation: engine.NewFormationEngine(tables),
	}
}

type probePlayer struct {
	Position engine.Position       `json:"position"`
	Team     engine.Team           `json:"team"`
	Tier     engine.ResilienceTier `json:"resilience_tier"`
	PMU      float64               `json:"pmu"`
	Fatigue  float64               `json:"fatigue"`
	X        float64               `json:"x"`
	Y        float64               `json:"y"`
}

func (p probePlayer) toState() *engine.PlayerState {
	team := p.Team
	if team == "" {
		team = engine.TeamA
	}
	pos := p.Position
	if pos == "" {
		pos = engine.Midfielder
	}
	tier := p.Tier
	if tier == "" {
		tier = engine.TierExperienced
	}
	return &engine.PlayerState{
		Position: pos,
		Team:     team,
		Tier:     tier,
		PMU:      p.PMU,
		Fatigue:  p.Fatigue,
		X:        p.X,
		Y:        p.Y,
	}
}

// ProbeEvent computes one event's contextualised momentum impact.
func (h *ProbeHandler) ProbeEvent(c *gin.Context) {
	var req struct {
		Event     string           `json:"event" binding:"required"`
		Player    probePlayer      `json:"player"`
		GameState engine.GameState `json:"game_state"`
		Minute    int              `json:"minute"`
		Success   *bool            `json:"success"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	event, err := engine.ParseEventType(req.Event)
	if err != nil {
		utils.SendValidationError(c, "Unknown event type", err.Error())
		return
	}
	if err := ValidateMinute(req.Minute); err != nil {
		utils.SendValidationError(c, "Invalid minute", err.Error())
		return
	}
	if req.GameState == "" {
		req.GameState = engine.StateTied
	}
	success := true
	if req.Success != nil {
		success = *req.Success
	}

	player := req.Player.toState()
	impact := h.events.Compute(event, player, req.GameState, req.Minute, success)

	utils.SendSuccess(c, gin.H{
		"event":           event,
		"impact":          impact,
		"zone":            engine.ZoneForX(player.X, player.Team),
		"minute_modifier": engine.MinuteModifier(req.Minute),
		"success":         success,
	})
}

// ProbePressure computes the pressure one player exerts on another.
func (h *ProbeHandler) ProbePressure(c *gin.Context) {
	var req struct {
		Pressurer probePlayer `json:"pressurer" binding:"required"`
		Target    probePlayer `json:"target" binding:"required"`
		Coherence float64     `json:"coherence"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.Coherence <= 0 || req.Coherence > 1 {
		req.Coherence = h.formation.LookupCoherence("4-3-3")
	}

	pressurer := req.Pressurer.toState()
	target := req.Target.toState()

	dist := math.Hypot(pressurer.X-target.X, pressurer.Y-target.Y)
	impact := h.pressure.ComputeImpact(pressurer, target, req.Coherence)

	utils.SendSuccess(c, gin.H{
		"impact":         impact,
		"distance":       dist,
		"distance_decay": h.pressure.DistanceDecay(dist),
		"coherence":      req.Coherence,
	})
}

// ProbeFatigue advances the fatigue model by one activity sample.
func (h *ProbeHandler) ProbeFatigue(c *gin.Context) {
	var req struct {
		Player       probePlayer `json:"player"`
		Speed        float64     `json:"speed"`
		Distance     float64     `json:"distance"`
		Acceleration float64     `json:"acceleration"`
		SprintEvents int         `json:"sprint_events"`
		IsStoppage   bool        `json:"is_stoppage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	player := req.Player.toState()
	before := player.Fatigue
	h.fatigue.Update(player, engine.ActivitySample{
		Speed:        req.Speed,
		Distance:     req.Distance,
		Acceleration: req.Acceleration,
		SprintEvents: req.SprintEvents,
		IsStoppage:   req.IsStoppage,
	})

	utils.SendSuccess(c, gin.H{
		"fatigue_before": before,
		"fatigue_after":  player.Fatigue,
		"delta":          player.Fatigue - before,
		"pmu":            player.PMU,
	})
}

// ProbeCrowd computes the crowd impact for one player under the given
// conditions.
func (h *ProbeHandler) ProbeCrowd(c *gin.Context) {
	var req struct {
		Player    probePlayer `json:"player"`
		NoiseDB   float64     `json:"noise_db"`
		IsHome    bool        `json:"is_home"`
		HeartRate float64     `json:"heart_rate"`
		HRV       float64     `json:"hrv"`
		Minute    int         `json:"minute"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := ValidateCrowdNoise(req.NoiseDB); err != nil {
		utils.SendValidationError(c, "Invalid crowd noise", err.Error())
		return
	}

	player := req.Player.toState()
	impact := h.crowd.Compute(player, engine.CrowdConditions{
		NoiseDB:     req.NoiseDB,
		IsHome:      req.IsHome,
		HeartRate:   req.HeartRate,
		HRV:         req.HRV,
		MatchMinute: req.Minute,
	})

	utils.SendSuccess(c, gin.H{
		"impact":   impact,
		"noise_db": req.NoiseDB,
		"is_home":  req.IsHome,
	})
}
