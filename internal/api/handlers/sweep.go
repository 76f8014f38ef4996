package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mclarke-dev/momentum-sim/internal/services"
	"github.com/mclarke-dev/momentum-sim/pkg/utils"
)

type SweepHandler struct {
	sweeps *services.SweepService
}

func NewSweepHandler(sweeps *services.SweepService) *SweepHandler {
	return &SweepHandler{sweeps: sweeps}
}

// StartSweep launches a formation/tactic grid sweep as a background job.
// Progress streams over the websocket topic sweep:<job_id>.
func (h *SweepHandler) StartSweep(c *gin.Context) {
	var req services.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	if req.FormationB != "" {
		if err := ValidateFormation(req.FormationB); err != nil {
			utils.SendValidationError(c, "Invalid opposition formation", err.Error())
			return
		}
	}
	if req.TacticB != "" {
		if err := ValidateTactic(req.TacticB); err != nil {
			utils.SendValidationError(c, "Invalid opposition tactic", err.Error())
			return
		}
	}
	if err := ValidateMinuteWindow(req.StartMinute, req.EndMinute); err != nil {
		utils.SendValidationError(c, "Invalid minute window", err.Error())
		return
	}
	if req.CrowdNoise != 0 {
		if err := ValidateCrowdNoise(req.CrowdNoise); err != nil {
			utils.SendValidationError(c, "Invalid crowd noise", err.Error())
			return
		}
	}
	if req.RankBy != "" && !services.ValidRankKeys[req.RankBy] {
		utils.SendValidationError(c, "Invalid rank_by",
			"rank_by must be one of: xg, goal_prob, momentum, risk")
		return
	}

	job, err := h.sweeps.Start(req)
	if err != nil {
		utils.SendValidationError(c, "Could not start sweep", err.Error())
		return
	}

	utils.SendSuccess(c, gin.H{
		"job":   job,
		"topic": "sweep:" + job.ID,
	})
}

// GetSweepJob returns job status, including the ranked grid once complete.
func (h *SweepHandler) GetSweepJob(c *gin.Context) {
	job, ok := h.sweeps.GetJob(c.Param("id"))
	if !ok {
		utils.SendNotFound(c, "Sweep job not found")
		return
	}
	utils.SendSuccess(c, job)
}
