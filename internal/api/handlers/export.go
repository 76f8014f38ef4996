package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
	"github.com/mclarke-dev/momentum-sim/internal/models"
	"github.com/mclarke-dev/momentum-sim/pkg/utils"
)

type ExportHandler struct {
	db *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{db: db}
}

// ExportScenario streams a stored scenario's per-player aggregates as CSV.
func (h *ExportHandler) ExportScenario(c *gin.Context) {
	id := c.Param("id")
	if err := ValidateScenarioID(id); err != nil {
		utils.SendValidationError(c, "Invalid scenario id", err.Error())
		return
	}

	var scenario models.Scenario
	if err := h.db.First(&scenario, "id = ?", id).Error; err != nil {
		utils.SendNotFound(c, "Scenario not found")
		return
	}
	if len(scenario.Results) == 0 {
		utils.SendValidationError(c, "Scenario has no stored results", "")
		return
	}

	var agg engine.Aggregate
	if err := json.Unmarshal(scenario.Results, &agg); err != nil {
		utils.SendInternalError(c, "Corrupt stored results")
		return
	}

	data, err := aggregateCSV(&agg)
	if err != nil {
		utils.SendInternalError(c, "Failed to build export")
		return
	}

	filename := fmt.Sprintf("scenario_%s_%s.csv", scenario.ID, time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

func aggregateCSV(agg *engine.Aggregate) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"player_id", "name", "position", "team", "resilience_tier",
		"avg_pmu", "std_pmu", "consistency"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, p := range agg.AllPlayerStats {
		record := []string{
			p.ID,
			p.Name,
			string(p.Position),
			string(p.Team),
			string(p.Tier),
			strconv.FormatFloat(p.PMU, 'f', 2, 64),
			strconv.FormatFloat(p.Std, 'f', 2, 64),
			strconv.FormatFloat(p.Consistency, 'f', 3, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	// Summary block after the per-player rows.
	summary := [][]string{
		{},
		{"metric", "value"},
		{"iterations", strconv.Itoa(agg.Iterations)},
		{"avg_pmu", strconv.FormatFloat(agg.AvgPMU, 'f', 2, 64)},
		{"goal_probability", strconv.FormatFloat(agg.GoalProbability, 'f', 4, 64)},
		{"xg", strconv.FormatFloat(agg.XG, 'f', 3, 64)},
		{"team_a_wins", strconv.FormatFloat(agg.OutcomeDistribution.TeamAWins, 'f', 3, 64)},
		{"team_b_wins", strconv.FormatFloat(agg.OutcomeDistribution.TeamBWins, 'f', 3, 64)},
		{"draws", strconv.FormatFloat(agg.OutcomeDistribution.Draws, 'f', 3, 64)},
		{"risk_level", agg.Risk.OverallRiskLevel},
	}
	for _, row := range summary {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
