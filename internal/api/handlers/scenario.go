package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
	"github.com/mclarke-dev/momentum-sim/internal/models"
	"github.com/mclarke-dev/momentum-sim/pkg/utils"
)

type ScenarioHandler struct {
	db *gorm.DB
}

func NewScenarioHandler(db *gorm.DB) *ScenarioHandler {
	return &ScenarioHandler{db: db}
}

// newScenarioID derives a compact 8-hex identifier from a fresh UUID.
func newScenarioID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

type createScenarioRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Formation   string            `json:"formation" binding:"required"`
	FormationB  string            `json:"formation_b"`
	Tactic      engine.Tactic     `json:"tactic" binding:"required"`
	TacticB     engine.Tactic     `json:"tactic_b"`
	Iterations  int               `json:"iterations"`
	CrowdNoise  float64           `json:"crowd_noise"`
	Tags        []string          `json:"tags"`
	Results     json.RawMessage   `json:"results"`
	Metadata    map[string]string `json:"metadata"`
}

// CreateScenario persists a simulation configuration, optionally with the
// aggregate it produced.
func (h *ScenarioHandler) CreateScenario(c *gin.Context) {
	var req createScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	if err := ValidateScenarioName(req.Name); err != nil {
		utils.SendValidationError(c, "Invalid scenario name", err.Error())
		return
	}
	if req.FormationB == "" {
		req.FormationB = "4-3-3"
	}
	if req.TacticB == "" {
		req.TacticB = engine.TacticBalanced
	}
	if err := validateSimulationRequest(req.Formation, req.FormationB, req.Tactic, req.TacticB,
		req.Iterations, 0, 0, 0, req.CrowdNoise); err != nil {
		utils.SendValidationError(c, "Invalid simulation parameters", err.Error())
		return
	}
	if err := ValidateTags(req.Tags); err != nil {
		utils.SendValidationError(c, "Invalid tags", err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	var existing int64
	if err := h.db.Model(&models.Scenario{}).Where("name = ?", name).Count(&existing).Error; err != nil {
		utils.SendInternalError(c, "Failed to save scenario")
		return
	}
	if existing > 0 {
		utils.SendConflict(c, "A scenario with this name already exists")
		return
	}

	scenario := models.Scenario{
		ID:          newScenarioID(),
		Name:        name,
		Description: req.Description,
		FormationA:  req.Formation,
		FormationB:  req.FormationB,
		TacticA:     string(req.Tactic),
		TacticB:     string(req.TacticB),
		Iterations:  req.Iterations,
		CrowdNoise:  req.CrowdNoise,
		CreatedBy:   c.GetUint("user_id"),
	}
	if req.Tags != nil {
		data, _ := json.Marshal(req.Tags)
		scenario.Tags = datatypes.JSON(data)
	}
	if req.Results != nil {
		scenario.Results = datatypes.JSON(req.Results)
	}
	if req.Metadata != nil {
		data, _ := json.Marshal(req.Metadata)
		scenario.Metadata = datatypes.JSON(data)
	}

	if err := h.db.Create(&scenario).Error; err != nil {
		utils.SendInternalError(c, "Failed to save scenario")
		return
	}

	utils.SendSuccess(c, scenario)
}

// ListScenarios returns stored scenarios, optionally filtered by tag or
// formation, newest first.
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	query := h.db.Model(&models.Scenario{}).Order("created_at DESC")

	if formation := c.Query("formation"); formation != "" {
		query = query.Where("formation_a = ?", formation)
	}
	if tag := c.Query("tag"); tag != "" {
		// Tags are a JSON array; a LIKE match keeps this portable across
		// sqlite and postgres.
		query = query.Where("tags LIKE ?", "%\""+tag+"\"%")
	}

	var scenarios []models.Scenario
	if err := query.Limit(100).Find(&scenarios).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch scenarios")
		return
	}

	utils.SendSuccessWithMeta(c, gin.H{"scenarios": scenarios}, &utils.Meta{
		Total:   int64(len(scenarios)),
		PerPage: 100,
	})
}

// GetScenario returns one stored scenario with its full results.
func (h *ScenarioHandler) GetScenario(c *gin.Context) {
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
	utils.SendSuccess(c, scenario)
}

// canModify reports whether the request may alter a stored scenario.
// Anonymous scenarios stay world-writable; owned ones require the owner's
// token.
func canModify(c *gin.Context, scenario *models.Scenario) bool {
	if scenario.CreatedBy == 0 {
		return true
	}
	return c.GetUint("user_id") == scenario.CreatedBy
}

// DeleteScenario removes a stored scenario.
func (h *ScenarioHandler) DeleteScenario(c *gin.Context) {
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
	if !canModify(c, &scenario) {
		utils.SendForbidden(c, "Scenario belongs to another user")
		return
	}

	if err := h.db.Delete(&scenario).Error; err != nil {
		utils.SendInternalError(c, "Failed to delete scenario")
		return
	}
	utils.SendSuccess(c, gin.H{"deleted": id})
}

// UpdateScenarioMetadata patches name, description, tags or metadata
// without touching the stored configuration or results.
func (h *ScenarioHandler) UpdateScenarioMetadata(c *gin.Context) {
	id := c.Param("id")
	if err := ValidateScenarioID(id); err != nil {
		utils.SendValidationError(c, "Invalid scenario id", err.Error())
		return
	}

	var req struct {
		Name        *string           `json:"name"`
		Description *string           `json:"description"`
		Tags        []string          `json:"tags"`
		Metadata    map[string]string `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	var scenario models.Scenario
	if err := h.db.First(&scenario, "id = ?", id).Error; err != nil {
		utils.SendNotFound(c, "Scenario not found")
		return
	}
	if !canModify(c, &scenario) {
		utils.SendForbidden(c, "Scenario belongs to another user")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if err := ValidateScenarioName(*req.Name); err != nil {
			utils.SendValidationError(c, "Invalid scenario name", err.Error())
			return
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Tags != nil {
		if err := ValidateTags(req.Tags); err != nil {
			utils.SendValidationError(c, "Invalid tags", err.Error())
			return
		}
		data, _ := json.Marshal(req.Tags)
		updates["tags"] = datatypes.JSON(data)
	}
	if req.Metadata != nil {
		data, _ := json.Marshal(req.Metadata)
		updates["metadata"] = datatypes.JSON(data)
	}
	if len(updates) == 0 {
		utils.SendValidationError(c, "Nothing to update", "")
		return
	}

	if err := h.db.Model(&scenario).Updates(updates).Error; err != nil {
		utils.SendInternalError(c, "Failed to update scenario")
		return
	}
	utils.SendSuccess(c, scenario)
}

// CreateComparison groups saved scenarios for side-by-side review.
func (h *ScenarioHandler) CreateComparison(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		ScenarioIDs []string `json:"scenario_ids" binding:"required"`
		Notes       string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := ValidateScenarioName(req.Name); err != nil {
		utils.SendValidationError(c, "Invalid comparison name", err.Error())
		return
	}
	if err := ValidateComparisonIDs(req.ScenarioIDs); err != nil {
		utils.SendValidationError(c, "Invalid scenario ids", err.Error())
		return
	}

	var count int64
	h.db.Model(&models.Scenario{}).Where("id IN ?", req.ScenarioIDs).Count(&count)
	if int(count) != len(req.ScenarioIDs) {
		utils.SendNotFound(c, "Some scenarios do not exist")
		return
	}

	ids, _ := json.Marshal(req.ScenarioIDs)
	comparison := models.Comparison{
		ID:          newScenarioID(),
		Name:        strings.TrimSpace(req.Name),
		ScenarioIDs: datatypes.JSON(ids),
		Notes:       req.Notes,
	}
	if err := h.db.Create(&comparison).Error; err != nil {
		utils.SendInternalError(c, "Failed to save comparison")
		return
	}
	utils.SendSuccess(c, comparison)
}

// ListComparisons returns stored comparisons, newest first.
func (h *ScenarioHandler) ListComparisons(c *gin.Context) {
	var comparisons []models.Comparison
	if err := h.db.Order("created_at DESC").Limit(100).Find(&comparisons).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch comparisons")
		return
	}
	utils.SendSuccess(c, gin.H{"comparisons": comparisons, "count": len(comparisons)})
}

// GetComparison returns a comparison with its member scenarios resolved.
func (h *ScenarioHandler) GetComparison(c *gin.Context) {
	id := c.Param("id")
	if err := ValidateScenarioID(id); err != nil {
		utils.SendValidationError(c, "Invalid comparison id", err.Error())
		return
	}

	var comparison models.Comparison
	if err := h.db.First(&comparison, "id = ?", id).Error; err != nil {
		utils.SendNotFound(c, "Comparison not found")
		return
	}

	var ids []string
	if err := json.Unmarshal(comparison.ScenarioIDs, &ids); err != nil {
		utils.SendInternalError(c, "Corrupt comparison record")
		return
	}

	var scenarios []models.Scenario
	if err := h.db.Where("id IN ?", ids).Find(&scenarios).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch scenarios")
		return
	}

	utils.SendSuccess(c, gin.H{
		"comparison": comparison,
		"scenarios":  scenarios,
	})
}
