package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mclarke-dev/momentum-sim/internal/models"
)

func newScenarioTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive for the
	// whole test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Scenario{}, &models.Comparison{}))
	return db
}

// scenarioRouter mounts the scenario routes, optionally impersonating an
// authenticated user.
func scenarioRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewScenarioHandler(db)

	r := gin.New()
	if userID != 0 {
		r.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
	}
	r.POST("/scenarios", h.CreateScenario)
	r.DELETE("/scenarios/:id", h.DeleteScenario)
	r.PATCH("/scenarios/:id/metadata", h.UpdateScenarioMetadata)
	return r
}

func patchJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func deleteScenario(r *gin.Engine, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/scenarios/"+id, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateScenarioDuplicateName(t *testing.T) {
	db := newScenarioTestDB(t)
	r := scenarioRouter(db, 0)

	payload := gin.H{"name": "Derby press", "formation": "4-4-2", "tactic": "aggressive"}

	w := postJSON(t, r, "/scenarios", payload)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/scenarios", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteScenarioOwnership(t *testing.T) {
	db := newScenarioTestDB(t)
	owned := models.Scenario{
		ID: "aaaa1111", Name: "Owned run",
		FormationA: "4-3-3", FormationB: "4-3-3",
		TacticA: "balanced", TacticB: "balanced",
		CreatedBy: 7,
	}
	require.NoError(t, db.Create(&owned).Error)

	w := deleteScenario(scenarioRouter(db, 9), owned.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = deleteScenario(scenarioRouter(db, 0), owned.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = deleteScenario(scenarioRouter(db, 7), owned.ID)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteAnonymousScenarioNeedsNoToken(t *testing.T) {
	db := newScenarioTestDB(t)
	anon := models.Scenario{
		ID: "bbbb2222", Name: "Anonymous run",
		FormationA: "4-3-3", FormationB: "4-3-3",
		TacticA: "balanced", TacticB: "balanced",
	}
	require.NoError(t, db.Create(&anon).Error)

	w := deleteScenario(scenarioRouter(db, 0), anon.ID)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateMetadataRespectsOwnership(t *testing.T) {
	db := newScenarioTestDB(t)
	owned := models.Scenario{
		ID: "cccc3333", Name: "Owned run",
		FormationA: "4-3-3", FormationB: "4-3-3",
		TacticA: "balanced", TacticB: "balanced",
		CreatedBy: 7,
	}
	require.NoError(t, db.Create(&owned).Error)

	r := scenarioRouter(db, 9)
	w := patchJSON(t, r, "/scenarios/"+owned.ID+"/metadata", gin.H{"description": "stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	r = scenarioRouter(db, 7)
	w = patchJSON(t, r, "/scenarios/"+owned.ID+"/metadata", gin.H{"description": "mine"})
	assert.Equal(t, http.StatusOK, w.Code)
}
