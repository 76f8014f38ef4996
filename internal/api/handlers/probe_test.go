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
)

func newProbeRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewProbeHandler(nil)

	r := gin.New()
	r.POST("/event", h.ProbeEvent)
	r.POST("/pressure", h.ProbePressure)
	r.POST("/fatigue", h.ProbeFatigue)
	r.POST("/crowd", h.ProbeCrowd)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProbeEventComputesImpact(t *testing.T) {
	r := newProbeRouter()

	w := postJSON(t, r, "/event", gin.H{
		"event":  "goal",
		"minute": 85,
		"player": gin.H{"position": "FWD", "team": "A", "x": 90, "y": 34},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Impact         float64 `json:"impact"`
			Zone           string  `json:"zone"`
			MinuteModifier float64 `json:"minute_modifier"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Greater(t, resp.Data.Impact, 0.0)
	assert.LessOrEqual(t, resp.Data.Impact, 25.0)
	assert.Equal(t, "attacking_third", resp.Data.Zone)
	assert.Greater(t, resp.Data.MinuteModifier, 1.0)
}

func TestProbeEventRejectsUnknownEvent(t *testing.T) {
	r := newProbeRouter()

	w := postJSON(t, r, "/event", gin.H{"event": "bicycle_kick"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProbePressureDecaysWithDistance(t *testing.T) {
	r := newProbeRouter()

	near := postJSON(t, r, "/pressure", gin.H{
		"pressurer": gin.H{"x": 50, "y": 34, "pmu": 70},
		"target":    gin.H{"x": 52, "y": 34},
		"coherence": 0.85,
	})
	far := postJSON(t, r, "/pressure", gin.H{
		"pressurer": gin.H{"x": 50, "y": 34, "pmu": 70},
		"target":    gin.H{"x": 70, "y": 34},
		"coherence": 0.85,
	})
	require.Equal(t, http.StatusOK, near.Code)
	require.Equal(t, http.StatusOK, far.Code)

	type probeResp struct {
		Data struct {
			Impact float64 `json:"impact"`
		} `json:"data"`
	}
	var nearResp, farResp probeResp
	require.NoError(t, json.Unmarshal(near.Body.Bytes(), &nearResp))
	require.NoError(t, json.Unmarshal(far.Body.Bytes(), &farResp))

	assert.Greater(t, nearResp.Data.Impact, farResp.Data.Impact)
}

func TestProbeFatigueAccumulates(t *testing.T) {
	r := newProbeRouter()

	w := postJSON(t, r, "/fatigue", gin.H{
		"player":        gin.H{"fatigue": 10, "pmu": 50},
		"speed":         25,
		"distance":      110,
		"acceleration":  3,
		"sprint_events": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			FatigueBefore float64 `json:"fatigue_before"`
			FatigueAfter  float64 `json:"fatigue_after"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Data.FatigueAfter, resp.Data.FatigueBefore)
}

func TestProbeCrowdRejectsOutOfRangeNoise(t *testing.T) {
	r := newProbeRouter()

	w := postJSON(t, r, "/crowd", gin.H{"noise_db": 140})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProbeCrowdHomeBenefit(t *testing.T) {
	r := newProbeRouter()

	w := postJSON(t, r, "/crowd", gin.H{
		"player":     gin.H{"resilience_tier": "rookie", "pmu": 50},
		"noise_db":   110,
		"is_home":    true,
		"heart_rate": 120,
		"hrv":        40,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Impact float64 `json:"impact"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Data.Impact, 0.0)
}
