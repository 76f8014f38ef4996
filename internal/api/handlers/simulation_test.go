package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateRequestKeepsExplicitZeroNoise(t *testing.T) {
	var req simulateRequest
	payload := `{"formation": "4-3-3", "tactic": "balanced", "crowd_noise": 0}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	req.normalise()

	// An empty stadium is a valid setting and must survive normalisation.
	require.NotNil(t, req.CrowdNoise)
	assert.Equal(t, 0.0, *req.CrowdNoise)
	assert.Equal(t, 0.0, req.toConfig(1).CrowdNoise)
}

func TestSimulateRequestDefaultsNoiseWhenAbsent(t *testing.T) {
	var req simulateRequest
	payload := `{"formation": "4-3-3", "tactic": "balanced"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	req.normalise()

	require.NotNil(t, req.CrowdNoise)
	assert.Equal(t, 75.0, *req.CrowdNoise)
	assert.Equal(t, "4-3-3", req.FormationB)
	assert.Equal(t, 90, req.EndMinute)
}
