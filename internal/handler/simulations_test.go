package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/config"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/repository"
)

type memoryCache struct {
	results map[string]*domain.SimulationResult
	gets    int
	saves   int
	err     error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{results: make(map[string]*domain.SimulationResult)}
}

func (c *memoryCache) GetSimulationResult(ctx context.Context, key string) (*domain.SimulationResult, error) {
	c.gets++
	if c.err != nil {
		return nil, c.err
	}
	result, ok := c.results[key]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return result, nil
}

func (c *memoryCache) SaveSimulationResult(ctx context.Context, key string, result *domain.SimulationResult) error {
	c.saves++
	if c.err != nil {
		return c.err
	}
	c.results[key] = result
	return nil
}

type recordingPublisher struct {
	recipients []string
}

func (p *recordingPublisher) PublishReport(ctx context.Context, to string, result *domain.SimulationResult) error {
	p.recipients = append(p.recipients, to)
	return nil
}

type simulationEnvelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    SimulationResponse `json:"data"`
}

func newTestHandler(t *testing.T) (*Handler, *memoryCache, *recordingPublisher) {
	t.Helper()

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.Simulation.PatientCount = 200
	cfg.Simulation.TrialCount = 50

	cache := newMemoryCache()
	publisher := &recordingPublisher{}

	h, err := NewHandler(cfg, cache, publisher)
	require.NoError(t, err)
	h.RegisterRoutes()

	return h, cache, publisher
}

func doRequest(t *testing.T, h *Handler, method, path, body string) (int, simulationEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var env simulationEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestHealthCheck(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestRunDefaultSimulation(t *testing.T) {
	h, cache, publisher := newTestHandler(t)

	code, env := doRequest(t, h, http.MethodGet, "/simulations/default", "")
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success, env.Message)

	result := env.Data.Result
	require.NotNil(t, result)
	assert.False(t, env.Data.Cached)
	assert.Len(t, result.BaselineWait, 200)
	assert.Len(t, result.AfterTriage, 200)
	assert.Len(t, result.Ensemble, 50)
	assert.Less(t, result.Summary.ImprovedMeanWait, result.Summary.BaselineMeanWait)
	assert.Equal(t, int64(45), result.Parameters.Seed)

	require.Len(t, env.Data.Histograms, 2)
	assert.Len(t, env.Data.Histograms[0].Series, 2)
	assert.Len(t, env.Data.Histograms[0].Series[0].Bins, 30)
	assert.NotNil(t, env.Data.Histograms[1].Marker)

	assert.Equal(t, 1, cache.saves)
	assert.Empty(t, publisher.recipients)
}

func TestRunSimulationUsesCache(t *testing.T) {
	h, cache, _ := newTestHandler(t)

	_, first := doRequest(t, h, http.MethodPost, "/simulations", `{"seed": 7}`)
	require.True(t, first.Success, first.Message)
	assert.False(t, first.Data.Cached)

	_, second := doRequest(t, h, http.MethodPost, "/simulations", `{"seed": 7}`)
	require.True(t, second.Success, second.Message)
	assert.True(t, second.Data.Cached)
	assert.Equal(t, first.Data.Result.Summary, second.Data.Result.Summary)

	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.saves)
}

func TestRunSimulationSkipsCacheForUnseededBaseline(t *testing.T) {
	h, cache, _ := newTestHandler(t)

	_, env := doRequest(t, h, http.MethodPost, "/simulations", `{"baselineSeeded": false}`)
	require.True(t, env.Success, env.Message)

	assert.Equal(t, 0, cache.gets)
	assert.Equal(t, 0, cache.saves)
}

func TestRunSimulationIgnoresCacheFailure(t *testing.T) {
	h, cache, _ := newTestHandler(t)
	cache.err = errors.New("connection refused")

	_, env := doRequest(t, h, http.MethodPost, "/simulations", `{}`)
	require.True(t, env.Success, env.Message)
	assert.Len(t, env.Data.Result.Ensemble, 50)
}

func TestRunSimulationWithOverrides(t *testing.T) {
	h, _, _ := newTestHandler(t)

	_, env := doRequest(t, h, http.MethodPost, "/simulations",
		`{"patientCount": 20, "trialCount": 5, "noise": 0, "histogramBins": 4}`)
	require.True(t, env.Success, env.Message)

	result := env.Data.Result
	assert.Len(t, result.BaselineWait, 20)
	assert.Len(t, result.Ensemble, 5)
	for _, v := range result.Ensemble {
		assert.Equal(t, result.Summary.ImprovedMeanWait, v)
	}
	assert.Len(t, env.Data.Histograms[1].Series[0].Bins, 4)
}

func TestRunSimulationPublishesReport(t *testing.T) {
	h, _, publisher := newTestHandler(t)

	_, env := doRequest(t, h, http.MethodPost, "/simulations", `{"notify": "analyst@example.com"}`)
	require.True(t, env.Success, env.Message)

	assert.Equal(t, []string{"analyst@example.com"}, publisher.recipients)
}

func TestRunSimulationRejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"reduction above one", `{"urgentReduction": 1.5}`, "urgentReduction"},
		{"threshold below zero", `{"severityThreshold": -0.1}`, "severityThreshold"},
		{"negative std", `{"baselineStd": -1}`, "baselineStd"},
		{"negative noise", `{"noise": -0.01}`, "noise"},
		{"huge baseline mean", `{"baselineMean": 1e308}`, "baselineMean"},
		{"huge baseline std", `{"baselineStd": 1e300}`, "baselineStd"},
		{"overflowing noise", `{"noise": 1e308, "patientCount": 10, "trialCount": 3}`, "non-finite"},
		{"zero patients", `{"patientCount": 0}`, "patientCount"},
		{"zero trials", `{"trialCount": 0}`, "trialCount"},
		{"invalid email", `{"notify": "nobody"}`, "notify"},
		{"unknown field", `{"policy": "fifo"}`, "policy"},
		{"malformed json", `{"seed":`, "unexpected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, cache, _ := newTestHandler(t)

			code, env := doRequest(t, h, http.MethodPost, "/simulations", tt.body)
			assert.Equal(t, http.StatusOK, code)
			assert.False(t, env.Success)
			assert.Contains(t, env.Message, tt.message)
			assert.Equal(t, 0, cache.saves)
		})
	}
}

func TestRunSimulationWithoutTimeout(t *testing.T) {
	h, _, _ := newTestHandler(t)
	h.config.Simulation.Timeout = 0

	code, env := doRequest(t, h, http.MethodGet, "/simulations/default", "")
	assert.Equal(t, http.StatusOK, code)
	require.True(t, env.Success, env.Message)
	assert.Len(t, env.Data.Result.Ensemble, 50)
}
