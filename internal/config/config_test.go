package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	sim := cfg.Simulation
	assert.Equal(t, 1000, sim.PatientCount)
	assert.Equal(t, 500, sim.TrialCount)
	assert.Equal(t, 60.0, sim.BaselineMean)
	assert.Equal(t, 15.0, sim.BaselineStd)
	assert.Equal(t, 0.7, sim.SeverityThreshold)
	assert.Equal(t, 0.6, sim.UrgentReduction)
	assert.Equal(t, 0.3, sim.NonUrgentReduction)
	assert.Equal(t, 0.05, sim.Noise)
	assert.Equal(t, int64(45), sim.Seed)
	assert.True(t, sim.BaselineSeeded)
	assert.Equal(t, 30, sim.HistogramBins)

	assert.Equal(t, "report_queue", cfg.RabbitMQ.Queue)
	assert.Equal(t, "3000", cfg.Server.Port)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SIMULATION_TRIAL_COUNT", "42")
	t.Setenv("SIMULATION_SEED", "7")
	t.Setenv("SIMULATION_BASELINE_SEEDED", "false")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REPORT_RECIPIENT", "analyst@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.Simulation.TrialCount)
	assert.Equal(t, int64(7), cfg.Simulation.Seed)
	assert.False(t, cfg.Simulation.BaselineSeeded)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "analyst@example.com", cfg.Report.Recipient)
}

func TestLoadConfigInvalidValue(t *testing.T) {
	t.Setenv("SIMULATION_PATIENT_COUNT", "many")

	cfg, err := LoadConfig()
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "PatientCount")
}
