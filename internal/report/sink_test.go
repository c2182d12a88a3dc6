package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
)

func TestTextDisplay(t *testing.T) {
	var buf bytes.Buffer
	display := NewTextDisplay(&buf, 5)

	err := display.Display(
		[]float64{55, 60, 65, 70},
		[]float64{30, 35, 40, 45},
		[]float64{36, 37, 38},
	)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Baseline vs Waiting Times After Triage")
	assert.Contains(t, out, "Baseline Waiting Times")
	assert.Contains(t, out, "After Triage (Urgent/Non-Urgent)")
	assert.Contains(t, out, "x: Waiting Time (minutes), y: Frequency")
	assert.Contains(t, out, "x: Average Waiting Time (minutes), y: Frequency")
	assert.Equal(t, 1, strings.Count(out, "Mean Simulated Time (37.00)"))
}

func TestTextDisplayDefaultsBins(t *testing.T) {
	var buf bytes.Buffer
	display := NewTextDisplay(&buf, 0)

	require.NoError(t, display.Display([]float64{1, 2}, []float64{1, 2}, []float64{1, 2}))
	// 三个序列，每个序列 DefaultBins 行
	assert.Equal(t, 3*DefaultBins, strings.Count(buf.String(), " | "))
}

func TestTextConsole(t *testing.T) {
	var buf bytes.Buffer

	err := NewTextConsole(&buf).Print(domain.Summary{
		BaselineMeanWait:  60.5,
		ImprovedMeanWait:  36.25,
		SimulatedMeanWait: 36.2,
		SimulatedStdWait:  1.3,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "baseline_mean_wait"))
	assert.Contains(t, lines[0], "60.5000")
	assert.True(t, strings.HasPrefix(lines[1], "improved_mean_wait"))
	assert.Contains(t, lines[1], "36.2500")
	assert.True(t, strings.HasPrefix(lines[2], "simulated_mean_wait"))
	assert.True(t, strings.HasPrefix(lines[3], "simulated_std_wait"))
	assert.Contains(t, lines[3], "1.3000")
}
