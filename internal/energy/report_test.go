package energy

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_dashboard/internal/model"
)

func TestComputeStatistics_Empty(t *testing.T) {
	stats := computeStatistics(model.Series{})
	assert.Equal(t, model.Statistics{}, stats)
}

func TestComputeStatistics(t *testing.T) {
	data := model.Series{
		GenerationKW:  []float64{4, 8, 6},
		ConsumptionKW: []float64{2, 4, 6},
	}
	stats := computeStatistics(data)

	assert.InDelta(t, 6, stats.AvgGenerationKW, 0.001)
	assert.InDelta(t, 8, stats.PeakGenerationKW, 0.001)
	assert.InDelta(t, 4, stats.AvgConsumptionKW, 0.001)
	assert.InDelta(t, 6, stats.PeakConsumptionKW, 0.001)
	assert.InDelta(t, 18, stats.TotalGenerationKWh, 0.001)
	assert.InDelta(t, 12, stats.TotalConsumptionKWh, 0.001)
	assert.InDelta(t, 100, stats.EfficiencyPct, 0.001) // capped at 100
}

func TestComputeStatistics_ZeroConsumption(t *testing.T) {
	data := model.Series{
		GenerationKW:  []float64{4, 8},
		ConsumptionKW: []float64{0, 0},
	}
	stats := computeStatistics(data)
	assert.Zero(t, stats.EfficiencyPct)
}

func TestReportData_MatchesSeries(t *testing.T) {
	m, clock := testModel(noon)
	for i := 0; i < 6; i++ {
		m.Generate()
		*clock = clock.Add(time.Hour)
	}

	report, ok := m.ReportData(model.Period7d)
	require.True(t, ok)
	require.Len(t, report.Data.GenerationKW, 6)

	var genSum float64
	for _, g := range report.Data.GenerationKW {
		genSum += g
	}
	assert.InDelta(t, round2(genSum), report.Statistics.TotalGenerationKWh, 0.001)
}

func TestReportData_UnknownPeriod(t *testing.T) {
	m, _ := testModel(noon)
	_, ok := m.ReportData(model.Period("yearly"))
	assert.False(t, ok)
}

func TestExportData_RoundTrip(t *testing.T) {
	m, clock := testModel(noon)
	for i := 0; i < 4; i++ {
		m.Generate()
		*clock = clock.Add(30 * time.Minute)
	}
	m.checkAlerts(snapshotAt(*clock, 15, 0))

	exp := m.ExportData()
	require.Len(t, exp.Reports, 3)

	raw, err := json.Marshal(exp)
	require.NoError(t, err)

	var back model.Export
	require.NoError(t, json.Unmarshal(raw, &back))

	again, err := json.Marshal(back)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))
	assert.Equal(t, exp.Snapshot.Generation, back.Snapshot.Generation)
	assert.Equal(t, exp.Households, back.Households)
	assert.Equal(t, len(exp.Alerts), len(back.Alerts))
}
