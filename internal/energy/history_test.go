package energy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_dashboard/internal/model"
)

func TestSeries_AppendIfDue(t *testing.T) {
	s := newSeries(10, 30*time.Minute, "15:04")
	t0 := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	assert.True(t, s.appendIfDue(t0, 5, 3))
	assert.False(t, s.appendIfDue(t0.Add(29*time.Minute), 5, 3))
	assert.True(t, s.appendIfDue(t0.Add(30*time.Minute), 6, 4))
	assert.Equal(t, 2, s.len())
}

func TestSeries_EvictionPreservesOrder(t *testing.T) {
	s := newSeries(3, time.Minute, "15:04")
	t0 := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.True(t, s.appendIfDue(t0.Add(time.Duration(i)*time.Minute), float64(i), float64(i)))
	}

	assert.Equal(t, 3, s.len())
	// Oldest two evicted; remaining points are 2, 3, 4 in order.
	assert.Equal(t, []float64{2, 3, 4}, s.generation)
	for i := 1; i < len(s.timestamps); i++ {
		assert.True(t, s.timestamps[i].After(s.timestamps[i-1]))
	}
}

func TestSeries_EqualLengths(t *testing.T) {
	s := newSeries(4, time.Minute, "15:04")
	t0 := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		s.appendIfDue(t0.Add(time.Duration(i)*time.Minute), 1, 1)
	}
	assert.Equal(t, len(s.timestamps), len(s.labels))
	assert.Equal(t, len(s.timestamps), len(s.generation))
	assert.Equal(t, len(s.timestamps), len(s.consumption))
}

func TestHistory_PeriodCadences(t *testing.T) {
	m, clock := testModel(noon)

	m.Generate()
	*clock = clock.Add(30 * time.Minute)
	m.Generate()

	day, ok := m.HistoricalData(model.Period24h)
	require.True(t, ok)
	assert.Len(t, day.GenerationKW, 2)

	week, ok := m.HistoricalData(model.Period7d)
	require.True(t, ok)
	assert.Len(t, week.GenerationKW, 1)

	*clock = clock.Add(30 * time.Minute)
	m.Generate()

	week, _ = m.HistoricalData(model.Period7d)
	assert.Len(t, week.GenerationKW, 2)
}

func TestHistory_CapacityBounds(t *testing.T) {
	m, clock := testModel(noon)

	// Drive well past the 24h capacity of 48 points.
	for i := 0; i < 60; i++ {
		m.Generate()
		*clock = clock.Add(30 * time.Minute)
	}

	day, _ := m.HistoricalData(model.Period24h)
	assert.Len(t, day.GenerationKW, 48)

	week, _ := m.HistoricalData(model.Period7d)
	assert.LessOrEqual(t, len(week.GenerationKW), 168)
}

func TestHistory_PausedGapSelfCorrects(t *testing.T) {
	m, clock := testModel(noon)

	m.Generate()
	// A long pause: next snapshot is appended immediately, once.
	*clock = clock.Add(4 * time.Hour)
	m.Generate()

	day, _ := m.HistoricalData(model.Period24h)
	assert.Len(t, day.GenerationKW, 2)
	assert.Equal(t, 4*time.Hour, day.Timestamps[1].Sub(day.Timestamps[0]))
}

func TestHistoricalData_UnknownPeriod(t *testing.T) {
	m, _ := testModel(noon)
	_, ok := m.HistoricalData(model.Period("99d"))
	assert.False(t, ok)
}
