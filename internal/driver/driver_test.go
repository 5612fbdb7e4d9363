package driver

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_dashboard/internal/energy"
	"energy_dashboard/internal/model"
)

type mockCallback struct {
	mu         sync.Mutex
	states     []State
	snapshots  []model.Snapshot
	households [][]model.Household
	alerts     [][]model.Alert
}

func (m *mockCallback) OnState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = append(m.states, s)
}

func (m *mockCallback) OnSnapshot(s model.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, s)
}

func (m *mockCallback) OnHouseholds(h []model.Household) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.households = append(m.households, h)
}

func (m *mockCallback) OnAlerts(a []model.Alert) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, a)
}

func (m *mockCallback) snapshotCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots)
}

func testDriver(at time.Time) (*Driver, *mockCallback, *energy.Model) {
	current := at
	m := energy.NewModel(energy.Config{
		Now:  func() time.Time { return current },
		Rand: rand.New(rand.NewSource(1)),
	})
	cb := &mockCallback{}
	d := New(m, cb, 2*time.Second, nil)
	return d, cb, m
}

var noon = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func TestDriver_Step(t *testing.T) {
	d, cb, _ := testDriver(noon)

	d.Step()
	require.Equal(t, 1, cb.snapshotCount())
	assert.Equal(t, noon, cb.snapshots[0].Timestamp)
	require.Len(t, cb.households, 1)
	assert.NotEmpty(t, cb.households[0])
}

func TestDriver_StepIsAtomic(t *testing.T) {
	d, cb, m := testDriver(noon)

	d.Step()
	// History and snapshot were produced by the same tick.
	day, ok := m.HistoricalData(model.Period24h)
	require.True(t, ok)
	require.Len(t, day.Timestamps, 1)
	assert.Equal(t, cb.snapshots[0].Timestamp, day.Timestamps[0])
}

func TestDriver_StartPause(t *testing.T) {
	d, _, _ := testDriver(noon)

	d.Start()
	assert.True(t, d.State().Running)
	d.Start() // idempotent
	assert.True(t, d.State().Running)

	d.Pause()
	assert.False(t, d.State().Running)
	d.Pause() // idempotent
	assert.False(t, d.State().Running)
}

func TestDriver_SetIntervalClamped(t *testing.T) {
	d, _, _ := testDriver(noon)

	d.SetInterval(100 * time.Millisecond)
	assert.Equal(t, time.Second, d.State().Interval)

	d.SetInterval(time.Hour)
	assert.Equal(t, 10*time.Minute, d.State().Interval)

	d.SetInterval(5 * time.Second)
	assert.Equal(t, 5*time.Second, d.State().Interval)
}

func TestDriver_StateBroadcasts(t *testing.T) {
	d, cb, _ := testDriver(noon)

	d.Start()
	d.Pause()
	d.SetInterval(3 * time.Second)

	cb.mu.Lock()
	defer cb.mu.Unlock()
	require.GreaterOrEqual(t, len(cb.states), 3)
	assert.True(t, cb.states[0].Running)
	assert.False(t, cb.states[1].Running)
	assert.Equal(t, 3*time.Second, cb.states[2].Interval)
}

func TestDriver_AlertsOnlyWhenRaised(t *testing.T) {
	night := time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC)
	d, cb, m := testDriver(night)

	// Healthy battery at 50%: no alert callbacks.
	d.Step()
	assert.Empty(t, cb.alerts)

	// All devices on overnight guarantees a deficit; the battery drains
	// below the warning threshold within a bounded number of ticks.
	for _, h := range m.HouseholdData() {
		for _, dev := range h.Devices {
			m.SetDeviceStatus(h.ID, dev.Name, model.StatusOn)
		}
	}
	for i := 0; i < 400; i++ {
		d.Step()
		if len(cb.alerts) > 0 {
			break
		}
	}
	assert.NotEmpty(t, cb.alerts)
}
