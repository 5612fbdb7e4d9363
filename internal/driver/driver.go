package driver

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"energy_dashboard/internal/energy"
	"energy_dashboard/internal/metrics"
	"energy_dashboard/internal/model"
)

const (
	minInterval = time.Second
	maxInterval = 10 * time.Minute
)

// State represents the current loop state.
type State struct {
	Running  bool          `json:"running"`
	Interval time.Duration `json:"interval"`
}

// Callback receives loop events.
type Callback interface {
	OnState(state State)
	OnSnapshot(snap model.Snapshot)
	OnHouseholds(households []model.Household)
	OnAlerts(alerts []model.Alert)
}

// Driver owns the periodic tick that asks the model for a new snapshot.
// One tick is one atomic unit: snapshot generation, alert evaluation and
// history appends all happen inside Model.Generate.
type Driver struct {
	mu    sync.Mutex
	model *energy.Model
	cb    Callback
	log   *zap.Logger

	running  bool
	interval time.Duration
	stopCh   chan struct{}
}

func New(m *energy.Model, cb Callback, interval time.Duration, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		model:    m,
		cb:       cb,
		log:      log,
		interval: clampInterval(interval),
	}
}

// State returns the current loop state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{Running: d.running, Interval: d.interval}
}

// Start begins the tick loop.
func (d *Driver) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.stopCh = make(chan struct{})
	interval := d.interval
	d.mu.Unlock()

	d.log.Info("driver started", zap.Duration("interval", interval))
	d.broadcastState()
	go d.loop(d.stopCh)
}

// Pause stops the tick loop. History stays static until Start; the cadence
// check is time-delta based, so the next snapshot self-corrects.
func (d *Driver) Pause() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.stopCh)
	d.mu.Unlock()

	d.log.Info("driver paused")
	d.broadcastState()
}

// SetInterval changes the tick interval, clamped to [1s, 10m]. Takes effect
// on the next tick.
func (d *Driver) SetInterval(interval time.Duration) {
	interval = clampInterval(interval)

	d.mu.Lock()
	d.interval = interval
	d.mu.Unlock()

	d.log.Info("update interval changed", zap.Duration("interval", interval))
	d.broadcastState()
}

// Step runs a single tick synchronously. Useful for deterministic testing;
// does not require Start.
func (d *Driver) Step() {
	d.tick()
}

func (d *Driver) loop(stopCh chan struct{}) {
	for {
		d.mu.Lock()
		interval := d.interval
		d.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C:
			d.tick()
		}
	}
}

func (d *Driver) tick() {
	snap, raised := d.model.Generate()

	metrics.SnapshotsTotal.Inc()
	metrics.BatteryPercent.Set(snap.Battery.Percentage)
	metrics.GenerationKW.Set(snap.Generation.TotalKW)
	metrics.ConsumptionKW.Set(snap.Consumption.TotalKW)
	metrics.AlertsActive.Set(float64(d.model.ActiveAlertCount()))
	if len(raised) > 0 {
		metrics.AlertsRaisedTotal.Add(float64(len(raised)))
	}

	d.cb.OnSnapshot(snap)
	d.cb.OnHouseholds(d.model.HouseholdData())
	if len(raised) > 0 {
		d.log.Info("alerts raised", zap.Int("count", len(raised)))
		d.cb.OnAlerts(d.model.AlertsData())
	}
}

func (d *Driver) broadcastState() {
	d.cb.OnState(d.State())
}

func clampInterval(interval time.Duration) time.Duration {
	if interval < minInterval {
		return minInterval
	}
	if interval > maxInterval {
		return maxInterval
	}
	return interval
}
