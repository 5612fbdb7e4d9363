package energy

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"energy_dashboard/internal/model"
)

// batteryCoupling converts net kW into battery percentage points per
// snapshot. Not a capacity-aware model; the constant is fixed.
const batteryCoupling = 0.1

// importMarginKW is how far consumption may exceed generation before the
// grid connection switches on.
const importMarginKW = 0.5

// Config wires the model's clock and randomness so generation is
// deterministic under test.
type Config struct {
	Now    func() time.Time
	Rand   *rand.Rand
	Logger *zap.Logger
}

// Model owns the current snapshot, rolling history, households, alerts,
// schedules and control settings. It is the single writer; the mutex guards
// against toggles arriving from transport goroutines mid-snapshot.
type Model struct {
	mu  sync.Mutex
	now func() time.Time
	rng *rand.Rand
	log *zap.Logger

	current    model.Snapshot
	households []model.Household
	history    map[model.Period]*series
	alerts     []model.Alert
	schedules  []model.Schedule
	controls   map[string]map[string]float64

	batteryPct float64
	dayStart   time.Time
}

// NewModel creates a model with the default household fleet and a half
// charged battery. Zero-value config fields fall back to wall clock, a
// time-seeded source and a nop logger.
func NewModel(cfg Config) *Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	m := &Model{
		now:        cfg.Now,
		rng:        cfg.Rand,
		log:        cfg.Logger,
		households: defaultHouseholds(),
		history:    newHistory(),
		controls:   defaultControls(),
		batteryPct: 50,
	}
	m.dayStart = startOfDay(m.now())
	return m
}

func defaultHouseholds() []model.Household {
	return []model.Household{
		{
			ID: "house1", Name: "Main Residence", Status: "online",
			Devices: []model.Device{
				{Name: "HVAC", Category: model.CategoryHVAC, Status: model.StatusOn, Priority: model.PriorityHigh},
				{Name: "Water Heater", Category: model.CategoryWaterHeater, Status: model.StatusOn, Priority: model.PriorityMedium},
				{Name: "Lighting", Category: model.CategoryLighting, Status: model.StatusAuto, Priority: model.PriorityLow},
				{Name: "EV Charger", Category: model.CategoryEVCharger, Status: model.StatusOff, Priority: model.PriorityLow},
			},
		},
		{
			ID: "house2", Name: "Guest House", Status: "online",
			Devices: []model.Device{
				{Name: "Heat Pump", Category: model.CategoryHVAC, Status: model.StatusOn, Priority: model.PriorityHigh},
				{Name: "Lighting", Category: model.CategoryLighting, Status: model.StatusAuto, Priority: model.PriorityLow},
				{Name: "Pool Pump", Category: model.CategoryPoolPump, Status: model.StatusOn, Priority: model.PriorityLow},
				{Name: "Appliances", Category: model.CategoryAppliance, Status: model.StatusOn, Priority: model.PriorityMedium},
			},
		},
	}
}

func defaultControls() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"battery": {
			"discharge_limit_pct": 30,
			"charge_limit_pct":    90,
		},
		"grid": {
			"capacity_kw": 15,
		},
	}
}

// Generate produces a new snapshot from the injected clock, re-evaluates
// alerts and appends to each due historical series as one unit. Returns a
// copy of the new snapshot and any alerts raised by it.
func (m *Model) Generate() (model.Snapshot, []model.Alert) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	hour := float64(now.Hour()) + float64(now.Minute())/60

	solar := round2(solarPower(hour, m.rng))
	wind := round2(windPower(m.rng))
	totalGen := round2(solar + wind)

	var totalCons float64
	for hi := range m.households {
		var usage float64
		for di := range m.households[hi].Devices {
			d := &m.households[hi].Devices[di]
			d.PowerKW = devicePower(*d, hour, m.rng)
			usage += d.PowerKW
		}
		m.households[hi].CurrentUsageKW = round2(usage)
		totalCons += m.households[hi].CurrentUsageKW
	}
	totalCons = round2(totalCons)

	net := totalGen - totalCons
	m.batteryPct = clamp(m.batteryPct+net*batteryCoupling, 0, 100)

	gridCapacity := m.controls["grid"]["capacity_kw"]
	dischargeLimit := m.controls["battery"]["discharge_limit_pct"]

	gridStatus := model.GridOff
	if m.batteryPct < dischargeLimit || totalCons > totalGen+importMarginKW {
		gridStatus = model.GridOn
	}

	gridLoad := 0.0
	if gridCapacity > 0 {
		gridLoad = clamp(round2(totalCons/gridCapacity*100), 0, 100)
	}

	// Daily totals reset at local midnight, then accumulate value/48 per
	// snapshot (the nominal half-hour cadence).
	day := startOfDay(now)
	summary := m.current.DailySummary
	if day.After(m.dayStart) {
		m.dayStart = day
		summary = model.DailySummary{}
	}
	summary.TotalGeneratedKWh = round2(summary.TotalGeneratedKWh + totalGen/48)
	summary.TotalConsumedKWh = round2(summary.TotalConsumedKWh + totalCons/48)
	summary.EfficiencyPct = efficiency(totalGen, totalCons)

	m.current = model.Snapshot{
		Timestamp: now,
		Generation: model.Generation{
			SolarKW: solar,
			WindKW:  wind,
			TotalKW: totalGen,
		},
		Consumption: model.Consumption{
			HouseholdsKW: totalCons,
			TotalKW:      totalCons,
		},
		Battery: model.BatteryState{
			Percentage:   round2(m.batteryPct),
			Health:       batteryHealth(m.batteryPct),
			Voltage:      round2(44 + m.batteryPct*0.08),
			TemperatureC: round2(22 + m.rng.Float64()*8),
		},
		Grid: model.GridState{
			Status:      gridStatus,
			LoadPercent: gridLoad,
		},
		DailySummary: summary,
	}

	raised := m.checkAlerts(m.current)
	for _, s := range m.history {
		s.appendIfDue(now, totalGen, totalCons)
	}

	return m.current, raised
}

// batteryHealth maps percentage to health: <10 Critical, <30 Warning,
// else Good.
func batteryHealth(pct float64) model.BatteryHealth {
	switch {
	case pct < 10:
		return model.HealthCritical
	case pct < 30:
		return model.HealthWarning
	default:
		return model.HealthGood
	}
}

// efficiency is generation over consumption as a capped percentage; zero
// consumption yields 0, never NaN.
func efficiency(genKW, consKW float64) float64 {
	if consKW <= 0 {
		return 0
	}
	return round2(clamp(genKW/consKW*100, 0, 100))
}

// CurrentData returns a copy of the latest snapshot.
func (m *Model) CurrentData() model.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// HouseholdData returns a deep copy of all households.
func (m *Model) HouseholdData() []model.Household {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyHouseholds(m.households)
}

func copyHouseholds(in []model.Household) []model.Household {
	out := make([]model.Household, len(in))
	for i, h := range in {
		out[i] = h
		out[i].Devices = make([]model.Device, len(h.Devices))
		copy(out[i].Devices, h.Devices)
	}
	return out
}

// HistoricalData returns a copy of one period's series. The second return
// is false for unknown periods.
func (m *Model) HistoricalData(period model.Period) (model.Series, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.history[period]
	if !ok {
		return model.Series{}, false
	}
	return s.snapshot(), true
}

// ToggleDevice flips a device's status: on and auto turn off, off turns on.
// Returns false when the household or device is unknown; nothing is mutated
// in that case.
func (m *Model) ToggleDevice(householdID, deviceName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.findDevice(householdID, deviceName)
	if d == nil {
		return false
	}
	if d.Status == model.StatusOff {
		d.Status = model.StatusOn
	} else {
		d.Status = model.StatusOff
	}
	return true
}

// SetDeviceStatus sets a device's status directly; used by the schedule
// executor.
func (m *Model) SetDeviceStatus(householdID, deviceName string, status model.DeviceStatus) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.findDevice(householdID, deviceName)
	if d == nil {
		return false
	}
	d.Status = status
	return true
}

// findDevice must be called with m.mu held.
func (m *Model) findDevice(householdID, deviceName string) *model.Device {
	for hi := range m.households {
		if m.households[hi].ID != householdID {
			continue
		}
		for di := range m.households[hi].Devices {
			if m.households[hi].Devices[di].Name == deviceName {
				return &m.households[hi].Devices[di]
			}
		}
	}
	return nil
}

// UpdateControlSetting updates one control value. Unknown category or key
// returns false and mutates nothing.
func (m *Model) UpdateControlSetting(category, key string, value float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	cat, ok := m.controls[category]
	if !ok {
		return false
	}
	if _, ok := cat[key]; !ok {
		return false
	}
	cat[key] = value
	m.log.Debug("control setting updated",
		zap.String("category", category),
		zap.String("key", key),
		zap.Float64("value", value))
	return true
}

// ControlSettings returns a deep copy of all control values.
func (m *Model) ControlSettings() map[string]map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]map[string]float64, len(m.controls))
	for cat, kv := range m.controls {
		out[cat] = make(map[string]float64, len(kv))
		for k, v := range kv {
			out[cat][k] = v
		}
	}
	return out
}

// AddSchedule assigns a fresh id, defaults the schedule to active and
// appends it.
func (m *Model) AddSchedule(spec model.Schedule) model.Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()

	spec.ID = uuid.NewString()
	spec.Active = true
	m.schedules = append(m.schedules, spec)
	return spec
}

// ToggleSchedule flips a schedule's active flag. Returns false for unknown
// ids.
func (m *Model) ToggleSchedule(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.schedules {
		if m.schedules[i].ID == id {
			m.schedules[i].Active = !m.schedules[i].Active
			return true
		}
	}
	return false
}

// Schedules returns a copy of all schedules.
func (m *Model) Schedules() []model.Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Schedule, len(m.schedules))
	for i, s := range m.schedules {
		out[i] = s
		out[i].Days = append([]string(nil), s.Days...)
	}
	return out
}

// ExportData builds the full downloadable dump.
func (m *Model) ExportData() model.Export {
	exp := model.Export{
		ExportedAt: m.now(),
		Snapshot:   m.CurrentData(),
		Households: m.HouseholdData(),
		Alerts:     m.AlertsData(),
	}
	for _, p := range model.Periods {
		if r, ok := m.ReportData(p); ok {
			exp.Reports = append(exp.Reports, r)
		}
	}
	return exp
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
