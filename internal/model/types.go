package model

import "time"

// Period identifies a historical window granularity.
type Period string

const (
	Period24h Period = "24h"
	Period7d  Period = "7d"
	Period30d Period = "30d"
)

// Periods lists all tracked periods in display order.
var Periods = []Period{Period24h, Period7d, Period30d}

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case Period24h, Period7d, Period30d:
		return true
	}
	return false
}

type BatteryHealth string

const (
	HealthGood     BatteryHealth = "Good"
	HealthWarning  BatteryHealth = "Warning"
	HealthCritical BatteryHealth = "Critical"
)

type GridStatus string

const (
	GridOn  GridStatus = "ON"
	GridOff GridStatus = "OFF"
)

type DeviceStatus string

const (
	StatusOn   DeviceStatus = "on"
	StatusOff  DeviceStatus = "off"
	StatusAuto DeviceStatus = "auto"
)

type DevicePriority string

const (
	PriorityLow    DevicePriority = "low"
	PriorityMedium DevicePriority = "medium"
	PriorityHigh   DevicePriority = "high"
)

// DeviceCategory selects the time-of-day power profile for a device.
// Profiles are keyed by category rather than display name so renaming a
// device never changes its draw.
type DeviceCategory string

const (
	CategoryHVAC        DeviceCategory = "hvac"
	CategoryWaterHeater DeviceCategory = "water_heater"
	CategoryEVCharger   DeviceCategory = "ev_charger"
	CategoryLighting    DeviceCategory = "lighting"
	CategoryPoolPump    DeviceCategory = "pool_pump"
	CategoryAppliance   DeviceCategory = "appliance"
)

// Device is a single consumer inside a household. PowerKW is recomputed on
// every snapshot; only Status is mutated externally.
type Device struct {
	Name     string         `json:"name"`
	Category DeviceCategory `json:"category"`
	PowerKW  float64        `json:"power_kw"`
	Status   DeviceStatus   `json:"status"`
	Priority DevicePriority `json:"priority"`
}

// Household groups devices; CurrentUsageKW is derived from them.
type Household struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	CurrentUsageKW float64  `json:"current_usage_kw"`
	Devices        []Device `json:"devices"`
}

type Generation struct {
	SolarKW float64 `json:"solar_kw"`
	WindKW  float64 `json:"wind_kw"`
	TotalKW float64 `json:"total_kw"`
}

type Consumption struct {
	HouseholdsKW float64 `json:"households_kw"`
	TotalKW      float64 `json:"total_kw"`
}

type BatteryState struct {
	Percentage   float64       `json:"percentage"`
	Health       BatteryHealth `json:"health"`
	Voltage      float64       `json:"voltage"`
	TemperatureC float64       `json:"temperature_c"`
}

type GridState struct {
	Status      GridStatus `json:"status"`
	LoadPercent float64    `json:"load_percent"`
}

// DailySummary holds cumulative energy totals for the current day. Totals
// accumulate as value/48 per snapshot, an approximation assuming roughly 48
// snapshots per day rather than a true time integral.
type DailySummary struct {
	TotalGeneratedKWh float64 `json:"total_generated_kwh"`
	TotalConsumedKWh  float64 `json:"total_consumed_kwh"`
	EfficiencyPct     float64 `json:"efficiency_pct"`
}

// Snapshot is one point-in-time reading of all system quantities.
type Snapshot struct {
	Timestamp    time.Time    `json:"timestamp"`
	Generation   Generation   `json:"generation"`
	Consumption  Consumption  `json:"consumption"`
	Battery      BatteryState `json:"battery"`
	Grid         GridState    `json:"grid"`
	DailySummary DailySummary `json:"daily_summary"`
}

type AlertType string

const (
	AlertInfo     AlertType = "info"
	AlertWarning  AlertType = "warning"
	AlertCritical AlertType = "critical"
)

// Alert is produced by rule evaluation against the current snapshot.
type Alert struct {
	ID        string    `json:"id"`
	Type      AlertType `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Dismissed bool      `json:"dismissed"`
}

// Series holds one period's rolling history. Timestamps carry the raw
// instants; Labels are display strings only and are never parsed back.
// All four slices always have identical length.
type Series struct {
	Timestamps    []time.Time `json:"timestamps"`
	Labels        []string    `json:"labels"`
	GenerationKW  []float64   `json:"generation_kw"`
	ConsumptionKW []float64   `json:"consumption_kw"`
}

// Statistics aggregates a period's series for reporting.
type Statistics struct {
	AvgGenerationKW     float64 `json:"avg_generation_kw"`
	PeakGenerationKW    float64 `json:"peak_generation_kw"`
	AvgConsumptionKW    float64 `json:"avg_consumption_kw"`
	PeakConsumptionKW   float64 `json:"peak_consumption_kw"`
	EfficiencyPct       float64 `json:"efficiency_pct"`
	TotalGenerationKWh  float64 `json:"total_generation_kwh"`
	TotalConsumptionKWh float64 `json:"total_consumption_kwh"`
}

// Report is the series plus derived statistics for one period.
type Report struct {
	Period     Period     `json:"period"`
	Data       Series     `json:"data"`
	Statistics Statistics `json:"statistics"`
}

// Schedule sets a device's status at a given time of day.
type Schedule struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	HouseholdID string       `json:"household_id"`
	Device      string       `json:"device"`
	Action      DeviceStatus `json:"action"`
	At          string       `json:"at"`   // "HH:MM"
	Days        []string     `json:"days"` // "mon".."sun"; empty = every day
	Active      bool         `json:"active"`
}

// Export is the full JSON-serializable dump offered for download.
type Export struct {
	ExportedAt time.Time   `json:"exported_at"`
	Snapshot   Snapshot    `json:"snapshot"`
	Households []Household `json:"households"`
	Alerts     []Alert     `json:"alerts"`
	Reports    []Report    `json:"reports"`
}
