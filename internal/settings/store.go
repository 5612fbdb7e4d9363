package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// StorageKey is the fixed key the settings blob lives under, mirroring the
// dashboard's per-browser storage layout.
const StorageKey = "energy-dashboard.settings"

type General struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

type Dashboard struct {
	UpdateFrequencySec int    `json:"update_frequency_sec"`
	DefaultPeriod      string `json:"default_period"`
}

type Units struct {
	Power       string `json:"power"`
	Energy      string `json:"energy"`
	Temperature string `json:"temperature"`
}

type Data struct {
	RetentionDays int    `json:"retention_days"`
	ExportFormat  string `json:"export_format"`
}

// Settings is the persisted key-value blob consumed by the dashboard.
type Settings struct {
	General   General   `json:"general"`
	Dashboard Dashboard `json:"dashboard"`
	Units     Units     `json:"units"`
	Data      Data      `json:"data"`
}

func Defaults() Settings {
	return Settings{
		General:   General{Theme: "dark", Language: "en"},
		Dashboard: Dashboard{UpdateFrequencySec: 2, DefaultPeriod: "24h"},
		Units:     Units{Power: "kW", Energy: "kWh", Temperature: "C"},
		Data:      Data{RetentionDays: 30, ExportFormat: "json"},
	}
}

// Store persists settings as a JSON file. Malformed or missing files fall
// back to defaults.
type Store struct {
	mu      sync.Mutex
	path    string
	current Settings
	log     *zap.Logger
}

func NewStore(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{path: path, current: Defaults(), log: log}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("settings unreadable, using defaults", zap.Error(err))
		}
		return
	}

	var blob map[string]Settings
	if err := json.Unmarshal(raw, &blob); err != nil {
		s.log.Warn("settings malformed, using defaults", zap.Error(err))
		return
	}
	loaded, ok := blob[StorageKey]
	if !ok {
		s.log.Warn("settings key missing, using defaults", zap.String("key", StorageKey))
		return
	}
	s.current = loaded
}

// Current returns a copy of the active settings.
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update validates, persists and applies new settings.
func (s *Store) Update(next Settings) error {
	if next.Dashboard.UpdateFrequencySec <= 0 {
		return fmt.Errorf("update frequency must be positive, got %d", next.Dashboard.UpdateFrequencySec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(map[string]Settings{StorageKey: next}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	s.current = next
	return nil
}
