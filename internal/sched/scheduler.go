package sched

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"energy_dashboard/internal/model"
)

// DeviceSetter is the slice of the energy model the executor needs.
type DeviceSetter interface {
	Schedules() []model.Schedule
	SetDeviceStatus(householdID, deviceName string, status model.DeviceStatus) bool
}

// Executor compiles active schedules into cron entries that set device
// statuses when due. Reload rebuilds the cron table; call it after any
// schedule mutation.
type Executor struct {
	model DeviceSetter
	log   *zap.Logger
	cron  *cron.Cron
}

func NewExecutor(m DeviceSetter, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{model: m, log: log}
}

// Reload replaces the running cron table with one built from the model's
// currently active schedules.
func (e *Executor) Reload() {
	next := cron.New()

	for _, s := range e.model.Schedules() {
		if !s.Active {
			continue
		}
		spec, err := CronSpec(s)
		if err != nil {
			e.log.Warn("skipping schedule", zap.String("id", s.ID), zap.Error(err))
			continue
		}

		s := s
		_, err = next.AddFunc(spec, func() {
			if !e.model.SetDeviceStatus(s.HouseholdID, s.Device, s.Action) {
				e.log.Warn("schedule target missing",
					zap.String("household", s.HouseholdID),
					zap.String("device", s.Device))
				return
			}
			e.log.Info("schedule applied",
				zap.String("schedule", s.Name),
				zap.String("device", s.Device),
				zap.String("action", string(s.Action)))
		})
		if err != nil {
			e.log.Warn("invalid cron spec", zap.String("id", s.ID), zap.Error(err))
		}
	}

	if e.cron != nil {
		e.cron.Stop()
	}
	e.cron = next
	e.cron.Start()
}

// Stop halts the running cron table.
func (e *Executor) Stop() {
	if e.cron != nil {
		e.cron.Stop()
	}
}

// CronSpec converts a schedule's "HH:MM" time and day list into a cron
// expression.
func CronSpec(s model.Schedule) (string, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(s.At, "%d:%d", &hh, &mm); err != nil {
		return "", fmt.Errorf("parsing time %q: %w", s.At, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return "", fmt.Errorf("time %q out of range", s.At)
	}

	days := "*"
	if len(s.Days) > 0 {
		for _, d := range s.Days {
			if !validDay(d) {
				return "", fmt.Errorf("unknown day %q", d)
			}
		}
		days = strings.Join(s.Days, ",")
	}
	return fmt.Sprintf("%d %d * * %s", mm, hh, days), nil
}

func validDay(d string) bool {
	switch strings.ToLower(d) {
	case "mon", "tue", "wed", "thu", "fri", "sat", "sun":
		return true
	}
	return false
}
