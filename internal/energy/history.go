package energy

import (
	"time"

	"energy_dashboard/internal/model"
)

// series is one period's rolling window. Raw instants are stored next to the
// display labels; the cadence check always compares against the stored
// instant, never a re-parsed label.
type series struct {
	capacity int
	cadence  time.Duration
	format   string

	timestamps  []time.Time
	labels      []string
	generation  []float64
	consumption []float64
}

func newSeries(capacity int, cadence time.Duration, format string) *series {
	return &series{capacity: capacity, cadence: cadence, format: format}
}

// appendIfDue appends a point when the cadence has elapsed since the last
// stored instant. Returns true if a point was added.
func (s *series) appendIfDue(now time.Time, genKW, consKW float64) bool {
	if n := len(s.timestamps); n > 0 {
		if now.Sub(s.timestamps[n-1]) < s.cadence {
			return false
		}
	}

	s.timestamps = append(s.timestamps, now)
	s.labels = append(s.labels, now.Format(s.format))
	s.generation = append(s.generation, round2(genKW))
	s.consumption = append(s.consumption, round2(consKW))

	if len(s.timestamps) > s.capacity {
		s.timestamps = s.timestamps[1:]
		s.labels = s.labels[1:]
		s.generation = s.generation[1:]
		s.consumption = s.consumption[1:]
	}
	return true
}

func (s *series) len() int {
	return len(s.timestamps)
}

// snapshot returns a deep copy as the public series type.
func (s *series) snapshot() model.Series {
	out := model.Series{
		Timestamps:    make([]time.Time, len(s.timestamps)),
		Labels:        make([]string, len(s.labels)),
		GenerationKW:  make([]float64, len(s.generation)),
		ConsumptionKW: make([]float64, len(s.consumption)),
	}
	copy(out.Timestamps, s.timestamps)
	copy(out.Labels, s.labels)
	copy(out.GenerationKW, s.generation)
	copy(out.ConsumptionKW, s.consumption)
	return out
}

// newHistory builds the tracked period set: 48 half-hour points for 24h,
// 168 hourly points for 7d, 720 hourly points for 30d.
func newHistory() map[model.Period]*series {
	return map[model.Period]*series{
		model.Period24h: newSeries(48, 30*time.Minute, "15:04"),
		model.Period7d:  newSeries(168, time.Hour, "Mon 15:04"),
		model.Period30d: newSeries(720, time.Hour, "Jan 2 15:04"),
	}
}
