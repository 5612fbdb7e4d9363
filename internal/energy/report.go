package energy

import (
	"energy_dashboard/internal/model"
)

// ReportData returns the period's series plus derived statistics. Unknown
// periods return false. An empty series yields all-zero statistics.
func (m *Model) ReportData(period model.Period) (model.Report, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.history[period]
	if !ok {
		return model.Report{}, false
	}

	data := s.snapshot()
	return model.Report{
		Period:     period,
		Data:       data,
		Statistics: computeStatistics(data),
	}, true
}

func computeStatistics(data model.Series) model.Statistics {
	n := len(data.GenerationKW)
	if n == 0 {
		return model.Statistics{}
	}

	var stats model.Statistics
	var genSum, consSum float64
	for i := 0; i < n; i++ {
		g, c := data.GenerationKW[i], data.ConsumptionKW[i]
		genSum += g
		consSum += c
		if g > stats.PeakGenerationKW {
			stats.PeakGenerationKW = g
		}
		if c > stats.PeakConsumptionKW {
			stats.PeakConsumptionKW = c
		}
	}

	stats.AvgGenerationKW = round2(genSum / float64(n))
	stats.AvgConsumptionKW = round2(consSum / float64(n))
	stats.EfficiencyPct = efficiency(stats.AvgGenerationKW, stats.AvgConsumptionKW)
	stats.TotalGenerationKWh = round2(genSum)
	stats.TotalConsumptionKWh = round2(consSum)
	return stats
}
