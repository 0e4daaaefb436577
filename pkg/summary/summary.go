// Package summary computes dataset-wide statistics over parsed equipment rows.
package summary

import "github.com/chemviz/chemviz/pkg/entities"

type mean struct {
	sum   float64
	count int
}

func (m *mean) add(value *float64) {
	if value == nil {
		return
	}
	m.sum += *value
	m.count++
}

// value is nil when no value was added; an empty mean is not zero.
func (m mean) value() *float64 {
	if m.count == 0 {
		return nil
	}
	avg := m.sum / float64(m.count)

	return &avg
}

// Compute aggregates rows in a single pass. Each average only considers the rows where
// that field is present, independently of the other fields.
func Compute(rows []entities.Row) entities.Summary {
	var flowrate, pressure, temperature mean

	types := make(map[string]int)

	for _, row := range rows {
		flowrate.add(row.Flowrate)
		pressure.add(row.Pressure)
		temperature.add(row.Temperature)
		types[row.Type]++
	}

	return entities.Summary{
		TotalCount:     len(rows),
		AvgFlowrate:    flowrate.value(),
		AvgPressure:    pressure.value(),
		AvgTemperature: temperature.value(),
		EquipmentTypes: types,
	}
}
