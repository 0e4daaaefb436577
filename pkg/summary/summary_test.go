package summary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemviz/chemviz/pkg/entities"
	"github.com/chemviz/chemviz/pkg/summary"
	"github.com/chemviz/chemviz/pkg/utils"
)

func TestComputePumpScenario(t *testing.T) {
	rows := []entities.Row{
		{
			EquipmentName: "Pump1",
			Type:          "Pump",
			Flowrate:      utils.PtrTo(10.0),
			Pressure:      utils.PtrTo(5.0),
			Temperature:   utils.PtrTo(20.0),
		},
		{
			EquipmentName: "Pump2",
			Type:          "Pump",
			Flowrate:      utils.PtrTo(20.0),
			Temperature:   utils.PtrTo(30.0),
		},
	}

	result := summary.Compute(rows)

	assert.Equal(t, 2, result.TotalCount)
	require.NotNil(t, result.AvgFlowrate)
	require.NotNil(t, result.AvgPressure)
	require.NotNil(t, result.AvgTemperature)
	assert.InDelta(t, 15.0, *result.AvgFlowrate, 1e-9)
	assert.InDelta(t, 5.0, *result.AvgPressure, 1e-9)
	assert.InDelta(t, 25.0, *result.AvgTemperature, 1e-9)
	assert.Equal(t, map[string]int{"Pump": 2}, result.EquipmentTypes)
}

func TestComputeEmpty(t *testing.T) {
	result := summary.Compute(nil)

	assert.Equal(t, 0, result.TotalCount)
	assert.Nil(t, result.AvgFlowrate)
	assert.Nil(t, result.AvgPressure)
	assert.Nil(t, result.AvgTemperature)
	assert.Empty(t, result.EquipmentTypes)
}

func TestComputeFieldAbsentEverywhereIsNotAvailable(t *testing.T) {
	rows := []entities.Row{
		{EquipmentName: "V1", Type: "Valve", Flowrate: utils.PtrTo(0.0)},
		{EquipmentName: "V2", Type: "Valve", Flowrate: utils.PtrTo(0.0)},
		{EquipmentName: "C1", Type: "Compressor"},
	}

	result := summary.Compute(rows)

	assert.Equal(t, 3, result.TotalCount)
	require.NotNil(t, result.AvgFlowrate)
	assert.Equal(t, 0.0, *result.AvgFlowrate)
	assert.Nil(t, result.AvgPressure)
	assert.Nil(t, result.AvgTemperature)
	assert.Equal(t, map[string]int{"Valve": 2, "Compressor": 1}, result.EquipmentTypes)
}

func TestComputeIsOrderIndependent(t *testing.T) {
	rows := []entities.Row{
		{EquipmentName: "A", Type: "Pump", Pressure: utils.PtrTo(1.5)},
		{EquipmentName: "B", Type: "Reactor", Pressure: utils.PtrTo(4.5)},
		{EquipmentName: "C", Type: "Pump", Pressure: utils.PtrTo(3.0)},
	}
	reversed := []entities.Row{rows[2], rows[1], rows[0]}

	assert.Equal(t, summary.Compute(rows), summary.Compute(reversed))
}
