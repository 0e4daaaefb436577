package entities_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemviz/chemviz/pkg/entities"
	"github.com/chemviz/chemviz/pkg/utils"
)

func TestRowMarshalJSONFlattensExtra(t *testing.T) {
	row := entities.Row{
		EquipmentName: "Pump1",
		Type:          "Pump",
		Flowrate:      utils.PtrTo(10.5),
		Extra:         map[string]string{"Site": "North", "Type": "shadowed"},
	}

	body, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Equipment Name": "Pump1",
		"Type": "Pump",
		"Flowrate": 10.5,
		"Pressure": null,
		"Temperature": null,
		"Site": "North"
	}`, string(body))
}

func TestToHistoryEntryDropsRows(t *testing.T) {
	uploadedAt := time.UnixMilli(1700000000000).UTC()
	dataset := entities.Dataset{
		ID:         3,
		Name:       "plant.csv",
		UploadedAt: uploadedAt,
		Summary: entities.Summary{
			TotalCount:  1,
			AvgFlowrate: utils.PtrTo(4.0),
		},
		Rows: []entities.Row{{EquipmentName: "Valve", Type: "Valve"}},
	}

	entry := dataset.ToHistoryEntry()
	assert.Equal(t, int64(3), entry.ID)
	assert.Equal(t, "plant.csv", entry.Name)
	assert.Equal(t, uploadedAt, entry.UploadedAt)
	assert.Equal(t, 1, entry.TotalCount)
	assert.Equal(t, 4.0, *entry.AvgFlowrate)
	assert.Nil(t, entry.AvgPressure)
	assert.Nil(t, entry.AvgTemperature)
}
