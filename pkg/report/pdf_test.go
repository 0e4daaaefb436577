package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemviz/chemviz/pkg/entities"
	"github.com/chemviz/chemviz/pkg/utils"
)

func TestFormatAverage(t *testing.T) {
	assert.Equal(t, "N/A", formatAverage(nil))
	assert.Equal(t, "0.00", formatAverage(utils.PtrTo(0.0)))
	assert.Equal(t, "15.33", formatAverage(utils.PtrTo(15.333)))
}

func TestSortedTypes(t *testing.T) {
	types := sortedTypes(map[string]int{"Valve": 1, "Pump": 3, "Compressor": 1})

	assert.Equal(t, []typeCount{
		{name: "Pump", count: 3},
		{name: "Compressor", count: 1},
		{name: "Valve", count: 1},
	}, types)
}

func TestRenderEmptyDataset(t *testing.T) {
	content, err := PDFRenderer{}.Render(&entities.Dataset{
		ID:         1,
		Name:       "empty.csv",
		UploadedAt: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
		Summary:    entities.Summary{EquipmentTypes: map[string]int{}},
	}, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
}
