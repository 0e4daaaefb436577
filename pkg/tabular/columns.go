package tabular

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/chemviz/chemviz/pkg/entities"
)

type field int

const (
	fieldExtra field = iota
	fieldEquipmentName
	fieldType
	fieldFlowrate
	fieldPressure
	fieldTemperature
)

type column struct {
	header string
	field  field
}

var requiredColumns = []column{
	{header: entities.ColumnEquipmentName, field: fieldEquipmentName},
	{header: entities.ColumnType, field: fieldType},
	{header: entities.ColumnFlowrate, field: fieldFlowrate},
	{header: entities.ColumnPressure, field: fieldPressure},
	{header: entities.ColumnTemperature, field: fieldTemperature},
}

// normalizeHeader folds case and word separators so "Equipment Name", "equipment_name"
// and "EquipmentName" resolve to the same key.
func normalizeHeader(header string) string {
	return strcase.ToSnake(strings.TrimSpace(header))
}

var requiredByKey = func() map[string]column {
	index := make(map[string]column, len(requiredColumns))
	for _, c := range requiredColumns {
		index[normalizeHeader(c.header)] = c
	}

	return index
}()

// mapColumns resolves each header cell to a field. The first occurrence of a required
// column wins; duplicates fall through to Extra.
func mapColumns(header []string) ([]column, map[field]bool) {
	mapping := make([]column, len(header))
	seen := make(map[field]bool, len(requiredColumns))

	for i, h := range header {
		name := strings.TrimSpace(h)
		mapping[i] = column{header: name, field: fieldExtra}

		c, ok := requiredByKey[normalizeHeader(name)]
		if ok && !seen[c.field] {
			mapping[i].field = c.field
			seen[c.field] = true
		}
	}

	return mapping, seen
}
