package entities

import "encoding/json"

// Column headers recognized by the table parser.
const (
	ColumnEquipmentName = "Equipment Name"
	ColumnType          = "Type"
	ColumnFlowrate      = "Flowrate"
	ColumnPressure      = "Pressure"
	ColumnTemperature   = "Temperature"
)

// Row is one piece of equipment. Numeric fields are nil when the cell was empty or not
// a number. Columns the parser does not recognize are kept in Extra under their header.
type Row struct {
	EquipmentName string
	Type          string
	Flowrate      *float64
	Pressure      *float64
	Temperature   *float64
	Extra         map[string]string
}

// MarshalJSON renders the row as a flat record keyed by column header, the shape the
// table views consume. Extra columns never shadow the recognized ones.
func (r Row) MarshalJSON() ([]byte, error) {
	record := make(map[string]any, len(r.Extra)+5)
	for key, value := range r.Extra {
		record[key] = value
	}

	record[ColumnEquipmentName] = r.EquipmentName
	record[ColumnType] = r.Type
	record[ColumnFlowrate] = r.Flowrate
	record[ColumnPressure] = r.Pressure
	record[ColumnTemperature] = r.Temperature

	return json.Marshal(record)
}
