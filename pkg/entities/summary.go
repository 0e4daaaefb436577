package entities

// Summary holds the statistics computed once over a dataset's rows. A nil average means
// no row carried a numeric value for that field.
type Summary struct {
	TotalCount     int            `json:"total_count"`
	AvgFlowrate    *float64       `json:"avg_flowrate"`
	AvgPressure    *float64       `json:"avg_pressure"`
	AvgTemperature *float64       `json:"avg_temperature"`
	EquipmentTypes map[string]int `json:"equipment_types"`
}
