package model

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/chemviz/chemviz/pkg/entities"
)

// DatasetRow mapped from table <dataset_rows>.
type DatasetRow struct {
	DatasetID     int64             `gorm:"column:dataset_id;primaryKey;autoIncrement:false"`
	Position      int               `gorm:"column:position;primaryKey;autoIncrement:false"`
	EquipmentName string            `gorm:"column:equipment_name;not null"`
	Type          string            `gorm:"column:type;not null"`
	Flowrate      *float64          `gorm:"column:flowrate"`
	Pressure      *float64          `gorm:"column:pressure"`
	Temperature   *float64          `gorm:"column:temperature"`
	Extra         datatypes.JSONMap `gorm:"column:extra"`
}

func (DatasetRow) TableName() string {
	return "dataset_rows"
}

func (r DatasetRow) ToEntity() entities.Row {
	var extra map[string]string
	if len(r.Extra) > 0 {
		extra = make(map[string]string, len(r.Extra))
		for key, value := range r.Extra {
			if s, ok := value.(string); ok {
				extra[key] = s
			} else {
				extra[key] = fmt.Sprint(value)
			}
		}
	}

	return entities.Row{
		EquipmentName: r.EquipmentName,
		Type:          r.Type,
		Flowrate:      r.Flowrate,
		Pressure:      r.Pressure,
		Temperature:   r.Temperature,
		Extra:         extra,
	}
}

func NewDatasetRowsFromEntities(datasetID int64, rows []entities.Row) []DatasetRow {
	models := make([]DatasetRow, len(rows))
	for i, row := range rows {
		var extra datatypes.JSONMap
		if len(row.Extra) > 0 {
			extra = make(datatypes.JSONMap, len(row.Extra))
			for key, value := range row.Extra {
				extra[key] = value
			}
		}

		models[i] = DatasetRow{
			DatasetID:     datasetID,
			Position:      i,
			EquipmentName: row.EquipmentName,
			Type:          row.Type,
			Flowrate:      row.Flowrate,
			Pressure:      row.Pressure,
			Temperature:   row.Temperature,
			Extra:         extra,
		}
	}

	return models
}
