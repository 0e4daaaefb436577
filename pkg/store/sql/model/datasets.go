package model

import (
	"time"

	"github.com/chemviz/chemviz/pkg/entities"
)

// Dataset mapped from table <datasets>.
type Dataset struct {
	ID             *int64          `gorm:"column:dataset_id;primaryKey;autoIncrement:true;index:idx_datasets_recent,priority:2"`
	DatasetUUID    string          `gorm:"column:dataset_uuid;not null;uniqueIndex;size:36"`
	Name           string          `gorm:"column:name;not null;size:255"`
	UploadedAt     int64           `gorm:"column:uploaded_at;not null;index:idx_datasets_recent,priority:1"`
	TotalCount     int             `gorm:"column:total_count;not null"`
	RejectedRows   int             `gorm:"column:rejected_rows;not null"`
	AvgFlowrate    *float64        `gorm:"column:avg_flowrate"`
	AvgPressure    *float64        `gorm:"column:avg_pressure"`
	AvgTemperature *float64        `gorm:"column:avg_temperature"`
	EquipmentTypes []EquipmentType `gorm:"foreignKey:DatasetID;references:ID"`
	Rows           []DatasetRow    `gorm:"foreignKey:DatasetID;references:ID"`
}

func (Dataset) TableName() string {
	return "datasets"
}

func (d Dataset) ToEntity() *entities.Dataset {
	types := make(map[string]int, len(d.EquipmentTypes))
	for _, t := range d.EquipmentTypes {
		types[t.Type] = t.Count
	}

	var rows []entities.Row
	if len(d.Rows) > 0 {
		rows = make([]entities.Row, len(d.Rows))
		for i, row := range d.Rows {
			rows[i] = row.ToEntity()
		}
	}

	var id int64
	if d.ID != nil {
		id = *d.ID
	}

	return &entities.Dataset{
		ID:           id,
		UUID:         d.DatasetUUID,
		Name:         d.Name,
		UploadedAt:   time.UnixMilli(d.UploadedAt).UTC(),
		RejectedRows: d.RejectedRows,
		Summary: entities.Summary{
			TotalCount:     d.TotalCount,
			AvgFlowrate:    d.AvgFlowrate,
			AvgPressure:    d.AvgPressure,
			AvgTemperature: d.AvgTemperature,
			EquipmentTypes: types,
		},
		Rows: rows,
	}
}

// NewDatasetFromEntity maps the dataset columns; rows and type counts are built
// separately so they can be inserted in batches.
func NewDatasetFromEntity(dataset *entities.Dataset) Dataset {
	return Dataset{
		DatasetUUID:    dataset.UUID,
		Name:           dataset.Name,
		UploadedAt:     dataset.UploadedAt.UnixMilli(),
		TotalCount:     dataset.Summary.TotalCount,
		RejectedRows:   dataset.RejectedRows,
		AvgFlowrate:    dataset.Summary.AvgFlowrate,
		AvgPressure:    dataset.Summary.AvgPressure,
		AvgTemperature: dataset.Summary.AvgTemperature,
	}
}
