package model

import "sort"

// EquipmentType mapped from table <dataset_equipment_types>.
type EquipmentType struct {
	DatasetID int64  `gorm:"column:dataset_id;primaryKey;autoIncrement:false"`
	Type      string `gorm:"column:type;primaryKey;size:255"`
	Count     int    `gorm:"column:count;not null"`
}

func (EquipmentType) TableName() string {
	return "dataset_equipment_types"
}

func NewEquipmentTypes(datasetID int64, counts map[string]int) []EquipmentType {
	types := make([]EquipmentType, 0, len(counts))
	for name, count := range counts {
		types = append(types, EquipmentType{
			DatasetID: datasetID,
			Type:      name,
			Count:     count,
		})
	}

	sort.Slice(types, func(i, j int) bool {
		return types[i].Type < types[j].Type
	})

	return types
}
