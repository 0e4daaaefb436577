package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/entities"
	"github.com/chemviz/chemviz/pkg/store/sql/model"
)

func (s *Store) CreateDataset(ctx context.Context, input *entities.Dataset) (*entities.Dataset, *contract.Error) {
	db, cancel := s.session(ctx)
	defer cancel()

	dataset := *input
	dataset.UUID = uuid.NewString()

	var record model.Dataset

	if err := db.Transaction(func(transaction *gorm.DB) error {
		// Stamped while holding the connection, in milliseconds, so upload order follows ids.
		dataset.UploadedAt = time.UnixMilli(s.now().UnixMilli()).UTC()
		record = model.NewDatasetFromEntity(&dataset)

		if err := transaction.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to insert dataset: %w", err)
		}

		if rows := model.NewDatasetRowsFromEntities(*record.ID, dataset.Rows); len(rows) > 0 {
			if err := transaction.CreateInBatches(&rows, rowBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert dataset rows: %w", err)
			}
		}

		if types := model.NewEquipmentTypes(*record.ID, dataset.Summary.EquipmentTypes); len(types) > 0 {
			if err := transaction.Create(&types).Error; err != nil {
				return fmt.Errorf("failed to insert equipment types: %w", err)
			}
		}

		return nil
	}); err != nil {
		return nil, unavailable("failed to create dataset", err)
	}

	dataset.ID = *record.ID

	return &dataset, nil
}

func (s *Store) GetDataset(ctx context.Context, id int64) (*entities.Dataset, *contract.Error) {
	if id <= 0 {
		return nil, notFound(id)
	}

	db, cancel := s.session(ctx)
	defer cancel()

	var dataset model.Dataset
	if err := db.
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("EquipmentTypes").
		Where("dataset_id = ?", id).
		First(&dataset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}

		return nil, unavailable(fmt.Sprintf("failed to get dataset %d", id), err)
	}

	result := dataset.ToEntity()
	if result.Rows == nil {
		result.Rows = []entities.Row{}
	}

	return result, nil
}

func (s *Store) ListRecentDatasets(
	ctx context.Context, limit int, filter string,
) ([]*entities.Dataset, *contract.Error) {
	if limit <= 0 {
		return []*entities.Dataset{}, nil
	}

	db, cancel := s.session(ctx)
	defer cancel()

	transaction := db.Model(&model.Dataset{})
	if err := applyFilters(transaction, filter); err != nil {
		return nil, err
	}

	var datasets []model.Dataset
	if err := transaction.
		Preload("EquipmentTypes").
		Order("uploaded_at DESC").
		Order("dataset_id DESC").
		Limit(limit).
		Find(&datasets).Error; err != nil {
		return nil, unavailable("failed to list datasets", err)
	}

	result := make([]*entities.Dataset, len(datasets))
	for i, dataset := range datasets {
		result[i] = dataset.ToEntity()
	}

	return result, nil
}

func (s *Store) PruneDatasets(ctx context.Context, keep int) (int64, *contract.Error) {
	if keep < 0 {
		return 0, contract.NewError(
			contract.ErrorCode_INVALID_PARAMETER_VALUE,
			fmt.Sprintf("number of datasets to keep must not be negative, got %d", keep),
		)
	}

	db, cancel := s.session(ctx)
	defer cancel()

	var deleted int64

	if err := db.Transaction(func(transaction *gorm.DB) error {
		var ids []int64
		if err := transaction.
			Model(&model.Dataset{}).
			Order("uploaded_at DESC").
			Order("dataset_id DESC").
			Pluck("dataset_id", &ids).Error; err != nil {
			return fmt.Errorf("failed to list dataset ids: %w", err)
		}

		if len(ids) <= keep {
			return nil
		}

		stale := ids[keep:]

		if err := transaction.Where("dataset_id IN ?", stale).Delete(&model.DatasetRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete dataset rows: %w", err)
		}

		if err := transaction.Where("dataset_id IN ?", stale).Delete(&model.EquipmentType{}).Error; err != nil {
			return fmt.Errorf("failed to delete equipment types: %w", err)
		}

		result := transaction.Where("dataset_id IN ?", stale).Delete(&model.Dataset{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete datasets: %w", result.Error)
		}

		deleted = result.RowsAffected

		return nil
	}); err != nil {
		return 0, unavailable("failed to prune datasets", err)
	}

	return deleted, nil
}
