package store

import (
	"context"

	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/entities"
)

type DatasetStore interface {
	// CreateDataset persists the rows and summary of input as a new dataset and returns it
	// with its id, uuid and upload time assigned. Either everything is stored or nothing is.
	CreateDataset(ctx context.Context, input *entities.Dataset) (*entities.Dataset, *contract.Error)

	// GetDataset returns the dataset including its rows.
	GetDataset(ctx context.Context, id int64) (*entities.Dataset, *contract.Error)

	// ListRecentDatasets returns at most limit datasets matching filter without rows,
	// newest first. Datasets uploaded in the same millisecond are ordered by id, highest
	// first. An empty filter matches every dataset.
	ListRecentDatasets(ctx context.Context, limit int, filter string) ([]*entities.Dataset, *contract.Error)

	// PruneDatasets deletes every dataset except the keep most recent ones and returns
	// how many were deleted.
	PruneDatasets(ctx context.Context, keep int) (int64, *contract.Error)

	Close() error
}
