// Package history exposes the most recent uploads as row-less entries.
package history

import (
	"context"

	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/entities"
	"github.com/chemviz/chemviz/pkg/store"
)

const DefaultLimit = 5

// Index reads straight from the store on every call so a new upload shows up at once.
type Index struct {
	store        store.DatasetStore
	defaultLimit int
	maxLimit     int
}

// NewIndex returns an index over datasetStore. A limit of 0 or less passed to Recent
// means defaultLimit; larger requests are capped at maxLimit.
func NewIndex(datasetStore store.DatasetStore, defaultLimit, maxLimit int) *Index {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}

	return &Index{
		store:        datasetStore,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Recent returns the newest uploads matching filter, see query.ParseFilter.
func (i *Index) Recent(ctx context.Context, limit int, filter string) ([]entities.HistoryEntry, *contract.Error) {
	switch {
	case limit <= 0:
		limit = i.defaultLimit
	case limit > i.maxLimit:
		limit = i.maxLimit
	}

	datasets, err := i.store.ListRecentDatasets(ctx, limit, filter)
	if err != nil {
		return nil, err
	}

	entries := make([]entities.HistoryEntry, len(datasets))
	for n, dataset := range datasets {
		entries[n] = dataset.ToHistoryEntry()
	}

	return entries, nil
}
