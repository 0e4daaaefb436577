package history_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/entities"
	"github.com/chemviz/chemviz/pkg/history"
)

// memoryStore keeps datasets in creation order and answers ListRecentDatasets like the
// SQL store does.
type memoryStore struct {
	datasets []*entities.Dataset
	limits   []int
	filters  []string
	failWith *contract.Error
}

func (m *memoryStore) CreateDataset(_ context.Context, input *entities.Dataset) (*entities.Dataset, *contract.Error) {
	dataset := *input
	dataset.ID = int64(len(m.datasets) + 1)
	dataset.UploadedAt = time.Date(2026, 10, 19, 9, 0, len(m.datasets), 0, time.UTC)
	m.datasets = append(m.datasets, &dataset)

	return &dataset, nil
}

func (m *memoryStore) GetDataset(_ context.Context, id int64) (*entities.Dataset, *contract.Error) {
	for _, dataset := range m.datasets {
		if dataset.ID == id {
			return dataset, nil
		}
	}

	return nil, contract.NewError(contract.ErrorCode_RESOURCE_DOES_NOT_EXIST, "missing")
}

func (m *memoryStore) ListRecentDatasets(
	_ context.Context, limit int, filter string,
) ([]*entities.Dataset, *contract.Error) {
	m.limits = append(m.limits, limit)
	m.filters = append(m.filters, filter)
	if m.failWith != nil {
		return nil, m.failWith
	}

	sorted := append([]*entities.Dataset(nil), m.datasets...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].UploadedAt.Equal(sorted[j].UploadedAt) {
			return sorted[i].UploadedAt.After(sorted[j].UploadedAt)
		}

		return sorted[i].ID > sorted[j].ID
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted, nil
}

func (m *memoryStore) PruneDatasets(_ context.Context, _ int) (int64, *contract.Error) {
	return 0, nil
}

func (m *memoryStore) Close() error {
	return nil
}

func upload(t *testing.T, store *memoryStore, name string) int64 {
	t.Helper()

	dataset, err := store.CreateDataset(context.Background(), &entities.Dataset{
		Name:    name,
		Rows:    []entities.Row{{EquipmentName: "P", Type: "Pump"}},
		Summary: entities.Summary{TotalCount: 1, EquipmentTypes: map[string]int{"Pump": 1}},
	})
	require.Nil(t, err)

	return dataset.ID
}

func TestRecentFollowsUploads(t *testing.T) {
	store := &memoryStore{}
	index := history.NewIndex(store, 5, 100)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"a.csv", "b.csv", "c.csv", "d.csv", "e.csv"} {
		ids = append(ids, upload(t, store, name))
	}

	entries, err := index.Recent(ctx, 5, "")
	require.Nil(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, ids[4], entries[0].ID)
	assert.Equal(t, "e.csv", entries[0].Name)
	assert.Equal(t, ids[0], entries[4].ID)

	sixth := upload(t, store, "f.csv")

	entries, err = index.Recent(ctx, 5, "")
	require.Nil(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, sixth, entries[0].ID)

	for _, entry := range entries {
		assert.NotEqual(t, ids[0], entry.ID)
	}
}

func TestRecentLimits(t *testing.T) {
	scenarios := []struct {
		name      string
		requested int
		expected  int
	}{
		{name: "default when zero", requested: 0, expected: 5},
		{name: "default when negative", requested: -3, expected: 5},
		{name: "explicit", requested: 2, expected: 2},
		{name: "capped", requested: 500, expected: 20},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			store := &memoryStore{}
			index := history.NewIndex(store, 5, 20)

			_, err := index.Recent(context.Background(), scenario.requested, "")
			require.Nil(t, err)
			assert.Equal(t, []int{scenario.expected}, store.limits)
		})
	}
}

func TestRecentPropagatesStoreErrors(t *testing.T) {
	store := &memoryStore{
		failWith: contract.NewError(contract.ErrorCode_STORE_UNAVAILABLE, "database unreachable"),
	}
	index := history.NewIndex(store, 5, 20)

	entries, err := index.Recent(context.Background(), 5, "")
	assert.Nil(t, entries)
	require.NotNil(t, err)
	assert.Equal(t, contract.ErrorCode_STORE_UNAVAILABLE, err.Code)
}

func TestRecentPassesFilter(t *testing.T) {
	store := &memoryStore{}
	index := history.NewIndex(store, 5, 20)

	_, err := index.Recent(context.Background(), 3, "types.Pump >= 1")
	require.Nil(t, err)
	assert.Equal(t, []string{"types.Pump >= 1"}, store.filters)
}
