package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemviz/chemviz/pkg/config"
	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/entities"
	"github.com/chemviz/chemviz/pkg/report"
)

type FakeStore struct {
	datasets  []*entities.Dataset
	pruned    []int
	createErr *contract.Error
}

func (f *FakeStore) CreateDataset(_ context.Context, input *entities.Dataset) (*entities.Dataset, *contract.Error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	dataset := *input
	dataset.ID = int64(len(f.datasets) + 1)
	dataset.UUID = "00000000-0000-0000-0000-000000000000"
	dataset.UploadedAt = time.Date(2026, 10, 19, 12, 0, len(f.datasets), 0, time.UTC)
	f.datasets = append(f.datasets, &dataset)

	return &dataset, nil
}

func (f *FakeStore) GetDataset(_ context.Context, id int64) (*entities.Dataset, *contract.Error) {
	for _, dataset := range f.datasets {
		if dataset.ID == id {
			return dataset, nil
		}
	}

	return nil, contract.NewError(contract.ErrorCode_RESOURCE_DOES_NOT_EXIST, "No Dataset exists")
}

func (f *FakeStore) ListRecentDatasets(_ context.Context, limit int, _ string) ([]*entities.Dataset, *contract.Error) {
	result := make([]*entities.Dataset, 0, limit)
	for i := len(f.datasets) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, f.datasets[i])
	}

	return result, nil
}

func (f *FakeStore) PruneDatasets(_ context.Context, keep int) (int64, *contract.Error) {
	f.pruned = append(f.pruned, keep)

	return 0, nil
}

func (f *FakeStore) Close() error {
	return nil
}

func newTestService(store *FakeStore) *DatasetService {
	cfg := config.Default()
	cfg.Report.Username = "admin"
	cfg.Report.Password = "s3cret"

	gate := report.NewGate(report.SecretFromConfig(cfg.Report), store, report.PDFRenderer{})

	return NewDatasetService(cfg, store, gate)
}

const pumpCSV = "Equipment Name,Type,Flowrate,Pressure,Temperature\n" +
	"Pump1,Pump,10,5,20\n" +
	"Pump2,Pump,20,,30\n"

func TestIngestPumpScenario(t *testing.T) {
	store := &FakeStore{}
	service := newTestService(store)

	response, err := service.IngestDataset(context.Background(), &contract.IngestDataset{
		Filename: "pumps.csv",
		Content:  pumpCSV,
	})
	require.Nil(t, err)

	assert.Equal(t, int64(1), response.ID)
	assert.Equal(t, "pumps.csv", response.Name)
	assert.Len(t, response.Rows, 2)
	assert.Empty(t, response.MissingColumns)
	assert.NotNil(t, response.MissingColumns)

	summary := response.Summary
	assert.Equal(t, 2, summary.TotalCount)
	assert.InDelta(t, 15.0, *summary.AvgFlowrate, 1e-9)
	assert.InDelta(t, 5.0, *summary.AvgPressure, 1e-9)
	assert.InDelta(t, 25.0, *summary.AvgTemperature, 1e-9)
	assert.Equal(t, map[string]int{"Pump": 2}, summary.EquipmentTypes)

	assert.Empty(t, store.pruned)
}

func TestIngestHeaderOnly(t *testing.T) {
	service := newTestService(&FakeStore{})

	response, err := service.IngestDataset(context.Background(), &contract.IngestDataset{
		Content: "Equipment Name,Type,Flowrate,Pressure,Temperature\n",
	})
	require.Nil(t, err)

	assert.Equal(t, entities.DefaultDatasetName, response.Name)
	assert.Equal(t, 0, response.Summary.TotalCount)
	assert.Nil(t, response.Summary.AvgFlowrate)
	assert.Nil(t, response.Summary.AvgPressure)
	assert.Nil(t, response.Summary.AvgTemperature)
}

func TestIngestFailures(t *testing.T) {
	scenarios := []struct {
		name      string
		content   string
		createErr *contract.Error
		code      contract.ErrorCode
	}{
		{
			name:    "empty file",
			content: "",
			code:    contract.ErrorCode_PARSE_ERROR,
		},
		{
			name:    "missing columns",
			content: "Name,Kind\nPump1,Pump\n",
			code:    contract.ErrorCode_PARSE_ERROR,
		},
		{
			name:    "every row rejected",
			content: "Equipment Name,Type,Flowrate\nPump1,Pump\n,Valve,3\n",
			code:    contract.ErrorCode_VALIDATION_ERROR,
		},
		{
			name:      "store unavailable",
			content:   pumpCSV,
			createErr: contract.NewError(contract.ErrorCode_STORE_UNAVAILABLE, "failed to create dataset"),
			code:      contract.ErrorCode_STORE_UNAVAILABLE,
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			store := &FakeStore{createErr: scenario.createErr}
			service := newTestService(store)

			response, err := service.IngestDataset(context.Background(), &contract.IngestDataset{
				Content: scenario.content,
			})
			assert.Nil(t, response)
			require.NotNil(t, err)
			assert.Equal(t, scenario.code, err.Code)
			assert.Empty(t, store.datasets)
		})
	}
}

func TestIngestPrunesWhenRetentionConfigured(t *testing.T) {
	store := &FakeStore{}
	service := newTestService(store)
	service.config.Store.Retain = 5

	_, err := service.IngestDataset(context.Background(), &contract.IngestDataset{Content: pumpCSV})
	require.Nil(t, err)
	assert.Equal(t, []int{5}, store.pruned)
}

func TestDatasetName(t *testing.T) {
	scenarios := []struct {
		name     string
		input    contract.IngestDataset
		expected string
	}{
		{name: "explicit name wins", input: contract.IngestDataset{Name: " Plant A ", Filename: "a.csv"}, expected: "Plant A"},
		{name: "filename", input: contract.IngestDataset{Filename: "uploads/b.csv"}, expected: "b.csv"},
		{name: "windows path", input: contract.IngestDataset{Filename: `C:\data\c.csv`}, expected: "c.csv"},
		{name: "default", input: contract.IngestDataset{}, expected: entities.DefaultDatasetName},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			assert.Equal(t, scenario.expected, datasetName(&scenario.input))
		})
	}
}

func TestListAndGet(t *testing.T) {
	store := &FakeStore{}
	service := newTestService(store)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := service.IngestDataset(ctx, &contract.IngestDataset{Content: pumpCSV})
		require.Nil(t, err)
	}

	entries, err := service.ListDatasets(ctx, &contract.ListDatasets{})
	require.Nil(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, int64(6), entries[0].ID)
	assert.Equal(t, int64(2), entries[4].ID)

	dataset, err := service.GetDataset(ctx, &contract.GetDataset{ID: 3})
	require.Nil(t, err)
	assert.Len(t, dataset.Rows, 2)

	_, err = service.GetDataset(ctx, &contract.GetDataset{ID: 30})
	require.NotNil(t, err)
	assert.Equal(t, contract.ErrorCode_RESOURCE_DOES_NOT_EXIST, err.Code)
}

func TestExportReport(t *testing.T) {
	store := &FakeStore{}
	service := newTestService(store)
	ctx := context.Background()

	_, err := service.IngestDataset(ctx, &contract.IngestDataset{Content: pumpCSV})
	require.Nil(t, err)

	artifact, err := service.ExportReport(ctx, &contract.ExportReport{ID: 1, Username: "admin", Password: "s3cret"})
	require.Nil(t, err)
	assert.True(t, bytes.HasPrefix(artifact.Content, []byte("%PDF-")))

	_, err = service.ExportReport(ctx, &contract.ExportReport{ID: 1, Username: "admin", Password: "nope"})
	require.NotNil(t, err)
	assert.Equal(t, contract.ErrorCode_PERMISSION_DENIED, err.Code)

	_, err = service.ExportReport(ctx, &contract.ExportReport{ID: 9, Username: "admin", Password: "s3cret"})
	require.NotNil(t, err)
	assert.Equal(t, contract.ErrorCode_RESOURCE_DOES_NOT_EXIST, err.Code)
}
