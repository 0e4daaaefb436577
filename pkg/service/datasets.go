package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chemviz/chemviz/pkg/config"
	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/entities"
	"github.com/chemviz/chemviz/pkg/history"
	"github.com/chemviz/chemviz/pkg/report"
	"github.com/chemviz/chemviz/pkg/store"
	"github.com/chemviz/chemviz/pkg/summary"
	"github.com/chemviz/chemviz/pkg/tabular"
)

type DatasetService struct {
	config  *config.Config
	store   store.DatasetStore
	history *history.Index
	gate    *report.Gate
}

var _ contract.DatasetService = (*DatasetService)(nil)

func NewDatasetService(cfg *config.Config, datasetStore store.DatasetStore, gate *report.Gate) *DatasetService {
	return &DatasetService{
		config:  cfg,
		store:   datasetStore,
		history: history.NewIndex(datasetStore, cfg.History.DefaultLimit, cfg.History.MaxLimit),
		gate:    gate,
	}
}

// datasetName prefers the explicit display name, then the uploaded file's base name.
func datasetName(input *contract.IngestDataset) string {
	if name := strings.TrimSpace(input.Name); name != "" {
		return name
	}

	if filename := strings.TrimSpace(input.Filename); filename != "" {
		return path.Base(strings.ReplaceAll(filename, "\\", "/"))
	}

	return entities.DefaultDatasetName
}

// IngestDataset implements DatasetService.
func (s *DatasetService) IngestDataset(
	ctx context.Context, input *contract.IngestDataset,
) (*contract.IngestDatasetResponse, *contract.Error) {
	parsed, err := tabular.Parse(strings.NewReader(input.Content), tabular.Options{
		MaxRows: s.config.Parser.MaxRows,
	})
	if err != nil {
		return nil, err
	}

	if len(parsed.Rows) == 0 && parsed.Rejected > 0 {
		return nil, contract.NewError(
			contract.ErrorCode_VALIDATION_ERROR,
			fmt.Sprintf(
				"No usable rows: all %d data rows were rejected. Each row needs an Equipment Name, "+
					"a Type and as many cells as the header row",
				parsed.Rejected,
			),
		)
	}

	dataset, err := s.store.CreateDataset(ctx, &entities.Dataset{
		Name:         datasetName(input),
		Rows:         parsed.Rows,
		Summary:      summary.Compute(parsed.Rows),
		RejectedRows: parsed.Rejected,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"dataset_id": dataset.ID,
		"rows":       dataset.Summary.TotalCount,
		"rejected":   dataset.RejectedRows,
	}).Infof("Dataset uploaded successfully: %s", dataset.Name)

	if retain := s.config.Store.Retain; retain > 0 {
		// The upload is already committed; a failed prune only delays cleanup.
		if deleted, err := s.store.PruneDatasets(ctx, retain); err != nil {
			logrus.Warnf("Failed to prune datasets beyond the %d most recent: %s", retain, err)
		} else if deleted > 0 {
			logrus.Debugf("Pruned %d datasets beyond the %d most recent", deleted, retain)
		}
	}

	missing := parsed.MissingColumns
	if missing == nil {
		missing = []string{}
	}

	return &contract.IngestDatasetResponse{
		Dataset:        dataset,
		InvalidValues:  parsed.InvalidValues,
		MissingColumns: missing,
	}, nil
}

// ListDatasets implements DatasetService.
func (s *DatasetService) ListDatasets(
	ctx context.Context, input *contract.ListDatasets,
) ([]entities.HistoryEntry, *contract.Error) {
	return s.history.Recent(ctx, input.Limit, input.Filter)
}

// GetDataset implements DatasetService.
func (s *DatasetService) GetDataset(ctx context.Context, input *contract.GetDataset) (*entities.Dataset, *contract.Error) {
	return s.store.GetDataset(ctx, input.ID)
}

// ExportReport implements DatasetService.
func (s *DatasetService) ExportReport(
	ctx context.Context, input *contract.ExportReport,
) (*entities.ReportArtifact, *contract.Error) {
	return s.gate.Export(ctx, input.ID, report.Credential{
		Username: input.Username,
		Password: input.Password,
	})
}
