package contract

import (
	"context"

	"github.com/chemviz/chemviz/pkg/entities"
)

// IngestDataset is an uploaded table. Filename is only set for multipart uploads.
type IngestDataset struct {
	Name     string `json:"name"    form:"name" validate:"max=255"`
	Filename string `json:"-"                   validate:"omitempty,tabularFilename"`
	Content  string `json:"content"`
}

type IngestDatasetResponse struct {
	*entities.Dataset
	// InvalidValues counts numeric cells that held text and were treated as missing.
	InvalidValues  int      `json:"invalid_values"`
	MissingColumns []string `json:"missing_columns"`
}

type ListDatasets struct {
	Limit int `query:"limit" validate:"gte=0"`
	// Filter narrows the history, e.g. `avg_pressure > 4 AND types.Pump >= 2`.
	Filter string `query:"filter" validate:"max=1000"`
}

type GetDataset struct {
	ID int64 `params:"id" validate:"required,gt=0"`
}

type ExportReport struct {
	// ID is checked by the store, after the credential.
	ID       int64  `json:"-"        params:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type DatasetService interface {
	IngestDataset(ctx context.Context, input *IngestDataset) (*IngestDatasetResponse, *Error)
	ListDatasets(ctx context.Context, input *ListDatasets) ([]entities.HistoryEntry, *Error)
	GetDataset(ctx context.Context, input *GetDataset) (*entities.Dataset, *Error)
	ExportReport(ctx context.Context, input *ExportReport) (*entities.ReportArtifact, *Error)
}
