package entities

import "time"

const DefaultDatasetName = "dataset.csv"

type Dataset struct {
	ID           int64     `json:"id"`
	UUID         string    `json:"uuid"`
	Name         string    `json:"name"`
	UploadedAt   time.Time `json:"uploaded_at"`
	RejectedRows int       `json:"rejected_rows"`
	Summary      Summary   `json:"summary"`
	Rows         []Row     `json:"data"`
}

// HistoryEntry is the row-less view of a dataset shown in the upload history.
type HistoryEntry struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	UploadedAt     time.Time `json:"uploaded_at"`
	TotalCount     int       `json:"total_count"`
	AvgFlowrate    *float64  `json:"avg_flowrate"`
	AvgPressure    *float64  `json:"avg_pressure"`
	AvgTemperature *float64  `json:"avg_temperature"`
}

func (d Dataset) ToHistoryEntry() HistoryEntry {
	return HistoryEntry{
		ID:             d.ID,
		Name:           d.Name,
		UploadedAt:     d.UploadedAt,
		TotalCount:     d.Summary.TotalCount,
		AvgFlowrate:    d.Summary.AvgFlowrate,
		AvgPressure:    d.Summary.AvgPressure,
		AvgTemperature: d.Summary.AvgTemperature,
	}
}

// ReportArtifact is a rendered dataset report ready to be sent to the client.
type ReportArtifact struct {
	Content     []byte
	ContentType string
	Filename    string
}
