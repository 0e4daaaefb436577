package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/chemviz/chemviz/pkg/config"
	"github.com/chemviz/chemviz/pkg/report"
	"github.com/chemviz/chemviz/pkg/service"
	"github.com/chemviz/chemviz/pkg/store/sql"
)

// Launch opens the dataset store and serves the HTTP API until ctx is canceled.
func Launch(ctx context.Context, cfg *config.Config) error {
	store, err := sql.NewSQLStore(ctx, logrus.StandardLogger(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open dataset store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logrus.Warnf("Failed to close dataset store: %v", err)
		}
	}()

	gate := report.NewGate(report.SecretFromConfig(cfg.Report), store, report.PDFRenderer{})

	return launchServer(ctx, cfg, service.NewDatasetService(cfg, store, gate))
}
