package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chemviz/chemviz/pkg/config"
	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/store"
)

const rowBatchSize = 500

type Store struct {
	db      *gorm.DB
	timeout time.Duration
	now     func() time.Time
}

var _ store.DatasetStore = (*Store)(nil)

func NewSQLStore(ctx context.Context, log *logrus.Logger, cfg *config.Config) (*Store, error) {
	database, err := NewDatabase(ctx, log, cfg.StoreURL, LoggerConfig{
		SlowThreshold:             cfg.Store.SlowThreshold.Duration,
		IgnoreRecordNotFoundError: true,
	})
	if err != nil {
		return nil, err
	}

	return &Store{
		db:      database,
		timeout: cfg.Store.Timeout.Duration,
		now:     time.Now,
	}, nil
}

// session scopes a query to the store timeout.
func (s *Store) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.timeout <= 0 {
		return s.db.WithContext(ctx), func() {}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)

	return s.db.WithContext(ctx), cancel
}

// unavailable reports a failure of the database itself. Store calls are never retried
// since a retried insert could duplicate a dataset.
func unavailable(message string, err error) *contract.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		message += " (timed out)"
	}

	return contract.NewErrorWith(contract.ErrorCode_STORE_UNAVAILABLE, message, err)
}

func notFound(id int64) *contract.Error {
	return contract.NewError(
		contract.ErrorCode_RESOURCE_DOES_NOT_EXIST,
		fmt.Sprintf("No Dataset with id=%d exists", id),
	)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection pool: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
