package sql

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/ncruces/go-sqlite3/embed" // embeds the sqlite3 wasm build
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"github.com/chemviz/chemviz/pkg/store/sql/model"
)

const sqliteBusyTimeoutMillis = 5000

//nolint:ireturn
func dialectorFor(storeURL string) (gorm.Dialector, error) {
	uri, err := url.Parse(storeURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store URL %q: %w", storeURL, err)
	}

	// Accept SQLAlchemy style schemes such as postgresql+psycopg2.
	scheme, _, _ := strings.Cut(uri.Scheme, "+")

	switch scheme {
	case "sqlite":
		path := uri.Host + uri.Path
		if path == "" {
			return nil, fmt.Errorf("store URL %q has no database path", storeURL)
		}

		return gormlite.Open(fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
			path, sqliteBusyTimeoutMillis)), nil
	case "postgres", "postgresql":
		uri.Scheme = "postgres"

		return postgres.Open(uri.String()), nil
	case "mysql":
		query := uri.Query()
		query.Set("parseTime", "true")

		return mysql.Open(fmt.Sprintf("%s@tcp(%s)%s?%s", uri.User.String(), uri.Host, uri.Path, query.Encode())), nil
	case "mssql", "sqlserver":
		uri.Scheme = "sqlserver"

		return sqlserver.Open(uri.String()), nil
	default:
		return nil, fmt.Errorf("unsupported store URL scheme %q", uri.Scheme)
	}
}

// NewDatabase opens the database behind storeURL and brings its schema up to date.
func NewDatabase(ctx context.Context, log *logrus.Logger, storeURL string, cfg LoggerConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(storeURL)
	if err != nil {
		return nil, err
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 NewLogger(log, cfg),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialector.Name() == "sqlite" {
		sqlDB, err := database.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database connection pool: %w", err)
		}

		// A single connection serializes writers instead of failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := database.WithContext(ctx).AutoMigrate(
		&model.Dataset{},
		&model.DatasetRow{},
		&model.EquipmentType{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return database, nil
}
