// Package storage provides the relational storage layer for Servium using
// GORM. It implements the catalog queries (paged, sorted, searched listings
// with derived version counts) and the mutations that keep the
// service/version aggregate consistent: uuid identity, per-service version
// uniqueness enforced by a composite unique index, and cascade deletion
// applied in a single transaction.
package storage

import (
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"evalgo.org/servium/internal/config"
	"evalgo.org/servium/models"
)

var (
	// ErrNotFound is returned when a service uuid resolves to nothing
	ErrNotFound = errors.New("service not found")
	// ErrDuplicateVersion is returned when a version number already exists
	// under the owning service
	ErrDuplicateVersion = errors.New("version already exists")
	// ErrUnknownField is returned when a sort or search field is not on the
	// queryable column allow-list
	ErrUnknownField = errors.New("unknown field")
)

// Storage provides catalog persistence backed by a pooled SQL connection.
// The pool is process-scoped and shared read-only across concurrent
// requests; the database is the sole point of serialization for
// conflicting writes.
type Storage struct {
	db *gorm.DB
}

// New opens the configured database, verifies the connection, applies the
// schema migration, and returns the storage handle.
func New(cfg *config.Config) (*Storage, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.Database.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Constraint violations must surface as gorm.ErrDuplicatedKey so
		// the version uniqueness check can rely on the index.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.AutoMigrate(&models.Service{}, &models.Version{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
