// Package store persists the peak catalog and the latest forecast record per
// peak using gorm. Postgres is the production driver; sqlite serves local runs
// and tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/summit-forecast-etl/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrNotFound is returned when no forecast has been persisted for a peak.
var ErrNotFound = errors.New("forecast not found")

// Store implements the pipeline's catalog and record store.
type Store struct {
	db     *gorm.DB
	driver string
	dsn    string
	logger *slog.Logger
}

// Open connects to the database named by driver and dsn.
func Open(driver, dsn string, log *slog.Logger) (*Store, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return &Store{db: db, driver: driver, dsn: dsn, logger: log}, nil
}

// New wraps an existing gorm handle, used with sqlmock in tests.
func New(db *gorm.DB, driver string, log *slog.Logger) *Store {
	return &Store{db: db, driver: driver, logger: log}
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// ListPeaks returns the whole catalog ordered by id.
func (s *Store) ListPeaks(ctx context.Context) ([]domain.PeakLocation, error) {
	var rows []peakRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list peaks: %w", err)
	}
	peaks := make([]domain.PeakLocation, len(rows))
	for i, r := range rows {
		peaks[i] = r.toDomain()
	}
	return peaks, nil
}

// UpsertPeaks inserts or replaces catalog entries by id.
func (s *Store) UpsertPeaks(ctx context.Context, peaks []domain.PeakLocation) error {
	if len(peaks) == 0 {
		return nil
	}
	rows := make([]peakRow, len(peaks))
	for i, p := range peaks {
		rows[i] = peakFromDomain(p)
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("upsert peaks: %w", err)
	}
	return nil
}

// UpsertForecast writes rec keyed by peak id, fully replacing any previous row.
func (s *Store) UpsertForecast(ctx context.Context, rec domain.ForecastRecord) error {
	row := forecastFromDomain(rec)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "peak_id"}}, UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert forecast %s: %w", rec.PeakID, err)
	}
	return nil
}

// GetForecast loads the stored record for one peak.
func (s *Store) GetForecast(ctx context.Context, peakID string) (domain.ForecastRecord, error) {
	var row forecastRow
	err := s.db.WithContext(ctx).Where("peak_id = ?", peakID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ForecastRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("get forecast %s: %w", peakID, err)
	}
	return row.toDomain(), nil
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
