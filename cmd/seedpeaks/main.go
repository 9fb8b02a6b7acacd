// Command seedpeaks loads a JSON peak catalog into the peaks table. Entries
// are upserted by id, so re-running with an edited file updates the catalog.
//
// Usage:
//
//	go run ./cmd/seedpeaks -file cmd/seedpeaks/testdata/peaks.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/summit-forecast-etl/internal/adapter/store"
	"github.com/couchcryptid/summit-forecast-etl/internal/config"
	"github.com/couchcryptid/summit-forecast-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "", "path to a JSON array of peaks (required)")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: seedpeaks -file peaks.json")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if err := seed(context.Background(), cfg, *file, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, cfg *config.Config, path string, logger *slog.Logger) error {
	peaks, err := readCatalog(path)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBDriver, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits right after

	if cfg.DBMigrate {
		if err := db.Migrate(); err != nil {
			return err
		}
	}
	if err := db.UpsertPeaks(ctx, peaks); err != nil {
		return err
	}
	logger.Info("catalog seeded", "peaks", len(peaks), "file", path)
	return nil
}

// readCatalog parses and checks a catalog file. Entries without coordinates
// are kept; the pipeline reports them per run.
func readCatalog(path string) ([]domain.PeakLocation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var peaks []domain.PeakLocation
	if err := json.Unmarshal(data, &peaks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	seen := make(map[string]bool, len(peaks))
	for i, p := range peaks {
		if p.ID == "" {
			return nil, fmt.Errorf("entry %d: missing id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
	}
	return peaks, nil
}
