package services

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"score-for-cancer-total/internal/config"
	"score-for-cancer-total/internal/models"
)

// NewPageSource returns the page source an extraction mode reads from
func NewPageSource(cfg config.ExtractionConfig, logger zerolog.Logger) (PageSource, error) {
	switch cfg.Mode {
	case models.ModeLargest, models.ModeScored:
		return NewStaticFetcher(), nil
	case models.ModeRendered:
		launcher := ChromeLauncher(ChromeOptions{
			ExecPath:          cfg.ChromePath,
			NavigationTimeout: cfg.NavigationTimeout,
			SettleDelay:       cfg.SettleDelay,
			NoSandbox:         !cfg.Sandbox,
		})
		return NewRenderedFetcher(launcher, logger), nil
	default:
		return nil, fmt.Errorf("unknown extraction mode %q", cfg.Mode)
	}
}

// NewTotalServiceFromConfig wires a TotalService for the configured mode.
// reg may be nil to skip metrics.
func NewTotalServiceFromConfig(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*TotalService, error) {
	source, err := NewPageSource(cfg.Extraction, logger)
	if err != nil {
		return nil, err
	}

	selector, err := NewSelector(cfg.Extraction.Mode)
	if err != nil {
		return nil, err
	}

	service := NewTotalService(source, selector, TotalServiceConfig{
		Mode:      cfg.Extraction.Mode,
		TargetURL: cfg.Extraction.TargetURL,
		Campaign:  cfg.Extraction.Campaign,
		Debug:     cfg.Extraction.Debug,
	}, logger)

	if reg != nil {
		service.WithMetrics(NewMetrics(reg))
	}

	if cfg.Archive.Bucket != "" {
		archiver, err := NewSnapshotArchiver(ctx, ArchiveConfig{
			BucketName: cfg.Archive.Bucket,
			Region:     cfg.Archive.Region,
			Prefix:     cfg.Archive.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize snapshot archive: %w", err)
		}
		service.WithSnapshotStore(archiver)
		logger.Info().Str("bucket", archiver.GetBucketName()).Msg("Snapshot archive enabled")
	}

	return service, nil
}
