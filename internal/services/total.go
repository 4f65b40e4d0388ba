package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"score-for-cancer-total/internal/models"
)

// Messages returned in the error field of the envelope
const (
	NotFoundMessage        = "Could not locate raised amount in page markup"
	UnexpectedErrorMessage = "Unexpected server error"
)

// debugCandidateLimit caps how many ranked candidates a debug payload lists
const debugCandidateLimit = 5

// TotalServiceConfig describes what one deployment reports
type TotalServiceConfig struct {
	Mode      string
	TargetURL string
	Campaign  string
	Debug     bool
}

// TotalService runs fetch -> extract -> respond for a single request.
// It holds no per-request state and is safe to reuse across invocations.
type TotalService struct {
	source    PageSource
	selector  Selector
	snapshots SnapshotStore
	metrics   *Metrics
	logger    zerolog.Logger
	config    TotalServiceConfig
	now       func() time.Time
}

// NewTotalService creates a service from a page source and a selection policy
func NewTotalService(source PageSource, selector Selector, cfg TotalServiceConfig, logger zerolog.Logger) *TotalService {
	if cfg.TargetURL == "" {
		cfg.TargetURL = models.DefaultTargetURL
	}
	if cfg.Campaign == "" {
		cfg.Campaign = models.DefaultCampaign
	}

	return &TotalService{
		source:   source,
		selector: selector,
		logger:   logger,
		config:   cfg,
		now:      time.Now,
	}
}

// WithSnapshotStore enables archiving of pages that fail extraction
func (s *TotalService) WithSnapshotStore(store SnapshotStore) *TotalService {
	s.snapshots = store
	return s
}

// WithMetrics enables outcome metrics
func (s *TotalService) WithMetrics(metrics *Metrics) *TotalService {
	s.metrics = metrics
	return s
}

// Mode returns the configured extraction mode
func (s *TotalService) Mode() string {
	return s.config.Mode
}

// Resolve fetches the campaign page and returns the HTTP status and envelope to send.
// Upstream non-2xx maps to 502, a page without a usable amount to 200 with ok=false,
// and anything else to 500.
func (s *TotalService) Resolve(ctx context.Context) (status int, response models.TotalResponse) {
	start := time.Now()
	requestID := models.GenerateRequestID()
	logger := s.logger.With().Str("request_id", requestID).Str("mode", s.config.Mode).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Unexpected panic while resolving total")
			s.metrics.RecordOutcome(s.config.Mode, OutcomeError)
			status, response = http.StatusInternalServerError, errorEnvelope(fmt.Errorf("%v", r))
		}
		logger.Info().
			Int("status", status).
			Bool("ok", response.OK).
			Float64("amount", response.Amount).
			Dur("duration", time.Since(start)).
			Msg("Resolved campaign total")
	}()

	// Step 1: fetch or render the page
	fetchStart := time.Now()
	text, err := s.source.Fetch(ctx, s.config.TargetURL)
	s.metrics.RecordFetch(s.config.Mode, time.Since(fetchStart))
	fetchedAt := s.now()

	if err != nil {
		var upstream *UpstreamStatusError
		if errors.As(err, &upstream) {
			logger.Warn().Int("upstream_status", upstream.StatusCode).Msg("Upstream returned non-success status")
			s.metrics.RecordOutcome(s.config.Mode, OutcomeUpstreamError)
			return http.StatusBadGateway, models.TotalResponse{OK: false, Error: upstream.Error()}
		}

		logger.Error().Err(err).Msg("Failed to fetch campaign page")
		s.metrics.RecordOutcome(s.config.Mode, OutcomeError)
		return http.StatusInternalServerError, errorEnvelope(err)
	}

	logger.Debug().Int("content_length", len(text)).Msg("Fetched campaign page")

	// Step 2: pick the amount
	selection, err := s.selector.Select(text)
	if err != nil && !errors.Is(err, ErrNoAmount) {
		logger.Error().Err(err).Msg("Extraction failed")
		s.metrics.RecordOutcome(s.config.Mode, OutcomeError)
		return http.StatusInternalServerError, errorEnvelope(err)
	}

	if errors.Is(err, ErrNoAmount) {
		candidateCount := 0
		if selection != nil {
			candidateCount = len(selection.Ranked)
		}
		logger.Warn().Int("candidates", candidateCount).Msg("No qualifying amount found on campaign page")
		s.metrics.RecordOutcome(s.config.Mode, OutcomeNotFound)

		snapshotKey := s.archiveSnapshot(ctx, logger, models.Snapshot{
			RequestID: requestID,
			Mode:      s.config.Mode,
			SourceURL: s.config.TargetURL,
			Content:   text,
			FetchedAt: fetchedAt,
		})

		response = models.TotalResponse{
			OK:        false,
			Error:     NotFoundMessage,
			Source:    s.config.TargetURL,
			FetchedAt: models.FormatFetchedAt(fetchedAt),
		}
		if s.config.Debug {
			response.Debug = s.debugInfo(requestID, selection, len(text))
			response.Debug.SnapshotKey = snapshotKey
		}
		return http.StatusOK, response
	}

	// Step 3: success envelope
	amount := selection.Candidate.Value
	s.metrics.RecordOutcome(s.config.Mode, OutcomeOK)
	s.metrics.RecordSelection(selection.Tier, amount)

	response = models.TotalResponse{
		OK:        true,
		Campaign:  s.config.Campaign,
		Amount:    amount,
		Formatted: FormatAmount(amount),
		Source:    s.config.TargetURL,
		FetchedAt: models.FormatFetchedAt(fetchedAt),
	}
	if s.config.Debug {
		response.Debug = s.debugInfo(requestID, selection, len(text))
	}

	return http.StatusOK, response
}

// archiveSnapshot stores the page if a store is configured.
// Failures are logged only; they never change the response.
func (s *TotalService) archiveSnapshot(ctx context.Context, logger zerolog.Logger, snapshot models.Snapshot) string {
	if s.snapshots == nil {
		return ""
	}

	result, err := s.snapshots.Archive(ctx, snapshot)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to archive page snapshot")
		return ""
	}

	logger.Info().Str("snapshot_key", result.Key).Int64("size", result.Size).Msg("Archived page snapshot")
	return result.Key
}

func (s *TotalService) debugInfo(requestID string, selection *models.Selection, contentLength int) *models.DebugInfo {
	info := &models.DebugInfo{
		RequestID:     requestID,
		Mode:          s.config.Mode,
		ContentLength: contentLength,
	}
	if selection == nil {
		return info
	}

	info.Tier = selection.Tier
	info.CandidateCount = len(selection.Ranked)
	info.TopCandidates = models.TopCandidates(selection.Ranked, debugCandidateLimit)
	return info
}

// errorEnvelope builds the 500 body, falling back to a generic message
func errorEnvelope(err error) models.TotalResponse {
	message := UnexpectedErrorMessage
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return models.TotalResponse{OK: false, Error: message}
}
