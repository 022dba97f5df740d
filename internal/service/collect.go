package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mention_tracker/internal/aggregate"
	"mention_tracker/internal/domain"
)

type CollectService struct {
	sources   []Source
	sink      Sink
	publisher Publisher
	logger    *slog.Logger
	keyword   string
}

func NewCollectService(
	sources []Source,
	sink Sink,
	publisher Publisher,
	logger *slog.Logger,
	keyword string,
) *CollectService {
	return &CollectService{
		sources:   sources,
		sink:      sink,
		publisher: publisher,
		logger:    logger,
		keyword:   keyword,
	}
}

// Collect runs one end-to-end pass: fetch from every source, merge, replace
// the sink contents, optionally publish a digest. A failing source only costs
// its own contribution; a failing sink write fails the run.
func (s *CollectService) Collect(ctx context.Context) (*domain.RunStats, error) {
	startTime := time.Now()
	s.logger.Info("starting collection",
		"keyword", s.keyword,
		"sources", len(s.sources),
	)

	stats := &domain.RunStats{Keyword: s.keyword}

	sets := make([][]domain.Mention, 0, len(s.sources))
	for _, src := range s.sources {
		mentions, err := src.FetchMentions(ctx, s.keyword)
		if err != nil {
			s.logger.Warn("source failed, continuing without it",
				"source", src.ID(),
				"error", err,
			)
			stats.SourceErrors++
			continue
		}

		s.logger.Info("fetched mentions",
			"source", src.ID(),
			"count", len(mentions),
		)
		stats.Fetched += len(mentions)
		sets = append(sets, mentions)
	}

	merged := aggregate.Merge(sets...)
	stats.Merged = len(merged)
	s.logger.Info("merged mentions", "fetched", stats.Fetched, "merged", stats.Merged)

	// The sink clears before it writes, so a failure here can leave the
	// destination empty. Surfaced, never retried.
	if err := s.sink.Replace(ctx, merged); err != nil {
		return nil, fmt.Errorf("write mentions: %w", err)
	}
	s.logger.Info("replaced sink contents", "rows", stats.Merged)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, s.keyword, merged); err != nil {
			s.logger.Warn("failed to publish run digest", "error", err)
		} else {
			stats.Published = len(merged)
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("collection completed",
		"fetched", stats.Fetched,
		"merged", stats.Merged,
		"source_errors", stats.SourceErrors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}
