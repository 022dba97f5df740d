package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"mention_tracker/internal/domain"
	"mention_tracker/internal/source"
)

const (
	SourceID   = "hacker_news"
	SourceName = "Hacker News"
)

// Config holds Hacker News source configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Source searches Hacker News stories through the Algolia API.
type Source struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// New creates a new Hacker News source.
func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// FetchMentions searches Algolia for stories matching the keyword.
func (s *Source) FetchMentions(ctx context.Context, keyword string) ([]domain.Mention, error) {
	reqURL := fmt.Sprintf("%s/api/v1/search?query=%s&tags=story", s.baseURL, url.QueryEscape(keyword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	s.logger.Debug("fetched search results", "hits", len(searchResp.Hits))

	return s.transform(searchResp.Hits), nil
}

func (s *Source) transform(hits []Hit) []domain.Mention {
	mentions := make([]domain.Mention, 0, len(hits))

	for _, h := range hits {
		var publishedAt time.Time
		if h.CreatedAt != "" {
			parsed, err := time.Parse(time.RFC3339, h.CreatedAt)
			if err != nil {
				s.logger.Warn("failed to parse date",
					"title", h.Title,
					"created_at", h.CreatedAt,
				)
			} else {
				publishedAt = parsed.UTC()
			}
		}

		// URL is absent for text-only stories; the link stays empty then.
		mentions = append(mentions, domain.Mention{
			Source:      SourceName,
			Title:       h.Title,
			Link:        h.URL,
			PublishedAt: publishedAt,
			Summary:     source.Truncate(h.StoryText, source.SummaryLimit),
		})
	}

	return mentions
}
