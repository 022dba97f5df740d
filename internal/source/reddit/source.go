package reddit

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
	SourceID   = "reddit"
	SourceName = "Reddit"
)

// Config holds Reddit source configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Source searches Reddit posts mentioning a keyword.
type Source struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// New creates a new Reddit source.
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

// FetchMentions searches Reddit for the keyword, newest posts first.
func (s *Source) FetchMentions(ctx context.Context, keyword string) ([]domain.Mention, error) {
	reqURL := fmt.Sprintf("%s/search.json?q=%s&sort=new", s.baseURL, url.QueryEscape(keyword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	// Reddit rejects the default Go user agent.
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	s.logger.Debug("fetched search results", "posts", len(listing.Data.Children))

	return s.transform(listing.Data.Children), nil
}

func (s *Source) transform(children []Child) []domain.Mention {
	mentions := make([]domain.Mention, 0, len(children))

	for _, c := range children {
		p := c.Data

		link := ""
		if p.Permalink != "" {
			link = s.baseURL + p.Permalink
		}

		var publishedAt time.Time
		if p.CreatedUTC > 0 {
			publishedAt = time.Unix(int64(p.CreatedUTC), 0).UTC()
		}

		mentions = append(mentions, domain.Mention{
			Source:      SourceName,
			Title:       p.Title,
			Link:        link,
			PublishedAt: publishedAt,
			Summary:     source.Truncate(p.Selftext, source.SummaryLimit),
		})
	}

	return mentions
}
