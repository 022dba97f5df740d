package googlenews

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"mention_tracker/internal/domain"
	"mention_tracker/internal/source"
)

const (
	SourceID   = "google_news"
	SourceName = "Google News"
)

// Config holds Google News source configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Source reads the keyword-filtered Google News RSS feed.
type Source struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// New creates a new Google News source.
func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		parser:    gofeed.NewParser(),
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

// FetchMentions fetches and parses the keyword search feed.
func (s *Source) FetchMentions(ctx context.Context, keyword string) ([]domain.Mention, error) {
	feedURL := fmt.Sprintf("%s/rss/search?q=%s", s.baseURL, url.QueryEscape(keyword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	s.logger.Debug("fetched feed", "entries", len(feed.Items))

	return s.transform(feed.Items), nil
}

func (s *Source) transform(items []*gofeed.Item) []domain.Mention {
	mentions := make([]domain.Mention, 0, len(items))

	for _, item := range items {
		// Published date formats vary by entry; gofeed leaves the parsed
		// field nil when it cannot make sense of one.
		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			publishedAt = item.UpdatedParsed.UTC()
		}

		summary := source.StripHTML(item.Description)

		mentions = append(mentions, domain.Mention{
			Source:      SourceName,
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: publishedAt,
			Summary:     source.Truncate(summary, source.SummaryLimit),
		})
	}

	return mentions
}
