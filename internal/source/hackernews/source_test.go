package hackernews

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mention_tracker/internal/source"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSource(baseURL string) *Source {
	return New(Config{
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
		UserAgent: source.DefaultUserAgent,
	}, testLogger())
}

func TestFetchMentions(t *testing.T) {
	longText := strings.Repeat("c", 500)

	var gotPath string
	var gotQuery url.Values

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits":[
			{"title":"Show HN: Automation toolkit","url":"https://example.com/toolkit","created_at":"2024-01-02T00:00:00.000Z","story_text":"` + longText + `"},
			{"title":"Ask HN: Is automation worth it?","created_at":"2024-01-01T12:00:00Z"},
			{"title":"Bad date story","url":"https://example.com/bad","created_at":"yesterday"}
		]}`))
	}))
	defer srv.Close()

	mentions, err := newTestSource(srv.URL).FetchMentions(context.Background(), "ai automation")
	require.NoError(t, err)

	require.Equal(t, "/api/v1/search", gotPath)
	require.Equal(t, "ai automation", gotQuery.Get("query"))
	require.Equal(t, "story", gotQuery.Get("tags"))

	require.Len(t, mentions, 3)

	first := mentions[0]
	require.Equal(t, SourceName, first.Source)
	require.Equal(t, "Show HN: Automation toolkit", first.Title)
	require.Equal(t, "https://example.com/toolkit", first.Link)
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.PublishedAt)
	require.Len(t, []rune(first.Summary), source.SummaryLimit)

	// Text-only stories have no URL and no story text.
	second := mentions[1]
	require.Empty(t, second.Link)
	require.Empty(t, second.Summary)
	require.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), second.PublishedAt)

	// An unparseable date keeps the mention, with an unknown timestamp.
	third := mentions[2]
	require.Equal(t, "Bad date story", third.Title)
	require.True(t, third.PublishedAt.IsZero())
}

func TestFetchMentionsEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":[]}`))
	}))
	defer srv.Close()

	mentions, err := newTestSource(srv.URL).FetchMentions(context.Background(), "nothing")
	require.NoError(t, err)
	require.Empty(t, mentions)
}

func TestFetchMentionsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL).FetchMentions(context.Background(), "golang")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status")
}

func TestFetchMentionsMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits": "oops"}`))
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL).FetchMentions(context.Background(), "golang")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode response")
}
