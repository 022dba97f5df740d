// Package source holds helpers shared by the mention source adapters.
package source

import (
	"html"
	"regexp"
	"strings"
	"time"
)

const (
	// SummaryLimit caps mention summaries at adapter-mapping time.
	SummaryLimit = 200

	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; MentionTracker/1.0)"
)

var (
	reScriptTags = regexp.MustCompile(`(?is)<script.*?</script>`)
	reHTMLTags   = regexp.MustCompile(`<[^>]*>`)
)

// Truncate cuts s down to at most max runes.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// StripHTML removes markup and decodes entities from feed fragments.
func StripHTML(s string) string {
	text := reScriptTags.ReplaceAllString(s, "")
	text = reHTMLTags.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	return strings.TrimSpace(text)
}
