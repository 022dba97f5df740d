// Package aggregate reconciles the per-source mention sets into one table:
// concatenate, drop invalid records, deduplicate, sort.
package aggregate

import (
	"sort"

	"mention_tracker/internal/domain"
)

type dedupKey struct {
	title string
	link  string
}

// Merge concatenates the given mention sets in order, drops mentions without
// a title, keeps the first occurrence of each (title, link) pair and sorts
// the result newest first. Mentions whose timestamp could not be determined
// carry the zero time and therefore end up after all dated mentions; the sort
// is stable, so ties keep their post-deduplication order. Merge is pure and
// idempotent on its own output.
func Merge(sets ...[]domain.Mention) []domain.Mention {
	total := 0
	for _, set := range sets {
		total += len(set)
	}

	seen := make(map[dedupKey]struct{}, total)
	out := make([]domain.Mention, 0, total)

	for _, set := range sets {
		for _, m := range set {
			if m.Title == "" {
				continue
			}
			key := dedupKey{title: m.Title, link: m.Link}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})

	return out
}
