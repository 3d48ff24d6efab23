package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FilterByLabel returns the items whose label fuzzily matches query, in their
// original order. When nothing matches fuzzily a plain substring match is
// tried.
func FilterByLabel[T any](items []T, query string, label func(T) string) []T {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return append([]T(nil), items...)
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = label(item)
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) > 0 {
		matches := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matches[rank.OriginalIndex] = struct{}{}
		}
		filtered := make([]T, 0, len(matches))
		for idx, item := range items {
			if _, ok := matches[idx]; ok {
				filtered = append(filtered, item)
			}
		}
		return filtered
	}
	lower := strings.ToLower(trimmed)
	filtered := make([]T, 0, len(items))
	for i, item := range items {
		if strings.Contains(strings.ToLower(labels[i]), lower) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// BestMatchIndex returns the index of the item that best matches query:
// exact, then prefix, then substring, then the closest fuzzy rank.
func BestMatchIndex[T any](items []T, query string, label func(T) string) int {
	if len(items) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = label(item)
	}
	for i, l := range labels {
		if strings.EqualFold(l, trimmed) {
			return i
		}
	}
	for i, l := range labels {
		if strings.HasPrefix(strings.ToLower(l), lower) {
			return i
		}
	}
	for i, l := range labels {
		if strings.Contains(strings.ToLower(l), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance || (rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(items) {
		return 0
	}
	return best.OriginalIndex
}
