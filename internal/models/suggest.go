package models

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestRatio is the largest edit distance, relative to the longer string, still considered a near miss.
const maxSuggestRatio = 0.4

type suggestion struct {
	record Record
	score  float64
}

// Suggest returns up to limit records whose first name, last name or email local part is within a small edit
// distance of query, closest first. Ties keep dataset order.
//
// Intended for queries that matched nothing; an empty query yields no suggestions.
func Suggest(records []Record, query string, limit int) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	found := []suggestion{}
	for _, r := range records {
		best := 1.0
		for _, field := range suggestFields(r) {
			if field == "" {
				continue
			}
			if s := distanceRatio(q, field); s < best {
				best = s
			}
		}
		if best < maxSuggestRatio {
			found = append(found, suggestion{record: r, score: best})
		}
	}

	slices.SortStableFunc(found, func(a, b suggestion) int {
		switch {
		case a.score < b.score:
			return -1
		case a.score > b.score:
			return 1
		default:
			return 0
		}
	})

	out := make([]Record, 0, min(limit, len(found)))
	for _, s := range found[:min(limit, len(found))] {
		out = append(out, s.record)
	}
	return out
}

func suggestFields(r Record) []string {
	local, _, _ := strings.Cut(r.Email, "@")
	return []string{
		strings.ToLower(r.FirstName),
		strings.ToLower(r.LastName),
		strings.ToLower(local),
	}
}

func distanceRatio(a, b string) float64 {
	dist := levenshtein.ComputeDistance(a, b)
	return float64(dist) / float64(max(len([]rune(a)), len([]rune(b))))
}
