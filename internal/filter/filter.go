// Package filter decides which application questions are worth drafting.
package filter

import (
	"strings"
)

// KeywordFilter matches questions that contain any include keyword and none
// of the exclude keywords. Matching is case-insensitive. An empty include
// list matches every question.
type KeywordFilter struct {
	include []string
	exclude []string
}

// NewKeywordFilter returns a filter over include and exclude keywords
// (case-insensitive substring).
func NewKeywordFilter(include, exclude []string) *KeywordFilter {
	return &KeywordFilter{
		include: lowerAll(include),
		exclude: lowerAll(exclude),
	}
}

// Match reports whether question should be drafted.
func (f *KeywordFilter) Match(question string) bool {
	q := strings.ToLower(question)

	for _, kw := range f.exclude {
		if strings.Contains(q, kw) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}
	for _, kw := range f.include {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func lowerAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
