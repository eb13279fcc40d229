// Package prioritize shortens long job and résumé text so it fits a prompt
// budget while keeping the most relevant parts.
//
// Every function here is pure and total: no I/O, no errors, and degenerate
// budgets (zero or negative) return the input unchanged. Lengths are counted
// in runes, never bytes.
package prioritize

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Ellipsis marks text that was cut short. It is not charged against a budget.
const Ellipsis = "..."

const sectionSeparator = "\n\n"

var blankLineRegex = regexp.MustCompile(`\n\s*\n`)

// sectionKeywords mark paragraphs that describe the role itself.
var sectionKeywords = []string{
	"responsibilities",
	"requirements",
	"qualifications",
	"what you will do",
	"what you will need",
	"about the role",
}

// requirementKeywords mark requirements phrased as hard constraints.
var requirementKeywords = []string{
	"must",
	"should",
	"always",
	"never",
	"specific",
	"example",
	"required",
	"essential",
}

type scoredItem struct {
	text  string
	score float64
}

// Sections keeps the highest-scoring blank-line-separated sections of text
// that fit within budget runes. Sections are emitted in score order, joined
// by a blank line. When not even the top section fits, the first budget runes
// are returned followed by Ellipsis.
func Sections(text string, budget int) string {
	if withinBudget(text, budget) {
		return text
	}

	var scored []scoredItem
	for _, section := range blankLineRegex.Split(text, -1) {
		if strings.TrimSpace(section) == "" {
			continue
		}
		scored = append(scored, scoredItem{
			text:  section,
			score: keywordScore(section, sectionKeywords) + lengthBonus(section, 5, 200),
		})
	}
	sortByScore(scored)

	var b strings.Builder
	used := 0
	for _, s := range scored {
		n := utf8.RuneCountInString(s.text)
		if used+n > budget {
			break
		}
		b.WriteString(s.text)
		b.WriteString(sectionSeparator)
		used += n + len(sectionSeparator)
	}

	result := strings.TrimSuffix(b.String(), sectionSeparator)
	if result == "" {
		return headRunes(text, budget) + Ellipsis
	}
	return result
}

// Requirements returns at most maxCount items ranked by how strongly each one
// is phrased, shorter items first among equals. The result is in rank order,
// not input order; callers that need the original order must restore it.
// items is never modified.
func Requirements(items []string, maxCount int) []string {
	if maxCount <= 0 || len(items) <= maxCount {
		return items
	}

	scored := make([]scoredItem, len(items))
	for i, item := range items {
		scored[i] = scoredItem{
			text:  item,
			score: keywordScore(item, requirementKeywords) + lengthBonus(item, 3, 50),
		}
	}
	sortByScore(scored)

	out := make([]string, maxCount)
	for i := range out {
		out[i] = scored[i].text
	}
	return out
}

// TruncateFixed returns text unchanged if it fits in maxChars runes, and the
// first maxChars runes followed by Ellipsis otherwise.
func TruncateFixed(text string, maxChars int) string {
	if withinBudget(text, maxChars) {
		return text
	}
	return headRunes(text, maxChars) + Ellipsis
}

// TruncateWords returns text unchanged if it has at most maxWords words, and
// the first maxWords words joined by single spaces followed by Ellipsis
// otherwise.
func TruncateWords(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + Ellipsis
}

// withinBudget reports whether text needs no shortening. A non-positive
// budget means "no limit". Text of exactly budget runes plus Ellipsis is
// already cut to this budget and passes.
func withinBudget(text string, budget int) bool {
	if budget <= 0 {
		return true
	}
	n := utf8.RuneCountInString(text)
	if n <= budget {
		return true
	}
	return strings.HasSuffix(text, Ellipsis) && n == budget+utf8.RuneCountInString(Ellipsis)
}

// keywordScore adds 2 for every keyword that occurs in text, case-insensitively.
// Each keyword counts at most once.
func keywordScore(text string, keywords []string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			score += 2
		}
	}
	return score
}

// lengthBonus rewards short text: max(0, ceiling - len/per).
func lengthBonus(text string, ceiling, per float64) float64 {
	return max(0, ceiling-float64(utf8.RuneCountInString(text))/per)
}

func sortByScore(items []scoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
}

func headRunes(text string, n int) string {
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
