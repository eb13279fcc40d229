package prioritize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSections_ReturnsShortTextUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		budget int
	}{
		{name: "empty", text: "", budget: 10},
		{name: "exactly budget", text: "0123456789", budget: 10},
		{name: "under budget", text: "Responsibilities:\n\nship it", budget: 100},
		{name: "zero budget", text: strings.Repeat("x", 50), budget: 0},
		{name: "negative budget", text: strings.Repeat("x", 50), budget: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, Sections(tt.text, tt.budget))
		})
	}
}

func TestSections_PrefersKeywordSection(t *testing.T) {
	responsibilities := "Responsibilities: build things."
	filler := "About the role: " + strings.Repeat("lorem ipsum dolor ", 15)
	require.GreaterOrEqual(t, len(filler), 250)
	text := responsibilities + "\n\n" + filler

	got := Sections(text, 50)

	assert.Equal(t, responsibilities, got)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 50+utf8.RuneCountInString(responsibilities))
}

func TestSections_OrdersByScoreAndJoinsWithBlankLine(t *testing.T) {
	intro := "We are a company that makes widgets for people."
	reqs := "Requirements and qualifications: Go, SQL."
	text := intro + "\n\n" + reqs + "\n\n" + strings.Repeat("padding ", 20)

	got := Sections(text, len(intro)+len(reqs)+2)

	assert.Equal(t, reqs+"\n\n"+intro, got)
}

func TestSections_TiesKeepDocumentOrder(t *testing.T) {
	text := "aaaa\n\nbbbb\n\ncccc\n\n" + strings.Repeat("z", 400)

	got := Sections(text, 14)

	assert.Equal(t, "aaaa\n\nbbbb", got)
}

func TestSections_StopsAtFirstSectionThatDoesNotFit(t *testing.T) {
	// The second-ranked section is too long; the short third one must not be
	// pulled in after it.
	first := "Responsibilities: lead the team."
	second := "What you will do: " + strings.Repeat("long ", 40)
	third := "ok"
	text := first + "\n\n" + second + "\n\n" + third

	got := Sections(text, 40)

	assert.Equal(t, first, got)
}

func TestSections_SplitsOnWhitespaceOnlyLines(t *testing.T) {
	text := "Responsibilities: one\n   \t\nqualifications: two\n\n\n" + strings.Repeat("x", 300)

	got := Sections(text, 50)

	// Both sections carry one keyword; the shorter one wins on length bonus.
	assert.Equal(t, "qualifications: two\n\nResponsibilities: one", got)
}

func TestSections_FallsBackToHeadWithEllipsis(t *testing.T) {
	text := strings.Repeat("a", 120)

	got := Sections(text, 100)

	assert.Equal(t, strings.Repeat("a", 100)+Ellipsis, got)
}

func TestSections_TrailingEllipsisInInputIsCharged(t *testing.T) {
	text := strings.Repeat("a", 125) + Ellipsis

	assert.Equal(t, text, Sections(text, 125), "already cut to this budget")
	assert.Equal(t, strings.Repeat("a", 124)+Ellipsis, Sections(text, 124))

	long := strings.Repeat("b", 128) + Ellipsis
	assert.Equal(t, strings.Repeat("b", 125)+Ellipsis, Sections(long, 125))
	assert.Equal(t, "bb...", TruncateFixed("bbb...", 2))
}

func TestSections_CountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("é", 30)

	assert.Equal(t, text, Sections(text, 30))
	assert.Equal(t, strings.Repeat("é", 10)+Ellipsis, Sections(text, 10))
}

func TestSections_Idempotent(t *testing.T) {
	inputs := []string{
		"Responsibilities: build things.\n\nAbout the role: " + strings.Repeat("filler ", 40),
		strings.Repeat("no breaks at all ", 30),
		"a\n\nb\n\nc\n\n" + strings.Repeat("q", 90),
		"",
	}
	for _, budget := range []int{5, 20, 50, 100} {
		for _, in := range inputs {
			once := Sections(in, budget)
			assert.Equal(t, once, Sections(once, budget), "budget=%d input=%q", budget, in)
		}
	}
}

func TestSections_ResultFitsBudgetWhenSectionsFit(t *testing.T) {
	text := "one two\n\nthree four five\n\nsix\n\n" + strings.Repeat("w", 500)

	got := Sections(text, 30)

	assert.LessOrEqual(t, utf8.RuneCountInString(got), 30)
	assert.NotContains(t, got, "www")
}

func TestRequirements_ReturnsShortListUnchanged(t *testing.T) {
	items := []string{"Go", "SQL", "Kubernetes"}

	assert.Equal(t, items, Requirements(items, 10))
	assert.Equal(t, items, Requirements(items, 3))
	assert.Empty(t, Requirements(nil, 10))
}

func TestRequirements_NonPositiveCapIsIdentity(t *testing.T) {
	items := []string{"a", "b", "c"}

	assert.Equal(t, items, Requirements(items, 0))
	assert.Equal(t, items, Requirements(items, -1))
}

func TestRequirements_RanksKeywordsFirst(t *testing.T) {
	items := []string{
		"Nice to have: coffee",
		"Must have 5 years experience",
		"Should know SQL",
		"Docker",
		"Kubernetes",
		"Terraform",
		"Python",
		"Communication skills",
		"Team player",
		"Agile",
		"CI/CD",
		"Git",
	}
	original := append([]string(nil), items...)

	got := Requirements(items, 10)

	require.Len(t, got, 10)
	assert.ElementsMatch(t, []string{"Should know SQL", "Must have 5 years experience"}, got[:2])
	assert.NotContains(t, got, "Nice to have: coffee")
	assert.NotContains(t, got, "Communication skills")
	assert.Equal(t, original, items, "input must not be modified")
}

func TestRequirements_LengthAlwaysCapped(t *testing.T) {
	for n := 0; n <= 25; n++ {
		items := make([]string, n)
		for i := range items {
			items[i] = strings.Repeat("r", i+1)
		}
		assert.Len(t, Requirements(items, 10), min(n, 10))
	}
}

func TestRequirements_TiesKeepInputOrder(t *testing.T) {
	items := []string{"aa", "bb", "cc", "dd"}

	assert.Equal(t, []string{"aa", "bb"}, Requirements(items, 2))
}

func TestTruncateFixed(t *testing.T) {
	tests := []struct {
		text string
		max  int
		want string
	}{
		{"abcdef", 3, "abc..."},
		{"ab", 3, "ab"},
		{"abc", 3, "abc"},
		{"", 3, ""},
		{"abcdef", 0, "abcdef"},
		{"héllo wörld", 5, "héllo..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateFixed(tt.text, tt.max), "TruncateFixed(%q, %d)", tt.text, tt.max)
	}
}

func TestTruncateFixed_Idempotent(t *testing.T) {
	once := TruncateFixed("abcdef", 3)
	assert.Equal(t, once, TruncateFixed(once, 3))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "one two three", TruncateWords("one two three", 3))
	assert.Equal(t, "one two...", TruncateWords("one  two\nthree", 2))
	assert.Equal(t, "anything", TruncateWords("anything", 0))
	assert.Equal(t, "", TruncateWords("", 5))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("sections", 10)
	require.NoError(t, err)
	assert.Equal(t, SectionPolicy{Budget: 10}, p)

	p, err = ParsePolicy("fixed", 3)
	require.NoError(t, err)
	assert.Equal(t, "abc...", p.Apply("abcdef"))

	p, err = ParsePolicy("words", 1)
	require.NoError(t, err)
	assert.Equal(t, "words", p.Name())
	assert.Equal(t, "a...", p.Apply("a b"))

	_, err = ParsePolicy("bogus", 1)
	assert.Error(t, err)
}

func TestDefaultBudgets(t *testing.T) {
	b := DefaultBudgets()

	assert.Equal(t, "sections", b.Description.Name())
	assert.Equal(t, "sections", b.Resume.Name())
	assert.Equal(t, "fixed", b.Instructions.Name())
	assert.Equal(t, 10, b.MaxRequirements)
}
