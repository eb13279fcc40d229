package prioritize

import "fmt"

// Policy shortens one kind of prompt input. Different fields use different
// policies; callers pick one per field.
type Policy interface {
	// Name returns the policy kind, as accepted by ParsePolicy.
	Name() string
	Apply(text string) string
}

// SectionPolicy applies Sections with a character budget.
type SectionPolicy struct{ Budget int }

func (p SectionPolicy) Name() string             { return "sections" }
func (p SectionPolicy) Apply(text string) string { return Sections(text, p.Budget) }

// FixedPolicy applies TruncateFixed.
type FixedPolicy struct{ Max int }

func (p FixedPolicy) Name() string             { return "fixed" }
func (p FixedPolicy) Apply(text string) string { return TruncateFixed(text, p.Max) }

// WordPolicy applies TruncateWords.
type WordPolicy struct{ Max int }

func (p WordPolicy) Name() string             { return "words" }
func (p WordPolicy) Apply(text string) string { return TruncateWords(text, p.Max) }

// ParsePolicy builds the policy named kind with the given limit.
func ParsePolicy(kind string, limit int) (Policy, error) {
	switch kind {
	case "sections":
		return SectionPolicy{Budget: limit}, nil
	case "fixed":
		return FixedPolicy{Max: limit}, nil
	case "words":
		return WordPolicy{Max: limit}, nil
	default:
		return nil, fmt.Errorf("unknown prioritize policy %q (want sections, fixed or words)", kind)
	}
}

// Default limits per field.
const (
	DescriptionBudget = 1000
	ResumeBudget      = 1500
	InstructionsMax   = 500
	MaxRequirements   = 10
	PreviewWords      = 100
)

// Budgets holds the policy chosen for each prompt field.
type Budgets struct {
	Description     Policy
	Resume          Policy
	Instructions    Policy
	MaxRequirements int
}

// DefaultBudgets returns scored sections for the description and résumé, a
// flat cut for instructions, and a ten-item requirement cap.
func DefaultBudgets() Budgets {
	return Budgets{
		Description:     SectionPolicy{Budget: DescriptionBudget},
		Resume:          SectionPolicy{Budget: ResumeBudget},
		Instructions:    FixedPolicy{Max: InstructionsMax},
		MaxRequirements: MaxRequirements,
	}
}
