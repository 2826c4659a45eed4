// Package scoring implements lead quality scoring over website analysis
// issues. It is a pure computation package: no I/O, no shared state, safe to
// call from any goroutine.
package scoring

// Category classifies what part of a website an issue concerns.
type Category int

const (
	CategorySecurity Category = iota
	CategorySEO
	CategoryPerformance
	CategoryAccessibility
	CategoryContent
	CategoryTechnical
)

// Categories lists every known category. The score map is pre-populated from
// this slice so callers can rely on every key being present.
var Categories = []Category{
	CategorySecurity,
	CategorySEO,
	CategoryPerformance,
	CategoryAccessibility,
	CategoryContent,
	CategoryTechnical,
}

// String returns the stable identifier used in persistence and API responses.
func (c Category) String() string {
	switch c {
	case CategorySecurity:
		return "security"
	case CategorySEO:
		return "seo"
	case CategoryPerformance:
		return "performance"
	case CategoryAccessibility:
		return "accessibility"
	case CategoryContent:
		return "content"
	case CategoryTechnical:
		return "technical"
	default:
		return "unknown"
	}
}

// ParseCategory maps a stored identifier back to its Category.
// Unknown identifiers map to CategoryTechnical.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if c.String() == s {
			return c
		}
	}
	return CategoryTechnical
}

// Severity ranks how damaging an issue is. Each severity carries a fixed
// integer weight; weights are penalties, never bonuses.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// severityWeights is the fixed weight table. All values are <= 0.
var severityWeights = map[Severity]int{
	SeverityLow:      -2,
	SeverityMedium:   -5,
	SeverityHigh:     -12,
	SeverityCritical: -25,
}

// Weight returns the score penalty for the severity.
func (s Severity) Weight() int {
	return severityWeights[s]
}

// String returns the stable identifier used in persistence and API responses.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "low"
	}
}

// ParseSeverity maps a stored identifier back to its Severity.
// Unknown identifiers map to SeverityLow.
func ParseSeverity(s string) Severity {
	switch s {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Issue is a single detected defect on an analyzed website. Issues are
// immutable values created by analyzers and consumed by the scorer.
type Issue struct {
	Category    Category
	Severity    Severity
	Code        string
	Title       string
	Description string
}

// Result aggregates issue weights per category and overall.
type Result struct {
	CategoryScores map[Category]int
	TotalScore     int
}

// Calculate sums severity weights per category and overall. Every known
// category is present in the result map even when no issue of that category
// occurred; an empty issue list yields an all-zero map and total 0.
//
// Invariant: the sum of CategoryScores always equals TotalScore.
func Calculate(issues []Issue) Result {
	scores := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		scores[c] = 0
	}

	total := 0
	for _, issue := range issues {
		weight := issue.Severity.Weight()
		scores[issue.Category] += weight
		total += weight
	}

	return Result{CategoryScores: scores, TotalScore: total}
}

// HasCritical reports whether any issue in the list is critical.
func HasCritical(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
