package scoring

// LeadStatus is the coarse quality tier of a lead, derived from its total
// analysis score. Tiers are ordered worst to best; StatusUnknown is the zero
// value for leads that have not been analyzed yet.
type LeadStatus int

const (
	StatusUnknown LeadStatus = iota
	StatusVeryBad
	StatusBad
	StatusMiddle
	StatusQualityGood
	StatusSuper
)

// Score thresholds for status bands. Each bound is inclusive at the lower
// end of its band: a score of exactly -50 is Bad, -20 is Middle, -5 is
// QualityGood, and 0 is Super.
const (
	thresholdVeryBad     = -50
	thresholdBad         = -20
	thresholdMiddle      = -5
	thresholdQualityGood = 0
)

// String returns the stable identifier used in persistence and API responses.
func (s LeadStatus) String() string {
	switch s {
	case StatusVeryBad:
		return "very_bad"
	case StatusBad:
		return "bad"
	case StatusMiddle:
		return "middle"
	case StatusQualityGood:
		return "quality_good"
	case StatusSuper:
		return "super"
	default:
		return "unknown"
	}
}

// ParseLeadStatus maps a stored identifier back to its LeadStatus.
// Unknown identifiers map to StatusUnknown.
func ParseLeadStatus(s string) LeadStatus {
	switch s {
	case "very_bad":
		return StatusVeryBad
	case "bad":
		return StatusBad
	case "middle":
		return StatusMiddle
	case "quality_good":
		return StatusQualityGood
	case "super":
		return StatusSuper
	default:
		return StatusUnknown
	}
}

// DetermineLeadStatus maps a total score to a status tier. A critical issue
// caps the result at Bad: a lead with a broken-enough site to carry a
// critical finding is never presented as better than Bad, but a score that
// already qualifies as VeryBad stays VeryBad. The override never upgrades.
func DetermineLeadStatus(totalScore int, hasCriticalIssue bool) LeadStatus {
	status := statusForScore(totalScore)

	if hasCriticalIssue && status > StatusBad {
		return StatusBad
	}
	return status
}

func statusForScore(totalScore int) LeadStatus {
	switch {
	case totalScore < thresholdVeryBad:
		return StatusVeryBad
	case totalScore < thresholdBad:
		return StatusBad
	case totalScore < thresholdMiddle:
		return StatusMiddle
	case totalScore < thresholdQualityGood:
		return StatusQualityGood
	default:
		return StatusSuper
	}
}
