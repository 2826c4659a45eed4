package scoring

import "testing"

func TestCalculate_EmptyListYieldsAllZeroScores(t *testing.T) {
	result := Calculate(nil)

	if result.TotalScore != 0 {
		t.Fatalf("expected total 0, got %d", result.TotalScore)
	}
	if len(result.CategoryScores) != len(Categories) {
		t.Fatalf("expected %d category keys, got %d", len(Categories), len(result.CategoryScores))
	}
	for _, c := range Categories {
		score, ok := result.CategoryScores[c]
		if !ok {
			t.Fatalf("category %s missing from result", c)
		}
		if score != 0 {
			t.Fatalf("expected category %s score 0, got %d", c, score)
		}
	}
}

func TestCalculate_SumsWeightsPerCategory(t *testing.T) {
	issues := []Issue{
		{Category: CategorySecurity, Severity: SeverityCritical, Code: "no-https"},
		{Category: CategorySecurity, Severity: SeverityMedium, Code: "missing-csp"},
		{Category: CategorySEO, Severity: SeverityHigh, Code: "missing-title"},
		{Category: CategoryContent, Severity: SeverityLow, Code: "stale-copyright"},
	}

	result := Calculate(issues)

	if got := result.CategoryScores[CategorySecurity]; got != -30 {
		t.Errorf("expected security score -30, got %d", got)
	}
	if got := result.CategoryScores[CategorySEO]; got != -12 {
		t.Errorf("expected seo score -12, got %d", got)
	}
	if got := result.CategoryScores[CategoryContent]; got != -2 {
		t.Errorf("expected content score -2, got %d", got)
	}
	if got := result.CategoryScores[CategoryPerformance]; got != 0 {
		t.Errorf("expected untouched performance score 0, got %d", got)
	}
	if result.TotalScore != -44 {
		t.Errorf("expected total -44, got %d", result.TotalScore)
	}
}

func TestCalculate_TotalEqualsSumOfCategoryScores(t *testing.T) {
	cases := [][]Issue{
		nil,
		{{Category: CategorySEO, Severity: SeverityLow}},
		{
			{Category: CategorySecurity, Severity: SeverityCritical},
			{Category: CategorySecurity, Severity: SeverityCritical},
			{Category: CategoryTechnical, Severity: SeverityHigh},
			{Category: CategoryAccessibility, Severity: SeverityMedium},
			{Category: CategoryPerformance, Severity: SeverityLow},
			{Category: CategoryContent, Severity: SeverityLow},
		},
	}

	for i, issues := range cases {
		result := Calculate(issues)
		sum := 0
		for _, score := range result.CategoryScores {
			sum += score
		}
		if sum != result.TotalScore {
			t.Errorf("case %d: category sum %d != total %d", i, sum, result.TotalScore)
		}
	}
}

func TestCalculate_AllWeightsArePenalties(t *testing.T) {
	for severity, weight := range severityWeights {
		if weight > 0 {
			t.Errorf("severity %s has positive weight %d", severity, weight)
		}
	}
}

func TestDetermineLeadStatus_Thresholds(t *testing.T) {
	tests := []struct {
		name        string
		score       int
		hasCritical bool
		want        LeadStatus
	}{
		{"far below worst band", -100, false, StatusVeryBad},
		{"just below very bad bound", -51, false, StatusVeryBad},
		{"very bad bound is inclusive for bad", -50, false, StatusBad},
		{"middle of bad band", -35, false, StatusBad},
		{"bad bound is inclusive for middle", -20, false, StatusMiddle},
		{"middle of middle band", -10, false, StatusMiddle},
		{"middle bound is inclusive for quality good", -5, false, StatusQualityGood},
		{"just below zero", -1, false, StatusQualityGood},
		{"zero is super", 0, false, StatusSuper},
		{"positive is super", 10, false, StatusSuper},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineLeadStatus(tt.score, tt.hasCritical)
			if got != tt.want {
				t.Fatalf("DetermineLeadStatus(%d, %v) = %s, want %s", tt.score, tt.hasCritical, got, tt.want)
			}
		})
	}
}

func TestDetermineLeadStatus_CriticalClampsDownward(t *testing.T) {
	// A critical issue caps an otherwise-super score at bad.
	if got := DetermineLeadStatus(100, true); got != StatusBad {
		t.Errorf("DetermineLeadStatus(100, true) = %s, want bad", got)
	}
	if got := DetermineLeadStatus(0, true); got != StatusBad {
		t.Errorf("DetermineLeadStatus(0, true) = %s, want bad", got)
	}
	if got := DetermineLeadStatus(-10, true); got != StatusBad {
		t.Errorf("DetermineLeadStatus(-10, true) = %s, want bad", got)
	}
	if got := DetermineLeadStatus(-3, true); got != StatusBad {
		t.Errorf("DetermineLeadStatus(-3, true) = %s, want bad", got)
	}
}

func TestDetermineLeadStatus_CriticalNeverUpgrades(t *testing.T) {
	// A score already worse than bad stays where it is.
	if got := DetermineLeadStatus(-60, true); got != StatusVeryBad {
		t.Errorf("DetermineLeadStatus(-60, true) = %s, want very_bad", got)
	}
	if got := DetermineLeadStatus(-30, true); got != StatusBad {
		t.Errorf("DetermineLeadStatus(-30, true) = %s, want bad", got)
	}
}

func TestHasCritical(t *testing.T) {
	if HasCritical(nil) {
		t.Error("empty list should not report critical")
	}
	if HasCritical([]Issue{{Severity: SeverityHigh}}) {
		t.Error("high severity should not report critical")
	}
	if !HasCritical([]Issue{{Severity: SeverityLow}, {Severity: SeverityCritical}}) {
		t.Error("list with critical issue should report critical")
	}
}

func TestLeadStatus_RoundTrip(t *testing.T) {
	statuses := []LeadStatus{StatusUnknown, StatusVeryBad, StatusBad, StatusMiddle, StatusQualityGood, StatusSuper}
	for _, s := range statuses {
		if got := ParseLeadStatus(s.String()); got != s {
			t.Errorf("ParseLeadStatus(%q) = %v, want %v", s.String(), got, s)
		}
	}
}

func TestLeadStatus_Ordering(t *testing.T) {
	if !(StatusVeryBad < StatusBad && StatusBad < StatusMiddle &&
		StatusMiddle < StatusQualityGood && StatusQualityGood < StatusSuper) {
		t.Fatal("lead status tiers must be ordered worst to best")
	}
}
