package ai

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Input{
		CompanyName: "Pekárna Novák",
		Domain:      "pekarna-novak.example",
		TotalScore:  -44,
		LeadStatus:  "bad",
		Findings: []Finding{
			{Category: "security", Severity: "critical", Title: "Site served over plain HTTP"},
			{Category: "seo", Severity: "high", Title: "Page has no title"},
		},
	})

	for _, want := range []string{
		"Pekárna Novák",
		"pekarna-novak.example",
		"-44",
		"bad",
		"[security/critical] Site served over plain HTTP",
		"[seo/high] Page has no title",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptWithoutFindings(t *testing.T) {
	prompt := BuildPrompt(Input{CompanyName: "X", Domain: "x.example", LeadStatus: "super"})
	if strings.Contains(prompt, "Key problems found") {
		t.Error("prompt should omit the findings section when there are none")
	}
}

func TestNilGeneratorRefuses(t *testing.T) {
	var g *Generator
	if _, err := g.Generate(t.Context(), Input{}); err == nil {
		t.Fatal("expected error from nil generator")
	}
}
