package analyzers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesour/brick-offers-sub007/internal/analysis/fetcher"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
)

// Accessibility checks the page against basic assistive-technology needs.
type Accessibility struct{}

func (Accessibility) Name() string { return "accessibility" }

func (Accessibility) Analyze(_ context.Context, page *fetcher.Page) []scoring.Issue {
	var issues []scoring.Issue

	if node := findFirst(page.Doc, "html"); node != nil {
		if lang, ok := attr(node, "lang"); !ok || strings.TrimSpace(lang) == "" {
			issues = append(issues, scoring.Issue{
				Category: scoring.CategoryAccessibility,
				Severity: scoring.SeverityLow,
				Code:     "missing-lang",
				Title:    "Document language is not declared",
			})
		}
	}

	images := findAll(page.Doc, "img")
	if len(images) > 0 {
		missing := 0
		for _, img := range images {
			if alt, ok := attr(img, "alt"); !ok || strings.TrimSpace(alt) == "" {
				missing++
			}
		}
		// Tolerate the occasional decorative image; flag when over a third
		// of the images lack text.
		if missing*3 > len(images) {
			issues = append(issues, scoring.Issue{
				Category:    scoring.CategoryAccessibility,
				Severity:    scoring.SeverityMedium,
				Code:        "images-missing-alt",
				Title:       "Images without alternative text",
				Description: fmt.Sprintf("%d of %d images have no alt attribute.", missing, len(images)),
			})
		}
	}

	if unlabeled := countUnlabeledInputs(page); unlabeled > 0 {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryAccessibility,
			Severity:    scoring.SeverityMedium,
			Code:        "inputs-missing-labels",
			Title:       "Form inputs without labels",
			Description: fmt.Sprintf("%d form inputs have no label, aria-label or placeholder.", unlabeled),
		})
	}

	return issues
}

// countUnlabeledInputs counts text-like inputs that a screen reader cannot
// name. Label association via for= is approximated by collecting labeled ids.
func countUnlabeledInputs(page *fetcher.Page) int {
	labeledIDs := make(map[string]bool)
	for _, label := range findAll(page.Doc, "label") {
		if forID, ok := attr(label, "for"); ok {
			labeledIDs[forID] = true
		}
	}

	count := 0
	for _, input := range findAll(page.Doc, "input") {
		typ, _ := attr(input, "type")
		switch strings.ToLower(typ) {
		case "hidden", "submit", "button", "image", "checkbox", "radio":
			continue
		}
		if id, ok := attr(input, "id"); ok && labeledIDs[id] {
			continue
		}
		if v, ok := attr(input, "aria-label"); ok && v != "" {
			continue
		}
		if v, ok := attr(input, "placeholder"); ok && v != "" {
			continue
		}
		count++
	}
	return count
}
