package analyzers

import (
	"context"
	"strings"

	"github.com/mesour/brick-offers-sub007/internal/analysis/fetcher"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
)

// SEO checks the basic on-page signals search engines rely on.
type SEO struct{}

func (SEO) Name() string { return "seo" }

const maxTitleLength = 70

func (SEO) Analyze(_ context.Context, page *fetcher.Page) []scoring.Issue {
	var issues []scoring.Issue

	title := ""
	if node := findFirst(page.Doc, "title"); node != nil {
		title = strings.TrimSpace(textContent(node))
	}
	switch {
	case title == "":
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategorySEO,
			Severity:    scoring.SeverityHigh,
			Code:        "missing-title",
			Title:       "Page has no title",
			Description: "Search results show the title tag. A missing title severely hurts ranking and click-through.",
		})
	case len(title) > maxTitleLength:
		issues = append(issues, scoring.Issue{
			Category: scoring.CategorySEO,
			Severity: scoring.SeverityLow,
			Code:     "title-too-long",
			Title:    "Page title exceeds typical display length",
		})
	}

	if desc, ok := metaContent(page.Doc, "description"); !ok || strings.TrimSpace(desc) == "" {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategorySEO,
			Severity:    scoring.SeverityMedium,
			Code:        "missing-meta-description",
			Title:       "Missing meta description",
			Description: "Search engines fall back to arbitrary page text for the result snippet.",
		})
	}

	h1s := findAll(page.Doc, "h1")
	switch {
	case len(h1s) == 0:
		issues = append(issues, scoring.Issue{
			Category: scoring.CategorySEO,
			Severity: scoring.SeverityMedium,
			Code:     "missing-h1",
			Title:    "Page has no H1 heading",
		})
	case len(h1s) > 1:
		issues = append(issues, scoring.Issue{
			Category: scoring.CategorySEO,
			Severity: scoring.SeverityLow,
			Code:     "multiple-h1",
			Title:    "Page has more than one H1 heading",
		})
	}

	if !hasCanonical(page) {
		issues = append(issues, scoring.Issue{
			Category: scoring.CategorySEO,
			Severity: scoring.SeverityLow,
			Code:     "missing-canonical",
			Title:    "Missing canonical link",
		})
	}

	if robots, ok := metaContent(page.Doc, "robots"); ok && strings.Contains(strings.ToLower(robots), "noindex") {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategorySEO,
			Severity:    scoring.SeverityHigh,
			Code:        "noindex",
			Title:       "Page blocks search engine indexing",
			Description: "The robots meta tag contains noindex, so the site is invisible to search engines.",
		})
	}

	return issues
}

func hasCanonical(page *fetcher.Page) bool {
	for _, link := range findAll(page.Doc, "link") {
		if rel, ok := attr(link, "rel"); ok && strings.EqualFold(rel, "canonical") {
			return true
		}
	}
	return false
}
