package analyzers

import (
	"context"
	"strings"

	"github.com/mesour/brick-offers-sub007/internal/analysis/fetcher"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
)

// Technical checks markup health and mobile readiness.
type Technical struct{}

func (Technical) Name() string { return "technical" }

// deprecatedTags are presentational HTML elements dropped from the standard.
// Their presence usually means a site built well over a decade ago.
var deprecatedTags = []string{"font", "center", "marquee", "blink", "frameset", "frame"}

func (Technical) Analyze(_ context.Context, page *fetcher.Page) []scoring.Issue {
	var issues []scoring.Issue

	if !hasViewportMeta(page) {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryTechnical,
			Severity:    scoring.SeverityHigh,
			Code:        "missing-viewport",
			Title:       "Page is not mobile-ready",
			Description: "No viewport meta tag: the site renders as a scaled-down desktop page on phones.",
		})
	}

	if found := findDeprecatedTags(page); len(found) > 0 {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryTechnical,
			Severity:    scoring.SeverityMedium,
			Code:        "deprecated-markup",
			Title:       "Page uses obsolete HTML elements",
			Description: "Found: " + strings.Join(found, ", "),
		})
	}

	if !hasCharset(page) {
		issues = append(issues, scoring.Issue{
			Category: scoring.CategoryTechnical,
			Severity: scoring.SeverityLow,
			Code:     "missing-charset",
			Title:    "Character encoding is not declared",
		})
	}

	if !hasFavicon(page) {
		issues = append(issues, scoring.Issue{
			Category: scoring.CategoryTechnical,
			Severity: scoring.SeverityLow,
			Code:     "missing-favicon",
			Title:    "No favicon declared",
		})
	}

	if len(findAll(page.Doc, "table")) > 3 && len(findAll(page.Doc, "div")) < 5 {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryTechnical,
			Severity:    scoring.SeverityMedium,
			Code:        "table-layout",
			Title:       "Page appears to use table-based layout",
			Description: "Heavy table use with almost no divs is the signature of a pre-CSS era site.",
		})
	}

	return issues
}

func hasViewportMeta(page *fetcher.Page) bool {
	_, ok := metaContent(page.Doc, "viewport")
	return ok
}

func findDeprecatedTags(page *fetcher.Page) []string {
	var found []string
	for _, tag := range deprecatedTags {
		if len(findAll(page.Doc, tag)) > 0 {
			found = append(found, tag)
		}
	}
	return found
}

func hasCharset(page *fetcher.Page) bool {
	if ct := page.Header.Get("Content-Type"); strings.Contains(strings.ToLower(ct), "charset") {
		return true
	}
	for _, m := range findAll(page.Doc, "meta") {
		if _, ok := attr(m, "charset"); ok {
			return true
		}
		if equiv, ok := attr(m, "http-equiv"); ok && strings.EqualFold(equiv, "content-type") {
			return true
		}
	}
	return false
}

func hasFavicon(page *fetcher.Page) bool {
	for _, link := range findAll(page.Doc, "link") {
		if rel, ok := attr(link, "rel"); ok && strings.Contains(strings.ToLower(rel), "icon") {
			return true
		}
	}
	return false
}
