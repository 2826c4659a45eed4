package analyzers

import (
	"context"
	"fmt"
	"time"

	"github.com/mesour/brick-offers-sub007/internal/analysis/fetcher"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
)

// Performance checks page weight, response time and delivery hygiene.
type Performance struct{}

func (Performance) Name() string { return "performance" }

const (
	heavyPageBytes   = 1_500_000
	veryHeavyBytes   = 3_000_000
	slowLoadTime     = 2 * time.Second
	verySlowLoadTime = 5 * time.Second
	manyScriptsLimit = 20
)

func (Performance) Analyze(_ context.Context, page *fetcher.Page) []scoring.Issue {
	var issues []scoring.Issue

	size := len(page.Body)
	switch {
	case page.Truncated || size > veryHeavyBytes:
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryPerformance,
			Severity:    scoring.SeverityHigh,
			Code:        "page-very-heavy",
			Title:       "Page HTML is extremely large",
			Description: fmt.Sprintf("The document alone is over %d bytes.", veryHeavyBytes),
		})
	case size > heavyPageBytes:
		issues = append(issues, scoring.Issue{
			Category: scoring.CategoryPerformance,
			Severity: scoring.SeverityMedium,
			Code:     "page-heavy",
			Title:    "Page HTML is large",
		})
	}

	switch {
	case page.LoadTime > verySlowLoadTime:
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryPerformance,
			Severity:    scoring.SeverityHigh,
			Code:        "very-slow-response",
			Title:       "Server responds very slowly",
			Description: fmt.Sprintf("Initial response took %s.", page.LoadTime.Round(time.Millisecond)),
		})
	case page.LoadTime > slowLoadTime:
		issues = append(issues, scoring.Issue{
			Category: scoring.CategoryPerformance,
			Severity: scoring.SeverityMedium,
			Code:     "slow-response",
			Title:    "Server responds slowly",
		})
	}

	if page.Header.Get("Content-Encoding") == "" && size > 50_000 {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryPerformance,
			Severity:    scoring.SeverityMedium,
			Code:        "no-compression",
			Title:       "Response is not compressed",
			Description: "The HTML is served without gzip or brotli compression.",
		})
	}

	if scripts := findAll(page.Doc, "script"); len(scripts) > manyScriptsLimit {
		issues = append(issues, scoring.Issue{
			Category: scoring.CategoryPerformance,
			Severity: scoring.SeverityLow,
			Code:     "many-scripts",
			Title:    fmt.Sprintf("Page includes %d script tags", len(scripts)),
		})
	}

	if page.Header.Get("Cache-Control") == "" && page.Header.Get("Expires") == "" {
		issues = append(issues, scoring.Issue{
			Category: scoring.CategoryPerformance,
			Severity: scoring.SeverityLow,
			Code:     "no-cache-headers",
			Title:    "No caching headers on the document",
		})
	}

	return issues
}
