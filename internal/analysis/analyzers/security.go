package analyzers

import (
	"context"
	"strings"

	"github.com/mesour/brick-offers-sub007/internal/analysis/fetcher"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
)

// Security checks transport security and protective response headers.
type Security struct{}

func (Security) Name() string { return "security" }

func (Security) Analyze(_ context.Context, page *fetcher.Page) []scoring.Issue {
	var issues []scoring.Issue

	if !page.UsedHTTPS {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategorySecurity,
			Severity:    scoring.SeverityCritical,
			Code:        "no-https",
			Title:       "Site served over plain HTTP",
			Description: "The site does not use HTTPS. Browsers mark it as not secure and visitors' data is unprotected.",
		})
	} else {
		if page.Header.Get("Strict-Transport-Security") == "" {
			issues = append(issues, scoring.Issue{
				Category:    scoring.CategorySecurity,
				Severity:    scoring.SeverityMedium,
				Code:        "missing-hsts",
				Title:       "Missing Strict-Transport-Security header",
				Description: "Without HSTS, first visits can be downgraded to plain HTTP.",
			})
		}
		if mixed := countMixedContent(page); mixed > 0 {
			issues = append(issues, scoring.Issue{
				Category:    scoring.CategorySecurity,
				Severity:    scoring.SeverityHigh,
				Code:        "mixed-content",
				Title:       "Page loads resources over plain HTTP",
				Description: "An HTTPS page embedding http:// scripts or images triggers browser warnings and may be blocked.",
			})
		}
	}

	if page.Header.Get("X-Content-Type-Options") == "" {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategorySecurity,
			Severity:    scoring.SeverityLow,
			Code:        "missing-content-type-options",
			Title:       "Missing X-Content-Type-Options header",
		})
	}

	if page.Header.Get("Content-Security-Policy") == "" {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategorySecurity,
			Severity:    scoring.SeverityMedium,
			Code:        "missing-csp",
			Title:       "Missing Content-Security-Policy header",
			Description: "A CSP limits what injected scripts can do. Its absence makes XSS far more damaging.",
		})
	}

	if server := page.Header.Get("Server"); serverLeaksVersion(server) {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategorySecurity,
			Severity:    scoring.SeverityLow,
			Code:        "server-version-disclosed",
			Title:       "Server header discloses software version",
			Description: "Server: " + server,
		})
	}

	return issues
}

// countMixedContent counts http:// subresources on an HTTPS page.
func countMixedContent(page *fetcher.Page) int {
	count := 0
	for _, tag := range []string{"script", "img", "link", "iframe"} {
		for _, n := range findAll(page.Doc, tag) {
			src, ok := attr(n, "src")
			if !ok {
				src, ok = attr(n, "href")
			}
			if ok && strings.HasPrefix(strings.ToLower(src), "http://") {
				count++
			}
		}
	}
	return count
}

func serverLeaksVersion(server string) bool {
	return strings.ContainsAny(server, "0123456789") && strings.Contains(server, "/")
}
