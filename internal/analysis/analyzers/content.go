package analyzers

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mesour/brick-offers-sub007/internal/analysis/fetcher"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
)

// Content checks that the page actually says something and looks maintained.
type Content struct{}

func (Content) Name() string { return "content" }

const minTextLength = 300

var (
	copyrightYearRe = regexp.MustCompile(`(?:©|&copy;|[Cc]opyright)\s*(\d{4})`)
	emailRe         = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe         = regexp.MustCompile(`(?:\+|00)\d[\d\s()-]{7,}`)
)

func (Content) Analyze(_ context.Context, page *fetcher.Page) []scoring.Issue {
	var issues []scoring.Issue

	var text string
	if body := findFirst(page.Doc, "body"); body != nil {
		text = textContent(body)
	}

	if len(text) < minTextLength {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryContent,
			Severity:    scoring.SeverityHigh,
			Code:        "thin-content",
			Title:       "Page has almost no text content",
			Description: "Visitors and search engines find little to read on the landing page.",
		})
	}

	if strings.Contains(strings.ToLower(text), "lorem ipsum") {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryContent,
			Severity:    scoring.SeverityMedium,
			Code:        "placeholder-text",
			Title:       "Page contains placeholder text",
			Description: "Template filler text was never replaced with real copy.",
		})
	}

	if year, ok := staleCopyrightYear(text); ok {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryContent,
			Severity:    scoring.SeverityLow,
			Code:        "stale-copyright",
			Title:       "Copyright notice is out of date",
			Description: fmt.Sprintf("The footer still says %d, suggesting the site is unmaintained.", year),
		})
	}

	if !emailRe.MatchString(text) && !phoneRe.MatchString(text) && !hasContactLink(page) {
		issues = append(issues, scoring.Issue{
			Category:    scoring.CategoryContent,
			Severity:    scoring.SeverityMedium,
			Code:        "no-contact-info",
			Title:       "No visible contact information",
			Description: "Neither an email address, a phone number, nor a contact link was found on the landing page.",
		})
	}

	return issues
}

// staleCopyrightYear reports a copyright year two or more years behind.
func staleCopyrightYear(text string) (int, bool) {
	m := copyrightYearRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if year <= time.Now().Year()-2 {
		return year, true
	}
	return 0, false
}

func hasContactLink(page *fetcher.Page) bool {
	for _, a := range findAll(page.Doc, "a") {
		href, _ := attr(a, "href")
		if strings.HasPrefix(strings.ToLower(href), "mailto:") || strings.HasPrefix(strings.ToLower(href), "tel:") {
			return true
		}
		if strings.Contains(strings.ToLower(href), "contact") || strings.Contains(strings.ToLower(href), "kontakt") {
			return true
		}
	}
	return false
}
