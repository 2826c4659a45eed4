// Package scraper fetches discovery source pages and extracts candidate
// client websites from their outbound links.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// Candidate is a website found on a discovery source page.
type Candidate struct {
	Domain string
	URL    string
	// Title is the anchor text, used as a first guess at the company name.
	Title string
}

// Scraper fetches source pages politely. Each source run passes its own
// rate limiter so one slow directory does not stall the others; the
// default limiter covers sources without a configured rate.
type Scraper struct {
	client         *http.Client
	defaultLimiter *rate.Limiter
	userAgent      string
}

const maxPageBytes = 2 << 20

// New creates a scraper. The default limiter allows one request per second
// with a small burst, which is conservative enough for public directories.
func New(userAgent string) *Scraper {
	return &Scraper{
		client:         &http.Client{Timeout: 20 * time.Second},
		defaultLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		userAgent:      userAgent,
	}
}

// Fetch downloads a source page and returns the candidate websites it links
// to. Links back to the source host itself are skipped. A nil limiter uses
// the scraper's default.
func (s *Scraper) Fetch(ctx context.Context, sourceURL string, limiter *rate.Limiter) ([]Candidate, error) {
	if limiter == nil {
		limiter = s.defaultLimiter
	}
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch source page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch source page: status %d", resp.StatusCode)
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	return ExtractCandidates(io.LimitReader(resp.Body, maxPageBytes), base)
}

// ExtractCandidates parses HTML and collects external links as candidates,
// deduplicated by domain.
func ExtractCandidates(r io.Reader, base *url.URL) ([]Candidate, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse source page: %w", err)
	}

	seen := make(map[string]bool)
	var out []Candidate

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if c, ok := candidateFromAnchor(n, base); ok && !seen[c.Domain] {
				seen[c.Domain] = true
				out = append(out, c)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return out, nil
}

func candidateFromAnchor(n *html.Node, base *url.URL) (Candidate, bool) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = attr.Val
			break
		}
	}
	if href == "" {
		return Candidate{}, false
	}

	u, err := base.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Candidate{}, false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" || host == strings.TrimPrefix(strings.ToLower(base.Hostname()), "www.") {
		return Candidate{}, false
	}
	if skippedHosts[host] {
		return Candidate{}, false
	}

	return Candidate{
		Domain: host,
		URL:    u.String(),
		Title:  strings.TrimSpace(anchorText(n)),
	}, true
}

func anchorText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

// skippedHosts are large platforms that show up as outbound links on
// directory pages but are never sellable leads.
var skippedHosts = map[string]bool{
	"facebook.com":  true,
	"instagram.com": true,
	"twitter.com":   true,
	"x.com":         true,
	"linkedin.com":  true,
	"youtube.com":   true,
	"google.com":    true,
	"maps.google.com": true,
}
