// Package fetcher downloads a candidate website for analysis.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/mesour/brick-offers-sub007/platform/config"
)

// Page is a fetched website snapshot, the single input all analyzers see.
type Page struct {
	RequestedURL string
	FinalURL     string
	UsedHTTPS    bool
	Redirected   bool
	StatusCode   int
	Header       http.Header
	Body         []byte
	Doc          *html.Node
	LoadTime     time.Duration
	Truncated    bool
}

// Fetcher downloads pages with a bounded timeout and body size.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// New creates a fetcher from the analysis configuration.
func New(cfg config.AnalysisConfig) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.GetAnalysisTimeout(),
		},
		userAgent:    cfg.GetAnalysisUserAgent(),
		maxBodyBytes: cfg.GetAnalysisMaxBodyBytes(),
	}
}

// Fetch downloads the page at targetURL, following redirects. A bare domain
// is fetched over HTTPS first with an HTTP fallback, so sites without TLS
// are still analyzable (and will be penalized for it).
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	if !strings.Contains(targetURL, "://") {
		page, err := f.fetch(ctx, "https://"+targetURL)
		if err == nil {
			return page, nil
		}
		return f.fetch(ctx, "http://"+targetURL)
	}
	return f.fetch(ctx, targetURL)
}

func (f *Fetcher) fetch(ctx context.Context, targetURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	// Read one byte past the cap to detect truncation.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	loadTime := time.Since(start)

	truncated := false
	if int64(len(body)) > f.maxBodyBytes {
		body = body[:f.maxBodyBytes]
		truncated = true
	}

	page := &Page{
		RequestedURL: targetURL,
		FinalURL:     resp.Request.URL.String(),
		UsedHTTPS:    resp.Request.URL.Scheme == "https",
		Redirected:   resp.Request.URL.String() != targetURL,
		StatusCode:   resp.StatusCode,
		Header:       resp.Header,
		Body:         body,
		LoadTime:     loadTime,
		Truncated:    truncated,
	}

	if resp.StatusCode >= 400 {
		return page, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return page, fmt.Errorf("parse html: %w", err)
	}
	page.Doc = doc

	return page, nil
}
