package analyzers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/mesour/brick-offers-sub007/internal/analysis/fetcher"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
)

func pageFromHTML(t *testing.T, body string, mutate func(*fetcher.Page)) *fetcher.Page {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	page := &fetcher.Page{
		RequestedURL: "https://example.test/",
		FinalURL:     "https://example.test/",
		UsedHTTPS:    true,
		StatusCode:   200,
		Header:       http.Header{},
		Body:         []byte(body),
		Doc:          doc,
		LoadTime:     200 * time.Millisecond,
	}
	if mutate != nil {
		mutate(page)
	}
	return page
}

func codes(issues []scoring.Issue) map[string]scoring.Issue {
	out := make(map[string]scoring.Issue, len(issues))
	for _, i := range issues {
		out[i.Code] = i
	}
	return out
}

var healthyPage = `<!DOCTYPE html>
<html lang="cs">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta name="description" content="Rodinná pekárna v centru města.">
  <title>Pekárna Novák</title>
  <link rel="canonical" href="https://example.test/">
  <link rel="icon" href="/favicon.ico">
</head>
<body>
  <h1>Pekárna Novák</h1>
  <p>` + loremFree(400) + `</p>
  <img src="/hero.jpg" alt="Výloha pekárny">
  <a href="mailto:info@example.test">Napište nám</a>
  <p>© 2026 Pekárna Novák</p>
</body>
</html>`

func loremFree(n int) string {
	return strings.Repeat("Čerstvé pečivo každý den. ", n/26+1)[:n]
}

func TestHealthyPageHasNoHTMLIssues(t *testing.T) {
	page := pageFromHTML(t, healthyPage, func(p *fetcher.Page) {
		p.Header.Set("Strict-Transport-Security", "max-age=63072000")
		p.Header.Set("X-Content-Type-Options", "nosniff")
		p.Header.Set("Content-Security-Policy", "default-src 'self'")
		p.Header.Set("Content-Encoding", "gzip")
		p.Header.Set("Cache-Control", "max-age=300")
	})

	for _, a := range All() {
		issues := a.Analyze(context.Background(), page)
		if len(issues) != 0 {
			t.Errorf("%s reported issues on healthy page: %+v", a.Name(), issues)
		}
	}
}

func TestSecurityNoHTTPSIsCritical(t *testing.T) {
	page := pageFromHTML(t, healthyPage, func(p *fetcher.Page) {
		p.UsedHTTPS = false
		p.FinalURL = "http://example.test/"
	})

	got := codes(Security{}.Analyze(context.Background(), page))
	issue, ok := got["no-https"]
	if !ok {
		t.Fatalf("expected no-https issue, got %v", got)
	}
	if issue.Severity != scoring.SeverityCritical {
		t.Errorf("no-https severity = %v, want critical", issue.Severity)
	}
	if _, ok := got["missing-hsts"]; ok {
		t.Error("HSTS should not be reported for plain HTTP sites")
	}
}

func TestSecurityMixedContent(t *testing.T) {
	body := `<html><head><title>t</title></head><body>
	<img src="http://cdn.example/img.png"></body></html>`
	page := pageFromHTML(t, body, nil)

	got := codes(Security{}.Analyze(context.Background(), page))
	if _, ok := got["mixed-content"]; !ok {
		t.Errorf("expected mixed-content issue, got %v", got)
	}
}

func TestSEOMissingEssentials(t *testing.T) {
	body := `<html><head></head><body><p>hello</p></body></html>`
	page := pageFromHTML(t, body, nil)

	got := codes(SEO{}.Analyze(context.Background(), page))
	for _, code := range []string{"missing-title", "missing-meta-description", "missing-h1", "missing-canonical"} {
		if _, ok := got[code]; !ok {
			t.Errorf("expected %s issue, got %v", code, got)
		}
	}
}

func TestSEONoindex(t *testing.T) {
	body := `<html><head><title>t</title><meta name="robots" content="noindex,nofollow"></head>
	<body><h1>h</h1></body></html>`
	page := pageFromHTML(t, body, nil)

	got := codes(SEO{}.Analyze(context.Background(), page))
	issue, ok := got["noindex"]
	if !ok {
		t.Fatalf("expected noindex issue, got %v", got)
	}
	if issue.Severity != scoring.SeverityHigh {
		t.Errorf("noindex severity = %v, want high", issue.Severity)
	}
}

func TestPerformanceSlowAndUncompressed(t *testing.T) {
	page := pageFromHTML(t, "<html><body>"+strings.Repeat("x", 60_000)+"</body></html>", func(p *fetcher.Page) {
		p.LoadTime = 6 * time.Second
	})

	got := codes(Performance{}.Analyze(context.Background(), page))
	if _, ok := got["very-slow-response"]; !ok {
		t.Errorf("expected very-slow-response, got %v", got)
	}
	if _, ok := got["no-compression"]; !ok {
		t.Errorf("expected no-compression, got %v", got)
	}
}

func TestAccessibilityMissingAlt(t *testing.T) {
	body := `<html lang="en"><body>
	<img src="a.png"><img src="b.png"><img src="c.png" alt="ok">
	</body></html>`
	page := pageFromHTML(t, body, nil)

	got := codes(Accessibility{}.Analyze(context.Background(), page))
	if _, ok := got["images-missing-alt"]; !ok {
		t.Errorf("expected images-missing-alt, got %v", got)
	}
}

func TestContentThinAndPlaceholder(t *testing.T) {
	body := `<html><body><p>Lorem ipsum dolor sit amet.</p></body></html>`
	page := pageFromHTML(t, body, nil)

	got := codes(Content{}.Analyze(context.Background(), page))
	if _, ok := got["thin-content"]; !ok {
		t.Errorf("expected thin-content, got %v", got)
	}
	if _, ok := got["placeholder-text"]; !ok {
		t.Errorf("expected placeholder-text, got %v", got)
	}
}

func TestContentStaleCopyright(t *testing.T) {
	body := `<html><body><p>` + loremFree(400) + `</p>
	<a href="/kontakt">Kontakt</a>
	<p>© 2019 Firma s.r.o.</p></body></html>`
	page := pageFromHTML(t, body, nil)

	got := codes(Content{}.Analyze(context.Background(), page))
	if _, ok := got["stale-copyright"]; !ok {
		t.Errorf("expected stale-copyright, got %v", got)
	}
	if _, ok := got["no-contact-info"]; ok {
		t.Error("contact link should satisfy the contact check")
	}
}

func TestTechnicalLegacyMarkup(t *testing.T) {
	body := `<html><head><title>t</title></head><body>
	<center><font size="3">Vítejte</font></center>
	<table></table><table></table><table></table><table></table>
	</body></html>`
	page := pageFromHTML(t, body, nil)

	got := codes(Technical{}.Analyze(context.Background(), page))
	for _, code := range []string{"missing-viewport", "deprecated-markup", "table-layout"} {
		if _, ok := got[code]; !ok {
			t.Errorf("expected %s issue, got %v", code, got)
		}
	}
}
