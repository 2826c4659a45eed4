package scraper

import (
	"net/url"
	"strings"
	"testing"
)

const directoryPage = `<!DOCTYPE html>
<html><body>
<ul class="listing">
  <li><a href="https://www.bakery-novak.example/">Bakery Novák</a></li>
  <li><a href="http://plumbing-rychle.example/services">Rychlé Plumbing</a></li>
  <li><a href="https://bakery-novak.example/contact">Bakery Novák (contact)</a></li>
  <li><a href="/internal/page">Internal link</a></li>
  <li><a href="https://facebook.com/some-business">Facebook page</a></li>
  <li><a href="mailto:info@somewhere.example">Mail</a></li>
</ul>
</body></html>`

func TestExtractCandidates(t *testing.T) {
	base, _ := url.Parse("https://directory.example/web-design")

	candidates, err := ExtractCandidates(strings.NewReader(directoryPage), base)
	if err != nil {
		t.Fatalf("ExtractCandidates returned error: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(candidates), candidates)
	}

	first := candidates[0]
	if first.Domain != "bakery-novak.example" {
		t.Errorf("first domain = %q, want bakery-novak.example", first.Domain)
	}
	if first.Title != "Bakery Novák" {
		t.Errorf("first title = %q, want %q", first.Title, "Bakery Novák")
	}

	if candidates[1].Domain != "plumbing-rychle.example" {
		t.Errorf("second domain = %q, want plumbing-rychle.example", candidates[1].Domain)
	}
}

func TestExtractCandidatesSkipsSourceHost(t *testing.T) {
	base, _ := url.Parse("https://directory.example/list")
	page := `<a href="https://directory.example/other">self</a>
	         <a href="https://www.directory.example/more">self www</a>`

	candidates, err := ExtractCandidates(strings.NewReader(page), base)
	if err != nil {
		t.Fatalf("ExtractCandidates returned error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates from same-host links, got %+v", candidates)
	}
}
