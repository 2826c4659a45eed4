// Package analyzers inspects a fetched page and reports scoring issues.
// Each analyzer covers one category; all of them are stateless and safe to
// run concurrently over the same page.
package analyzers

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/mesour/brick-offers-sub007/internal/analysis/fetcher"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
)

// Analyzer inspects one aspect of a fetched page.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, page *fetcher.Page) []scoring.Issue
}

// All returns the full analyzer set in a stable order.
func All() []Analyzer {
	return []Analyzer{
		Security{},
		SEO{},
		Performance{},
		Accessibility{},
		Content{},
		Technical{},
	}
}

// findAll returns every element node with the given tag name.
func findAll(doc *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if doc != nil {
		walk(doc)
	}
	return out
}

// findFirst returns the first element node with the given tag name.
func findFirst(doc *html.Node, tag string) *html.Node {
	nodes := findAll(doc, tag)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// attr returns the value of the named attribute, lowercased key match.
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// textContent collects all text under a node with whitespace collapsed.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// metaContent returns the content of <meta name="..."> if present.
func metaContent(doc *html.Node, name string) (string, bool) {
	for _, m := range findAll(doc, "meta") {
		if v, ok := attr(m, "name"); ok && strings.EqualFold(v, name) {
			content, _ := attr(m, "content")
			return content, true
		}
	}
	return "", false
}
