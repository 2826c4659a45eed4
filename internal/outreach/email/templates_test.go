package email

import (
	"strings"
	"testing"
)

func TestRenderOfferEmail(t *testing.T) {
	html, err := RenderOfferEmail(OfferEmailData{
		Title:          "A better website for Pekárna Novák",
		Heading:        "A better website for Pekárna Novák",
		BodyHTML:       "<p>Your site is served over plain HTTP.</p>",
		CTALabel:       "See our redesign idea",
		CTAURL:         "https://track.example/t/c/tok123",
		UnsubscribeURL: "https://track.example/t/u/tok123",
		PixelURL:       "https://track.example/t/o/tok123.gif",
		FromName:       "Studio Brick",
	})
	if err != nil {
		t.Fatalf("RenderOfferEmail returned error: %v", err)
	}

	for _, want := range []string{
		"A better website for Pekárna Novák",
		"<p>Your site is served over plain HTTP.</p>",
		`href="https://track.example/t/c/tok123"`,
		`href="https://track.example/t/u/tok123"`,
		`src="https://track.example/t/o/tok123.gif"`,
		"Studio Brick",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}

func TestRenderOfferEmailOmitsEmptyParts(t *testing.T) {
	html, err := RenderOfferEmail(OfferEmailData{
		Heading:  "Hello",
		BodyHTML: "<p>Body</p>",
		FromName: "Studio",
	})
	if err != nil {
		t.Fatalf("RenderOfferEmail returned error: %v", err)
	}
	if strings.Contains(html, "<img") {
		t.Error("pixel should be omitted when PixelURL is empty")
	}
	if strings.Contains(html, "Unsubscribe") {
		t.Error("unsubscribe link should be omitted when URL is empty")
	}
}
