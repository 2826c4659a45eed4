package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// OfferEmailData fills the offer email template. BodyHTML is the proposal
// text already converted to HTML paragraphs; the template trusts it.
type OfferEmailData struct {
	Title          string
	Heading        string
	BodyHTML       template.HTML
	CTALabel       string
	CTAURL         string
	UnsubscribeURL string
	PixelURL       string
	FromName       string
}

// RenderOfferEmail renders the offer email with tracking pixel and
// unsubscribe footer.
func RenderOfferEmail(data OfferEmailData) (string, error) {
	return render("offer.html", data)
}

func render(name string, data any) (string, error) {
	tmpl, err := template.New("base.html").ParseFS(templateFS, "templates/base.html", "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
