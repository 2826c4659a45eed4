// Package ai generates proposal copy with the Gemini API.
package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/mesour/brick-offers-sub007/platform/apperr"
	"github.com/mesour/brick-offers-sub007/platform/config"
)

// Finding is one analysis issue summarized for the prompt.
type Finding struct {
	Category string
	Severity string
	Title    string
}

// Input carries everything the generator needs about a lead.
type Input struct {
	CompanyName string
	Domain      string
	TotalScore  int
	LeadStatus  string
	Findings    []Finding
}

// Generator produces proposal text for a lead from its analysis findings.
type Generator struct {
	client *genai.Client
	model  string
}

// New creates a generator. Returns nil (no error) when no API key is
// configured; callers must treat a nil generator as AI disabled.
func New(ctx context.Context, cfg config.AIConfig) (*Generator, error) {
	if !cfg.IsAIEnabled() {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Generator{client: client, model: cfg.GetGeminiModel()}, nil
}

// Generate produces the proposal body text.
func (g *Generator) Generate(ctx context.Context, input Input) (string, error) {
	if g == nil {
		return "", apperr.New(apperr.KindValidation, "AI proposal generation is not configured")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(input)), nil)
	if err != nil {
		return "", fmt.Errorf("generate proposal: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("generate proposal: empty response")
	}
	return text, nil
}

// BuildPrompt renders the generation prompt. Findings are grouped into a
// bullet list ordered as given, worst issues first by convention.
func BuildPrompt(input Input) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a web agency consultant writing a short, friendly business proposal.\n")
	fmt.Fprintf(&sb, "Company: %s\nWebsite: %s\n", input.CompanyName, input.Domain)
	fmt.Fprintf(&sb, "Our automated audit scored the site %d (tier: %s).\n\n", input.TotalScore, input.LeadStatus)

	if len(input.Findings) > 0 {
		sb.WriteString("Key problems found:\n")
		for _, f := range input.Findings {
			fmt.Fprintf(&sb, "- [%s/%s] %s\n", f.Category, f.Severity, f.Title)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Write a proposal in the site's language that:\n")
	sb.WriteString("1. Opens with one concrete, verifiable observation about their site.\n")
	sb.WriteString("2. Explains the business impact of the top three problems in plain words.\n")
	sb.WriteString("3. Offers a redesign with a clear scope, without naming a price.\n")
	sb.WriteString("4. Ends with a low-pressure call to action.\n")
	sb.WriteString("Keep it under 250 words. No subject line, no placeholders.\n")

	return sb.String()
}
