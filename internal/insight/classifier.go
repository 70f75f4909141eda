// Package insight wraps the Gemini-backed collaborators: per-transaction
// classification and the narrative spending report. Both are best-effort from
// the caller's point of view; failures here degrade the response, they never
// abort a batch.
package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/spendlens/spendlens/internal/domain"
)

// Gemini talks to the Gemini API for classification and narrative insights.
// The client is created once and shared across requests.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini collaborator with an explicit API key and model
// name from configuration.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Classify asks the model for a single category label for one transaction.
// The returned label is cleaned of model framing but not validated here; the
// caller checks it against the taxonomy and substitutes the default on any
// failure.
func (g *Gemini) Classify(ctx context.Context, description string, amount decimal.Decimal) (string, error) {
	prompt := buildClassifyPrompt(description, amount)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
	})
	if err != nil {
		return "", fmt.Errorf("classify %q: %w", description, err)
	}

	label := cleanLabel(resp.Text())
	if label == "" {
		return "", fmt.Errorf("classify %q: empty response from model", description)
	}
	return label, nil
}

// buildClassifyPrompt asks for exactly one label from the fixed taxonomy.
func buildClassifyPrompt(description string, amount decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("You are a financial transaction categorizer. Respond with only the category name.\n\n")
	b.WriteString("Categorize this financial transaction into one of these categories:\n")
	for _, c := range domain.Categories {
		b.WriteString("- " + c + "\n")
	}
	b.WriteString("\nTransaction: " + description + "\n")
	b.WriteString("Amount: $" + amount.String() + "\n\n")
	b.WriteString("Return only the category name, nothing else.")
	return b.String()
}

// cleanLabel strips Markdown fences, quotes, and trailing punctuation the
// model sometimes wraps around a label, keeping only the first line.
func cleanLabel(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[:idx]
	}

	s = strings.Trim(s, `"'`)
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}
