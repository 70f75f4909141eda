package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/spendlens/spendlens/internal/domain"
)

// Summarize produces a short narrative spending report from the monthly
// spend-by-category breakdown and the high-ticket items. The structured data
// stays in the response either way; only the narrative is lost when this
// call fails.
func (g *Gemini) Summarize(ctx context.Context, spendByMonth map[string]map[string]decimal.Decimal, highTicket []domain.Transaction) (string, error) {
	prompt := buildInsightPrompt(spendByMonth, highTicket)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("summarize spending: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("summarize spending: empty response from model")
	}
	return text, nil
}

// buildInsightPrompt lays out the breakdown deterministically (sorted months
// and categories) so identical inputs produce identical prompts.
func buildInsightPrompt(spendByMonth map[string]map[string]decimal.Decimal, highTicket []domain.Transaction) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant. Write a concise narrative report ")
	b.WriteString("(a few short paragraphs) about the following spending data. Point out the ")
	b.WriteString("largest spending categories, notable month-over-month changes, and the ")
	b.WriteString("significant purchases listed. Plain text only, no Markdown.\n\n")

	b.WriteString("Monthly spending by category:\n")
	months := make([]string, 0, len(spendByMonth))
	for month := range spendByMonth {
		months = append(months, month)
	}
	sort.Strings(months)
	for _, month := range months {
		byCategory := spendByMonth[month]
		categories := make([]string, 0, len(byCategory))
		for category := range byCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		b.WriteString(month + ":\n")
		for _, category := range categories {
			b.WriteString(fmt.Sprintf("  %s: $%s\n", category, byCategory[category].StringFixed(2)))
		}
	}

	if len(highTicket) > 0 {
		b.WriteString("\nSignificant transactions:\n")
		for _, tx := range highTicket {
			b.WriteString(fmt.Sprintf("  %s %s $%s (%s)\n", tx.Date, tx.Description, tx.Amount.Abs().StringFixed(2), tx.Category))
		}
	}

	return b.String()
}
