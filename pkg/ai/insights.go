/*
Package ai generates the free-text market-insights section of a specialty
report from the researched company set, using the Gemini API.
*/
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/gulfbridge/medscout/pkg/record"
)

const DefaultModel = "gemini-2.0-flash"

type MarketInsights struct {
	Summary       []string `json:"summary"`
	Opportunities []string `json:"opportunities"`
}

var systemInstruction = `
You are a business-development analyst specialized in medical equipment
distribution for the Gulf region (GCC: UAE, Saudi Arabia, Kuwait, Qatar,
Bahrain, Oman).

You will receive structured research data for a set of manufacturers in one
medical equipment specialty: certifications (CE Mark, FDA clearance,
ISO 13485), Gulf presence, distribution model, and product lines.

Write a concise market assessment for a distributor evaluating which
manufacturers to approach for Gulf distribution partnerships. Prioritize:
1. Manufacturers with CE Mark (required for Gulf registration) but no
   existing Gulf distribution.
2. Manufacturers explicitly seeking partners.
3. Regulatory strength (FDA clearance count, ISO 13485) as a credibility
   signal in public-sector tenders.

Base every claim on the supplied data. Do not invent companies, products, or
certifications that are not in the input.
`

// Summarizer turns a researched company set into report prose.
type Summarizer struct {
	apiKey string
	model  string
}

func NewSummarizer(apiKey, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{apiKey: apiKey, model: model}
}

func (s *Summarizer) Insights(ctx context.Context, specialty string, companies []record.CompanyRecord) (*MarketInsights, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	data, err := json.Marshal(companies)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("Specialty: %s\n\nResearched manufacturers:\n%s", specialty, data)

	contents := []*genai.Content{
		{Role: "system", Parts: []*genai.Part{{Text: systemInstruction}}},
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := client.Models.GenerateContent(ctx, s.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	respText := resp.Text()

	var insights MarketInsights
	if err := json.Unmarshal([]byte(respText), &insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini JSON response: %w. Raw text: %s", err, respText)
	}

	return &insights, nil
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "3-5 bullet points assessing the specialty's market for Gulf distribution.",
			},
			"opportunities": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "The most promising manufacturers to approach, with a one-line rationale each.",
			},
		},
		Required: []string{"summary", "opportunities"},
	}
}
