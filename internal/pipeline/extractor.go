package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Extractor turns raw statement text into the model's generic JSON output.
// The interface exists so the orchestration and the HTTP layer can be tested
// without a live model.
type Extractor interface {
	ExtractStatement(ctx context.Context, statementText string) (map[string]interface{}, error)
}

// GeminiExtractor is the concrete Extractor backed by Gemini.
type GeminiExtractor struct {
	apiKey string
	model  string
}

// NewGeminiExtractor creates an extractor for the given API key and model
// name. An empty model falls back to DefaultModelName.
func NewGeminiExtractor(apiKey, model string) *GeminiExtractor {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiExtractor{apiKey: apiKey, model: model}
}

// ExtractStatement sends the statement text to Gemini and returns the parsed
// JSON object. It expects the model to return a STRICT JSON object; Markdown
// fences and surrounding junk are stripped when the model ignores that.
func (e *GeminiExtractor) ExtractStatement(ctx context.Context, statementText string) (map[string]interface{}, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      e.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ExtractStatement: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildStatementPrompt()},
				{Text: "Statement text:\n\n" + statementText},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("ExtractStatement: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("ExtractStatement: empty response from model")
	}

	clean := cleanModelJSON(rawText)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("ExtractStatement: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	return parsed, nil
}

// cleanModelJSON strips Markdown fences and surrounding text so that only
// the JSON object remains.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			// Single-line weirdness; just return as-is.
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: if there's still junk around the JSON object,
	// keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = s[start : end+1]
			s = strings.TrimSpace(s)
		}
	}

	return s
}
