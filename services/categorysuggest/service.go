package categorysuggest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"transport-requests/models/category"
	categoryTypes "transport-requests/types/category"
)

// CategoryLister provides the candidate categories for a suggestion.
type CategoryLister interface {
	FindAll() ([]category.Category, error)
}

// Service suggests the best matching cargo category for a free-text
// description using the Gemini API. Purely advisory: nothing in the request
// lifecycle depends on it.
type Service struct {
	categories CategoryLister
}

func NewService(categories CategoryLister) *Service {
	return &Service{categories: categories}
}

// Enabled reports whether a Gemini API key is configured.
func (s *Service) Enabled() bool {
	return os.Getenv("GEMINI_API_KEY") != ""
}

// Suggest asks Gemini to pick the seeded category that best matches the
// description.
func (s *Service) Suggest(ctx context.Context, description string) (*categoryTypes.Suggestion, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not found in environment variables")
	}

	candidates, err := s.categories.FindAll()
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no categories available for suggestion")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	var catalog strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&catalog, "- id=%s name=%q description=%q fragile=%t hazardous=%t temperature=%s\n",
			c.ID, c.Name, c.Description, c.Fragile, c.Hazardous, c.RequiredTemperature)
	}

	prompt := fmt.Sprintf(`You classify cargo for a freight transport platform.

Pick the single best matching category for this cargo description:
%q

Available categories:
%s
Return ONLY valid JSON in this format:
{
"category_id": string,   // the id of the chosen category
"name": string,          // its name, copied verbatim
"confidence": string,    // "high", "medium" or "low"
"reason": string         // one short sentence
}`, description, catalog.String())

	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate category suggestion: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated for category suggestion")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response for category suggestion")
	}

	jsonText := extractJSONFromMarkdown(responseText)

	var suggestion categoryTypes.Suggestion
	if err := json.Unmarshal([]byte(jsonText), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion response: %w, response: %s", err, jsonText)
	}

	// The model occasionally invents ids; accept only seeded categories.
	for _, c := range candidates {
		if c.ID == suggestion.CategoryID {
			return &suggestion, nil
		}
	}
	return nil, fmt.Errorf("suggestion referenced unknown category id %q", suggestion.CategoryID)
}

// extractJSONFromMarkdown extracts JSON content from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}
