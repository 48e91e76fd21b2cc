// Package suggest turns a short keyword into to-do sized task suggestions
// using a generative text endpoint.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/taskboard/domain/apperr"
)

// MaxSuggestions is the most suggestions Suggest returns.
const MaxSuggestions = 5

const promptTemplate = `You are a helpful assistant. A user has entered the keyword: %q.
Your goal is to generate a list of 5 helpful, relevant, and actionable items based on this keyword.
- If the keyword is a large project or goal (like "learn javascript"), break it down into smaller, concrete tasks.
- If the keyword is a creative request (like "healthy snack ideas" or "food chart for the week"), generate a list of creative suggestions or examples that would be the *result* of the request.
- The items in the list should be short and suitable for a to-do list.

Return ONLY a valid JSON array of strings. Do not include any other text or markdown.
Example for "learn javascript": ["Read about variables and data types", "Complete a tutorial on functions", "Build a simple calculator app"]
Example for "food chart for the week": ["Monday: Oatmeal for breakfast, Salad for lunch, Chicken and veggies for dinner", "Tuesday: Yogurt with fruit for breakfast, Sandwich for lunch, Pasta for dinner", "Wednesday: Eggs for breakfast, Leftover pasta for lunch, Fish and rice for dinner"]`

// ErrNoSuggestions is returned when the model answers with an empty list.
var ErrNoSuggestions = fmt.Errorf("%w: no suggestions returned", apperr.ErrEmptyResult)

// Suggester wraps a Generator with the task prompt and output parsing.
type Suggester struct {
	gen Generator
}

// NewSuggester creates a Suggester.
func NewSuggester(gen Generator) *Suggester {
	return &Suggester{gen: gen}
}

// BuildPrompt returns the prompt sent for keyword.
func BuildPrompt(keyword string) string {
	return fmt.Sprintf(promptTemplate, keyword)
}

// Suggest makes one generation call and returns the first MaxSuggestions items.
// There is no retry; cancellation and deadlines come from ctx.
func (s *Suggester) Suggest(ctx context.Context, keyword string) ([]string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.Validation("keyword is required")
	}

	text, err := s.gen.Generate(ctx, BuildPrompt(keyword))
	if err != nil {
		if apperr.Is(err, apperr.ErrUpstream) {
			return nil, err
		}
		return nil, apperr.Upstream("%v", err)
	}

	items, err := ParseSuggestions(text)
	if err != nil {
		return nil, err
	}
	if len(items) > MaxSuggestions {
		items = items[:MaxSuggestions]
	}
	return items, nil
}

// ParseSuggestions decodes model text that must be a JSON array of strings.
// Surrounding whitespace and a markdown code fence are tolerated. Items are kept as returned.
func ParseSuggestions(text string) ([]string, error) {
	raw := stripFence(strings.TrimSpace(text))

	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return nil, apperr.Upstream("response is not a JSON array of strings")
	}
	if len(items) == 0 {
		return nil, ErrNoSuggestions
	}
	return items, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
