package suggest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// SuggestPort is the contract the HTTP API uses to request suggestions.
type SuggestPort interface {
	Suggest(ctx context.Context, keyword string) ([]string, error)
}

type suggestAdapter struct {
	container mono.ServiceContainer
}

// NewSuggestAdapter creates a new adapter for the suggest-tasks service.
func NewSuggestAdapter(container mono.ServiceContainer) SuggestPort {
	if container == nil {
		panic("suggest adapter requires non-nil ServiceContainer")
	}
	return &suggestAdapter{container: container}
}

// Suggest calls the suggest-tasks service.
func (a *suggestAdapter) Suggest(ctx context.Context, keyword string) ([]string, error) {
	req := SuggestRequest{Keyword: keyword}
	var resp SuggestResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"suggest-tasks",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("suggest-tasks service call failed: %w", err)
	}
	return resp.Suggestions, nil
}
