package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/taskboard/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// SuggestRequest asks for suggestions for a keyword.
type SuggestRequest struct {
	Keyword string `json:"keyword"`
}

// SuggestResponse carries up to MaxSuggestions items.
type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// SuggestModule exposes the suggestion bridge as a request-reply service.
type SuggestModule struct {
	cfg       config.AIConfig
	suggester *Suggester
}

var _ mono.Module = (*SuggestModule)(nil)
var _ mono.ServiceProviderModule = (*SuggestModule)(nil)
var _ mono.HealthCheckableModule = (*SuggestModule)(nil)

// NewModule creates a module that talks to the configured generation endpoint.
func NewModule(cfg config.AIConfig) *SuggestModule {
	return &SuggestModule{cfg: cfg}
}

func (m *SuggestModule) Name() string {
	return "suggest"
}

func (m *SuggestModule) Start(_ context.Context) error {
	gen, err := NewLLMGenerator(m.cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	m.suggester = NewSuggester(gen)
	if m.cfg.APIKey == "" {
		log.Println("[suggest] Warning: no API key configured, suggestions will fail")
	}
	log.Printf("[suggest] Module started (model: %s)", m.cfg.Model)
	return nil
}

func (m *SuggestModule) Stop(_ context.Context) error {
	log.Println("[suggest] Module stopped")
	return nil
}

func (m *SuggestModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.suggester != nil,
		Message: "operational",
		Details: map[string]any{
			"model":          m.cfg.Model,
			"key_configured": m.cfg.APIKey != "",
		},
	}
}

func (m *SuggestModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "suggest-tasks", json.Unmarshal, json.Marshal, m.suggestTasks,
	); err != nil {
		return fmt.Errorf("failed to register suggest-tasks service: %w", err)
	}
	log.Printf("[suggest] Registered services: suggest-tasks")
	return nil
}

func (m *SuggestModule) suggestTasks(ctx context.Context, req SuggestRequest, _ *mono.Msg) (SuggestResponse, error) {
	items, err := m.suggester.Suggest(ctx, req.Keyword)
	if err != nil {
		log.Printf("[suggest] Suggestion failed: %v", err)
		return SuggestResponse{}, err
	}
	return SuggestResponse{Suggestions: items}, nil
}
