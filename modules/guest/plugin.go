package guest

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

const maxSweepInterval = time.Minute

// PluginModule owns the registry of guest task lists and evicts idle ones.
type PluginModule struct {
	container types.ServiceContainer
	registry  *Registry
	interval  time.Duration

	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates the plugin. ttl should match the session expiration.
func NewPluginModule(ttl time.Duration) *PluginModule {
	interval := ttl / 4
	if interval <= 0 || interval > maxSweepInterval {
		interval = maxSweepInterval
	}
	return &PluginModule{
		registry: NewRegistry(ttl),
		interval: interval,
	}
}

func (m *PluginModule) Name() string {
	return "guest"
}

func (m *PluginModule) Start(_ context.Context) error {
	m.stopChan = make(chan struct{})
	m.doneChan = make(chan struct{})
	go m.sweepLoop()

	log.Printf("[guest] Plugin started (sweep every %s)", m.interval)
	return nil
}

// Stop ends the sweeper and discards every guest list; they are not persisted.
func (m *PluginModule) Stop(ctx context.Context) error {
	if m.stopChan != nil {
		m.stopOnce.Do(func() { close(m.stopChan) })
		select {
		case <-m.doneChan:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	log.Printf("[guest] Plugin stopped (%d session list(s) discarded)", m.registry.Sessions())
	return nil
}

func (m *PluginModule) sweepLoop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	defer close(m.doneChan)

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			if n := m.registry.Evict(); n > 0 {
				log.Printf("[guest] Evicted %d idle session list(s)", n)
			}
		}
	}
}

func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Registry returns the per-session store registry.
func (m *PluginModule) Registry() *Registry {
	return m.registry
}

func (m *PluginModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"sessions": m.registry.Sessions(),
		},
	}
}
