// Package session provides cookie sessions as a mono plugin.
//
// Sessions live in Redis when an address is configured and in process memory otherwise.
package session

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/example/taskboard/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis/v3"
	goredis "github.com/redis/go-redis/v9"
)

// CookieName is the name of the session cookie.
const CookieName = "taskboard_session"

// PluginModule owns the session store shared by the api and guest modules.
type PluginModule struct {
	container types.ServiceContainer
	cfg       config.SessionConfig
	redis     *redis.Storage
	manager   *Manager
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a session plugin for the given configuration.
func NewPluginModule(cfg config.SessionConfig) *PluginModule {
	return &PluginModule{cfg: cfg}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "session"
}

// Start creates the backing storage and the session store.
func (m *PluginModule) Start(_ context.Context) error {
	storeCfg := fibersession.Config{
		Expiration:     m.cfg.Expiration,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   m.cfg.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	}

	backend := "memory"
	if m.cfg.RedisAddr != "" {
		m.redis = redis.New(redisConfig(m.cfg.RedisAddr, m.cfg.RedisPassword))
		storeCfg.Storage = m.redis
		backend = "redis " + m.cfg.RedisAddr
	}

	m.manager = NewManager(fibersession.New(storeCfg))
	log.Printf("[session] Plugin started (backend: %s, expiration: %s)", backend, m.cfg.Expiration)
	return nil
}

// Stop closes the Redis connection if one was opened.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.redis != nil {
		if err := m.redis.Close(); err != nil {
			log.Printf("[session] Error closing connection: %v", err)
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	log.Println("[session] Plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Manager returns the session manager. It is nil until Start has run.
func (m *PluginModule) Manager() *Manager {
	return m.manager
}

// Health pings Redis when it backs the store.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.manager == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "session store not initialized",
		}
	}
	if m.redis == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: map[string]any{"backend": "memory"},
		}
	}
	if err := m.redis.Conn().Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"backend":    "redis",
			"redis_addr": m.cfg.RedisAddr,
		},
	}
}

// redisConfig accepts either "host:port" or a redis:// URL. A password in the URL wins.
func redisConfig(addr, password string) redis.Config {
	cfg := redis.Config{Password: password, PoolSize: 10}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := goredis.ParseURL(addr); err == nil {
			cfg.Host, cfg.Port = parseRedisAddr(opts.Addr)
			cfg.Database = opts.DB
			if opts.Password != "" {
				cfg.Password = opts.Password
			}
			if opts.TLSConfig != nil {
				cfg.TLSConfig = opts.TLSConfig
			}
			return cfg
		}
	}
	cfg.Host, cfg.Port = parseRedisAddr(addr)
	return cfg
}

// parseRedisAddr parses "host:port", falling back to 127.0.0.1:6379.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
