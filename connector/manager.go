package connector

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

// Manager holds the registered providers.
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// Register makes a provider available under name. Providers call this
// from init, so importing a provider package is enough to enable it.
func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[name] = provider
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	names := make([]string, 0, len(globalManager.providers))
	for name := range globalManager.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds a Connector for the named provider and config.
func New(name string, config Config) (Connector, error) {
	globalManager.mu.RLock()
	provider, ok := globalManager.providers[name]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %q not registered", name)
	}
	return &standardConnector{provider: provider, config: config}, nil
}

type standardConnector struct {
	provider Provider
	config   Config
}

// Connect dials the configured target, honoring config.Retry when set.
func (c *standardConnector) Connect(ctx context.Context) (Connection, error) {
	if c.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}
	if c.config.Retry != nil {
		return retryConnect(ctx, c.config.Retry, c.dial)
	}
	return c.dial(ctx)
}

// ConnectWithRetry dials with explicit retry settings, overriding any
// retry block in the config.
func (c *standardConnector) ConnectWithRetry(ctx context.Context, retry RetryConfig) (Connection, error) {
	return retryConnect(ctx, &retry, c.dial)
}

func (c *standardConnector) dial(ctx context.Context) (Connection, error) {
	return c.provider.Connect(ctx, c.config)
}

func (c *standardConnector) Close() error {
	return nil
}
