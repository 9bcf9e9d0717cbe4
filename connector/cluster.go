package connector

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
)

// Cluster groups a primary connection with read replicas. Writes always
// go to the primary; reads follow the configured strategy.
type Cluster struct {
	config   ClusterConfig
	primary  Connection
	replicas []Connection
	mu       sync.Mutex
	readIdx  int
}

// NewCluster assembles a cluster from already-established connections.
func NewCluster(cfg ClusterConfig, primary Connection, replicas ...Connection) *Cluster {
	return &Cluster{
		config:   cfg,
		primary:  primary,
		replicas: replicas,
	}
}

// ConnectCluster validates the config, then dials the primary and every
// replica through the named provider. Any failure closes the connections
// opened so far.
func ConnectCluster(ctx context.Context, provider string, cfg ClusterConfig) (*Cluster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	primaryConnector, err := New(provider, cfg.Primary)
	if err != nil {
		return nil, err
	}
	primary, err := primaryConnector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to primary: %w", err)
	}

	var replicas []Connection
	for i, replicaCfg := range cfg.Replicas {
		replicaConnector, err := New(provider, replicaCfg)
		if err == nil {
			var replica Connection
			replica, err = replicaConnector.Connect(ctx)
			if err == nil {
				replicas = append(replicas, replica)
				continue
			}
		}
		primary.Close()
		for _, r := range replicas {
			r.Close()
		}
		return nil, fmt.Errorf("failed to connect to replica %d: %w", i, err)
	}

	return NewCluster(cfg, primary, replicas...), nil
}

// Primary returns the primary connection.
func (c *Cluster) Primary() Connection {
	return c.primary
}

// Replicas returns the replica connections.
func (c *Cluster) Replicas() []Connection {
	out := make([]Connection, len(c.replicas))
	copy(out, c.replicas)
	return out
}

// Read picks a connection for read traffic based on the read strategy.
// Without replicas every read goes to the primary.
func (c *Cluster) Read() Connection {
	if len(c.replicas) == 0 {
		return c.primary
	}

	switch c.config.ReadStrategy {
	case "random":
		return c.replicas[rand.Intn(len(c.replicas))]
	case "round_robin":
		c.mu.Lock()
		idx := c.readIdx % len(c.replicas)
		c.readIdx++
		c.mu.Unlock()
		return c.replicas[idx]
	default:
		return c.primary
	}
}

// Write returns the connection for write traffic, always the primary.
func (c *Cluster) Write() Connection {
	return c.primary
}

// Health checks every connection in the cluster.
func (c *Cluster) Health(ctx context.Context) error {
	if err := c.primary.Health(ctx); err != nil {
		return fmt.Errorf("primary health check failed: %w", err)
	}
	for i, replica := range c.replicas {
		if err := replica.Health(ctx); err != nil {
			return fmt.Errorf("replica %d health check failed: %w", i, err)
		}
	}
	return nil
}

// Stats aggregates pool statistics across all connections.
func (c *Cluster) Stats() ConnectionStats {
	stats := c.primary.Stats()
	for _, replica := range c.replicas {
		rs := replica.Stats()
		stats.OpenConnections += rs.OpenConnections
		stats.InUse += rs.InUse
		stats.Idle += rs.Idle
	}
	return stats
}

// Close closes every connection, returning the last error seen.
func (c *Cluster) Close() error {
	var lastErr error
	if err := c.primary.Close(); err != nil {
		lastErr = err
	}
	for _, replica := range c.replicas {
		if err := replica.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
