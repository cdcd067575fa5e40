package config

import (
	"fmt"
	"strings"
)

// Delivery log backends.
const (
	DeliveryLogMemory = "memory"
	DeliveryLogRedis  = "redis"
)

// DeliveryLogConfig selects where delivery reports are retained.
type DeliveryLogConfig struct {
	Backend  string `env:"BACKEND"  envDefault:"memory"`
	Capacity int    `env:"CAPACITY" envDefault:"500"`
	Key      string `env:"KEY"      envDefault:"alertdispatch:delivery_log"`
}

// Sanitize normalises the backend and capacity.
func (c *DeliveryLogConfig) Sanitize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = DeliveryLogMemory
	}
	if c.Capacity <= 0 {
		c.Capacity = 500
	}
	c.Key = strings.TrimSpace(c.Key)
}

// Validate rejects unknown backends.
func (c *DeliveryLogConfig) Validate() error {
	switch c.Backend {
	case DeliveryLogMemory, DeliveryLogRedis:
		return nil
	default:
		return fmt.Errorf("invalid DELIVERY_LOG_BACKEND: %q (valid options: memory, redis)", c.Backend)
	}
}

// UsesRedis reports whether the Redis backend is selected.
func (c *DeliveryLogConfig) UsesRedis() bool {
	return c.Backend == DeliveryLogRedis
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
