package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL         = "https://api.polygon.io"
	DefaultAPITimeout      = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultRedisAddr       = "localhost:6379"
	DefaultDiscoveryEvery  = time.Minute
	DefaultPageLimit       = 1000
	DefaultRediscoverAfter = 10 * time.Hour
	DefaultBackfillEvery   = 15 * time.Second
	DefaultStartDate       = "2024-01-01"
	DefaultMigrationDate   = "2024-06-01"
	DefaultServerPort      = 8080
	DefaultArtifactDir     = "artifacts"
	DefaultBusChannel      = "GENERATE_PREDICTION"
)

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = Duration(DefaultAPITimeout)
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}

	if c.Discovery.Interval == 0 {
		c.Discovery.Interval = Duration(DefaultDiscoveryEvery)
	}
	if c.Discovery.PageLimit == 0 {
		c.Discovery.PageLimit = DefaultPageLimit
	}
	if c.Discovery.RediscoverAfter == 0 {
		c.Discovery.RediscoverAfter = Duration(DefaultRediscoverAfter)
	}

	if c.Backfill.Interval == 0 {
		c.Backfill.Interval = Duration(DefaultBackfillEvery)
	}
	if c.Backfill.StartDate == "" {
		c.Backfill.StartDate = DefaultStartDate
	}
	if c.Backfill.MigrationDate == "" {
		c.Backfill.MigrationDate = DefaultMigrationDate
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ArtifactDir == "" {
		c.Server.ArtifactDir = DefaultArtifactDir
	}

	if c.Bus.Channel == "" {
		c.Bus.Channel = DefaultBusChannel
	}
}
