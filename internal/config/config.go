package config

// Config is the root configuration for an ingestd instance.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	API       APIConfig       `yaml:"api"`
	Database  DBConfig        `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Backfill  BackfillConfig  `yaml:"backfill"`
	Server    ServerConfig    `yaml:"server"`
	Bus       BusConfig       `yaml:"bus"`
}

// InstanceConfig identifies this ingestd instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds Polygon API settings.
type APIConfig struct {
	BaseURL    string   `yaml:"base_url"`
	APIKey     string   `yaml:"api_key"`
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`
}

// DBConfig holds the PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RedisConfig holds the Redis state-store connection.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DiscoveryConfig holds ticker discovery settings.
type DiscoveryConfig struct {
	Interval        Duration `yaml:"interval"`
	PageLimit       int      `yaml:"page_limit"`
	RediscoverAfter Duration `yaml:"rediscover_after"`
}

// BackfillConfig holds aggregate backfill settings.
//
// StartDate is the epoch the first window of a fresh ticker reaches back to.
// MigrationDate is the boundary at which Polygon changed bucket semantics;
// windows before it use fine-grained bars, windows on or after it cover one
// whole day each.
type BackfillConfig struct {
	Interval      Duration `yaml:"interval"`
	StartDate     string   `yaml:"start_date"`
	MigrationDate string   `yaml:"migration_date"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	ArtifactDir string `yaml:"artifact_dir"`
}

// BusConfig holds completion-channel settings.
type BusConfig struct {
	Channel string `yaml:"channel"`
}
