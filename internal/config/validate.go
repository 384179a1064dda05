package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.API.APIKey == "" {
		return errors.New("api.api_key is required")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Redis.Addr == "" {
		return errors.New("redis.addr is required")
	}

	if c.Discovery.PageLimit < 1 {
		return errors.New("discovery.page_limit must be >= 1")
	}

	if _, err := time.Parse("2006-01-02", c.Backfill.StartDate); err != nil {
		return fmt.Errorf("backfill.start_date must be YYYY-MM-DD, got %q", c.Backfill.StartDate)
	}
	if _, err := time.Parse("2006-01-02", c.Backfill.MigrationDate); err != nil {
		return fmt.Errorf("backfill.migration_date must be YYYY-MM-DD, got %q", c.Backfill.MigrationDate)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	return nil
}
