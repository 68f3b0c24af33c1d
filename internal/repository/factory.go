// Package repository provides the initialization for repository implementations
package repository

import (
	"log"

	"github.com/navikt/meetingplanner/internal/config"
	"github.com/navikt/meetingplanner/internal/repository/memory"
	"github.com/navikt/meetingplanner/internal/repository/redis"
)

var (
	_ Repository = (*memory.Repository)(nil)
	_ Repository = (*redis.Repository)(nil)
)

// NewRepository returns a Redis backed repository when Redis is enabled,
// and an in-memory repository otherwise
func NewRepository(cfg config.RedisConfig) (Repository, error) {
	if !cfg.Enabled {
		log.Printf("Redis disabled, using in-memory repository")
		return memory.NewRepository(), nil
	}

	repo, err := redis.NewRepository(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("Using Redis repository with key prefix %q", cfg.KeyPrefix)
	return repo, nil
}
