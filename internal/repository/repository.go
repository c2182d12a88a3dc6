package repository

import (
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/config"
)

type Repository struct {
	cfg *config.Config
	rdb redis.Cmdable
}

func NewRepository(cfg *config.Config, rdb redis.Cmdable) *Repository {
	return &Repository{
		cfg: cfg,
		rdb: rdb,
	}
}
