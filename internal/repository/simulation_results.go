package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
)

var ErrCacheMiss = errors.New("simulation result not cached")

// SimulationResultKey 由模拟参数计算缓存键，相同参数（且基线使用种子）得到的结果完全相同
func SimulationResultKey(params domain.SimulationParameters) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("simulation_result_%s", strconv.FormatUint(xxhash.Sum64(data), 16)), nil
}

func (r *Repository) GetSimulationResult(ctx context.Context, key string) (*domain.SimulationResult, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	result := &domain.SimulationResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository) SaveSimulationResult(ctx context.Context, key string, result *domain.SimulationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	expiration := time.Duration(r.cfg.Redis.ResultExpiration) * time.Second
	return r.rdb.Set(ctx, key, data, expiration).Err()
}
