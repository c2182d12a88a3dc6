package utils

import (
	"math/rand/v2"
	"time"
)

// 每个随机流都使用独立的 PCG 状态，避免在 goroutine 之间共享
const (
	StreamSeverity uint64 = iota
	StreamBaseline
	StreamTrialBase
)

func NewSeededSource(seed int64, stream uint64) rand.Source {
	return rand.NewPCG(uint64(seed), stream)
}

// NewTrialSource 为第 trial 次试验生成独立的随机流，与执行顺序和并发度无关
func NewTrialSource(seed int64, trial int) rand.Source {
	return rand.NewPCG(uint64(seed), StreamTrialBase+uint64(trial))
}

func NewTimeSource() rand.Source {
	now := uint64(time.Now().UnixNano())
	return rand.NewPCG(now, now>>1|1)
}
