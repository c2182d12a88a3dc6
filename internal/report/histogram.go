package report

import (
	"math"
	"slices"

	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const DefaultBins = 30

const (
	WaitingTimeLabel        = "Waiting Time (minutes)"
	AverageWaitingTimeLabel = "Average Waiting Time (minutes)"
	FrequencyLabel          = "Frequency"
)

// NewHistogramSeries 将 values 按等宽划分为 bins 个区间并计数，区间范围为数据的最小值到最大值
// values 中含有 NaN 或 ±Inf，或者范围本身溢出时返回不含区间的序列
func NewHistogramSeries(label string, values []float64, bins int) domain.HistogramSeries {
	series := domain.HistogramSeries{Label: label}
	if len(values) == 0 || bins <= 0 {
		return series
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	// slices.Sort 将 NaN 排在最前面
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsInf(hi-lo, 0) {
		return series
	}
	if lo == hi {
		// 所有值都相同时在两侧各留出 0.5 的宽度
		lo -= 0.5
		hi += 0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)

	// stat.Histogram 要求最大值严格小于最后一个分割点
	dividers := slices.Clone(edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	series.Bins = make([]domain.HistogramBin, bins)
	for i, cnt := range counts {
		series.Bins[i] = domain.HistogramBin{
			Lower: edges[i],
			Upper: edges[i+1],
			Count: int(cnt),
		}
	}
	return series
}

// BuildHistograms 生成两张图：分诊前后的等待时间对比，以及蒙特卡洛模拟的平均等待时间分布
func BuildHistograms(baseline, afterTriage, ensemble []float64, bins int) []domain.Histogram {
	comparison := domain.Histogram{
		Title:  "Baseline vs Waiting Times After Triage",
		XLabel: WaitingTimeLabel,
		YLabel: FrequencyLabel,
		Series: []domain.HistogramSeries{
			NewHistogramSeries("Baseline Waiting Times", baseline, bins),
			NewHistogramSeries("After Triage (Urgent/Non-Urgent)", afterTriage, bins),
		},
	}

	simulated := domain.Histogram{
		Title:  "Monte Carlo Simulation: Average Waiting Times (Urgent/Non-Urgent)",
		XLabel: AverageWaitingTimeLabel,
		YLabel: FrequencyLabel,
		Series: []domain.HistogramSeries{
			NewHistogramSeries("Simulated Average Waiting Times", ensemble, bins),
		},
	}
	if len(ensemble) > 0 {
		mean := stat.Mean(ensemble, nil)
		simulated.Marker = &mean
	}

	return []domain.Histogram{comparison, simulated}
}
