package simulator

import (
	"math"

	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize 计算报告用的四个统计量，模拟结果的标准差为总体标准差
func Summarize(baseline, afterTriage, ensemble []float64) domain.Summary {
	simulatedMean, simulatedStd := stat.PopMeanStdDev(ensemble, nil)
	// 所有试验结果相同时标准差严格为 0，两遍算法的舍入误差可能留下极小的余量
	if len(ensemble) > 0 && floats.Min(ensemble) == floats.Max(ensemble) {
		simulatedMean, simulatedStd = ensemble[0], 0
	}
	return domain.Summary{
		BaselineMeanWait:  stat.Mean(baseline, nil),
		ImprovedMeanWait:  stat.Mean(afterTriage, nil),
		SimulatedMeanWait: simulatedMean,
		SimulatedStdWait:  simulatedStd,
	}
}

func allFinite(series ...[]float64) bool {
	for _, values := range series {
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
