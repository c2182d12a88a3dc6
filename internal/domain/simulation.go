package domain

import "time"

// Population 为平行数组形式的患者群体，生成后只读
type Population struct {
	BaselineWait []float64 `json:"baselineWait"` // 分诊前的等待时间（分钟）
	Severity     []float64 `json:"severity"`     // 症状严重程度，取值 [0, 1]
}

func (p *Population) Size() int {
	return len(p.BaselineWait)
}

// Classification 将每个患者划分为紧急或非紧急，两类互斥且覆盖全部患者
type Classification struct {
	IsUrgent []bool `json:"isUrgent"`
}

func (c *Classification) IsNonUrgent(i int) bool {
	return !c.IsUrgent[i]
}

func (c *Classification) UrgentCount() int {
	cnt := 0
	for _, urgent := range c.IsUrgent {
		if urgent {
			cnt++
		}
	}
	return cnt
}

// TriagePolicy 为两类患者等待时间的缩减比例
type TriagePolicy struct {
	UrgentReduction    float64 `json:"urgentReduction"`
	NonUrgentReduction float64 `json:"nonUrgentReduction"`
}

type SimulationParameters struct {
	PatientCount       int     `json:"patientCount"`
	TrialCount         int     `json:"trialCount"`
	BaselineMean       float64 `json:"baselineMean"`
	BaselineStd        float64 `json:"baselineStd"`
	SeverityThreshold  float64 `json:"severityThreshold"`
	UrgentReduction    float64 `json:"urgentReduction"`
	NonUrgentReduction float64 `json:"nonUrgentReduction"`
	Noise              float64 `json:"noise"`
	Seed               int64   `json:"seed"`
	BaselineSeeded     bool    `json:"baselineSeeded"`
}

type Summary struct {
	BaselineMeanWait  float64 `json:"baselineMeanWait"`
	ImprovedMeanWait  float64 `json:"improvedMeanWait"`
	SimulatedMeanWait float64 `json:"simulatedMeanWait"`
	SimulatedStdWait  float64 `json:"simulatedStdWait"`
	UrgentCount       int     `json:"urgentCount"`
	UrgentFraction    float64 `json:"urgentFraction"`
}

// SimulationResult 是一次模拟的完整结果，供展示和控制台输出使用
type SimulationResult struct {
	Parameters   SimulationParameters `json:"parameters"`
	BaselineWait []float64            `json:"baselineWait"`
	AfterTriage  []float64            `json:"afterTriage"`
	Ensemble     []float64            `json:"ensemble"` // 第 i 项为第 i 次试验的平均等待时间
	Summary      Summary              `json:"summary"`
	Duration     time.Duration        `json:"duration"`
}
