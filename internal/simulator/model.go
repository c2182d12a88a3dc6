package simulator

import (
	"errors"

	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/config"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
)

var ErrInvalidParameter = errors.New("invalid parameter")

// 蒙特卡洛模拟参数
type Parameters struct {
	PatientCount       int     `json:"patientCount" validate:"gte=0"`                    // 患者数量 N
	TrialCount         int     `json:"trialCount" validate:"gte=0"`                      // 试验次数 M
	BaselineMean       float64 `json:"baselineMean" validate:"gte=-1000000,lte=1000000"` // 基线等待时间均值（分钟）
	BaselineStd        float64 `json:"baselineStd" validate:"gte=0,lte=1000000"`         // 基线等待时间标准差（分钟）
	SeverityThreshold  float64 `json:"severityThreshold" validate:"gte=0,lte=1"`         // 严重程度超过该阈值即为紧急
	UrgentReduction    float64 `json:"urgentReduction" validate:"gte=0,lte=1"`           // 紧急患者等待时间缩减比例
	NonUrgentReduction float64 `json:"nonUrgentReduction" validate:"gte=0,lte=1"`        // 非紧急患者等待时间缩减比例
	Noise              float64 `json:"noise" validate:"gte=0"`                           // 每次试验中缩减比例扰动的半宽 ε
	Seed               int64   `json:"seed"`                                             // 随机种子
	BaselineSeeded     bool    `json:"baselineSeeded"`                                   // 为 false 时基线等待时间不使用种子
	Workers            int     `json:"workers" validate:"gte=0"`                         // 并发试验数，0 表示 GOMAXPROCS
}

func DefaultParameters() Parameters {
	return Parameters{
		PatientCount:       1000,
		TrialCount:         500,
		BaselineMean:       60,
		BaselineStd:        15,
		SeverityThreshold:  0.7,
		UrgentReduction:    0.6,
		NonUrgentReduction: 0.3,
		Noise:              0.05,
		Seed:               45,
		BaselineSeeded:     true,
	}
}

func ParametersFromConfig(cfg *config.Config) Parameters {
	sim := cfg.Simulation
	return Parameters{
		PatientCount:       sim.PatientCount,
		TrialCount:         sim.TrialCount,
		BaselineMean:       sim.BaselineMean,
		BaselineStd:        sim.BaselineStd,
		SeverityThreshold:  sim.SeverityThreshold,
		UrgentReduction:    sim.UrgentReduction,
		NonUrgentReduction: sim.NonUrgentReduction,
		Noise:              sim.Noise,
		Seed:               sim.Seed,
		BaselineSeeded:     sim.BaselineSeeded,
		Workers:            sim.Workers,
	}
}

func (p *Parameters) Policy() domain.TriagePolicy {
	return domain.TriagePolicy{
		UrgentReduction:    p.UrgentReduction,
		NonUrgentReduction: p.NonUrgentReduction,
	}
}

func (p *Parameters) Domain() domain.SimulationParameters {
	return domain.SimulationParameters{
		PatientCount:       p.PatientCount,
		TrialCount:         p.TrialCount,
		BaselineMean:       p.BaselineMean,
		BaselineStd:        p.BaselineStd,
		SeverityThreshold:  p.SeverityThreshold,
		UrgentReduction:    p.UrgentReduction,
		NonUrgentReduction: p.NonUrgentReduction,
		Noise:              p.Noise,
		Seed:               p.Seed,
		BaselineSeeded:     p.BaselineSeeded,
	}
}
