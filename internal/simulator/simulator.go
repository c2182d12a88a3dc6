package simulator

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/utils"
)

var newValidator = sync.OnceValues(utils.NewValidator)

type Simulator struct {
	parameters     *Parameters
	population     *domain.Population
	classification *domain.Classification
}

// New 校验参数并生成患者群体及其分类，之后所有试验都只读地复用它们
func New(parameters *Parameters) (*Simulator, error) {
	validate, err := newValidator()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(parameters); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	p := *parameters
	population := generatePopulation(&p)

	return &Simulator{
		parameters:     &p,
		population:     population,
		classification: Classify(population.Severity, p.SeverityThreshold),
	}, nil
}

func (s *Simulator) Population() *domain.Population {
	return s.population
}

func (s *Simulator) Classification() *domain.Classification {
	return s.classification
}

func (s *Simulator) workers() int {
	if s.parameters.Workers > 0 {
		return s.parameters.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (s *Simulator) Run(ctx context.Context) (*domain.SimulationResult, error) {
	start := time.Now()

	// 确定性分诊：使用固定的缩减比例计算一次
	afterTriage := ApplyTriage(s.population.BaselineWait, s.classification, s.parameters.Policy())

	// 蒙特卡洛重采样
	ensemble, err := s.runTrials(ctx)
	if err != nil {
		return nil, err
	}

	// 参数虽在范围内，但扰动或取值组合仍可能使结果溢出
	// 没有患者时试验均值本身就是 NaN，不属于溢出
	finite := allFinite(s.population.BaselineWait, afterTriage)
	if s.population.Size() > 0 {
		finite = finite && allFinite(ensemble)
	}
	if !finite {
		return nil, fmt.Errorf("%w: simulation produced non-finite waiting times", ErrInvalidParameter)
	}

	summary := Summarize(s.population.BaselineWait, afterTriage, ensemble)
	summary.UrgentCount = s.classification.UrgentCount()
	if n := s.population.Size(); n > 0 {
		summary.UrgentFraction = float64(summary.UrgentCount) / float64(n)
	}

	return &domain.SimulationResult{
		Parameters:   s.parameters.Domain(),
		BaselineWait: s.population.BaselineWait,
		AfterTriage:  afterTriage,
		Ensemble:     ensemble,
		Summary:      summary,
		Duration:     time.Since(start),
	}, nil
}

// RunWithTimeout 在 timeout 内完成模拟，timeout <= 0 表示不限制时间
func (s *Simulator) RunWithTimeout(ctx context.Context, timeout time.Duration) (*domain.SimulationResult, error) {
	if timeout <= 0 {
		return s.Run(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Run(ctx)
}
