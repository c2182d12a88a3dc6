package simulator

import (
	"context"

	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/utils"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// generatePopulation 生成基线等待时间和严重程度，两者使用不同的随机流
// 基线等待时间服从正态分布且不做截断，可能出现负值
func generatePopulation(p *Parameters) *domain.Population {
	baselineSrc := utils.NewTimeSource()
	if p.BaselineSeeded {
		baselineSrc = utils.NewSeededSource(p.Seed, utils.StreamBaseline)
	}

	baseline := distuv.Normal{Mu: p.BaselineMean, Sigma: p.BaselineStd, Src: baselineSrc}
	severity := distuv.Uniform{Min: 0, Max: 1, Src: utils.NewSeededSource(p.Seed, utils.StreamSeverity)}

	population := &domain.Population{
		BaselineWait: make([]float64, p.PatientCount),
		Severity:     make([]float64, p.PatientCount),
	}
	for i := range p.PatientCount {
		population.BaselineWait[i] = baseline.Rand()
	}
	for i := range p.PatientCount {
		population.Severity[i] = severity.Rand()
	}

	return population
}

func Classify(severity []float64, threshold float64) *domain.Classification {
	c := &domain.Classification{
		IsUrgent: make([]bool, len(severity)),
	}
	for i, v := range severity {
		c.IsUrgent[i] = v > threshold
	}
	return c
}

// ApplyTriage 返回按类别缩减后的等待时间，不修改 baseline
func ApplyTriage(baseline []float64, c *domain.Classification, policy domain.TriagePolicy) []float64 {
	after := make([]float64, len(baseline))
	for i, wait := range baseline {
		if c.IsUrgent[i] {
			after[i] = wait * (1 - policy.UrgentReduction)
		} else {
			after[i] = wait * (1 - policy.NonUrgentReduction)
		}
	}
	return after
}

// runTrials 并发执行所有试验，第 i 次试验的结果写入 ensemble[i]
func (s *Simulator) runTrials(ctx context.Context) ([]float64, error) {
	ensemble := make([]float64, s.parameters.TrialCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	for i := range s.parameters.TrialCount {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ensemble[i] = s.runTrial(i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// 循环可能因为外部取消而提前结束
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return ensemble, nil
}

// runTrial 对缩减比例加上 [-ε, ε] 的均匀扰动（不做截断），返回扰动后群体的平均等待时间
func (s *Simulator) runTrial(trial int) float64 {
	noise := distuv.Uniform{
		Min: -s.parameters.Noise,
		Max: s.parameters.Noise,
		Src: utils.NewTrialSource(s.parameters.Seed, trial),
	}

	policy := s.parameters.Policy()
	policy.UrgentReduction += noise.Rand()
	policy.NonUrgentReduction += noise.Rand()

	simulated := ApplyTriage(s.population.BaselineWait, s.classification, policy)
	return stat.Mean(simulated, nil)
}
