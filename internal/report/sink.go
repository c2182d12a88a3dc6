package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
)

// DisplaySink 接收基线、分诊后以及模拟得到的序列，负责绘制直方图
type DisplaySink interface {
	Display(baseline, afterTriage, ensemble []float64) error
}

// ConsoleSink 接收四个汇总统计量
type ConsoleSink interface {
	Print(summary domain.Summary) error
}

const barWidth = 50

type TextDisplay struct {
	w    io.Writer
	bins int
}

func NewTextDisplay(w io.Writer, bins int) *TextDisplay {
	if bins <= 0 {
		bins = DefaultBins
	}
	return &TextDisplay{w: w, bins: bins}
}

func (d *TextDisplay) Display(baseline, afterTriage, ensemble []float64) error {
	for _, h := range BuildHistograms(baseline, afterTriage, ensemble, d.bins) {
		if err := d.render(h); err != nil {
			return err
		}
	}
	return nil
}

func (d *TextDisplay) render(h domain.Histogram) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", h.Title)
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", len(h.Title)))
	fmt.Fprintf(&b, "x: %s, y: %s\n", h.XLabel, h.YLabel)

	maxCount := 0
	for _, series := range h.Series {
		for _, bin := range series.Bins {
			maxCount = max(maxCount, bin.Count)
		}
	}

	for _, series := range h.Series {
		fmt.Fprintf(&b, "\n%s\n", series.Label)
		for i, bin := range series.Bins {
			width := 0
			if maxCount > 0 {
				width = bin.Count * barWidth / maxCount
			}
			fmt.Fprintf(&b, "  [%9.2f, %9.2f) | %-*s %d", bin.Lower, bin.Upper, barWidth, strings.Repeat("#", width), bin.Count)
			if h.Marker != nil && containsMarker(series.Bins, i, *h.Marker) {
				fmt.Fprintf(&b, "  <-- Mean Simulated Time (%.2f)", *h.Marker)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(d.w, b.String())
	return err
}

// 最后一个区间包含右端点
func containsMarker(bins []domain.HistogramBin, i int, marker float64) bool {
	bin := bins[i]
	if i == len(bins)-1 {
		return marker >= bin.Lower && marker <= bin.Upper
	}
	return marker >= bin.Lower && marker < bin.Upper
}

type TextConsole struct {
	w io.Writer
}

func NewTextConsole(w io.Writer) *TextConsole {
	return &TextConsole{w: w}
}

func (c *TextConsole) Print(summary domain.Summary) error {
	_, err := fmt.Fprintf(c.w,
		"%-24s %10.4f\n%-24s %10.4f\n%-24s %10.4f\n%-24s %10.4f\n",
		"baseline_mean_wait", summary.BaselineMeanWait,
		"improved_mean_wait", summary.ImprovedMeanWait,
		"simulated_mean_wait", summary.SimulatedMeanWait,
		"simulated_std_wait", summary.SimulatedStdWait,
	)
	return err
}
