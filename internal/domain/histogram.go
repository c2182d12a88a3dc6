package domain

type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type HistogramSeries struct {
	Label string         `json:"label"`
	Bins  []HistogramBin `json:"bins"`
}

// Histogram 为一张图表，可以叠加多个序列
type Histogram struct {
	Title  string            `json:"title"`
	XLabel string            `json:"xLabel"`
	YLabel string            `json:"yLabel"`
	Series []HistogramSeries `json:"series"`
	Marker *float64          `json:"marker,omitempty"` // 竖直标记线的位置，例如模拟均值
}
