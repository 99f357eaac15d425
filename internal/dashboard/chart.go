package dashboard

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	chart "github.com/wcharczuk/go-chart/v2"

	"farewatch/internal/airports"
	"farewatch/internal/fare"
)

// ChartFile keeps a PNG chart of the fare history up to date on disk. Points
// accumulate via PlotRecord; Render rewrites the file when new points have
// arrived. go-chart needs at least two points per series, so rendering is
// skipped until a second cycle has been recorded.
type ChartFile struct {
	path      string
	threshold *int64
	logger    zerolog.Logger

	times    []time.Time
	outbound []float64
	ret      []float64
	dirty    bool
}

// NewChartFile constructs a chart presenter writing to path. threshold, when
// set, is drawn as a horizontal deal-price line.
func NewChartFile(path string, threshold *int64, logger zerolog.Logger) *ChartFile {
	return &ChartFile{
		path:      path,
		threshold: threshold,
		logger:    logger.With().Str("component", "chart").Logger(),
	}
}

func (p *ChartFile) ShowRoute(origin, destination airports.Airport) {}

func (p *ChartFile) LogRecord(fare.CycleRecord) {}

func (p *ChartFile) PlotRecord(rec fare.CycleRecord) {
	ts, err := rec.Time()
	if err != nil {
		p.logger.Warn().Err(err).Str("timestamp", rec.Timestamp).Msg("unplottable record timestamp")
		return
	}
	p.times = append(p.times, ts)
	p.outbound = append(p.outbound, float64(rec.OutboundLowest))
	p.ret = append(p.ret, float64(rec.ReturnLowest))
	p.dirty = true
}

func (p *ChartFile) Render() {
	if !p.dirty || len(p.times) < 2 {
		return
	}
	if err := p.renderPNG(); err != nil {
		p.logger.Warn().Err(err).Str("path", p.path).Msg("chart render failed")
		return
	}
	p.dirty = false
}

func (p *ChartFile) renderPNG() error {
	if dir := filepath.Dir(p.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	fareFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "$%.0f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Lowest fare",
			ValueFormatter: fareFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Outbound",
				XValues: p.times,
				YValues: p.outbound,
			},
			chart.TimeSeries{
				Name:    "Return",
				XValues: p.times,
				YValues: p.ret,
			},
		},
	}
	if p.threshold != nil {
		level := make([]float64, len(p.times))
		for i := range level {
			level[i] = float64(*p.threshold)
		}
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    "Deal price",
			XValues: p.times,
			YValues: level,
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(p.path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

var _ Presenter = (*ChartFile)(nil)
