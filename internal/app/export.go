package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"farewatch/internal/fare"
	"farewatch/internal/history"
)

// Export renders the recorded fare history as CSV and/or PNG. The snapshot
// file is the source; exporting works without a database.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	path := a.Config.Watch.SnapshotPath
	if path == "" {
		return errors.New("watch.snapshot_path not configured; nothing to export")
	}

	snap, err := history.Load(path)
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no snapshot found at %s", path)
	}

	records, err := filterWindow(snap.CycleRecords(), opts.From, opts.To)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		a.Logger.Info().Msg("no recorded cycles in export window")
		return nil
	}

	downsampled := downsampleRecords(records, opts.MaxPoints)
	a.Logger.Info().Int("total", len(records)).Int("exported", len(downsampled)).Msg("exporting recorded cycles")

	if opts.CSVPath != "" {
		if err := writeRecordsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := a.writeRecordsPNG(opts.PNGPath, downsampled); err != nil {
			return err
		}
	}

	return nil
}

// filterWindow keeps records whose timestamp falls in [from, to). Nil bounds
// are open.
func filterWindow(records []fare.CycleRecord, from, to *time.Time) ([]fare.CycleRecord, error) {
	if from != nil && to != nil && !from.Before(*to) {
		return nil, errors.New("from must be before to")
	}
	if from == nil && to == nil {
		return records, nil
	}

	kept := make([]fare.CycleRecord, 0, len(records))
	for _, rec := range records {
		ts, err := rec.Time()
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", rec.Timestamp, err)
		}
		if from != nil && ts.Before(*from) {
			continue
		}
		if to != nil && !ts.Before(*to) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept, nil
}

func downsampleRecords(records []fare.CycleRecord, max int) []fare.CycleRecord {
	if max <= 0 || len(records) <= max {
		return records
	}

	result := make([]fare.CycleRecord, 0, max)
	step := float64(len(records)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(records) {
			idx = len(records) - 1
		}
		result = append(result, records[idx])
	}
	return result
}

func writeRecordsCSV(path string, records []fare.CycleRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"timestamp", "outbound_lowest", "outbound_delta_kind", "outbound_delta_amount", "return_lowest", "return_delta_kind", "return_delta_amount", "deal"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			rec.Timestamp,
			strconv.FormatInt(rec.OutboundLowest, 10),
			string(rec.OutboundDelta.Kind),
			strconv.FormatInt(rec.OutboundDelta.Amount, 10),
			strconv.FormatInt(rec.ReturnLowest, 10),
			string(rec.ReturnDelta.Kind),
			strconv.FormatInt(rec.ReturnDelta.Amount, 10),
			strconv.FormatBool(rec.Deal),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

func (a *App) writeRecordsPNG(path string, records []fare.CycleRecord) error {
	// go-chart 的时间序列至少需要两个点。
	if len(records) < 2 {
		return errors.New("need at least two recorded cycles to plot")
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(records))
	outbound := make([]float64, len(records))
	ret := make([]float64, len(records))
	for i, rec := range records {
		ts, err := rec.Time()
		if err != nil {
			return fmt.Errorf("record %q: %w", rec.Timestamp, err)
		}
		x[i] = ts
		outbound[i] = float64(rec.OutboundLowest)
		ret[i] = float64(rec.ReturnLowest)
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
				XValues: x,
				YValues: outbound,
			},
			chart.TimeSeries{
				Name:    "Return",
				XValues: x,
				YValues: ret,
			},
		},
	}
	if threshold := a.Config.Watch.DealThreshold(); threshold != nil {
		level := make([]float64, len(x))
		for i := range level {
			level[i] = float64(*threshold)
		}
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    "Deal price",
			XValues: x,
			YValues: level,
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
