package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"

	"farewatch/internal/dashboard"
	"farewatch/internal/fare"
	"farewatch/internal/history"
)

const defaultShowLimit = 20

// Show prints the recorded fare history followed by a summary block. The
// snapshot file is the default source; opts.FromArchive reads Postgres
// instead.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	if opts.Limit <= 0 {
		opts.Limit = defaultShowLimit
	}

	records, err := a.loadRecords(ctx, opts)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no recorded cycles yet")
		return nil
	}

	renderHistoryTable(os.Stdout, a.Config.Route.Origin, a.Config.Route.Destination, records)
	renderSummary(os.Stdout, records)
	return nil
}

func (a *App) loadRecords(ctx context.Context, opts ShowOptions) ([]fare.CycleRecord, error) {
	if opts.FromArchive {
		return a.loadArchivedRecords(ctx, opts.Limit)
	}

	path := a.Config.Watch.SnapshotPath
	if path == "" {
		return nil, errors.New("watch.snapshot_path not configured; nothing to show")
	}

	snap, err := history.Load(path)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("no snapshot found at %s", path)
	}

	records := snap.CycleRecords()
	if len(records) > opts.Limit {
		records = records[len(records)-opts.Limit:]
	}
	return records, nil
}

func (a *App) loadArchivedRecords(ctx context.Context, limit int) ([]fare.CycleRecord, error) {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("database.dsn not configured; cannot read the archive")
	}
	if closeStore != nil {
		defer closeStore()
	}

	cycles, err := store.ListRecentCycles(ctx, limit)
	if err != nil {
		return nil, err
	}

	// 归档按时间倒序返回，这里翻转成账本顺序。
	records := make([]fare.CycleRecord, 0, len(cycles))
	for i := len(cycles) - 1; i >= 0; i-- {
		c := cycles[i]
		records = append(records, fare.CycleRecord{
			Timestamp:      c.ObservedAt.Format(fare.TimestampLayout),
			OutboundLowest: c.OutboundLowest,
			ReturnLowest:   c.ReturnLowest,
			OutboundDelta:  c.OutboundDelta,
			ReturnDelta:    c.ReturnDelta,
			Deal:           c.Deal,
		})
	}
	return records, nil
}

func renderHistoryTable(out io.Writer, origin, destination string, records []fare.CycleRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("Recorded fares %s to %s", origin, destination))
	t.AppendHeader(table.Row{"Time", "Outbound", "Change", "Return", "Change", "Deal"})

	for _, rec := range records {
		deal := ""
		if rec.Deal {
			deal = "yes"
		}
		t.AppendRow(table.Row{
			rec.Timestamp,
			fmt.Sprintf("$%d", rec.OutboundLowest),
			dashboard.FormatDelta(rec.OutboundDelta),
			fmt.Sprintf("$%d", rec.ReturnLowest),
			dashboard.FormatDelta(rec.ReturnDelta),
			deal,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderSummary(out io.Writer, records []fare.CycleRecord) {
	outbound := make([]decimal.Decimal, 0, len(records))
	ret := make([]decimal.Decimal, 0, len(records))
	minOutbound := records[0].OutboundLowest
	minReturn := records[0].ReturnLowest
	deals := 0

	for _, rec := range records {
		outbound = append(outbound, decimal.NewFromInt(rec.OutboundLowest))
		ret = append(ret, decimal.NewFromInt(rec.ReturnLowest))
		if rec.OutboundLowest < minOutbound {
			minOutbound = rec.OutboundLowest
		}
		if rec.ReturnLowest < minReturn {
			minReturn = rec.ReturnLowest
		}
		if rec.Deal {
			deals++
		}
	}

	fmt.Fprintf(out, "cycles: %d  deals: %d\n", len(records), deals)
	fmt.Fprintf(out, "outbound: min $%d  avg $%s\n", minOutbound, decimal.Avg(outbound[0], outbound[1:]...).StringFixed(2))
	fmt.Fprintf(out, "return:   min $%d  avg $%s\n", minReturn, decimal.Avg(ret[0], ret[1:]...).StringFixed(2))
}
