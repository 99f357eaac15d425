package app

import (
	"context"
	"errors"

	"farewatch/internal/history"
	"farewatch/internal/storage"
)

// Import copies snapshot records into the Postgres archive。重复导入是幂等的，
// 同一时间点的记录会被覆盖而不是追加。
func (a *App) Import(ctx context.Context, opts ImportOptions) error {
	path := a.Config.Watch.SnapshotPath
	if path == "" {
		return errors.New("watch.snapshot_path 未配置，无法导入")
	}

	snap, err := history.Load(path)
	if err != nil {
		return err
	}
	if snap == nil {
		return errors.New("快照文件不存在，没有可导入的记录")
	}

	records := snap.CycleRecords()
	if len(records) == 0 {
		a.Logger.Info().Msg("快照为空，无需导入")
		return nil
	}

	var archive storage.CycleArchive
	if opts.DryRun {
		a.Logger.Warn().Msg("导入 dry-run：不会写入数据库")
	} else {
		store, closeStore, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("database.dsn 未配置，无法导入")
		}
		if closeStore != nil {
			defer closeStore()
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		archive = store
	}

	processed := 0
	failed := 0
	for _, rec := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		observedAt, err := rec.Time()
		if err != nil {
			failed++
			a.Logger.Error().Err(err).Str("timestamp", rec.Timestamp).Msg("记录时间戳无法解析")
			continue
		}

		if archive != nil {
			cycle := storage.ArchivedCycle{
				ObservedAt:     observedAt,
				Origin:         snap.Origin,
				Destination:    snap.Destination,
				OutboundLowest: rec.OutboundLowest,
				ReturnLowest:   rec.ReturnLowest,
				OutboundDelta:  rec.OutboundDelta,
				ReturnDelta:    rec.ReturnDelta,
				Deal:           rec.Deal,
			}
			if err := archive.InsertCycle(ctx, cycle); err != nil {
				failed++
				a.Logger.Error().Err(err).Str("timestamp", rec.Timestamp).Msg("导入失败")
				continue
			}
		}
		processed++
	}

	summary := a.Logger.Info().Int("processed", processed).Int("failed", failed)
	if archive != nil {
		if total, err := archive.CountCycles(ctx); err == nil {
			summary = summary.Int64("archived_total", total)
		}
	}
	summary.Msg("导入完成")

	if failed > 0 {
		return errors.New("部分记录导入失败，请检查日志")
	}
	return nil
}
