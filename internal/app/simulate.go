package app

import (
	"context"
	"errors"
	"time"

	"farewatch/internal/dashboard"
	"farewatch/internal/fare"
	"farewatch/internal/history"
	"farewatch/internal/scrape"
	"farewatch/internal/service"
)

// SimulateAlert 用给定的往返价格走一遍完整的轮询周期，用来验证短信通道。
func (a *App) SimulateAlert(ctx context.Context, outbound, ret int64) error {
	threshold := a.Config.Watch.DealThreshold()
	if threshold == nil {
		return errors.New("watch.deal_price 未设置，模拟不会触发告警")
	}

	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("alerting.twilio 未配置，无法发送短信")
	}

	if !fare.IsDeal(threshold, outbound, ret) {
		a.Logger.Warn().Int64("deal_price", *threshold).Msg("给定价格高于 deal price，不会发送短信")
	}

	// 模拟运行不触碰真实快照和归档。
	cfg := *a.Config
	cfg.Watch.SnapshotPath = ""
	cfg.Watch.ChartPath = ""

	scraper := &staticScraper{outbound: outbound, ret: ret}
	svc := service.New(&cfg, nil, scraper, history.NewLedger(), dashboard.NewConsole(nil), notifier, nil, a.Logger)

	return svc.RunCycle(ctx, time.Now())
}

type staticScraper struct {
	outbound int64
	ret      int64
}

func (s *staticScraper) FetchFares(ctx context.Context) (scrape.Batch, error) {
	return scrape.Batch{
		Outbound: []int64{s.outbound},
		Return:   []int64{s.ret},
	}, nil
}

var _ scrape.Scraper = (*staticScraper)(nil)
