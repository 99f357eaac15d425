// Package dashboard renders the watch loop's output: the route panel shown
// at startup, per-cycle fare lines, and a live fare-history chart. The poll
// loop talks to a Presenter and never knows which backends are attached.
package dashboard

import (
	"fmt"

	"farewatch/internal/airports"
	"farewatch/internal/fare"
)

// Presenter receives watch-loop output. ShowRoute fires once at startup,
// LogRecord and PlotRecord fire for every recorded cycle (and for seeded
// records replayed at startup), Render fires at the end of every cycle
// whether or not the cycle produced a record.
type Presenter interface {
	ShowRoute(origin, destination airports.Airport)
	LogRecord(rec fare.CycleRecord)
	PlotRecord(rec fare.CycleRecord)
	Render()
}

// FormatDelta renders a fare movement as the parenthetical displayed next to
// a fare. A first-cycle movement has no parenthetical.
func FormatDelta(d fare.Delta) string {
	switch d.Kind {
	case fare.DeltaDecreased:
		return fmt.Sprintf("(down $%d)", d.Amount)
	case fare.DeltaIncreased:
		return fmt.Sprintf("(up $%d)", d.Amount)
	case fare.DeltaUnchanged:
		return "(no change)"
	default:
		return ""
	}
}

// Fanout composes presenters; every call is forwarded to each in order.
type Fanout []Presenter

func (f Fanout) ShowRoute(origin, destination airports.Airport) {
	for _, p := range f {
		p.ShowRoute(origin, destination)
	}
}

func (f Fanout) LogRecord(rec fare.CycleRecord) {
	for _, p := range f {
		p.LogRecord(rec)
	}
}

func (f Fanout) PlotRecord(rec fare.CycleRecord) {
	for _, p := range f {
		p.PlotRecord(rec)
	}
}

func (f Fanout) Render() {
	for _, p := range f {
		p.Render()
	}
}

var _ Presenter = (Fanout)(nil)
