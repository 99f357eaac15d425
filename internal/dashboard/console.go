package dashboard

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"farewatch/internal/airports"
	"farewatch/internal/fare"
)

// Console prints the route panel and per-cycle fare lines to a terminal
// writer. Lines are written eagerly, so Render has nothing left to flush.
type Console struct {
	out io.Writer
}

// NewConsole constructs a console presenter. A nil writer means stdout.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

func (c *Console) ShowRoute(origin, destination airports.Airport) {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetTitle("Watching fares")
	t.AppendHeader(table.Row{"", "Airport", "City", "Latitude", "Longitude"})
	t.AppendRows([]table.Row{
		waypointRow("From", origin),
		waypointRow("To", destination),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func waypointRow(label string, a airports.Airport) table.Row {
	city := a.City
	if city == "" {
		city = "unknown"
	}
	return table.Row{
		label,
		a.Code,
		city,
		fmt.Sprintf("%.4f", a.Lat),
		fmt.Sprintf("%.4f", a.Lon),
	}
}

func (c *Console) LogRecord(rec fare.CycleRecord) {
	fmt.Fprintf(c.out, "[%s] %s\n", rec.Timestamp, fareLine("Outbound", rec.OutboundLowest, rec.OutboundDelta))
	fmt.Fprintf(c.out, "[%s] %s\n", rec.Timestamp, fareLine("Return", rec.ReturnLowest, rec.ReturnDelta))
	if rec.Deal {
		fmt.Fprintf(c.out, "[%s] Deal alert! A fare at or below your deal price is available.\n", rec.Timestamp)
	}
}

func fareLine(direction string, lowest int64, delta fare.Delta) string {
	line := fmt.Sprintf("%s: lowest fare $%d", direction, lowest)
	if label := FormatDelta(delta); label != "" {
		line += " " + label
	}
	return line
}

// PlotRecord is a no-op; the console has no chart surface.
func (c *Console) PlotRecord(fare.CycleRecord) {}

// Render is a no-op; fare lines are written as they arrive.
func (c *Console) Render() {}

var _ Presenter = (*Console)(nil)
