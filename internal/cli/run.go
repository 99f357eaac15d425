package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	runOrigin       string
	runDestination  string
	runOutboundDate string
	runReturnDate   string
	runPassengers   int
	runInterval     int
	runDealPrice    int64
	runSnapshot     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch fares for the configured trip",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp()
		cfg := a.Config

		flags := cmd.Flags()
		if flags.Changed("origin") {
			cfg.Route.Origin = runOrigin
		}
		if flags.Changed("destination") {
			cfg.Route.Destination = runDestination
		}
		if flags.Changed("outbound-date") {
			cfg.Route.OutboundDate = runOutboundDate
		}
		if flags.Changed("return-date") {
			cfg.Route.ReturnDate = runReturnDate
		}
		if flags.Changed("passengers") {
			cfg.Route.Passengers = runPassengers
		}
		if flags.Changed("interval") {
			cfg.Watch.IntervalMinutes = runInterval
		}
		if flags.Changed("deal-price") {
			cfg.Watch.DealPrice = runDealPrice
		}
		if flags.Changed("snapshot") {
			cfg.Watch.SnapshotPath = runSnapshot
		}

		// Flag overrides go through the same checks as file values.
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.Route.Origin == "" || cfg.Route.Destination == "" ||
			cfg.Route.OutboundDate == "" || cfg.Route.ReturnDate == "" {
			return errors.New("route requires origin, destination, outbound-date and return-date")
		}

		return a.Run(cmd.Context())
	},
}

func init() {
	runCmd.Flags().StringVar(&runOrigin, "origin", "", "Origin airport code (overrides config)")
	runCmd.Flags().StringVar(&runDestination, "destination", "", "Destination airport code (overrides config)")
	runCmd.Flags().StringVar(&runOutboundDate, "outbound-date", "", "Outbound date, e.g. 2026-09-10 (overrides config)")
	runCmd.Flags().StringVar(&runReturnDate, "return-date", "", "Return date, e.g. 2026-09-14 (overrides config)")
	runCmd.Flags().IntVar(&runPassengers, "passengers", 0, "Number of adult passengers (overrides config)")
	runCmd.Flags().IntVar(&runInterval, "interval", 0, "Minutes between fare checks (overrides config)")
	runCmd.Flags().Int64Var(&runDealPrice, "deal-price", 0, "Alert when a lowest fare is at or below this price")
	runCmd.Flags().StringVar(&runSnapshot, "snapshot", "", "Path to the fare history snapshot (.json)")
}
