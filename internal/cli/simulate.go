package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	simulateOutbound int64
	simulateReturn   int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "模拟一次低价航班并触发告警",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateOutbound <= 0 || simulateReturn <= 0 {
			return errors.New("--outbound 与 --return 必须大于 0")
		}

		return getApp().SimulateAlert(cmd.Context(), simulateOutbound, simulateReturn)
	},
}

func init() {
	simulateCmd.Flags().Int64Var(&simulateOutbound, "outbound", 0, "去程最低价（美元）")
	simulateCmd.Flags().Int64Var(&simulateReturn, "return", 0, "返程最低价（美元）")
}
