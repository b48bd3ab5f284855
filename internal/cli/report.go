package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EvgeniQwerty/trading-bot/internal/api"
	"github.com/EvgeniQwerty/trading-bot/internal/bill"
	"github.com/EvgeniQwerty/trading-bot/internal/config"
	"github.com/EvgeniQwerty/trading-bot/internal/logger"
	"github.com/EvgeniQwerty/trading-bot/internal/report"
)

// newReportCmd prints the same reports the Telegram commands serve, without
// starting the polling loop.
func newReportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "report [trades|monthly|assets]",
		Short:     "Print a trading report to stdout",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"trades", "monthly", "assets"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger.Init()

			venue := api.NewBitgetClient(cfg.BitgetAPIKey, cfg.BitgetSecretKey, cfg.BitgetPassphrase)
			builder := report.NewBuilder(bill.NewReconciler(venue), venue)

			kind := "trades"
			if len(args) == 1 {
				kind = args[0]
			}

			switch kind {
			case "trades":
				fmt.Println(builder.TradeStats(cfg.TradeStatDays))
			case "monthly":
				fmt.Println(builder.MonthlyStats(cfg.MonthlyStatDays))
			case "assets":
				fmt.Println(builder.AssetsReport())
			}
			return nil
		},
	}
}
