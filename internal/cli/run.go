package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/EvgeniQwerty/trading-bot/internal/api"
	"github.com/EvgeniQwerty/trading-bot/internal/bill"
	"github.com/EvgeniQwerty/trading-bot/internal/config"
	"github.com/EvgeniQwerty/trading-bot/internal/core"
	"github.com/EvgeniQwerty/trading-bot/internal/journal"
	"github.com/EvgeniQwerty/trading-bot/internal/logger"
	"github.com/EvgeniQwerty/trading-bot/internal/report"
	"github.com/EvgeniQwerty/trading-bot/internal/repository"
	"github.com/EvgeniQwerty/trading-bot/internal/service"
	"github.com/EvgeniQwerty/trading-bot/internal/sizing"
	"github.com/EvgeniQwerty/trading-bot/internal/trader"
)

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the signal polling loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger.Init()

			jnl, err := journal.Open(cfg.JournalPath)
			if err != nil {
				return fmt.Errorf("open order journal: %w", err)
			}
			defer jnl.Close()

			bot := buildBot(cfg, jnl)
			bot.Run()
			return nil
		},
	}
}

// buildBot assembles the dependency graph. Everything hangs off the venue
// client, the JSON documents and the order journal.
func buildBot(cfg *config.Config, jnl *journal.Journal) *core.Bot {
	venue := api.NewBitgetClient(cfg.BitgetAPIKey, cfg.BitgetSecretKey, cfg.BitgetPassphrase)

	storage := repository.NewStorage()
	stateRepo := repository.NewStateRepository(storage, cfg.StateFile)
	settingsRepo := repository.NewSettingsRepository(storage, cfg.SettingsFile)

	telegram := service.NewTelegramService(cfg)
	mailbox := service.NewMailboxService(cfg)

	sizer := sizing.New(venue, settingsRepo, decimal.NewFromFloat(cfg.FallbackOrderUSDT))
	trd := trader.New(stateRepo, venue, sizer, telegram, jnl)

	reconciler := bill.NewReconciler(venue)
	reporter := report.NewBuilder(reconciler, venue)

	return core.NewBot(cfg, stateRepo, mailbox, trd, reporter, telegram)
}
