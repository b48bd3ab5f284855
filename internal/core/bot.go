package core

import (
	"sync"
	"time"

	"github.com/EvgeniQwerty/trading-bot/internal/config"
	"github.com/EvgeniQwerty/trading-bot/internal/logger"
	"github.com/EvgeniQwerty/trading-bot/internal/metrics"
	"github.com/EvgeniQwerty/trading-bot/internal/report"
	"github.com/EvgeniQwerty/trading-bot/internal/repository"
	"github.com/EvgeniQwerty/trading-bot/internal/service"
	"github.com/EvgeniQwerty/trading-bot/internal/signal"
	"github.com/EvgeniQwerty/trading-bot/internal/trader"
)

// SignalSource delivers raw signal texts, one batch per poll.
type SignalSource interface {
	FetchSignals() []string
}

type Bot struct {
	Cfg       *config.Config
	Metrics   *metrics.Tracker
	StateRepo *repository.StateRepository
	Mailbox   SignalSource
	Trader    *trader.Trader
	Reporter  *report.Builder
	Telegram  *service.TelegramService

	// Serializes polling cycles against the Telegram command surface.
	mu sync.Mutex
}

func NewBot(cfg *config.Config, stateRepo *repository.StateRepository, mailbox SignalSource, trader *trader.Trader, reporter *report.Builder, telegram *service.TelegramService) *Bot {
	return &Bot{
		Cfg:       cfg,
		Metrics:   metrics.NewTracker(cfg),
		StateRepo: stateRepo,
		Mailbox:   mailbox,
		Trader:    trader,
		Reporter:  reporter,
		Telegram:  telegram,
	}
}

// Run starts the command listener and polls the mailbox until the process
// exits. Signals within a cycle are handled strictly in order.
func (b *Bot) Run() {
	logger.Info("Starting bot loop", "pollIntervalMin", b.Cfg.PollIntervalMin)

	if b.Telegram != nil {
		go b.Telegram.Listen(b.HandleCommand)
	}

	b.pollCycle()

	ticker := time.NewTicker(time.Duration(b.Cfg.PollIntervalMin) * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		b.pollCycle()
	}
}

func (b *Bot) pollCycle() {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()

	instruments, err := b.StateRepo.Instruments()
	if err != nil {
		logger.Error("Failed to load configured instruments, skipping cycle", "error", err)
		return
	}

	bodies := b.Mailbox.FetchSignals()

	signals, orders := 0, 0
	for _, body := range bodies {
		sig := signal.Parse(body, instruments)
		if sig == nil {
			continue
		}

		signals++
		logger.Info("Signal received", "instrument", sig.Instrument, "action", sig.Action, "label", sig.Label)
		if b.Trader.HandleSignal(*sig) {
			orders++
		}
	}

	b.Metrics.TrackCycle(time.Since(start), signals, orders)
}

// HandleCommand serves the Telegram command surface. It shares the bot mutex
// with pollCycle so reports never observe a half-applied transition.
func (b *Bot) HandleCommand(command string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch command {
	case "/start", "/help":
		return report.Help()
	case "/assets":
		return b.Reporter.AssetsReport()
	case "/ostat":
		return b.Reporter.TradeStats(b.Cfg.TradeStatDays)
	case "/mstat":
		return b.Reporter.MonthlyStats(b.Cfg.MonthlyStatDays)
	default:
		return "Unknown command, try /help"
	}
}
