package core

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EvgeniQwerty/trading-bot/internal/config"
	"github.com/EvgeniQwerty/trading-bot/internal/journal"
	"github.com/EvgeniQwerty/trading-bot/internal/model"
	"github.com/EvgeniQwerty/trading-bot/internal/repository"
	"github.com/EvgeniQwerty/trading-bot/internal/sizing"
	"github.com/EvgeniQwerty/trading-bot/internal/trader"
)

type stubMailbox struct {
	bodies []string
}

func (s stubMailbox) FetchSignals() []string {
	return s.bodies
}

type stubExchange struct {
	placed int
}

func (s *stubExchange) AvailableQuantity(coin string) (decimal.Decimal, error) {
	return decimal.NewFromInt(1000), nil
}

func (s *stubExchange) PlaceMarketOrder(coin, side string, size decimal.Decimal) (string, error) {
	s.placed++
	return "ord-1", nil
}

func newTestBot(t *testing.T, bodies []string) (*Bot, *stubExchange, *repository.StateRepository) {
	t.Helper()
	dir := t.TempDir()

	storage := repository.NewStorage()
	stateRepo := repository.NewStateRepository(storage, filepath.Join(dir, "coins.json"))
	require.NoError(t, stateRepo.Save(map[string]model.InstrumentState{
		"BTC": {InTrade: false, Decimals: 4},
	}))

	settingsRepo := repository.NewSettingsRepository(storage, filepath.Join(dir, "settings.json"))

	jnl, err := journal.Open(filepath.Join(dir, "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { jnl.Close() })

	exchange := &stubExchange{}
	sizer := sizing.New(exchange, settingsRepo, decimal.NewFromInt(10))
	trd := trader.New(stateRepo, exchange, sizer, nil, jnl)

	cfg := &config.Config{PollIntervalMin: 5, TradeStatDays: 10, MonthlyStatDays: 30}
	return NewBot(cfg, stateRepo, stubMailbox{bodies: bodies}, trd, nil, nil), exchange, stateRepo
}

func TestPollCycleExecutesSignalsInOrder(t *testing.T) {
	bot, exchange, stateRepo := newTestBot(t, []string{
		"morning update, nothing to do",
		"BTC buy signal @ Strategy1",
	})

	bot.pollCycle()

	assert.Equal(t, 1, exchange.placed)

	states, err := stateRepo.Load()
	require.NoError(t, err)
	assert.True(t, states["BTC"].InTrade)

	assert.Equal(t, int64(1), bot.Metrics.CycleCount)
	assert.Equal(t, int64(1), bot.Metrics.SignalCount)
	assert.Equal(t, int64(1), bot.Metrics.OrderCount)
}

func TestPollCycleIgnoresUnparseableMessages(t *testing.T) {
	bot, exchange, _ := newTestBot(t, []string{"buy DOGE", "hello"})

	bot.pollCycle()

	assert.Equal(t, 0, exchange.placed)
	assert.Equal(t, int64(0), bot.Metrics.SignalCount)
}

func TestHandleCommandHelp(t *testing.T) {
	bot, _, _ := newTestBot(t, nil)

	out := bot.HandleCommand("/help")
	assert.Contains(t, out, "/assets")
	assert.Contains(t, out, "/ostat")
	assert.Contains(t, out, "/mstat")
}

func TestHandleCommandUnknown(t *testing.T) {
	bot, _, _ := newTestBot(t, nil)

	assert.Equal(t, "Unknown command, try /help", bot.HandleCommand("/nope"))
}
