// Package sizing computes the USDT notional committed to a new position.
package sizing

import (
	"github.com/shopspring/decimal"

	"github.com/EvgeniQwerty/trading-bot/internal/logger"
	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

// MinOrderNotional is the exchange-imposed minimum for a spot market order.
// Every sized amount is floored here regardless of balance or policy.
var MinOrderNotional = decimal.RequireFromString("5.02")

// reserveFactor keeps a slice of the free balance uncommitted so fees and
// price movement between sizing and fill cannot overdraw the account.
var reserveFactor = decimal.RequireFromString("0.95")

// BalanceSource is the slice of the venue API the sizer needs.
type BalanceSource interface {
	AvailableQuantity(coin string) (decimal.Decimal, error)
}

// SettingsSource yields the persisted sizing policy.
type SettingsSource interface {
	Settings() (model.TradingSettings, error)
}

type Sizer struct {
	balances BalanceSource
	settings SettingsSource
	fallback decimal.Decimal
}

// New builds a Sizer. fallback is the notional used when the balance or the
// settings document cannot be retrieved; it comes from configuration so
// tests and operators can rely on it deterministically.
func New(balances BalanceSource, settings SettingsSource, fallback decimal.Decimal) *Sizer {
	return &Sizer{balances: balances, settings: settings, fallback: fallback}
}

// Size returns the USDT amount for the next buy. freeSlots is the number of
// configured instruments currently not in a trade; the free balance is split
// evenly across them unless the fixed-deposit policy is active.
//
// Collaborator failures degrade to the configured fallback amount, never to
// an error: a signal should still produce a (small) order when the balance
// endpoint hiccups.
func (s *Sizer) Size(freeSlots int) decimal.Decimal {
	settings, err := s.settings.Settings()
	if err != nil {
		logger.Error("Failed to read sizing settings, using fallback amount", "error", err, "fallback", s.fallback)
		return clamp(s.fallback)
	}

	if settings.UseFixDeposit {
		return clamp(settings.FixDeposit)
	}

	free, err := s.balances.AvailableQuantity("USDT")
	if err != nil {
		logger.Error("Failed to read USDT balance, using fallback amount", "error", err, "fallback", s.fallback)
		return clamp(s.fallback)
	}

	if freeSlots < 1 {
		freeSlots = 1
	}

	amount := free.Mul(reserveFactor).
		Div(decimal.NewFromInt(int64(freeSlots))).
		Round(2)
	return clamp(amount)
}

func clamp(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThan(MinOrderNotional) {
		return MinOrderNotional
	}
	return amount
}
