// Package bill rebuilds trade round-trips from the raw exchange ledger and
// aggregates them into monthly statistics. The ledger-derived view is
// authoritative for reporting only; live trading decisions use the persisted
// instrument state instead.
package bill

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/EvgeniQwerty/trading-bot/internal/logger"
	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

// LedgerSource is the slice of the venue API the reconciler needs.
type LedgerSource interface {
	Bills(businessType string, lookbackDays int) ([]model.RawBillEntry, error)
}

type Reconciler struct {
	source LedgerSource
}

func NewReconciler(source LedgerSource) *Reconciler {
	return &Reconciler{source: source}
}

// Window fetches the ledger for the lookback window and pairs it into closed
// trades and still-open positions. A failed ledger fetch degrades to an
// empty window so reporting callers always get a well-formed result.
func (r *Reconciler) Window(lookbackDays int) ([]model.ClosedTrade, map[string]model.OpenPosition) {
	buys, err := r.source.Bills(model.BillCategoryBuy, lookbackDays)
	if err != nil {
		logger.Error("Failed to fetch buy bills, treating window as empty", "error", err)
		return nil, map[string]model.OpenPosition{}
	}
	sells, err := r.source.Bills(model.BillCategorySell, lookbackDays)
	if err != nil {
		logger.Error("Failed to fetch sell bills, treating window as empty", "error", err)
		return nil, map[string]model.OpenPosition{}
	}
	usdtLegs, err := r.source.Bills(model.BillCategoryUSDT, lookbackDays)
	if err != nil {
		logger.Error("Failed to fetch USDT legs, treating window as empty", "error", err)
		return nil, map[string]model.OpenPosition{}
	}

	buyEvents := Normalize(buys, usdtLegs, model.DirectionBuy)
	sellEvents := Normalize(sells, usdtLegs, model.DirectionSell)

	return Pair(buyEvents, sellEvents)
}

// Normalize merges each instrument-leg row with the USDT-leg rows sharing its
// bizOrderId into one LedgerEvent. The quote quantity is the sum of the
// absolute USDT-leg sizes for that order id.
func Normalize(entries, usdtLegs []model.RawBillEntry, dir model.Direction) []model.LedgerEvent {
	events := make([]model.LedgerEvent, 0, len(entries))
	for _, e := range entries {
		quote := decimal.Zero
		for _, leg := range usdtLegs {
			if leg.Coin == "USDT" && leg.BizOrderID == e.BizOrderID {
				quote = quote.Add(leg.Size.Abs())
			}
		}

		events = append(events, model.LedgerEvent{
			Direction:     dir,
			Instrument:    e.Coin,
			BaseQuantity:  e.Size.Abs(),
			QuoteQuantity: quote,
			Timestamp:     time.UnixMilli(e.CTime),
			Fee:           e.Fees.Abs(),
		})
	}
	return events
}

// Pair matches every BUY with the earliest not-yet-consumed SELL of the same
// instrument whose timestamp is strictly greater. An unmatched BUY becomes
// (or overwrites) the open position for its instrument. A sell is consumed
// by at most one trade.
func Pair(buys, sells []model.LedgerEvent) ([]model.ClosedTrade, map[string]model.OpenPosition) {
	sortByTime(buys)
	sortByTime(sells)

	consumed := make([]bool, len(sells))
	closed := make([]model.ClosedTrade, 0, len(buys))
	open := make(map[string]model.OpenPosition)

	for _, buy := range buys {
		matchIdx := -1
		for i, sell := range sells {
			if consumed[i] || sell.Instrument != buy.Instrument {
				continue
			}
			if sell.Timestamp.After(buy.Timestamp) {
				matchIdx = i
				break
			}
		}

		if matchIdx == -1 {
			open[buy.Instrument] = model.OpenPosition{
				Instrument:   buy.Instrument,
				BaseQuantity: buy.BaseQuantity,
				OpenedAt:     buy.Timestamp,
				CostBasis:    costBasis(buy),
			}
			continue
		}

		consumed[matchIdx] = true
		trade, ok := buildTrade(buy, sells[matchIdx])
		if !ok {
			continue
		}
		closed = append(closed, trade)
	}

	return closed, open
}

func buildTrade(buy, sell model.LedgerEvent) (model.ClosedTrade, bool) {
	basis := costBasis(buy)
	if basis.IsZero() {
		// A zero cost basis has no defined return. Flag and skip instead
		// of letting the percent computation blow up downstream.
		logger.Warn("Skipping trade with zero cost basis",
			"instrument", buy.Instrument,
			"opened_at", buy.Timestamp,
		)
		return model.ClosedTrade{}, false
	}

	proceeds := sell.QuoteQuantity.Round(2)
	profit := proceeds.Sub(basis)
	profitPercent := profit.Div(basis).Mul(decimal.NewFromInt(100)).Round(2)

	return model.ClosedTrade{
		Instrument:    buy.Instrument,
		BaseQuantity:  buy.BaseQuantity,
		OpenedAt:      buy.Timestamp,
		ClosedAt:      sell.Timestamp,
		CostBasis:     basis,
		Proceeds:      proceeds,
		Profit:        profit,
		ProfitPercent: profitPercent,
		DurationDays:  int(sell.Timestamp.Sub(buy.Timestamp).Hours() / 24),
		Month:         int(sell.Timestamp.Month()),
		Year:          sell.Timestamp.Year(),
	}, true
}

func costBasis(buy model.LedgerEvent) decimal.Decimal {
	return buy.QuoteQuantity.Add(buy.Fee).Round(2)
}

func sortByTime(events []model.LedgerEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
