// Package trader drives the per-instrument position state machine. The
// persisted InTrade flag is authoritative here: ledger replay may lag or
// disagree after a crash, but real orders are only ever gated on the flag.
package trader

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/EvgeniQwerty/trading-bot/internal/journal"
	"github.com/EvgeniQwerty/trading-bot/internal/logger"
	"github.com/EvgeniQwerty/trading-bot/internal/model"
	"github.com/EvgeniQwerty/trading-bot/internal/signal"
)

// Exchange is the slice of the venue API the trader needs. An empty order id
// means the venue rejected the order; errors mean it was never submitted.
// Either way the instrument state must not change.
type Exchange interface {
	AvailableQuantity(coin string) (decimal.Decimal, error)
	PlaceMarketOrder(coin, side string, size decimal.Decimal) (string, error)
}

// Sizer yields the USDT notional for the next buy.
type Sizer interface {
	Size(freeSlots int) decimal.Decimal
}

// Notifier delivers best-effort user notifications.
type Notifier interface {
	SendMessage(text string)
}

// Recorder appends executed orders to the audit journal.
type Recorder interface {
	RecordOrder(rec journal.OrderRecord) error
}

// StateStore loads and saves the instrument-state document.
type StateStore interface {
	Load() (map[string]model.InstrumentState, error)
	Save(states map[string]model.InstrumentState) error
}

type Trader struct {
	states   StateStore
	exchange Exchange
	sizer    Sizer
	notifier Notifier
	recorder Recorder
}

func New(states StateStore, exchange Exchange, sizer Sizer, notifier Notifier, recorder Recorder) *Trader {
	return &Trader{
		states:   states,
		exchange: exchange,
		sizer:    sizer,
		notifier: notifier,
		recorder: recorder,
	}
}

// HandleSignal runs one state transition and reports whether an order was
// executed. The caller serializes calls; the read-decide-write sequence here
// must not interleave with another transition or a report on the same
// documents.
func (t *Trader) HandleSignal(sig signal.Signal) bool {
	states, err := t.states.Load()
	if err != nil {
		logger.Error("Failed to load instrument state, signal dropped", "error", err, "instrument", sig.Instrument)
		return false
	}

	state, ok := states[sig.Instrument]
	if !ok {
		logger.Debug("Signal for unconfigured instrument ignored", "instrument", sig.Instrument)
		return false
	}

	switch sig.Action {
	case signal.ActionBuy:
		return t.openPosition(sig, states, state)
	case signal.ActionSell:
		return t.closePosition(sig, states, state)
	}
	return false
}

func (t *Trader) openPosition(sig signal.Signal, states map[string]model.InstrumentState, state model.InstrumentState) bool {
	if state.InTrade {
		logger.Debug("Buy signal while already in trade, ignoring", "instrument", sig.Instrument)
		return false
	}

	amount := t.sizer.Size(countFreeSlots(states))

	orderID, err := t.exchange.PlaceMarketOrder(sig.Instrument, "buy", amount)
	if err != nil {
		logger.Error("Buy order failed, state unchanged", "instrument", sig.Instrument, "error", err)
		return false
	}
	if orderID == "" {
		logger.Error("Buy order rejected by venue, state unchanged", "instrument", sig.Instrument)
		return false
	}

	state.InTrade = true
	states[sig.Instrument] = state
	t.persist(states, sig.Instrument)
	t.record(sig, "buy", amount, orderID)

	t.notify("📈 Opened " + sig.Instrument + " position for " + amount.StringFixed(2) + " USDT" + labelSuffix(sig))
	return true
}

func (t *Trader) closePosition(sig signal.Signal, states map[string]model.InstrumentState, state model.InstrumentState) bool {
	if !state.InTrade {
		logger.Debug("Sell signal while not in trade, ignoring", "instrument", sig.Instrument)
		return false
	}

	held, err := t.exchange.AvailableQuantity(sig.Instrument)
	if err != nil {
		logger.Error("Failed to read held quantity, state unchanged", "instrument", sig.Instrument, "error", err)
		return false
	}

	// Round down to the instrument's configured precision; rounding up
	// would try to sell more than the account holds.
	size := held.RoundFloor(int32(state.Decimals))
	if size.IsZero() {
		logger.Error("Nothing to sell after rounding, state unchanged", "instrument", sig.Instrument, "held", held)
		return false
	}

	orderID, err := t.exchange.PlaceMarketOrder(sig.Instrument, "sell", size)
	if err != nil {
		logger.Error("Sell order failed, state unchanged", "instrument", sig.Instrument, "error", err)
		return false
	}
	if orderID == "" {
		logger.Error("Sell order rejected by venue, state unchanged", "instrument", sig.Instrument)
		return false
	}

	state.InTrade = false
	states[sig.Instrument] = state
	t.persist(states, sig.Instrument)
	t.record(sig, "sell", size, orderID)

	t.notify("📉 Closed " + sig.Instrument + " position, sold " + size.String() + labelSuffix(sig))
	return true
}

// persist writes the flipped flag before anything user-visible happens. The
// order already executed, so a write failure is logged loudly but does not
// suppress the journal entry or the notification.
func (t *Trader) persist(states map[string]model.InstrumentState, instrument string) {
	if err := t.states.Save(states); err != nil {
		logger.Error("CRITICAL: order executed but state write failed, flag is stale",
			"instrument", instrument, "error", err)
	}
}

func (t *Trader) record(sig signal.Signal, side string, size decimal.Decimal, orderID string) {
	if t.recorder == nil {
		return
	}
	err := t.recorder.RecordOrder(journal.OrderRecord{
		Instrument: sig.Instrument,
		Side:       side,
		Size:       size,
		OrderID:    orderID,
		Label:      sig.Label,
		ExecutedAt: time.Now(),
	})
	if err != nil {
		logger.Error("Failed to journal executed order", "instrument", sig.Instrument, "error", err)
	}
}

func (t *Trader) notify(text string) {
	if t.notifier != nil {
		t.notifier.SendMessage(text)
	}
}

func countFreeSlots(states map[string]model.InstrumentState) int {
	free := 0
	for _, s := range states {
		if !s.InTrade {
			free++
		}
	}
	return free
}

func labelSuffix(sig signal.Signal) string {
	if sig.Label == "" {
		return ""
	}
	return " (" + sig.Label + ")"
}
