package model

import "github.com/shopspring/decimal"

// InstrumentState is the durable per-instrument trading record. InTrade is
// the authoritative flag for trading decisions; the ledger-derived view of
// open positions is used for reporting only, and the two may disagree after
// a crash between order execution and state write.
type InstrumentState struct {
	InTrade  bool `json:"inTrade"`
	Decimals int  `json:"decimals"` // precision for sell-size rounding
}

// TradingSettings selects the position sizing policy.
type TradingSettings struct {
	UseFixDeposit bool            `json:"useFixDeposit"`
	FixDeposit    decimal.Decimal `json:"fixDeposit"`
}
