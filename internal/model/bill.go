package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill business types as reported by the exchange ledger.
// Instrument legs arrive as DEALT_IN/DEALT_OUT rows, the USDT legs of the
// same order arrive as separate rows sharing the bizOrderId.
const (
	BillCategoryBuy  = "ORDER_DEALT_IN"
	BillCategorySell = "ORDER_DEALT_OUT"
	BillCategoryUSDT = "USDT"
)

// Direction of a normalized ledger fill.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// RawBillEntry is one row of the exchange account ledger, already parsed
// out of the API's string fields.
type RawBillEntry struct {
	BillID       string          `json:"billId"`
	Coin         string          `json:"coin"`
	BusinessType string          `json:"businessType"`
	Size         decimal.Decimal `json:"size"`
	Fees         decimal.Decimal `json:"fees"`
	CTime        int64           `json:"cTime"`
	BizOrderID   string          `json:"bizOrderId"`
}

// LedgerEvent is a normalized buy or sell fill. QuoteQuantity is the sum of
// the absolute USDT-leg sizes carrying the same order id. Immutable once
// built by the reconciler.
type LedgerEvent struct {
	Direction     Direction
	Instrument    string
	BaseQuantity  decimal.Decimal
	QuoteQuantity decimal.Decimal
	Timestamp     time.Time
	Fee           decimal.Decimal
}
