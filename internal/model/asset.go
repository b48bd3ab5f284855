package model

import "github.com/shopspring/decimal"

// AssetBalance is one coin holding on the spot account.
type AssetBalance struct {
	Coin      string          `json:"coin"`
	Available decimal.Decimal `json:"available"`
	Frozen    decimal.Decimal `json:"frozen"`
}
