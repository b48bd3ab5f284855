package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EvgeniQwerty/trading-bot/internal/bill"
	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

type stubLedger struct {
	bills map[string][]model.RawBillEntry
}

func (s stubLedger) Bills(businessType string, lookbackDays int) ([]model.RawBillEntry, error) {
	return s.bills[businessType], nil
}

type stubAssets struct {
	assets []model.AssetBalance
	prices map[string]decimal.Decimal
	err    error
}

func (s stubAssets) Assets() ([]model.AssetBalance, error) {
	return s.assets, s.err
}

func (s stubAssets) LastPrice(coin string) (decimal.Decimal, error) {
	price, ok := s.prices[coin]
	if !ok {
		return decimal.Zero, errors.New("no ticker")
	}
	return price, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ledgerWithOneRoundTrip() stubLedger {
	open := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	return stubLedger{bills: map[string][]model.RawBillEntry{
		model.BillCategoryBuy: {
			{BillID: "1", Coin: "BTC", Size: dec("0.0015"), Fees: dec("-1"), CTime: open.UnixMilli(), BizOrderID: "b1"},
		},
		model.BillCategorySell: {
			{BillID: "2", Coin: "BTC", Size: dec("-0.0015"), CTime: open.AddDate(0, 0, 3).UnixMilli(), BizOrderID: "s1"},
		},
		model.BillCategoryUSDT: {
			{BillID: "3", Coin: "USDT", Size: dec("-100"), CTime: open.UnixMilli(), BizOrderID: "b1"},
			{BillID: "4", Coin: "USDT", Size: dec("110"), CTime: open.AddDate(0, 0, 3).UnixMilli(), BizOrderID: "s1"},
		},
	}}
}

func TestTradeStatsRendersRoundTrip(t *testing.T) {
	b := NewBuilder(bill.NewReconciler(ledgerWithOneRoundTrip()), stubAssets{})

	out := b.TradeStats(10)

	assert.Contains(t, out, "✅ BTC")
	assert.Contains(t, out, "In: 101 USDT")
	assert.Contains(t, out, "Out: 110 USDT")
	assert.Contains(t, out, "Profit: 9 USDT (8.91%)")
	assert.Contains(t, out, "Duration: 3 days")
	assert.NotContains(t, out, "Active trades")
}

func TestTradeStatsRendersOpenPosition(t *testing.T) {
	open := time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)
	ledger := stubLedger{bills: map[string][]model.RawBillEntry{
		model.BillCategoryBuy: {
			{BillID: "1", Coin: "ETH", Size: dec("2"), CTime: open.UnixMilli(), BizOrderID: "b1"},
		},
		model.BillCategoryUSDT: {
			{BillID: "2", Coin: "USDT", Size: dec("-300"), CTime: open.UnixMilli(), BizOrderID: "b1"},
		},
	}}
	b := NewBuilder(bill.NewReconciler(ledger), stubAssets{})

	out := b.TradeStats(10)

	assert.Contains(t, out, "Active trades")
	assert.Contains(t, out, "➡️ ETH")
	assert.Contains(t, out, "in progress")
}

func TestTradeStatsEmptyWindow(t *testing.T) {
	b := NewBuilder(bill.NewReconciler(stubLedger{}), stubAssets{})

	assert.Equal(t, "No trade data for the last 10 days", b.TradeStats(10))
}

func TestMonthlyStatsEmptyWindow(t *testing.T) {
	b := NewBuilder(bill.NewReconciler(stubLedger{}), stubAssets{})

	assert.Equal(t, "No trade data for the last 30 days", b.MonthlyStats(30))
}

func TestMonthlyStatsRendersBlock(t *testing.T) {
	b := NewBuilder(bill.NewReconciler(ledgerWithOneRoundTrip()), stubAssets{})

	out := b.MonthlyStats(30)

	assert.Contains(t, out, "Data for March 2026")
	assert.Contains(t, out, "Net profit: 9 USDT")
	assert.Contains(t, out, "Net profit %: 8.91%")
	assert.Contains(t, out, "Closed trades: 1")
	assert.Contains(t, out, "Win rate: 100%")
}

func TestAssetsReportValuesHoldings(t *testing.T) {
	b := NewBuilder(bill.NewReconciler(stubLedger{}), stubAssets{
		assets: []model.AssetBalance{
			{Coin: "BTC", Available: dec("0.5")},
			{Coin: "DUST", Available: dec("0")},
			{Coin: "USDT", Available: dec("123.456")},
		},
		prices: map[string]decimal.Decimal{"BTC": dec("50000")},
	})

	out := b.AssetsReport()

	assert.Contains(t, out, "0.5 BTC ~= 25000 USDT")
	assert.Contains(t, out, "123.46 USDT")
	assert.NotContains(t, out, "DUST")

	// USDT is listed after the priced holdings.
	require.Less(t, strings.Index(out, "BTC"), strings.Index(out, "123.46 USDT"))
}

func TestAssetsReportVenueFailure(t *testing.T) {
	b := NewBuilder(bill.NewReconciler(stubLedger{}), stubAssets{err: errors.New("venue down")})

	assert.Equal(t, "No account data available", b.AssetsReport())
}
