package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/EvgeniQwerty/trading-bot/internal/logger"
	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

type billRow struct {
	BillID       string `json:"billId"`
	Coin         string `json:"coin"`
	GroupType    string `json:"groupType"`
	BusinessType string `json:"businessType"`
	Size         string `json:"size"`
	Balance      string `json:"balance"`
	Fees         string `json:"fees"`
	CTime        string `json:"cTime"`
	BizOrderID   string `json:"bizOrderId"`
}

// Bills fetches account ledger rows of one business type for the lookback
// window. Rows the API reports with malformed amounts are skipped and
// logged, never propagated.
func (c *BitgetClient) Bills(businessType string, lookbackDays int) ([]model.RawBillEntry, error) {
	startTime := time.Now().AddDate(0, 0, -lookbackDays).UnixMilli()

	params := url.Values{}
	params.Add("startTime", strconv.FormatInt(startTime, 10))
	params.Add("businessType", businessType)

	data, err := c.do(http.MethodGet, "/api/v2/spot/account/bills", params, nil)
	if err != nil {
		return nil, err
	}

	var rows []billRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse bills: %w", err)
	}

	entries := make([]model.RawBillEntry, 0, len(rows))
	for _, r := range rows {
		size, err := decimal.NewFromString(r.Size)
		if err != nil {
			logger.Warn("Skipping bill with malformed size", "billId", r.BillID, "size", r.Size)
			continue
		}
		fees := decimal.Zero
		if r.Fees != "" {
			fees, err = decimal.NewFromString(r.Fees)
			if err != nil {
				logger.Warn("Skipping bill with malformed fees", "billId", r.BillID, "fees", r.Fees)
				continue
			}
		}
		ctime, err := strconv.ParseInt(r.CTime, 10, 64)
		if err != nil {
			logger.Warn("Skipping bill with malformed cTime", "billId", r.BillID, "cTime", r.CTime)
			continue
		}

		entries = append(entries, model.RawBillEntry{
			BillID:       r.BillID,
			Coin:         r.Coin,
			BusinessType: r.BusinessType,
			Size:         size,
			Fees:         fees,
			CTime:        ctime,
			BizOrderID:   r.BizOrderID,
		})
	}
	return entries, nil
}
