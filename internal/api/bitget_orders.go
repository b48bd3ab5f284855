package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/EvgeniQwerty/trading-bot/internal/logger"
)

type orderRequest struct {
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	OrderType string `json:"orderType"`
	Force     string `json:"force"`
	Size      string `json:"size"`
	ClientOid string `json:"clientOid"`
}

type orderResponse struct {
	OrderID   string `json:"orderId"`
	ClientOid string `json:"clientOid"`
}

// PlaceMarketOrder submits an ioc market order for the coin's USDT pair and
// returns the venue order id. For buys size is the USDT notional, for sells
// size is the base coin quantity.
func (c *BitgetClient) PlaceMarketOrder(coin, side string, size decimal.Decimal) (string, error) {
	req := orderRequest{
		Symbol:    coin + "USDT",
		Side:      side,
		OrderType: "market",
		Force:     "ioc",
		Size:      size.String(),
		ClientOid: ulid.Make().String(),
	}

	logger.Info("Submitting market order",
		"symbol", req.Symbol,
		"side", req.Side,
		"size", req.Size,
		"client_oid", req.ClientOid,
	)

	data, err := c.do(http.MethodPost, "/api/v2/spot/trade/place-order", nil, req)
	if err != nil {
		return "", err
	}

	var resp orderResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse order response: %w", err)
	}

	logger.Info("Order accepted", "order_id", resp.OrderID, "client_oid", resp.ClientOid)
	return resp.OrderID, nil
}
