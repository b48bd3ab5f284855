package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/EvgeniQwerty/trading-bot/internal/logger"
	"github.com/EvgeniQwerty/trading-bot/internal/model"
)

const (
	BaseURL = "https://api.bitget.com"
)

type BitgetClient struct {
	APIKey     string
	SecretKey  string
	Passphrase string
	BaseURL    string
	Client     *http.Client
}

// envelope is the common Bitget v2 response wrapper. Code "00000" means OK,
// anything else carries the error in Msg.
type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func NewBitgetClient(apiKey, secretKey, passphrase string) *BitgetClient {
	return &BitgetClient{
		APIKey:     apiKey,
		SecretKey:  secretKey,
		Passphrase: passphrase,
		BaseURL:    BaseURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// sign builds the Bitget v2 request signature:
// base64(hmac-sha256(timestamp + method + requestPath + body)).
// requestPath includes the query string for GET requests.
func (c *BitgetClient) sign(timestamp, method, requestPath, body string) string {
	mac := hmac.New(sha256.New, []byte(c.SecretKey))
	mac.Write([]byte(timestamp + method + requestPath + body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *BitgetClient) do(method, endpoint string, params url.Values, payload any) (json.RawMessage, error) {
	requestPath := endpoint
	if len(params) > 0 {
		requestPath = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	var bodyStr string
	var bodyReader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyStr = string(b)
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.BaseURL+requestPath, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	req.Header.Add("ACCESS-KEY", c.APIKey)
	req.Header.Add("ACCESS-SIGN", c.sign(timestamp, method, requestPath, bodyStr))
	req.Header.Add("ACCESS-TIMESTAMP", timestamp)
	req.Header.Add("ACCESS-PASSPHRASE", c.Passphrase)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("locale", "en-US")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("Bitget API Error", "status", resp.Status, "path", endpoint, "body", string(body))
		return nil, fmt.Errorf("bitget api returned status: %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if env.Code != "00000" {
		logger.Error("Bitget API Error", "code", env.Code, "msg", env.Msg, "path", endpoint)
		return nil, fmt.Errorf("bitget api error %s: %s", env.Code, env.Msg)
	}

	return env.Data, nil
}

type assetRow struct {
	Coin      string `json:"coin"`
	Available string `json:"available"`
	Frozen    string `json:"frozen"`
}

// Assets returns all spot account balances.
func (c *BitgetClient) Assets() ([]model.AssetBalance, error) {
	data, err := c.do(http.MethodGet, "/api/v2/spot/account/assets", nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []assetRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse assets: %w", err)
	}

	balances := make([]model.AssetBalance, 0, len(rows))
	for _, r := range rows {
		available, err := decimal.NewFromString(r.Available)
		if err != nil {
			logger.Warn("Skipping asset with malformed amount", "coin", r.Coin, "available", r.Available)
			continue
		}
		frozen, _ := decimal.NewFromString(r.Frozen)
		balances = append(balances, model.AssetBalance{
			Coin:      r.Coin,
			Available: available,
			Frozen:    frozen,
		})
	}
	return balances, nil
}

// AvailableQuantity returns the free balance of a single coin.
func (c *BitgetClient) AvailableQuantity(coin string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Add("coin", coin)

	data, err := c.do(http.MethodGet, "/api/v2/spot/account/assets", params, nil)
	if err != nil {
		return decimal.Zero, err
	}

	var rows []assetRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse assets: %w", err)
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}

	available, err := decimal.NewFromString(rows[0].Available)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed available amount %q: %w", rows[0].Available, err)
	}
	return available, nil
}

// LastPrice returns the last traded price of the coin's USDT pair.
func (c *BitgetClient) LastPrice(coin string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Add("symbol", coin+"USDT")

	data, err := c.do(http.MethodGet, "/api/v2/spot/market/tickers", params, nil)
	if err != nil {
		return decimal.Zero, err
	}

	var rows []struct {
		LastPr string `json:"lastPr"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse tickers: %w", err)
	}
	if len(rows) == 0 {
		return decimal.Zero, fmt.Errorf("no ticker for %sUSDT", coin)
	}

	price, err := decimal.NewFromString(rows[0].LastPr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed last price %q: %w", rows[0].LastPr, err)
	}
	return price, nil
}
