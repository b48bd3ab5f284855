package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/EvgeniQwerty/trading-bot/internal/config"
	"github.com/EvgeniQwerty/trading-bot/internal/logger"
)

// Tracker accumulates polling-cycle timings and counters. Cycles run every
// few minutes, so every cycle is logged and pushed.
type Tracker struct {
	MinTime     time.Duration
	MaxTime     time.Duration
	TotalTime   time.Duration
	CycleCount  int64
	SignalCount int64
	OrderCount  int64
	StartTime   time.Time
	cfg         *config.Config
}

// MetricsPayload represents the JSON payload for the metrics API
type MetricsPayload struct {
	Strategy    string `json:"strategy"`
	Cycles      string `json:"cycles"`
	Signals     string `json:"signals"`
	Orders      string `json:"orders"`
	Min         string `json:"min"`
	Max         string `json:"max"`
	Avg         string `json:"avg"`
	Uptime      string `json:"uptime"`
	LastUpdated string `json:"lastUpdated"`
}

func NewTracker(cfg *config.Config) *Tracker {
	return &Tracker{
		MinTime:   time.Duration(1<<63 - 1), // Max duration
		MaxTime:   0,
		StartTime: time.Now(),
		cfg:       cfg,
	}
}

// TrackCycle records one completed polling cycle.
func (t *Tracker) TrackCycle(duration time.Duration, signals, orders int) {
	t.CycleCount++
	t.SignalCount += int64(signals)
	t.OrderCount += int64(orders)
	t.TotalTime += duration

	if duration < t.MinTime {
		t.MinTime = duration
	}
	if duration > t.MaxTime {
		t.MaxTime = duration
	}

	avgTime := t.TotalTime / time.Duration(t.CycleCount)

	logger.Info("Cycle metrics",
		"duration_ms", duration.Milliseconds(),
		"min_ms", t.MinTime.Milliseconds(),
		"max_ms", t.MaxTime.Milliseconds(),
		"avg_ms", avgTime.Milliseconds(),
		"cycles", t.CycleCount,
		"signals", t.SignalCount,
		"orders", t.OrderCount,
	)

	t.sendMetricsToAPI(avgTime)
}

func (t *Tracker) sendMetricsToAPI(avgTime time.Duration) {
	if t.cfg.MetricsAPIURL == "" {
		return
	}

	uptime := int64(time.Since(t.StartTime).Seconds())

	minSec := float64(t.MinTime.Microseconds()) / 1000000.0
	maxSec := float64(t.MaxTime.Microseconds()) / 1000000.0
	avgSec := float64(avgTime.Microseconds()) / 1000000.0

	payload := MetricsPayload{
		Strategy:    "signal-trading-bitget",
		Cycles:      fmt.Sprintf("%d", t.CycleCount),
		Signals:     fmt.Sprintf("%d", t.SignalCount),
		Orders:      fmt.Sprintf("%d", t.OrderCount),
		Min:         fmt.Sprintf("%.3f", minSec),
		Max:         fmt.Sprintf("%.3f", maxSec),
		Avg:         fmt.Sprintf("%.3f", avgSec),
		Uptime:      fmt.Sprintf("%d", uptime),
		LastUpdated: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal metrics payload", "error", err)
		return
	}

	req, err := http.NewRequest("POST", t.cfg.MetricsAPIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Error("Failed to create metrics API request", "error", err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.cfg.MetricsAPIToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		logger.Error("Failed to send metrics to API", "error", err)
		return
	}
	defer resp.Body.Close()
}
