package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EvgeniQwerty/trading-bot/internal/config"
	"github.com/EvgeniQwerty/trading-bot/internal/logger"
)

// CommandHandler maps a received bot command to the reply text.
type CommandHandler func(command string) string

type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		From struct {
			Username string `json:"username"`
		} `json:"from"`
	} `json:"message"`
}

type telegramUpdateResponse struct {
	Ok          bool             `json:"ok"`
	Result      []telegramUpdate `json:"result"`
	Description string           `json:"description"`
	ErrorCode   int              `json:"error_code"`
}

type TelegramService struct {
	Cfg *config.Config
}

func NewTelegramService(cfg *config.Config) *TelegramService {
	return &TelegramService{
		Cfg: cfg,
	}
}

// SendMessage delivers a notification best-effort. Delivery failures are
// logged and never surfaced to callers.
func (s *TelegramService) SendMessage(text string) {
	if s.Cfg.TelegramToken == "" || s.Cfg.TelegramChatID == "" {
		logger.Warn("Telegram credentials not set, skipping message")
		return
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.Cfg.TelegramToken)
	payload := map[string]string{
		"chat_id": s.Cfg.TelegramChatID,
		"text":    text,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal Telegram payload", "error", err)
		return
	}

	// Send async
	go func() {
		resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonPayload))
		if err != nil {
			logger.Error("Failed to send Telegram message", "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			logger.Error("Telegram API error", "status", resp.Status)
		}
	}()
}

// Listen long-polls getUpdates and dispatches authorized commands to the
// handler. It blocks, so run it in a goroutine.
func (s *TelegramService) Listen(handler CommandHandler) {
	if s.Cfg.TelegramToken == "" || s.Cfg.TelegramChatID == "" {
		logger.Warn("Telegram credentials not set, command listener disabled")
		return
	}

	authChatID, err := strconv.ParseInt(s.Cfg.TelegramChatID, 10, 64)
	if err != nil {
		logger.Error("Invalid Telegram chat id, command listener disabled", "error", err)
		return
	}

	logger.Info("Telegram command listener started")
	offset := 0

	for {
		updates, ok := s.fetchUpdates(offset)
		if !ok {
			time.Sleep(5 * time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1

			if update.Message.Chat.ID != authChatID {
				// No reply to unauthorized chats
				logger.Warn("Unauthorized Telegram access attempt",
					"username", update.Message.From.Username,
					"chatId", update.Message.Chat.ID,
					"text", update.Message.Text)
				continue
			}

			text := strings.TrimSpace(update.Message.Text)
			if !strings.HasPrefix(text, "/") {
				continue
			}

			logger.Info("Telegram command received", "command", text)
			s.SendMessage(handler(text))
		}
	}
}

func (s *TelegramService) fetchUpdates(offset int) ([]telegramUpdate, bool) {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/getUpdates?offset=%d&timeout=60",
		s.Cfg.TelegramToken, offset)

	resp, err := http.Get(url)
	if err != nil {
		logger.Error("Failed to poll Telegram updates", "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	var result telegramUpdateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error("Failed to decode Telegram updates", "error", err)
		return nil, false
	}

	if !result.Ok {
		logger.Error("Telegram API error", "description", result.Description, "code", result.ErrorCode)
		return nil, false
	}

	return result.Result, true
}
