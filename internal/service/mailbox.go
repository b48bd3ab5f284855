package service

import (
	"io"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/EvgeniQwerty/trading-bot/internal/config"
	"github.com/EvgeniQwerty/trading-bot/internal/logger"
)

// MailboxService reads trade signals from an IMAP inbox. Each poll fetches
// the unseen messages; fetching marks them seen, so a message is consumed
// exactly once.
type MailboxService struct {
	Cfg *config.Config
}

func NewMailboxService(cfg *config.Config) *MailboxService {
	return &MailboxService{
		Cfg: cfg,
	}
}

// FetchSignals returns the bodies of all unseen messages. Any failure is
// logged and yields an empty batch, the next cycle retries.
func (s *MailboxService) FetchSignals() []string {
	if s.Cfg.ImapServer == "" || s.Cfg.ImapUsername == "" {
		logger.Warn("IMAP credentials not set, skipping mailbox poll")
		return nil
	}

	c, err := client.DialTLS(s.Cfg.ImapServer, nil)
	if err != nil {
		logger.Error("Failed to connect to IMAP server", "server", s.Cfg.ImapServer, "error", err)
		return nil
	}
	defer c.Logout()

	if err := c.Login(s.Cfg.ImapUsername, s.Cfg.ImapPassword); err != nil {
		logger.Error("IMAP login failed", "error", err)
		return nil
	}

	if _, err := c.Select("INBOX", false); err != nil {
		logger.Error("Failed to select INBOX", "error", err)
		return nil
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	ids, err := c.Search(criteria)
	if err != nil {
		logger.Error("IMAP search failed", "error", err)
		return nil
	}
	if len(ids) == 0 {
		return nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{
		BodyPartName: imap.BodyPartName{Specifier: imap.TextSpecifier},
	}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, []imap.FetchItem{section.FetchItem()}, messages)
	}()

	var bodies []string
	for msg := range messages {
		r := msg.GetBody(section)
		if r == nil {
			continue
		}
		body, err := io.ReadAll(r)
		if err != nil {
			logger.Warn("Failed to read message body", "error", err)
			continue
		}
		bodies = append(bodies, string(body))
	}

	if err := <-done; err != nil {
		logger.Error("IMAP fetch failed", "error", err)
		return nil
	}

	logger.Info("Fetched mailbox signals", "count", len(bodies))
	return bodies
}
