// Package telegram alerts the administration chat about urgent anonymous
// submissions and answers triage commands sent from that chat.
package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"noticeboard/backend/internal/forms"
	"noticeboard/backend/internal/localization"
	"noticeboard/backend/internal/models"
	"noticeboard/backend/internal/triage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// previewLength caps the submission text quoted in an alert.
const previewLength = 200

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends alerts to the administration chat. A Notifier without a Sender does nothing.
type Notifier struct {
	Sender      Sender
	AdminChatID int64
	Localizer   *localization.Localizer
	Lang        string
	log         *zap.Logger
}

// NewNotifier connects to the Bot API. An empty token or chat ID yields a disabled notifier.
func NewNotifier(token string, adminChatID int64, loc *localization.Localizer, lang string, log *zap.Logger) (*Notifier, error) {
	n := &Notifier{AdminChatID: adminChatID, Localizer: loc, Lang: lang, log: log}
	if token == "" || adminChatID == 0 {
		log.Info("telegram alerts disabled")
		return n, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize: %w", err)
	}
	bot.Debug = false
	log.Info("telegram bot authorized", zap.String("account", bot.Self.UserName))

	n.Sender = bot
	return n, nil
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.Sender != nil && n.AdminChatID != 0
}

// NotifySubmission alerts the administration about a high urgency submission.
// Other urgencies wait for regular triage.
func (n *Notifier) NotifySubmission(sub models.AnonymousSubmission) error {
	if !n.Enabled() || sub.Urgency != models.UrgencyHigh {
		return nil
	}

	msg := tgbotapi.NewMessage(n.AdminChatID, n.alertText(sub))
	if _, err := n.Sender.Send(msg); err != nil {
		n.log.Error("failed to send submission alert", zap.String("submission_id", sub.ID), zap.Error(err))
		return fmt.Errorf("telegram: send alert: %w", err)
	}
	return nil
}

func (n *Notifier) alertText(sub models.AnonymousSubmission) string {
	var b strings.Builder
	b.WriteString("🚨 ")
	b.WriteString(n.Localizer.GetString(n.Lang, "alert.high_urgency"))
	b.WriteString("\n")
	b.WriteString(n.Localizer.Format(n.Lang, "alert.category", forms.CategoryLabel(sub.Category)))
	b.WriteString("\n")
	b.WriteString(n.Localizer.Format(n.Lang, "alert.id", triage.ShortID(sub.ID)))
	b.WriteString("\n\n")
	b.WriteString(preview(sub.Content))
	return b.String()
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	r := []rune(content)
	return string(r[:previewLength]) + "…"
}
