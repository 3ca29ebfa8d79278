package telegram

import (
	"context"
	"strings"

	"noticeboard/backend/internal/models"
	"noticeboard/backend/internal/triage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TriageService defines the triage methods required by the command handler.
type TriageService interface {
	List(ctx context.Context, actor *models.Profile) ([]models.AnonymousSubmission, error)
	Resolve(ctx context.Context, actor *models.Profile, id string) (string, error)
	AdvanceStatus(ctx context.Context, actor *models.Profile, id string) (*models.AnonymousSubmission, error)
}

// HandleAdminCommand processes /summary and /advance <id>.
// Commands are accepted only from the administration chat.
func (n *Notifier) HandleAdminCommand(ctx context.Context, update *tgbotapi.Update, svc TriageService) {
	if !n.Enabled() || update.Message == nil || !update.Message.IsCommand() {
		return
	}

	chatID := update.Message.Chat.ID
	var responseText string

	switch {
	case chatID != n.AdminChatID:
		responseText = n.Localizer.GetString(n.Lang, "tg.not_admin")

	case update.Message.Command() == "summary":
		subs, err := svc.List(ctx, triage.Console)
		if err != nil {
			n.log.Error("telegram summary", zap.Error(err))
			responseText = n.Localizer.GetString(n.Lang, "tg.failed")
			break
		}
		s := triage.Summarize(subs)
		responseText = n.Localizer.Format(n.Lang, "tg.summary", s.Total, s.New, s.Reviewed, s.Resolved)

	case update.Message.Command() == "advance":
		id := strings.TrimSpace(update.Message.CommandArguments())
		if id == "" {
			responseText = n.Localizer.GetString(n.Lang, "tg.usage")
			break
		}
		// В алерті показується короткий ID, тож приймаємо обидві форми
		fullID, err := svc.Resolve(ctx, triage.Console, id)
		if err != nil {
			n.log.Warn("telegram advance", zap.String("submission_id", id), zap.Error(err))
			responseText = n.Localizer.GetString(n.Lang, "tg.failed")
			break
		}
		sub, err := svc.AdvanceStatus(ctx, triage.Console, fullID)
		if err != nil {
			n.log.Warn("telegram advance", zap.String("submission_id", id), zap.Error(err))
			responseText = n.Localizer.GetString(n.Lang, "tg.failed")
			break
		}
		responseText = n.Localizer.Format(n.Lang, "tg.advanced", triage.ShortID(sub.ID), triage.StatusLabel(sub.Status))

	default:
		responseText = n.Localizer.GetString(n.Lang, "tg.usage")
	}

	msg := tgbotapi.NewMessage(chatID, responseText)
	if _, err := n.Sender.Send(msg); err != nil {
		n.log.Error("error sending command reply", zap.Error(err))
	}
}

// Poller is the part of *tgbotapi.BotAPI used to receive updates.
type Poller interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// ListenCommands serves admin commands until ctx is done.
func (n *Notifier) ListenCommands(ctx context.Context, svc TriageService) {
	poller, ok := n.Sender.(Poller)
	if !n.Enabled() || !ok {
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := poller.GetUpdatesChan(u)
	defer poller.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			n.HandleAdminCommand(ctx, &update, svc)
		}
	}
}
