package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
)

type DialogueService interface {
	Handle(ctx context.Context, update domain.Update)
}

type handler struct {
	dialogue DialogueService
}

func NewHandler(dialogue DialogueService) *handler {
	return &handler{dialogue: dialogue}
}

func (h *handler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	u, ok := ToUpdate(update)
	if !ok {
		slog.WarnContext(ctx, "Unhandled update", "update_id", update.UpdateID)
		return
	}
	h.dialogue.Handle(ctx, u)
}

// ToUpdate flattens a callback or message update. Other update kinds are rejected.
func ToUpdate(update *tgbotapi.Update) (domain.Update, bool) {
	u := domain.Update{ID: update.UpdateID}

	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil {
			return u, false
		}
		u.ChatID = cb.Message.Chat.ID
		u.MessageID = cb.Message.MessageID
		u.CallbackID = cb.ID
		u.Callback = cb.Data
		fillUser(&u, cb.From)

	case update.Message != nil:
		msg := update.Message
		u.ChatID = msg.Chat.ID
		u.MessageID = msg.MessageID
		fillUser(&u, msg.From)
		fillContent(&u, msg)

	default:
		return u, false
	}

	return u, true
}

func fillUser(u *domain.Update, from *tgbotapi.User) {
	if from == nil {
		return
	}
	u.UserID = from.ID
	u.Username = from.UserName
	u.FullName = strings.TrimSpace(from.FirstName + " " + from.LastName)
}

func fillContent(u *domain.Update, msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand():
		u.Command = strings.ToLower(msg.Command())
	case len(msg.Photo) > 0:
		u.PhotoID = msg.Photo[len(msg.Photo)-1].FileID
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		u.PhotoID = msg.Document.FileID
	case msg.Voice != nil:
		u.VoiceID = msg.Voice.FileID
	case msg.Audio != nil:
		u.VoiceID = msg.Audio.FileID
	default:
		u.Text = strings.TrimSpace(msg.Text)
	}
}
