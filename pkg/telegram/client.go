package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
)

const maxDownloadSize = 20 << 20

type client struct {
	token     string
	bot       *tgbotapi.BotAPI
	updatesCh tgbotapi.UpdatesChannel
}

func NewClient(token string, updateTimeout int) (*client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api instance: %w", err)
	}

	slog.Info("authorized on telegram", "account", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	return &client{
		token:     token,
		bot:       bot,
		updatesCh: bot.GetUpdatesChan(u),
	}, nil
}

func (c *client) GetUpdates() tgbotapi.UpdatesChannel {
	return c.updatesCh
}

func (c *client) StopUpdates() {
	c.bot.StopReceivingUpdates()
}

func (c *client) SendText(_ context.Context, chatID int64, text string, kb *domain.Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup := toMarkup(kb); markup != nil {
		msg.ReplyMarkup = *markup
	}

	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("sending message: %w", err)
	}
	return sent.MessageID, nil
}

func (c *client) EditText(_ context.Context, chatID int64, messageID int, text string, kb *domain.Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = toMarkup(kb)

	if _, err := c.bot.Request(edit); err != nil {
		return fmt.Errorf("editing message: %w", err)
	}
	return nil
}

func (c *client) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	if _, err := c.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	return nil
}

func (c *client) SendPhoto(_ context.Context, chatID int64, name string, data []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML

	if _, err := c.bot.Send(photo); err != nil {
		return fmt.Errorf("sending photo: %w", err)
	}
	return nil
}

func (c *client) SendDocument(_ context.Context, chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeHTML

	if _, err := c.bot.Send(doc); err != nil {
		return fmt.Errorf("sending document: %w", err)
	}
	return nil
}

func (c *client) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert

	if _, err := c.bot.Request(cb); err != nil {
		return fmt.Errorf("answering callback: %w", err)
	}
	return nil
}

func (c *client) StartTyping(ctx context.Context, chatID int64) {
	if _, err := c.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		slog.DebugContext(ctx, "sending chat action", logger.Err(err))
	}
}

// SetCommands registers the command menu for every locale, using the default locale for clients without one.
func (c *client) SetCommands(ctx context.Context, commands map[domain.Locale][]tgbotapi.BotCommand) error {
	for locale, cmds := range commands {
		cfg := tgbotapi.NewSetMyCommands(cmds...)
		if locale != domain.DefaultLocale {
			cfg.LanguageCode = string(locale)
		}
		if _, err := c.bot.Request(cfg); err != nil {
			return fmt.Errorf("setting %s commands: %w", locale, err)
		}
	}
	slog.InfoContext(ctx, "bot commands registered", "locales", len(commands))
	return nil
}

func (c *client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("getting file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(c.token), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.bot.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if closeErr := Body.Close(); closeErr != nil {
			slog.ErrorContext(ctx, "closing body", logger.Err(closeErr))
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

func toMarkup(kb *domain.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if kb == nil || len(kb.Rows) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, r := range kb.Rows {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Callback))
		}
		rows = append(rows, row)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
