package workers

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/i18n"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
)

type Handler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

type Authenticator interface {
	IsAuthorized(userID int64) bool
}

type TelegramClient interface {
	GetUpdates() tgbotapi.UpdatesChannel
	StopUpdates()
	SendText(ctx context.Context, chatID int64, text string, kb *domain.Keyboard) (int, error)
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
	StartTyping(ctx context.Context, chatID int64)
}

type Texts interface {
	Text(l domain.Locale, k i18n.Key) string
}

type telegramUpdateListener struct {
	client        TelegramClient
	authenticator Authenticator
	handler       Handler
	texts         Texts
	wg            sync.WaitGroup

	mu     sync.Mutex
	queues map[int64]*userQueue
}

// userQueue holds the updates of one user that are waiting for its drain goroutine.
type userQueue struct {
	pending []tgbotapi.Update
}

func NewTelegramUpdateListener(
	client TelegramClient,
	authenticator Authenticator,
	handler Handler,
	texts Texts,
) (*telegramUpdateListener, error) {
	return &telegramUpdateListener{
		client:        client,
		authenticator: authenticator,
		handler:       handler,
		texts:         texts,
		queues:        make(map[int64]*userQueue),
	}, nil
}

func (t *telegramUpdateListener) Name() string { return "telegram_listener_worker" }

// Start hands updates to per-user queues. Different users are served
// concurrently, one user's updates are handled one at a time in arrival order.
func (t *telegramUpdateListener) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", t.Name())
	defer slog.Info("Worker stopped", "name", t.Name())

	updates := t.client.GetUpdates()

	for {
		select {
		case <-ctx.Done():
			t.client.StopUpdates()
			t.wg.Wait()
			return nil
		case update, ok := <-updates:
			if !ok {
				t.wg.Wait()
				return nil
			}
			t.dispatch(ctx, update)
		}
	}
}

func (t *telegramUpdateListener) dispatch(ctx context.Context, update tgbotapi.Update) {
	userID := senderID(&update)

	t.mu.Lock()
	q, running := t.queues[userID]
	if !running {
		q = &userQueue{}
		t.queues[userID] = q
	}
	q.pending = append(q.pending, update)
	t.mu.Unlock()

	if running {
		return
	}

	t.wg.Add(1)
	go t.drain(ctx, userID, q)
}

// drain processes the queue until it is empty and then forgets it.
func (t *telegramUpdateListener) drain(ctx context.Context, userID int64, q *userQueue) {
	defer t.wg.Done()

	for {
		t.mu.Lock()
		if len(q.pending) == 0 {
			delete(t.queues, userID)
			t.mu.Unlock()
			return
		}
		update := q.pending[0]
		q.pending = q.pending[1:]
		t.mu.Unlock()

		t.processUpdate(ctx, &update)
	}
}

func senderID(update *tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}

func (t *telegramUpdateListener) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	ctx = logger.ContextWithRequestID(ctx, int64(update.UpdateID))

	var chatID int64
	var from *tgbotapi.User
	switch {
	case update.Message != nil:
		chatID, from = update.Message.Chat.ID, update.Message.From
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		chatID, from = update.CallbackQuery.Message.Chat.ID, update.CallbackQuery.From
	default:
		slog.DebugContext(ctx, "Received unsupported update type")
		return
	}
	if from == nil {
		slog.WarnContext(ctx, "Received update without sender", "chat_id", chatID)
		return
	}

	ctx = logger.ContextWithUserID(ctx, from.ID)
	slog.InfoContext(ctx, "Processing update", "chat_id", chatID)

	if !t.authenticator.IsAuthorized(from.ID) {
		slog.WarnContext(ctx, "Unauthorized access attempt")
		if update.CallbackQuery != nil {
			if err := t.client.AnswerCallback(ctx, update.CallbackQuery.ID, "", false); err != nil {
				slog.DebugContext(ctx, "Answering callback", logger.Err(err))
			}
		}
		if _, err := t.client.SendText(ctx, chatID, t.texts.Text(localeOf(from), i18n.NotAuthorized), nil); err != nil {
			slog.ErrorContext(ctx, "Sending unauthorized notice", logger.Err(err))
		}
		return
	}

	if update.Message != nil {
		t.client.StartTyping(ctx, chatID)
	}

	t.handler.HandleUpdate(ctx, update)
}

// localeOf picks a locale from the client language before any user record exists.
func localeOf(u *tgbotapi.User) domain.Locale {
	code, _, _ := strings.Cut(strings.ToLower(u.LanguageCode), "-")
	if l, err := domain.ParseLocale(code); err == nil {
		return l
	}
	return domain.DefaultLocale
}
