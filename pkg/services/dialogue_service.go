package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/i18n"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
	"github.com/dskvich/image-telegram-bot/pkg/progress"
)

type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, kb *domain.Keyboard) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, kb *domain.Keyboard) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SendPhoto(ctx context.Context, chatID int64, name string, data []byte, caption string) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte, caption string) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

type SessionRepository interface {
	Acquire(userID int64) (session *domain.Session, release func())
}

type UserRepository interface {
	Touch(ctx context.Context, id int64, displayName string) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	SetLocale(ctx context.Context, id int64, locale domain.Locale) error
}

type GenerationRepository interface {
	Log(ctx context.Context, g domain.Generation) (*domain.Generation, error)
	CountSuccessful(ctx context.Context, userID int64) (int, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) ([]byte, error)
	Enhance(ctx context.Context, prompt string) string
}

type VoiceTranscriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type Texts interface {
	Text(l domain.Locale, k i18n.Key) string
	Format(l domain.Locale, k i18n.Key, data any) string
}

type ImageArchive interface {
	Save(ctx context.Context, data []byte) (string, error)
}

type BalanceProvider interface {
	Balance(ctx context.Context) (string, error)
}

type dialogueService struct {
	messenger   Messenger
	sessions    SessionRepository
	users       UserRepository
	generations GenerationRepository
	images      ImageGenerator
	texts       Texts

	voice    VoiceTranscriber
	archive  ImageArchive
	balance  BalanceProvider
	adminURL string

	estimate func(domain.Quality) time.Duration
}

type DialogueOption func(*dialogueService)

// WithVoice enables voice prompts. Without it voice notes get a "not configured" reply.
func WithVoice(v VoiceTranscriber) DialogueOption {
	return func(d *dialogueService) { d.voice = v }
}

func WithArchive(a ImageArchive) DialogueOption {
	return func(d *dialogueService) { d.archive = a }
}

func WithBalance(b BalanceProvider) DialogueOption {
	return func(d *dialogueService) { d.balance = b }
}

func WithAdminURL(url string) DialogueOption {
	return func(d *dialogueService) { d.adminURL = url }
}

func NewDialogueService(
	messenger Messenger,
	sessions SessionRepository,
	users UserRepository,
	generations GenerationRepository,
	images ImageGenerator,
	texts Texts,
	opts ...DialogueOption,
) *dialogueService {
	d := &dialogueService{
		messenger:   messenger,
		sessions:    sessions,
		users:       users,
		generations: generations,
		images:      images,
		texts:       texts,
		estimate:    progress.Estimate,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// request is one update bound to the session it mutates.
type request struct {
	domain.Update
	session  *domain.Session
	user     *domain.User
	answered bool
}

func (r *request) locale() domain.Locale {
	return r.session.Locale
}

// Handle applies one update to the sender's session. Updates of the same user
// are applied one at a time.
func (d *dialogueService) Handle(ctx context.Context, u domain.Update) {
	session, release := d.sessions.Acquire(u.UserID)
	defer release()

	r := &request{Update: u, session: session}
	r.user = d.touch(ctx, r)
	defer d.answer(ctx, r, "", false)

	slog.DebugContext(ctx, "Handling update",
		"state", session.State,
		"command", u.Command,
		"callback", u.Callback,
	)

	switch {
	case u.Command != "":
		d.handleCommand(ctx, r)
	case u.IsCallback():
		d.handleCallback(ctx, r)
	default:
		d.handleMessage(ctx, r)
	}
}

// touch records the user's activity and seeds the session locale from the stored one.
func (d *dialogueService) touch(ctx context.Context, r *request) *domain.User {
	user, err := d.users.Touch(ctx, r.UserID, r.DisplayName())
	if err != nil {
		slog.ErrorContext(ctx, "Touching user", logger.Err(err))
		user = &domain.User{ID: r.UserID, Allowance: domain.DefaultAllowance, Locale: domain.DefaultLocale}
	}
	if r.session.Locale == "" {
		r.session.Locale = lo.Ternary(user.Locale != "", user.Locale, domain.DefaultLocale)
	}
	return user
}

func (d *dialogueService) handleCallback(ctx context.Context, r *request) {
	data := r.Callback

	switch {
	case data == domain.MenuCallback:
		d.showMenu(ctx, r)
	case data == domain.LanguageCallback:
		d.showLanguages(ctx, r)
	case strings.HasPrefix(data, domain.SetLanguageCallbackPrefix):
		d.setLanguage(ctx, r, strings.TrimPrefix(data, domain.SetLanguageCallbackPrefix))
	case data == domain.AdminCallback:
		d.showAdminPanel(ctx, r)
	default:
		if mode, err := domain.ParseMode(data); err == nil {
			d.chooseMode(ctx, r, mode)
			return
		}
		d.handleStateCallback(ctx, r)
	}
}

func (d *dialogueService) handleStateCallback(ctx context.Context, r *request) {
	data := r.Callback

	switch s := r.session.State; {
	case s == domain.StateChooseRatio && strings.HasPrefix(data, domain.RatioCallbackPrefix):
		d.chooseRatio(ctx, r, strings.TrimPrefix(data, domain.RatioCallbackPrefix))
	case s == domain.StateChooseQuality && strings.HasPrefix(data, domain.QualityCallbackPrefix):
		d.chooseQuality(ctx, r, strings.TrimPrefix(data, domain.QualityCallbackPrefix))
	case s == domain.StateChooseSearch && (data == domain.SearchOnCallback || data == domain.SearchOffCallback):
		d.chooseSearch(ctx, r, data == domain.SearchOnCallback)
	case s == domain.StateAwaitPhotos && data == domain.DonePhotosCallback:
		d.finishPhotos(ctx, r)
	case s == domain.StateConfirm && data == domain.EnhanceCallback:
		d.enhancePrompt(ctx, r)
	case s == domain.StateConfirm && data == domain.GenerateCallback:
		d.generate(ctx, r)
	default:
		slog.DebugContext(ctx, "Ignoring stale callback", "state", s, "callback", data)
	}
}

func (d *dialogueService) handleMessage(ctx context.Context, r *request) {
	switch r.session.State {
	case domain.StateAwaitPhoto:
		d.handleAwaitPhoto(ctx, r)
	case domain.StateAwaitPhotos:
		d.handleAwaitPhotos(ctx, r)
	case domain.StateAwaitPrompt:
		d.handleAwaitPrompt(ctx, r)
	default:
		slog.DebugContext(ctx, "Ignoring message", "state", r.session.State)
	}
}

// answer acknowledges the callback once. Later calls are no-ops.
func (d *dialogueService) answer(ctx context.Context, r *request, text string, alert bool) {
	if !r.IsCallback() || r.answered {
		return
	}
	r.answered = true
	if err := d.messenger.AnswerCallback(ctx, r.CallbackID, text, alert); err != nil {
		slog.WarnContext(ctx, "Answering callback", logger.Err(err))
	}
}

func (d *dialogueService) send(ctx context.Context, r *request, text string, kb *domain.Keyboard) int {
	id, err := d.messenger.SendText(ctx, r.ChatID, text, kb)
	if err != nil {
		slog.ErrorContext(ctx, "Sending message", logger.Err(err))
	}
	return id
}

// edit replaces the text of the message the callback came from.
func (d *dialogueService) edit(ctx context.Context, r *request, text string, kb *domain.Keyboard) int {
	return d.replace(ctx, r, r.MessageID, text, kb)
}

// replace edits messageID and sends a new message if the edit is impossible.
// It returns the id of the message now showing text.
func (d *dialogueService) replace(ctx context.Context, r *request, messageID int, text string, kb *domain.Keyboard) int {
	if messageID != 0 {
		err := d.messenger.EditText(ctx, r.ChatID, messageID, text, kb)
		if err == nil {
			return messageID
		}
		slog.WarnContext(ctx, "Editing message, sending a new one", "message_id", messageID, logger.Err(err))
	}
	return d.send(ctx, r, text, kb)
}
