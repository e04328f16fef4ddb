package services

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/i18n"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
)

const (
	commandStart    = "start"
	commandHelp     = "help"
	commandCancel   = "cancel"
	commandLanguage = "language"
	commandAdmin    = "admin"
)

func (d *dialogueService) handleCommand(ctx context.Context, r *request) {
	l := r.locale()

	switch r.Command {
	case commandStart:
		r.session.Reset()
		d.send(ctx, r, d.texts.Text(l, i18n.Welcome), d.modeKeyboard(l, r.user.Admin))
	case commandHelp:
		d.send(ctx, r, d.texts.Text(l, i18n.Help), nil)
	case commandCancel:
		r.session.Reset()
		d.send(ctx, r, d.texts.Text(l, i18n.Cancelled), d.modeKeyboard(l, r.user.Admin))
	case commandLanguage:
		d.showLanguages(ctx, r)
	case commandAdmin:
		d.showAdminPanel(ctx, r)
	default:
		slog.DebugContext(ctx, "Unknown command", "command", r.Command)
	}
}

// showMenu resets the session and turns the current message into the mode menu.
func (d *dialogueService) showMenu(ctx context.Context, r *request) {
	l := r.locale()
	r.session.Reset()
	d.answer(ctx, r, "", false)
	d.edit(ctx, r, d.texts.Text(l, i18n.Welcome), d.modeKeyboard(l, r.user.Admin))
}

func (d *dialogueService) showLanguages(ctx context.Context, r *request) {
	d.answer(ctx, r, "", false)
	d.send(ctx, r, d.texts.Text(r.locale(), i18n.SelectLanguage), d.languageKeyboard())
}

// setLanguage switches the interface locale. The rest of the session is kept.
func (d *dialogueService) setLanguage(ctx context.Context, r *request, code string) {
	locale, err := domain.ParseLocale(code)
	if err != nil {
		slog.WarnContext(ctx, "Setting language", logger.Err(err))
		return
	}

	if err := d.users.SetLocale(ctx, r.UserID, locale); err != nil {
		slog.ErrorContext(ctx, "Saving language", logger.Err(err))
	}
	r.session.Locale = locale

	d.answer(ctx, r, "", false)
	d.edit(ctx, r, d.texts.Text(locale, i18n.LanguageChanged), nil)
	d.send(ctx, r, d.texts.Text(locale, i18n.Welcome), d.modeKeyboard(locale, r.user.Admin))
}

// showAdminPanel answers admins with usage totals. Everyone else is ignored.
func (d *dialogueService) showAdminPanel(ctx context.Context, r *request) {
	if !r.user.Admin {
		slog.WarnContext(ctx, "Admin panel requested by a non-admin")
		return
	}

	d.answer(ctx, r, "", false)
	d.send(ctx, r, d.adminPanelText(ctx, r.locale()), nil)
}

func (d *dialogueService) adminPanelText(ctx context.Context, l domain.Locale) string {
	stats, err := d.generations.Stats(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Loading stats", logger.Err(err))
		stats = &domain.Stats{}
	}

	text := d.texts.Format(l, i18n.AdminPanel, map[string]any{
		"Users":       humanize.Comma(int64(stats.Users)),
		"Generations": humanize.Comma(int64(stats.Successful)),
		"Cost":        humanize.FormatFloat("#,###.##", stats.Cost),
	})

	if d.balance != nil {
		balance, err := d.balance.Balance(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Loading hosting balance", logger.Err(err))
		} else {
			text += d.texts.Format(l, i18n.AdminBalance, map[string]any{"Balance": balance})
		}
	}

	if d.adminURL != "" {
		text += d.texts.Format(l, i18n.AdminWeb, map[string]any{"URL": d.adminURL})
	}

	return text
}
