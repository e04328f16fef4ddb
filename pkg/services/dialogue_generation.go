package services

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/i18n"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
	"github.com/dskvich/image-telegram-bot/pkg/progress"
)

const (
	maxPhotoSize = 5 << 20
	resultName   = "image.png"
)

func (d *dialogueService) generate(ctx context.Context, r *request) {
	s := r.session
	l := s.Locale

	user, ok := d.admit(ctx, r)
	if !ok {
		s.Reset()
		return
	}

	if !s.ReferencesSatisfied() {
		slog.ErrorContext(ctx, "Reference images out of range", "mode", s.Mode, "count", len(s.References))
		d.answer(ctx, r, "", false)
		d.edit(ctx, r, d.errorText(l, i18n.GenerationError), d.modeKeyboard(l, user.Admin))
		s.Reset()
		return
	}

	d.answer(ctx, r, "", false)
	statusID := d.edit(ctx, r, d.texts.Text(l, i18n.StartGenerating), nil)

	req := domain.GenerationRequest{
		Mode:        s.Mode,
		Prompt:      s.Prompt,
		References:  s.References,
		AspectRatio: s.AspectRatio,
		Quality:     s.Quality,
		Search:      s.Search,
	}

	image, err := d.runGeneration(ctx, r, statusID, req)
	if err != nil {
		slog.ErrorContext(ctx, "Generating image", logger.Err(err))
		image = nil
	}

	d.replace(ctx, r, statusID, d.texts.Text(l, i18n.Done), nil)

	if image != nil {
		d.deliver(ctx, r, image)
	} else {
		d.send(ctx, r, d.errorText(l, i18n.GenerationError), nil)
	}

	d.logGeneration(ctx, r, req, image)
	d.archiveImage(ctx, image)

	d.send(ctx, r, d.texts.Text(l, i18n.WhatNext), d.modeKeyboard(l, user.Admin))
	s.Reset()
}

// admit applies the blocked and allowance policies. A rejected request has
// already been answered.
func (d *dialogueService) admit(ctx context.Context, r *request) (*domain.User, bool) {
	l := r.locale()

	user, err := d.users.Get(ctx, r.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "Loading user", logger.Err(err))
		d.answer(ctx, r, d.texts.Text(l, i18n.GenerationError), true)
		return nil, false
	}

	if user.Blocked {
		slog.InfoContext(ctx, "Generation rejected, user is blocked")
		d.answer(ctx, r, d.texts.Text(l, i18n.Blocked), true)
		return nil, false
	}

	if user.Admin {
		return user, true
	}

	used, err := d.generations.CountSuccessful(ctx, r.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "Counting generations", logger.Err(err))
		d.answer(ctx, r, d.texts.Text(l, i18n.GenerationError), true)
		return nil, false
	}

	if used >= user.Allowance {
		slog.InfoContext(ctx, "Generation rejected, allowance exhausted", "used", used, "allowance", user.Allowance)
		limit := d.texts.Text(l, i18n.LimitExceeded)
		d.answer(ctx, r, limit, true)
		d.edit(ctx, r, limit, d.modeKeyboard(l, user.Admin))
		return nil, false
	}

	return user, true
}

// runGeneration calls the backend while the progress reporter animates the
// status message statusID. It returns only after the reporter has stopped.
func (d *dialogueService) runGeneration(ctx context.Context, r *request, statusID int, req domain.GenerationRequest) ([]byte, error) {
	l := r.locale()

	progressCtx, stopProgress := context.WithCancel(ctx)
	defer stopProgress()

	reporter := progress.NewReporter(
		progress.DisplayFunc(func(ctx context.Context, text string) error {
			return d.messenger.EditText(ctx, r.ChatID, statusID, text, nil)
		}),
		d.estimate(req.Quality),
		func(bar string, percent, remaining int) string {
			return d.texts.Format(l, i18n.StatusGenerating, map[string]any{
				"Bar":       bar,
				"Percent":   percent,
				"Remaining": remaining,
			})
		},
		d.texts.Text(l, i18n.StatusDone),
	)

	var image []byte
	var g errgroup.Group
	g.Go(func() error {
		reporter.Run(progressCtx)
		return nil
	})
	g.Go(func() error {
		defer stopProgress()
		var err error
		image, err = d.images.Generate(ctx, req)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return image, nil
}

// deliver sends the result as a photo, or as a file when it is too large for
// photo compression or the photo upload fails.
func (d *dialogueService) deliver(ctx context.Context, r *request, image []byte) {
	s := r.session
	caption := d.settingsLine(s)

	if s.Quality == domain.QualityHigh && len(image) > maxPhotoSize {
		slog.InfoContext(ctx, "Sending result as a file", "size", humanize.IBytes(uint64(len(image))))
		if err := d.messenger.SendDocument(ctx, r.ChatID, resultName, image, caption); err != nil {
			slog.ErrorContext(ctx, "Sending result file", logger.Err(err))
		}
		return
	}

	err := d.messenger.SendPhoto(ctx, r.ChatID, resultName, image, caption)
	if err == nil {
		return
	}
	slog.WarnContext(ctx, "Sending result photo, falling back to a file", logger.Err(err))

	caption += d.texts.Text(s.Locale, i18n.FileCaptionSuffix)
	if err := d.messenger.SendDocument(ctx, r.ChatID, resultName, image, caption); err != nil {
		slog.ErrorContext(ctx, "Sending result file", logger.Err(err))
	}
}

func (d *dialogueService) logGeneration(ctx context.Context, r *request, req domain.GenerationRequest, image []byte) {
	g, err := d.generations.Log(ctx, domain.Generation{
		UserID:      r.UserID,
		Mode:        req.Mode,
		Quality:     req.Quality,
		AspectRatio: req.AspectRatio,
		Prompt:      req.Prompt,
		Success:     image != nil,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Logging generation", logger.Err(err))
		return
	}

	slog.InfoContext(ctx, "Generation finished",
		"generation_id", g.ID,
		"mode", g.Mode,
		"quality", g.Quality,
		"success", g.Success,
		"cost", g.Cost,
		"size", humanize.IBytes(uint64(len(image))),
	)
}

func (d *dialogueService) archiveImage(ctx context.Context, image []byte) {
	if d.archive == nil || image == nil {
		return
	}
	key, err := d.archive.Save(ctx, image)
	if err != nil {
		slog.WarnContext(ctx, "Archiving image", logger.Err(err))
		return
	}
	slog.DebugContext(ctx, "Image archived", "key", key)
}
