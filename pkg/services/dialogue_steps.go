package services

import (
	"context"
	"log/slog"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/i18n"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
	"github.com/dskvich/image-telegram-bot/pkg/render"
)

// chooseMode starts a new dialogue. Mode buttons are honored from any state.
func (d *dialogueService) chooseMode(ctx context.Context, r *request, mode domain.Mode) {
	s := r.session
	s.Reset()
	s.Mode = mode
	s.State = domain.StateChooseRatio

	d.answer(ctx, r, "", false)
	d.edit(ctx, r, d.ratioHeader(s), d.ratioKeyboard(s.Locale))
}

func (d *dialogueService) chooseRatio(ctx context.Context, r *request, ratio string) {
	if !domain.IsAspectRatio(ratio) {
		slog.WarnContext(ctx, "Unknown aspect ratio", "ratio", ratio)
		return
	}

	s := r.session
	s.AspectRatio = ratio
	s.State = domain.StateChooseQuality

	d.answer(ctx, r, "", false)
	d.edit(ctx, r, d.settingsLine(s)+"\n\n"+d.texts.Text(s.Locale, i18n.QualityHeader), d.qualityKeyboard(s.Locale))
}

func (d *dialogueService) chooseQuality(ctx context.Context, r *request, raw string) {
	q, err := domain.ParseQuality(raw)
	if err != nil {
		slog.WarnContext(ctx, "Unknown quality", logger.Err(err))
		return
	}

	s := r.session
	s.Quality = q
	s.State = domain.StateChooseSearch

	d.answer(ctx, r, "", false)
	d.edit(ctx, r, d.settingsLine(s)+"\n\n"+d.texts.Text(s.Locale, i18n.SearchHeader), d.searchKeyboard(s.Locale))
}

func (d *dialogueService) chooseSearch(ctx context.Context, r *request, search bool) {
	s := r.session
	s.Search = search
	l := s.Locale

	d.answer(ctx, r, "", false)

	switch s.Mode {
	case domain.ModeImageToImage:
		s.State = domain.StateAwaitPhoto
		d.edit(ctx, r, d.promptHeader(s), d.menuKeyboard(l))
	case domain.ModeMultiImage:
		s.References = [][]byte{}
		s.State = domain.StateAwaitPhotos
		d.edit(ctx, r, d.promptHeader(s), nil)
		d.send(ctx, r, d.photoCountText(l, 0), d.donePhotosKeyboard(l, 0))
	default:
		s.State = domain.StateAwaitPrompt
		d.edit(ctx, r, d.promptHeader(s), d.menuKeyboard(l))
	}
}

func (d *dialogueService) handleAwaitPhoto(ctx context.Context, r *request) {
	s := r.session
	l := s.Locale

	switch {
	case r.PhotoID != "":
		image, ok := d.downloadPhoto(ctx, r)
		if !ok {
			return
		}
		s.References = [][]byte{image}
		s.State = domain.StateAwaitPrompt
		d.send(ctx, r, d.texts.Text(l, i18n.PhotoUploaded), d.menuKeyboard(l))
	case r.VoiceID != "":
		d.send(ctx, r, d.texts.Text(l, i18n.ExpectedPhotoNotVoice), nil)
	default:
		d.send(ctx, r, d.texts.Text(l, i18n.ExpectedPhoto), nil)
	}
}

func (d *dialogueService) handleAwaitPhotos(ctx context.Context, r *request) {
	s := r.session
	l := s.Locale

	switch {
	case r.PhotoID != "":
		if len(s.References) >= domain.MaxReferenceImages {
			d.send(ctx, r, d.photoCountText(l, len(s.References)), d.donePhotosKeyboard(l, len(s.References)))
			return
		}
		image, ok := d.downloadPhoto(ctx, r)
		if !ok {
			return
		}
		s.References = append(s.References, image)
		d.send(ctx, r, d.photoCountText(l, len(s.References)), d.donePhotosKeyboard(l, len(s.References)))
	case r.VoiceID != "":
		d.send(ctx, r, d.texts.Text(l, i18n.ExpectedImagesNotVoice), d.donePhotosKeyboard(l, len(s.References)))
	default:
		d.send(ctx, r, d.texts.Text(l, i18n.ExpectedImagesNotText), d.donePhotosKeyboard(l, len(s.References)))
	}
}

func (d *dialogueService) finishPhotos(ctx context.Context, r *request) {
	s := r.session
	l := s.Locale
	count := len(s.References)

	if count < domain.MinMultiImages {
		d.answer(ctx, r, d.texts.Format(l, i18n.NeedMorePhotos, map[string]any{"Min": domain.MinMultiImages}), true)
		return
	}

	s.State = domain.StateAwaitPrompt
	d.answer(ctx, r, "", false)
	d.edit(ctx, r, d.texts.Format(l, i18n.PhotosUploaded, map[string]any{"Count": count}), d.menuKeyboard(l))
}

func (d *dialogueService) downloadPhoto(ctx context.Context, r *request) ([]byte, bool) {
	image, err := d.messenger.DownloadFile(ctx, r.PhotoID)
	if err != nil {
		slog.ErrorContext(ctx, "Downloading photo", logger.Err(err))
		d.send(ctx, r, d.errorText(r.locale(), i18n.ExpectedPhoto), nil)
		return nil, false
	}
	return image, true
}

func (d *dialogueService) handleAwaitPrompt(ctx context.Context, r *request) {
	s := r.session
	l := s.Locale

	switch {
	case r.Text != "":
		d.confirmPrompt(ctx, r, r.Text)
	case r.VoiceID != "":
		d.transcribePrompt(ctx, r)
	case r.PhotoID != "" && s.Mode == domain.ModeTextToImage:
		d.send(ctx, r, d.texts.Text(l, i18n.ExpectedText), nil)
	case r.PhotoID != "":
		d.send(ctx, r, d.texts.Text(l, i18n.PhotoAlreadyLoaded), nil)
	}
}

func (d *dialogueService) confirmPrompt(ctx context.Context, r *request, prompt string) {
	s := r.session
	s.Prompt = prompt
	s.State = domain.StateConfirm
	d.send(ctx, r, d.confirmText(s), d.confirmKeyboard(s.Locale))
}

// transcribePrompt turns a voice note into the prompt. On failure the state is kept.
func (d *dialogueService) transcribePrompt(ctx context.Context, r *request) {
	l := r.locale()
	if d.voice == nil {
		d.send(ctx, r, d.texts.Text(l, i18n.VoiceDisabled), nil)
		return
	}

	statusID := d.send(ctx, r, d.texts.Text(l, i18n.VoiceRecognizing), nil)

	text, err := d.transcribe(ctx, r.VoiceID)
	if err != nil {
		slog.WarnContext(ctx, "Transcribing voice prompt", logger.Err(err))
		d.replace(ctx, r, statusID, d.errorText(l, i18n.VoiceError), nil)
		return
	}

	if statusID != 0 {
		if err := d.messenger.DeleteMessage(ctx, r.ChatID, statusID); err != nil {
			slog.DebugContext(ctx, "Deleting voice status", logger.Err(err))
		}
	}
	d.confirmPrompt(ctx, r, text)
}

func (d *dialogueService) transcribe(ctx context.Context, fileID string) (string, error) {
	audio, err := d.messenger.DownloadFile(ctx, fileID)
	if err != nil {
		return "", err
	}
	return d.voice.Transcribe(ctx, audio)
}

func (d *dialogueService) enhancePrompt(ctx context.Context, r *request) {
	s := r.session
	l := s.Locale

	d.answer(ctx, r, "", false)
	d.edit(ctx, r, d.texts.Text(l, i18n.EnhancingPrompt), nil)

	s.Prompt = d.images.Enhance(ctx, s.Prompt)

	d.edit(ctx, r, d.texts.Format(l, i18n.EnhancedPrompt, map[string]any{
		"Prompt": render.TelegramHTML(s.Prompt),
	}), d.generateKeyboard(l))
}
