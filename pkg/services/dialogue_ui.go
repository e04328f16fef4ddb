package services

import (
	"html"
	"strings"

	"github.com/samber/lo"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/i18n"
)

const ratiosPerRow = 2

func (d *dialogueService) menuButton(l domain.Locale) domain.Button {
	return domain.Button{Label: d.texts.Text(l, i18n.ButtonMenu), Callback: domain.MenuCallback}
}

func (d *dialogueService) menuKeyboard(l domain.Locale) *domain.Keyboard {
	return (&domain.Keyboard{}).Row(d.menuButton(l))
}

func (d *dialogueService) modeKeyboard(l domain.Locale, admin bool) *domain.Keyboard {
	kb := &domain.Keyboard{}
	for _, m := range domain.Modes {
		kb.Row(domain.Button{Label: d.texts.Text(l, i18n.ModeButton(m)), Callback: string(m)})
	}

	extra := []domain.Button{{Label: d.texts.Text(l, i18n.ButtonLanguage), Callback: domain.LanguageCallback}}
	if admin {
		extra = append(extra, domain.Button{Label: d.texts.Text(l, i18n.ButtonAdmin), Callback: domain.AdminCallback})
	}
	return kb.Row(extra...)
}

func (d *dialogueService) ratioKeyboard(l domain.Locale) *domain.Keyboard {
	kb := &domain.Keyboard{}
	for _, chunk := range lo.Chunk(domain.AspectRatios, ratiosPerRow) {
		kb.Row(lo.Map(chunk, func(r string, _ int) domain.Button {
			return domain.Button{Label: d.texts.Text(l, i18n.Ratio(r)), Callback: domain.RatioCallbackPrefix + r}
		})...)
	}
	return kb.Row(d.menuButton(l))
}

func (d *dialogueService) qualityKeyboard(l domain.Locale) *domain.Keyboard {
	buttons := lo.Map(domain.Qualities, func(q domain.Quality, _ int) domain.Button {
		return domain.Button{Label: q.Icon() + " " + q.Tier(), Callback: domain.QualityCallbackPrefix + string(q)}
	})
	return (&domain.Keyboard{}).Row(buttons...).Row(d.menuButton(l))
}

func (d *dialogueService) searchKeyboard(l domain.Locale) *domain.Keyboard {
	return (&domain.Keyboard{}).
		Row(
			domain.Button{Label: d.texts.Text(l, i18n.ButtonSearchOn), Callback: domain.SearchOnCallback},
			domain.Button{Label: d.texts.Text(l, i18n.ButtonSearchOff), Callback: domain.SearchOffCallback},
		).
		Row(d.menuButton(l))
}

func (d *dialogueService) confirmKeyboard(l domain.Locale) *domain.Keyboard {
	return (&domain.Keyboard{}).
		Row(
			domain.Button{Label: d.texts.Text(l, i18n.ButtonEnhance), Callback: domain.EnhanceCallback},
			domain.Button{Label: d.texts.Text(l, i18n.ButtonGenerate), Callback: domain.GenerateCallback},
		).
		Row(d.menuButton(l))
}

func (d *dialogueService) generateKeyboard(l domain.Locale) *domain.Keyboard {
	return (&domain.Keyboard{}).
		Row(domain.Button{Label: d.texts.Text(l, i18n.ButtonGenerate), Callback: domain.GenerateCallback}).
		Row(d.menuButton(l))
}

func (d *dialogueService) donePhotosKeyboard(l domain.Locale, count int) *domain.Keyboard {
	label := d.texts.Format(l, i18n.ButtonDonePhotosOK, map[string]any{
		"Count": count,
		"Max":   domain.MaxReferenceImages,
	})
	if count < domain.MinMultiImages {
		label = d.texts.Format(l, i18n.ButtonDonePhotosNeed, map[string]any{
			"Count": count,
			"Min":   domain.MinMultiImages,
		})
	}
	return (&domain.Keyboard{}).
		Row(domain.Button{Label: label, Callback: domain.DonePhotosCallback}).
		Row(d.menuButton(l))
}

func (d *dialogueService) languageKeyboard() *domain.Keyboard {
	kb := &domain.Keyboard{}
	for _, l := range domain.Locales {
		kb.Row(domain.Button{Label: l.Flag() + " " + l.Name(), Callback: domain.SetLanguageCallbackPrefix + string(l)})
	}
	return kb
}

// settingsLine summarizes the choices made so far, e.g. "🎨 Text -> Image  📐 1:1  📱 1K".
func (d *dialogueService) settingsLine(s *domain.Session) string {
	var parts []string
	if s.Mode != "" {
		parts = append(parts, s.Mode.Icon()+" "+d.texts.Text(s.Locale, i18n.ModeLabel(s.Mode)))
	}
	if s.AspectRatio != "" {
		parts = append(parts, "📐 "+s.AspectRatio)
	}
	if s.Quality != "" {
		parts = append(parts, s.Quality.Icon()+" "+s.Quality.Tier())
	}
	if s.Search {
		parts = append(parts, d.texts.Text(s.Locale, i18n.LabelSearch))
	}
	return strings.Join(parts, "  ")
}

func (d *dialogueService) ratioHeader(s *domain.Session) string {
	l := s.Locale
	return s.Mode.Icon() + " " + d.texts.Text(l, i18n.ModeLabel(s.Mode)) +
		"\nℹ️ " + d.texts.Text(l, i18n.ModeDetails(s.Mode)) +
		"\n" + d.texts.Text(l, i18n.ChooseRatio)
}

func (d *dialogueService) promptHeader(s *domain.Session) string {
	return d.settingsLine(s) + d.texts.Text(s.Locale, i18n.PromptHint(s.Mode))
}

func (d *dialogueService) photoCountText(l domain.Locale, count int) string {
	data := map[string]any{
		"Count": count,
		"Max":   domain.MaxReferenceImages,
		"Need":  domain.MinMultiImages - count,
	}
	switch {
	case count >= domain.MaxReferenceImages:
		return d.texts.Format(l, i18n.PhotoCountMax, data)
	case count < domain.MinMultiImages:
		return d.texts.Format(l, i18n.PhotoCountNeed, data)
	default:
		return d.texts.Format(l, i18n.PhotoCountOK, data)
	}
}

func (d *dialogueService) confirmText(s *domain.Session) string {
	return d.settingsLine(s) + "\n\n" +
		d.texts.Format(s.Locale, i18n.PromptConfirm, map[string]any{"Prompt": html.EscapeString(s.Prompt)})
}

func (d *dialogueService) errorText(l domain.Locale, hint i18n.Key) string {
	return d.texts.Format(l, i18n.ErrorPrefix, map[string]any{"Hint": d.texts.Text(l, hint)})
}
