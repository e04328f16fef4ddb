package gemini

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dskvich/image-telegram-bot/pkg/logger"
)

const enhanceInstruction = "You are an expert prompt engineer for AI image generation. " +
	"Enhance the following prompt to produce better, more vivid images. " +
	"Use narrative style: describe the scene, lighting, atmosphere, camera angle, artistic style. " +
	"Keep it concise (max 3 sentences). " +
	"Return ONLY the enhanced prompt. No quotes, no explanation.\n\n" +
	"Original: "

const enhanceTimeout = 60 * time.Second

// Enhance rewrites the prompt with the text model. Any failure yields the original prompt.
func (c *client) Enhance(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, enhanceTimeout)
	defer cancel()

	resp, err := c.generateContent(ctx, c.textModel, &generateContentRequest{
		Contents: []content{{
			Role:  roleUser,
			Parts: []part{{Text: enhanceInstruction + prompt}},
		}},
	})
	if err != nil {
		slog.WarnContext(ctx, "enhancing prompt", logger.Err(err))
		return prompt
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}

	enhanced := strings.TrimSpace(strings.Trim(strings.TrimSpace(sb.String()), `"«»`))
	if enhanced == "" {
		return prompt
	}
	return enhanced
}
