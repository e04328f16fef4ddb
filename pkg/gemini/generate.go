package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
)

const editInstruction = "This is my original photo. Make a precise edit: %s. " +
	"CRITICAL INSTRUCTION: You MUST return exactly ONE single cohesive picture. " +
	"DO NOT generate a collage, DO NOT generate a grid, DO NOT generate multiple variations, DO NOT generate a split-screen. " +
	"The output MUST be a standard single-frame portrait/photo of ONE subject. " +
	"Keep everything else exactly the same: same background, people, colors, composition, lighting, angle. " +
	"Only change what was requested. Do not regenerate the photo from scratch."

const multiInstruction = "I'm giving you %d reference images. %s"

// Generate returns a single PNG image or domain.ErrNoImage once the retry policy is exhausted.
func (c *client) Generate(ctx context.Context, req domain.GenerationRequest) ([]byte, error) {
	request := buildGenerateRequest(req)
	timeout := timeoutFor(req.Quality.Tier())

	img, err := Retry(ctx, c.retry, func(ctx context.Context, attempt int) ([]byte, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := c.generateContent(attemptCtx, c.imageModel, request)
		if err != nil {
			slog.WarnContext(ctx, "image generation attempt failed", "attempt", attempt, logger.Err(err))
			return nil, err
		}

		img, err := extractImage(ctx, resp)
		if err != nil {
			slog.WarnContext(ctx, "image generation attempt returned no image", "attempt", attempt, logger.Err(err))
			return nil, err
		}
		return img, nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "image generation failed", "mode", req.Mode, "quality", req.Quality, logger.Err(err))
		return nil, domain.ErrNoImage
	}

	return img, nil
}

func buildGenerateRequest(req domain.GenerationRequest) *generateContentRequest {
	var parts []part
	switch req.Mode {
	case domain.ModeImageToImage:
		parts = append(parts, imageParts(req.References)...)
		parts = append(parts, part{Text: fmt.Sprintf(editInstruction, req.Prompt)})
	case domain.ModeMultiImage:
		parts = append(parts, part{Text: fmt.Sprintf(multiInstruction, len(req.References), req.Prompt)})
		parts = append(parts, imageParts(req.References)...)
	default:
		parts = append(parts, part{Text: req.Prompt})
	}

	request := &generateContentRequest{
		Contents: []content{{Role: roleUser, Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{modalityText, modalityImage},
			ImageConfig: &imageConfig{
				AspectRatio:    req.AspectRatio,
				ImageSize:      req.Quality.Tier(),
				NumberOfImages: 1,
			},
		},
	}
	if req.Search {
		request.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}
	return request
}

func imageParts(images [][]byte) []part {
	parts := make([]part, 0, len(images))
	for _, img := range images {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: DetectMIME(img),
			Data:     base64.StdEncoding.EncodeToString(img),
		}})
	}
	return parts
}

// extractImage returns the first decodable inline image as PNG. Text parts are logged.
func extractImage(ctx context.Context, resp *generateContentResponse) ([]byte, error) {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				slog.InfoContext(ctx, "model commentary", "text", truncate(strings.TrimSpace(p.Text), 100))
			}
		}
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}

			raw, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				slog.WarnContext(ctx, "decoding inline image", logger.Err(err))
				continue
			}

			img, err := ToPNG(raw)
			if err != nil {
				slog.WarnContext(ctx, "converting inline image", "mime", p.InlineData.MimeType, logger.Err(err))
				continue
			}
			return img, nil
		}
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
		return nil, fmt.Errorf("%w (finish reason %s)", errNoImageInResponse, resp.Candidates[0].FinishReason)
	}
	return nil, errNoImageInResponse
}
