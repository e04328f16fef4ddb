package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type transcriber struct {
	api *openai.Client
}

func NewTranscriber(token string) (*transcriber, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	return &transcriber{api: openai.NewClient(token)}, nil
}

func (t *transcriber) TranscribeAudio(ctx context.Context, audioFilePath string) (string, error) {
	resp, err := t.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioFilePath,
	})
	if err != nil {
		return "", fmt.Errorf("creating transcription: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}
