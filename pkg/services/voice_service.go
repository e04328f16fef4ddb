package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
)

const voiceTempDir = "tmp/voices"

type AudioConverter interface {
	ConvertToMP3(ctx context.Context, inputPath string) (string, error)
}

type AudioTranscriber interface {
	TranscribeAudio(ctx context.Context, audioFilePath string) (string, error)
}

type voiceService struct {
	converter   AudioConverter
	transcriber AudioTranscriber
	tempDir     string
}

func NewVoiceService(converter AudioConverter, transcriber AudioTranscriber) *voiceService {
	return &voiceService{
		converter:   converter,
		transcriber: transcriber,
		tempDir:     voiceTempDir,
	}
}

// Transcribe turns a voice note into text. An empty transcription is a failure.
func (v *voiceService) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", domain.ErrUnsupportedAudio
	}

	if err := os.MkdirAll(v.tempDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("creating voice temp directory: %w", err)
	}

	f, err := os.CreateTemp(v.tempDir, "voice-*.ogg")
	if err != nil {
		return "", fmt.Errorf("creating voice file: %w", err)
	}
	inputPath := f.Name()
	_, err = f.Write(audio)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(inputPath)
		return "", fmt.Errorf("saving voice file: %w", err)
	}

	mp3Path, err := v.converter.ConvertToMP3(ctx, inputPath)
	if err != nil {
		os.Remove(inputPath)
		return "", fmt.Errorf("converting voice file to MP3: %w", err)
	}
	defer os.Remove(filepath.Clean(mp3Path))

	text, err := v.transcriber.TranscribeAudio(ctx, mp3Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranscription, err)
	}
	if text == "" {
		return "", domain.ErrTranscription
	}

	return text, nil
}
