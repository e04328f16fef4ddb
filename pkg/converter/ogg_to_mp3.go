package converter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type OggToMP3 struct {
	// Binary overrides the ffmpeg executable, mainly for tests.
	Binary string
}

// ConvertToMP3 converts Telegram voice notes (.ogg, .oga) to mp3 next to the
// input and removes the input. Other formats are returned unchanged.
func (o *OggToMP3) ConvertToMP3(ctx context.Context, inputPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".ogg" && ext != ".oga" {
		return inputPath, nil
	}
	defer os.Remove(inputPath)

	ffmpeg := o.Binary
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if _, err := exec.LookPath(ffmpeg); err != nil {
		return "", fmt.Errorf("looking for `%s`: %w", ffmpeg, err)
	}

	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".mp3"

	cmd := exec.CommandContext(ctx, ffmpeg, "-y", "-loglevel", "error", "-i", inputPath, outputPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("running `%s`: %w: %s", ffmpeg, err, strings.TrimSpace(string(out)))
	}

	slog.DebugContext(ctx, "voice converted", "input", inputPath, "output", outputPath)
	return outputPath, nil
}
