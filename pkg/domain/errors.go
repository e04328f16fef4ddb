package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNoImage          = errors.New("no image returned")
	ErrTranscription    = errors.New("transcription failed")
	ErrUnsupportedAudio = errors.New("unsupported audio")
	ErrVoiceDisabled    = errors.New("voice recognition is not configured")
	ErrUnknownLocale    = errors.New("unknown locale")
)
