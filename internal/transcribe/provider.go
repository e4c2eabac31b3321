package transcribe

import "context"

// Provider is the interface for speech-to-text backends. The audio is
// passed as raw bytes with a format hint ("wav", "mp3", ...) since the
// caller owns the file lifecycle.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}
