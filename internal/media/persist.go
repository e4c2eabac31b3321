package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Outcome says how the audio reached durable storage.
type Outcome int

const (
	// Transcoded means the waveform was compressed to MP3.
	Transcoded Outcome = iota
	// CopiedVerbatim means the source bytes were copied unchanged.
	CopiedVerbatim
)

func (o Outcome) String() string {
	if o == Transcoded {
		return "transcoded"
	}
	return "copied"
}

// transcodeTimeout bounds the external tool; a wedged ffmpeg must not
// stall an import.
const transcodeTimeout = 30 * time.Second

// ffmpegBin is a var so tests can point it at a nonexistent binary.
var ffmpegBin = "ffmpeg"

// Persist runs on concurrent import goroutines, so the PATH probe is
// guarded; the result is cached for the process lifetime.
var (
	ffmpegOnce  sync.Once
	ffmpegAvail bool
)

// CheckFFmpeg reports whether ffmpeg is in PATH. Probed once on first call.
func CheckFFmpeg() bool {
	ffmpegOnce.Do(func() {
		_, err := exec.LookPath(ffmpegBin)
		ffmpegAvail = err == nil
	})
	return ffmpegAvail
}

// Persist stores one audio file into the durable per-case directory,
// creating it if missing. WAV sources are transcoded to MP3; on any
// transcode failure or tool absence the source bytes are copied
// verbatim with their original extension. Returns the stored file name
// (baseName plus extension) and which of the two outcomes happened.
func Persist(ctx context.Context, srcPath, destDir, baseName string) (string, Outcome, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", CopiedVerbatim, fmt.Errorf("create dest dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(srcPath))
	if ext == ".wav" && CheckFFmpeg() {
		name := baseName + ".mp3"
		if err := transcode(ctx, srcPath, filepath.Join(destDir, name)); err == nil {
			return name, Transcoded, nil
		}
	}

	name := baseName + filepath.Ext(srcPath)
	if err := copyFile(srcPath, filepath.Join(destDir, name)); err != nil {
		return "", CopiedVerbatim, err
	}
	return name, CopiedVerbatim, nil
}

func transcode(ctx context.Context, srcPath, destPath string) error {
	ctx, cancel := context.WithTimeout(ctx, transcodeTimeout)
	defer cancel()

	// ffmpeg -y -i in.wav -codec:a libmp3lame -q:a 2 out.mp3
	cmd := exec.CommandContext(ctx, ffmpegBin,
		"-y", "-i", srcPath,
		"-codec:a", "libmp3lame",
		"-q:a", "2",
		destPath,
	)
	if err := cmd.Run(); err != nil {
		// Clean up partial output
		os.Remove(destPath)
		return fmt.Errorf("ffmpeg transcode: %w", err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create dest: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("copy audio: %w", err)
	}
	return out.Close()
}
