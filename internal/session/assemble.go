package session

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/snarg/caseedit/internal/archive"
	"github.com/snarg/caseedit/internal/media"
)

// AssemblyError marks a malformed or incomplete remote session. The
// import as a whole is aborted; no partial case is ever returned.
type AssemblyError struct {
	CaseID string
	Err    error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble case %s: %v", e.CaseID, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// Assemble builds a provisional case record from the downloaded scratch
// area. User turns with audio get PendingTranscript and an entry in the
// returned pending map (turn index -> audio file name in scratch);
// turns whose transcript was already resolved by the archive
// (an *.asr.txt sidecar) are filled directly. Assistant audio and the
// reference audio are materialized into destDir, the durable per-case
// directory. The scratch area itself is left untouched for the
// transcription worker.
func Assemble(ctx context.Context, fetcher *archive.Client, remote *archive.Session, scratch, destDir, caseID string, log zerolog.Logger) (*CaseRecord, map[int]string, error) {
	entries, err := os.ReadDir(scratch)
	if err != nil {
		return nil, nil, &AssemblyError{CaseID: caseID, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	rec := &CaseRecord{
		CaseID: caseID,
		Turns:  []Turn{},
		System: System{
			Prefix: readTextFile(filepath.Join(scratch, "system_prefix.txt")),
			Suffix: readTextFile(filepath.Join(scratch, "system_suffix.txt")),
		},
	}

	// Reference audio, stored under the case as "ref".
	if refName := findAudio(names, "system_ref_audio"); refName != "" {
		stored, outcome, err := media.Persist(ctx, filepath.Join(scratch, refName), destDir, "ref")
		if err != nil {
			return nil, nil, &AssemblyError{CaseID: caseID, Err: err}
		}
		rec.System.RefAudio = path.Join(caseID, stored)
		log.Debug().Str("file", refName).Str("outcome", outcome.String()).Msg("reference audio stored")
	}

	pending := make(map[int]string)

	// Probe indices upward until a turn has neither user audio nor
	// assistant text/audio. Indices are contiguous; a gap ends the session.
	for idx := 0; ; idx++ {
		userAudio := findAudio(names, fmt.Sprintf("%03d_user_audio", idx))
		assistantAudio := findAudio(names, fmt.Sprintf("%03d_assistant_audio", idx))
		assistantTextName := fmt.Sprintf("%03d_assistant.txt", idx)
		assistantTextPath := filepath.Join(scratch, assistantTextName)

		if !fileExists(assistantTextPath) && (userAudio != "" || assistantAudio != "") {
			// The listing heuristic sometimes misses plain text links;
			// try the file at its predictable address, giving up silently.
			if body, err := fetcher.Fetch(ctx, remote.FileURL(assistantTextName), remote.Username, remote.Password); err == nil {
				if werr := os.WriteFile(assistantTextPath, body, 0o644); werr == nil {
					names = append(names, assistantTextName)
				}
			} else {
				log.Debug().Int("turn", idx).Err(err).Msg("assistant text re-fetch failed")
			}
		}

		if userAudio == "" && assistantAudio == "" && !fileExists(assistantTextPath) {
			break
		}

		turn := Turn{
			Index:         idx,
			AssistantText: readTextFile(assistantTextPath),
		}

		if userAudio != "" {
			if resolved := readTextFile(filepath.Join(scratch, fmt.Sprintf("%03d_user_audio0.asr.txt", idx))); resolved != "" {
				turn.UserText = resolved
			} else {
				turn.UserText = PendingTranscript
				pending[idx] = userAudio
			}
		}

		if assistantAudio != "" {
			base := strings.TrimSuffix(assistantAudio, filepath.Ext(assistantAudio))
			stored, _, err := media.Persist(ctx, filepath.Join(scratch, assistantAudio), destDir, base)
			if err != nil {
				return nil, nil, &AssemblyError{CaseID: caseID, Err: err}
			}
			turn.AssistantAudio = path.Join(caseID, stored)
		}

		rec.Turns = append(rec.Turns, turn)
	}

	return rec, pending, nil
}

// findAudio returns the first non-text file whose name starts with
// prefix, or "".
func findAudio(names []string, prefix string) string {
	for _, name := range names {
		if strings.HasPrefix(name, prefix) && !strings.HasSuffix(name, ".txt") {
			return name
		}
	}
	return ""
}

// readTextFile returns the trimmed contents, or "" if the file is absent.
func readTextFile(p string) string {
	b, err := os.ReadFile(p)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
