package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/snarg/caseedit/internal/archive"
	"github.com/snarg/caseedit/internal/session"
	"github.com/snarg/caseedit/internal/task"
)

// Importer runs the synchronous phase of a session import: crawl,
// download into a scratch area, assemble a provisional case, and hand
// the scratch area to a background transcription task if any turn is
// pending. Every synchronous failure path purges the scratch area.
type Importer struct {
	fetcher      *archive.Client
	tasks        *task.Manager
	resourcesDir string
	log          zerolog.Logger
}

func New(fetcher *archive.Client, tasks *task.Manager, resourcesDir string, log zerolog.Logger) *Importer {
	return &Importer{
		fetcher:      fetcher,
		tasks:        tasks,
		resourcesDir: resourcesDir,
		log:          log.With().Str("component", "importer").Logger(),
	}
}

// Import pulls one remote session into the case store. Returns the
// provisional case record and whether a background transcription task
// was started for it; when it was, the caller polls the task status
// until done.
func (imp *Importer) Import(ctx context.Context, baseURL, username, password, caseID string) (*session.CaseRecord, bool, error) {
	if err := validateCaseID(caseID); err != nil {
		return nil, false, err
	}
	if imp.tasks.Active(caseID) {
		return nil, false, task.ErrTaskActive
	}

	remote, err := imp.fetcher.Crawl(ctx, baseURL, username, password)
	if err != nil {
		return nil, false, err
	}

	scratch := filepath.Join(os.TempDir(), "caseedit-import-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, false, fmt.Errorf("create scratch area: %w", err)
	}

	if err := imp.download(ctx, remote, scratch); err != nil {
		os.RemoveAll(scratch)
		return nil, false, err
	}

	destDir := filepath.Join(imp.resourcesDir, caseID)
	rec, pending, err := session.Assemble(ctx, imp.fetcher, remote, scratch, destDir, caseID, imp.log)
	if err != nil {
		os.RemoveAll(scratch)
		return nil, false, err
	}

	if len(pending) == 0 {
		os.RemoveAll(scratch)
		imp.log.Info().Str("case_id", caseID).Int("turns", len(rec.Turns)).Msg("session imported, nothing pending")
		return rec, false, nil
	}

	// Scratch ownership passes to the worker here; it is deleted when
	// the task finishes.
	if err := imp.tasks.Start(caseID, pending, scratch); err != nil {
		os.RemoveAll(scratch)
		return nil, false, err
	}
	imp.log.Info().Str("case_id", caseID).Int("turns", len(rec.Turns)).Int("pending", len(pending)).Msg("session imported, transcription started")
	return rec, true, nil
}

// download fetches every enumerated file into scratch. The two
// well-known system text names are speculative (the crawler adds them
// even when the listing omits them), so their failures are tolerated;
// any other failure aborts the import.
func (imp *Importer) download(ctx context.Context, remote *archive.Session, scratch string) error {
	for name := range remote.Files {
		body, err := imp.fetcher.Fetch(ctx, remote.FileURL(name), remote.Username, remote.Password)
		if err != nil {
			if speculative(name) {
				imp.log.Debug().Str("file", name).Err(err).Msg("well-known file absent")
				continue
			}
			return err
		}
		if err := os.WriteFile(filepath.Join(scratch, name), body, 0o644); err != nil {
			return fmt.Errorf("write %s to scratch: %w", name, err)
		}
	}
	return nil
}

func speculative(name string) bool {
	return name == "system_prefix.txt" || name == "system_suffix.txt"
}

func validateCaseID(caseID string) error {
	if caseID == "" {
		return fmt.Errorf("case_id is required")
	}
	if strings.ContainsAny(caseID, "/\\") || caseID == "." || caseID == ".." {
		return fmt.Errorf("invalid case_id %q", caseID)
	}
	return nil
}
