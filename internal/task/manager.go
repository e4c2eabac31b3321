package task

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/snarg/caseedit/internal/transcribe"
)

// ErrTaskActive is returned when an import reuses the case_id of a
// task that is still running.
var ErrTaskActive = errors.New("a transcription task for this case is still running")

// Snapshot is a read-only copy of a task's progress. Results and
// Errors are copies, never live references.
type Snapshot struct {
	CaseID    string         `json:"case_id"`
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	Results   map[int]string `json:"results"`
	Errors    map[int]string `json:"errors"`
	Done      bool           `json:"done"`
}

type state struct {
	total     int
	completed int
	results   map[int]string
	errors    map[int]string
	done      bool
}

// Manager owns the task table and the background workers that fill it.
// Entries live for the whole process: finished tasks stay queryable
// with no eviction, and tasks are not persisted across restarts.
type Manager struct {
	mu    sync.Mutex
	tasks map[string]*state

	provider transcribe.Provider
	log      zerolog.Logger
}

// NewManager creates a task manager using the given transcription
// provider for all workers.
func NewManager(provider transcribe.Provider, log zerolog.Logger) *Manager {
	return &Manager{
		tasks:    make(map[string]*state),
		provider: provider,
		log:      log.With().Str("component", "task").Logger(),
	}
}

// Active reports whether a task for caseID exists and has not finished.
func (m *Manager) Active(caseID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.tasks[caseID]
	return ok && !st.done
}

// Start registers a task for caseID and spawns its dedicated worker.
// pending maps turn index to the audio file name inside scratch; the
// worker takes exclusive ownership of scratch and deletes it when the
// task finishes, whatever the per-turn outcomes. Reusing the case_id
// of a still-running task fails with ErrTaskActive; a finished task's
// entry is replaced.
func (m *Manager) Start(caseID string, pending map[int]string, scratch string) error {
	m.mu.Lock()
	if st, ok := m.tasks[caseID]; ok && !st.done {
		m.mu.Unlock()
		return ErrTaskActive
	}
	m.tasks[caseID] = &state{
		total:   len(pending),
		results: make(map[int]string),
		errors:  make(map[int]string),
	}
	m.mu.Unlock()

	// Strictly ascending order: one transcription call at a time bounds
	// load on the backend.
	indices := make([]int, 0, len(pending))
	for idx := range pending {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	go m.run(caseID, indices, pending, scratch)
	return nil
}

// Status returns a snapshot of the task for caseID, or false if no
// task was ever registered for it.
func (m *Manager) Status(caseID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.tasks[caseID]
	if !ok {
		return Snapshot{}, false
	}

	snap := Snapshot{
		CaseID:    caseID,
		Total:     st.total,
		Completed: st.completed,
		Results:   make(map[int]string, len(st.results)),
		Errors:    make(map[int]string, len(st.errors)),
		Done:      st.done,
	}
	for k, v := range st.results {
		snap.Results[k] = v
	}
	for k, v := range st.errors {
		snap.Errors[k] = v
	}
	return snap, true
}

// run is the task's dedicated worker. It always runs to completion over
// all pending turns; there is no abort API.
func (m *Manager) run(caseID string, indices []int, pending map[int]string, scratch string) {
	log := m.log.With().Str("case_id", caseID).Logger()

	defer func() {
		if rv := recover(); rv != nil {
			log.Error().Interface("panic", rv).Msg("transcription worker panicked")
		}
		m.finish(caseID, indices)
		// The single guaranteed cleanup point for the scratch area.
		if err := os.RemoveAll(scratch); err != nil {
			log.Warn().Err(err).Str("scratch", scratch).Msg("scratch cleanup failed")
		}
		log.Info().Msg("transcription task done")
	}()

	for _, idx := range indices {
		text, err := m.transcribeTurn(scratch, pending[idx])

		m.mu.Lock()
		st := m.tasks[caseID]
		if err != nil {
			st.errors[idx] = err.Error()
		} else {
			st.results[idx] = text
		}
		st.completed++
		m.mu.Unlock()

		if err != nil {
			log.Warn().Int("turn", idx).Err(err).Msg("turn transcription failed")
		} else {
			log.Debug().Int("turn", idx).Msg("turn transcribed")
		}
	}
}

func (m *Manager) transcribeTurn(scratch, audioName string) (string, error) {
	audio, err := os.ReadFile(filepath.Join(scratch, audioName))
	if err != nil {
		return "", err
	}
	format := strings.TrimPrefix(filepath.Ext(audioName), ".")
	return m.provider.Transcribe(context.Background(), audio, format)
}

// finish marks the task done, recording an error for any turn the
// worker never reached so completed always equals total.
func (m *Manager) finish(caseID string, indices []int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.tasks[caseID]
	for _, idx := range indices {
		if _, ok := st.results[idx]; ok {
			continue
		}
		if _, ok := st.errors[idx]; ok {
			continue
		}
		st.errors[idx] = "worker aborted before this turn"
		st.completed++
	}
	st.done = true
}
