package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Languages the editor knows about.
var ValidLangs = map[string]bool{"zh": true, "en": true}

// Store reads and writes the editable case-data documents
// (data_zh.json / data_en.json) under one directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// emptyDocument is what Load returns before anything was saved.
var emptyDocument = json.RawMessage(`{"meta":{"title":"","description":""},"abilities":[]}`)

func (s *Store) path(lang string) string {
	return filepath.Join(s.dir, "data_"+lang+".json")
}

// Load returns the document for lang, or an empty skeleton if none was
// saved yet.
func (s *Store) Load(lang string) (json.RawMessage, error) {
	if !ValidLangs[lang] {
		return nil, fmt.Errorf("invalid language: %s", lang)
	}
	b, err := os.ReadFile(s.path(lang))
	if os.IsNotExist(err) {
		return emptyDocument, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	return json.RawMessage(b), nil
}

// Save validates and writes the document for lang.
func (s *Store) Save(lang string, doc json.RawMessage) error {
	if !ValidLangs[lang] {
		return fmt.Errorf("invalid language: %s", lang)
	}
	if !json.Valid(doc) {
		return fmt.Errorf("invalid JSON document")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(s.path(lang), doc, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}
