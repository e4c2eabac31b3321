package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestStore_LoadEmpty(t *testing.T) {
	s := New(t.TempDir())
	doc, err := s.Load("zh")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var parsed struct {
		Abilities []any `json:"abilities"`
	}
	if err := json.Unmarshal(doc, &parsed); err != nil {
		t.Fatalf("empty document is not valid JSON: %v", err)
	}
	if len(parsed.Abilities) != 0 {
		t.Errorf("abilities = %v, want empty", parsed.Abilities)
	}
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "config"))
	doc := json.RawMessage(`{"meta":{"title":"demo"},"abilities":[{"id":"a"}]}`)

	if err := s.Save("en", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load("en")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("roundtrip = %s, want %s", got, doc)
	}
}

func TestStore_InvalidLang(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("fr"); err == nil {
		t.Error("Load(fr) should fail")
	}
	if err := s.Save("fr", json.RawMessage(`{}`)); err == nil {
		t.Error("Save(fr) should fail")
	}
}

func TestStore_RejectsInvalidJSON(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Save("zh", json.RawMessage(`{broken`)); err == nil {
		t.Error("Save should reject malformed JSON")
	}
}
