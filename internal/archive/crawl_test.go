package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const listingPage = `<html><body>
<a href="../">Parent Directory</a>
<a href="/absolute/path.txt">abs</a>
<a href="#section">anchor</a>
<a href="?C=M;O=A">sort</a>
<a href="https://elsewhere.example/000_assistant.txt">remote</a>
<a href="subdir">no dot</a>
<a href="subdir/nested.mp3">nested</a>
<a href="000_assistant.txt">000_assistant.txt</a>
<a href="000_user_audio0.wav">000_user_audio0.wav</a>
<audio src='000_assistant_audio0.mp3'></audio>
<audio src="system_ref_audio.mp3"></audio>
</body></html>`

func TestCrawl_FiltersAndEnumerates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, false)
	sess, err := c.Crawl(context.Background(), srv.URL, "", "")
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	want := []string{
		"000_assistant.txt",
		"000_user_audio0.wav",
		"000_assistant_audio0.mp3",
		"system_ref_audio.mp3",
	}
	for _, name := range want {
		if !sess.Has(name) {
			t.Errorf("missing %q in enumeration", name)
		}
	}

	reject := []string{"../", "/absolute/path.txt", "#section", "?C=M;O=A", "subdir",
		"subdir/nested.mp3", "https://elsewhere.example/000_assistant.txt"}
	for _, name := range reject {
		if sess.Has(name) {
			t.Errorf("enumeration should not contain %q", name)
		}
	}
}

func TestCrawl_AlwaysIncludesSystemTextFiles(t *testing.T) {
	// Listing markup omits them entirely.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="000_assistant.txt">t</a>`))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, false)
	sess, err := c.Crawl(context.Background(), srv.URL, "", "")
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if !sess.Has("system_prefix.txt") || !sess.Has("system_suffix.txt") {
		t.Error("well-known system text files must always be enumerated")
	}
}

func TestCrawl_ListingFetchFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, false)
	if _, err := c.Crawl(context.Background(), srv.URL, "", ""); err == nil {
		t.Fatal("Crawl should propagate the listing fetch failure")
	}
}

func TestSessionFileURL(t *testing.T) {
	s := &Session{BaseURL: "http://archive.local/sess/"}
	if got := s.FileURL("000_assistant.txt"); got != "http://archive.local/sess/000_assistant.txt" {
		t.Errorf("FileURL = %q", got)
	}
	s.BaseURL = "http://archive.local/sess"
	if got := s.FileURL("000_assistant.txt"); got != "http://archive.local/sess/000_assistant.txt" {
		t.Errorf("FileURL without trailing slash = %q", got)
	}
}
