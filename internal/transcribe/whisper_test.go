package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWhisper_FailsFastWhenUnconfigured(t *testing.T) {
	cases := []struct {
		name   string
		client *WhisperClient
	}{
		{"no_url", NewWhisperClient("", "key", "whisper-1", time.Second)},
		{"no_key", NewWhisperClient("http://localhost:9000", "", "whisper-1", time.Second)},
		{"no_model", NewWhisperClient("http://localhost:9000", "key", "", time.Second)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.client.Transcribe(context.Background(), []byte("audio"), "wav")
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("error = %v, want *ConfigError", err)
			}
		})
	}
}

func TestWhisper_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q", got)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		f.Close()
		if header.Filename != "audio.wav" {
			t.Errorf("filename = %q, want audio.wav (format hint)", header.Filename)
		}
		w.Write([]byte(`{"text":"  hello world. Thanks for watching!  "}`))
	}))
	defer srv.Close()

	wc := NewWhisperClient(srv.URL, "test-key", "whisper-1", 5*time.Second)
	text, err := wc.Transcribe(context.Background(), []byte("fake-wav"), "wav")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello world." {
		t.Errorf("text = %q, want filler stripped and trimmed", text)
	}
}

func TestWhisper_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	wc := NewWhisperClient(srv.URL, "test-key", "whisper-1", 5*time.Second)
	if _, err := wc.Transcribe(context.Background(), []byte("x"), "wav"); err == nil {
		t.Fatal("Transcribe should fail on 503")
	}
}

func TestCleanTranscript(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  plain text  ", "plain text"},
		{"你好。字幕由Amara.org社区提供", "你好。"},
		{"Thanks for watching!", ""},
		{"a THANK YOU FOR WATCHING! b", "a  b"},
	}
	for _, tc := range cases {
		if got := CleanTranscript(tc.in); got != tc.want {
			t.Errorf("CleanTranscript(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
