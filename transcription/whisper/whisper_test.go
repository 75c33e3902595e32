package whisper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/streamscribe/provider"
	"github.com/kbukum/streamscribe/transcription"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.mp3")
	if err := os.WriteFile(path, []byte("ID3fake-audio"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func sidecar(t *testing.T, stream string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case healthPath:
			w.WriteHeader(http.StatusOK)
		case streamPath:
			if check != nil {
				check(r)
			}
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, stream)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTranscribeStreamsSegments(t *testing.T) {
	stream := "event: segment\ndata: {\"start\":0,\"end\":1.2,\"text\":\" Hello\"}\n\n" +
		": keepalive\n\n" +
		"event: segment\ndata: {\"start\":1.2,\"end\":2.5,\"text\":\" world\"}\n\n" +
		"event: done\ndata: {}\n\n"

	srv := sidecar(t, stream, func(r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		if r.FormValue("model") != "tiny" || r.FormValue("device") != "cpu" {
			t.Errorf("fields = %v", r.MultipartForm.Value)
		}
		if _, ok := r.MultipartForm.Value["language"]; ok {
			t.Error("empty language should not be sent")
		}
		f, hdr, err := r.FormFile("audio")
		if err != nil {
			t.Errorf("audio part: %v", err)
			return
		}
		defer f.Close()
		if hdr.Filename != "job.mp3" {
			t.Errorf("filename = %q", hdr.Filename)
		}
	})

	p := NewProvider(Config{URL: srv.URL, Model: "tiny", Device: "cpu"})
	it, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: writeAudio(t)})
	if err != nil {
		t.Fatal(err)
	}
	segs, err := provider.Collect(context.Background(), it)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 2 || segs[0].Text != " Hello" || segs[1].End != 2.5 {
		t.Errorf("segments = %+v", segs)
	}
}

func TestTranscribeErrorEvent(t *testing.T) {
	stream := "event: segment\ndata: {\"start\":0,\"end\":1,\"text\":\"one\"}\n\n" +
		"event: error\ndata: {\"error\":\"CUDA out of memory\"}\n\n"
	srv := sidecar(t, stream, nil)

	it, err := NewProvider(Config{URL: srv.URL}).Transcribe(context.Background(), transcription.Request{AudioPath: writeAudio(t)})
	if err != nil {
		t.Fatal(err)
	}
	segs, err := provider.Collect(context.Background(), it)
	if len(segs) != 1 {
		t.Errorf("got %d segments before the error, want 1", len(segs))
	}
	if err == nil || !strings.Contains(err.Error(), "CUDA out of memory") {
		t.Errorf("err = %v", err)
	}
}

func TestTranscribeEOFWithoutDone(t *testing.T) {
	srv := sidecar(t, "event: segment\ndata: {\"start\":0,\"end\":1,\"text\":\"x\"}\n\n", nil)
	it, err := NewProvider(Config{URL: srv.URL}).Transcribe(context.Background(), transcription.Request{AudioPath: writeAudio(t)})
	if err != nil {
		t.Fatal(err)
	}
	segs, err := provider.Collect(context.Background(), it)
	if err != nil || len(segs) != 1 {
		t.Errorf("segments = %+v, err = %v", segs, err)
	}
}

func TestTranscribeStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewProvider(Config{URL: srv.URL}).Transcribe(context.Background(), transcription.Request{AudioPath: writeAudio(t)})
	if err == nil || !strings.Contains(err.Error(), "status 503") {
		t.Errorf("err = %v", err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	_, err := NewProvider(Config{URL: "http://127.0.0.1:1"}).Transcribe(context.Background(), transcription.Request{AudioPath: "/nonexistent/a.mp3"})
	if err == nil || !strings.Contains(err.Error(), "open audio file") {
		t.Errorf("err = %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	srv := sidecar(t, "", nil)
	if !NewProvider(Config{URL: srv.URL}).IsAvailable(context.Background()) {
		t.Error("expected available")
	}
	if NewProvider(Config{URL: "http://127.0.0.1:1"}).IsAvailable(context.Background()) {
		t.Error("expected unavailable")
	}
}

func TestFactory(t *testing.T) {
	cfg := transcription.Config{URL: "http://sidecar:9000"}
	cfg.ApplyDefaults()
	p, err := Factory()(cfg.ToMap())
	if err != nil {
		t.Fatal(err)
	}
	wp := p.(*Provider)
	if wp.cfg.URL != "http://sidecar:9000" || wp.cfg.Model != "medium" || wp.cfg.Device != "cuda" {
		t.Errorf("cfg = %+v", wp.cfg)
	}
}
