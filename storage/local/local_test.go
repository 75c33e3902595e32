package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/streamscribe/logger"
	"github.com/kbukum/streamscribe/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(&Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestUploadRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.Upload(ctx, "demo.txt", strings.NewReader("Hello world\nSecond line")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	p, err := s.Path(ctx, "demo.txt")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Hello world\nSecond line" {
		t.Errorf("content = %q", data)
	}
}

func TestUploadOverwrites(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	s.Upload(ctx, "out.txt", strings.NewReader("first"))
	s.Upload(ctx, "out.txt", strings.NewReader("second"))

	data, _ := os.ReadFile(filepath.Join(s.BasePath(), "out.txt"))
	if string(data) != "second" {
		t.Errorf("last writer should win, got %q", data)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestUploadFailureLeavesNothing(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	err := s.Upload(ctx, "abc.mp3", io.MultiReader(strings.NewReader("partial"), failingReader{}))
	if err == nil {
		t.Fatal("expected upload error")
	}
	entries, _ := os.ReadDir(s.BasePath())
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	s.Upload(ctx, "job.mp3", strings.NewReader("audio"))

	for i := 0; i < 2; i++ {
		if err := s.Delete(ctx, "job.mp3"); err != nil {
			t.Fatalf("Delete #%d: %v", i+1, err)
		}
	}
	if ok, _ := s.Exists(ctx, "job.mp3"); ok {
		t.Error("file should be gone")
	}
}

func TestPath(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if _, err := s.Path(ctx, "missing.mp3"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	s.Upload(ctx, "job.mp3", strings.NewReader("audio"))
	p, err := s.Path(ctx, "job.mp3")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if p != filepath.Join(s.BasePath(), "job.mp3") || !filepath.IsAbs(p) {
		t.Errorf("Path = %q", p)
	}
}

func TestRejectsEscapingNames(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	for _, name := range []string{"", ".", "..", "../etc/passwd", "a/b.txt", `a\b.txt`, "/abs.txt"} {
		t.Run(name, func(t *testing.T) {
			err := s.Upload(ctx, name, strings.NewReader("x"))
			if !errors.Is(err, storage.ErrInvalidName) {
				t.Errorf("Upload(%q) = %v, want ErrInvalidName", name, err)
			}
			if err := s.Delete(ctx, name); !errors.Is(err, storage.ErrInvalidName) {
				t.Errorf("Delete(%q) = %v, want ErrInvalidName", name, err)
			}
		})
	}
}

func TestList(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	s.Upload(ctx, "b.txt", strings.NewReader("bb"))
	s.Upload(ctx, "a.txt", strings.NewReader("a"))
	s.Upload(ctx, "x.mp3", strings.NewReader("xxx"))

	files, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 3 || files[0].Path != "a.txt" || files[2].Path != "x.mp3" {
		t.Errorf("List = %+v", files)
	}
	if files[0].ContentType == "" {
		t.Error("expected a content type")
	}

	only, _ := s.List(ctx, "x")
	if len(only) != 1 || only[0].Size != 3 {
		t.Errorf("prefix List = %+v", only)
	}
}

func TestFactoryRegistered(t *testing.T) {
	st, err := storage.New(storage.Config{Provider: storage.ProviderLocal, BasePath: t.TempDir()}, logger.Nop())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if _, ok := st.(*Storage); !ok {
		t.Errorf("expected *local.Storage, got %T", st)
	}
}
