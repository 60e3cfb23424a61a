package detect

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/desertthunder/vibescan/internal/synth"
)

func TestHTTPDetector(t *testing.T) {
	frame := &Frame{Data: []byte("frame"), ContentType: "image/jpeg"}

	t.Run("decodes a detection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/detect" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			if ct := r.Header.Get("Content-Type"); ct != "image/jpeg" {
				t.Errorf("unexpected content type %s", ct)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"expressions": {"happy": 0.8, "neutral": 0.1}, "age": 27.4}`))
		}))
		defer server.Close()

		detector := NewHTTPDetector(server.URL, server.Client())
		detection, err := detector.Detect(context.Background(), frame)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if detection.Age != 27.4 {
			t.Errorf("expected age 27.4, got %v", detection.Age)
		}
		if mood, score := detection.Dominant(); mood != synth.MoodHappy || score != 0.8 {
			t.Errorf("expected (happy, 0.8), got (%s, %v)", mood, score)
		}
	})

	t.Run("no face is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		detector := NewHTTPDetector(server.URL, server.Client())
		detection, err := detector.Detect(context.Background(), frame)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if detection != nil {
			t.Errorf("expected nil detection, got %+v", detection)
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		detector := NewHTTPDetector(server.URL, server.Client())
		if _, err := detector.Detect(context.Background(), frame); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("unreachable sidecar", func(t *testing.T) {
		detector := NewHTTPDetector("http://127.0.0.1:1", nil)
		if _, err := detector.Detect(context.Background(), frame); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestDirCamera(t *testing.T) {
	t.Run("cycles frames in name order", func(t *testing.T) {
		dir := t.TempDir()
		writeFrame(t, dir, "b.jpg", "second")
		writeFrame(t, dir, "a.jpg", "first")
		writeFrame(t, dir, "notes.txt", "ignored")

		camera := NewDirCamera(dir)
		stream, err := camera.Open(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer stream.Close()

		for _, want := range []string{"first", "second", "first"} {
			frame, err := stream.Frame(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if string(frame.Data) != want {
				t.Errorf("expected frame %q, got %q", want, frame.Data)
			}
		}
	})

	t.Run("empty directory fails acquisition", func(t *testing.T) {
		camera := NewDirCamera(t.TempDir())
		if _, err := camera.Open(context.Background()); !errors.Is(err, shared.ErrCameraUnavailable) {
			t.Errorf("expected ErrCameraUnavailable, got %v", err)
		}
	})

	t.Run("closed stream refuses frames", func(t *testing.T) {
		dir := t.TempDir()
		writeFrame(t, dir, "a.jpg", "frame")

		camera := NewDirCamera(dir)
		stream, err := camera.Open(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		stream.Close()
		if _, err := stream.Frame(context.Background()); !errors.Is(err, shared.ErrCameraUnavailable) {
			t.Errorf("expected ErrCameraUnavailable, got %v", err)
		}
	})
}

func writeFrame(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write frame: %v", err)
	}
}
