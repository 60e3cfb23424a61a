package detect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/desertthunder/vibescan/internal/shared"
)

// DirCamera serves frames from a directory of image files, cycling through
// them in name order. It stands in for a live device in headless setups and
// lets a capture pipeline drop frames for the loop to consume.
type DirCamera struct {
	dir string
}

// NewDirCamera creates a camera backed by the image files under dir.
func NewDirCamera(dir string) *DirCamera {
	return &DirCamera{dir: dir}
}

var _ Camera = (*DirCamera)(nil)

// Open lists the frames available under the directory. An empty or missing
// directory fails acquisition, mirroring a denied device permission.
func (c *DirCamera) Open(ctx context.Context) (Stream, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCameraUnavailable, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(c.dir, entry.Name()))
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no frames in %s", shared.ErrCameraUnavailable, c.dir)
	}

	sort.Strings(paths)
	return &dirStream{paths: paths}, nil
}

type dirStream struct {
	mu     sync.Mutex
	paths  []string
	next   int
	closed bool
}

func (s *dirStream) Frame(ctx context.Context) (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, shared.ErrCameraUnavailable
	}

	path := s.paths[s.next%len(s.paths)]
	s.next++

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	contentType := "image/jpeg"
	if strings.ToLower(filepath.Ext(path)) == ".png" {
		contentType = "image/png"
	}

	return &Frame{Data: data, ContentType: contentType}, nil
}

func (s *dirStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
