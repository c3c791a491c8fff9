// Package output delivers rendered inventories to their destination.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// GitignoreContent excludes every file in the inventory directory from git.
const GitignoreContent = "*\n"

// Sink is a destination for a rendered inventory.
type Sink interface {
	Write(ctx context.Context, path string, data []byte) error
}

// FileSink writes inventories to the local filesystem.
type FileSink struct {
	WriteGitignore bool
	logger         *slog.Logger
}

func NewFileSink(writeGitignore bool, logger *slog.Logger) *FileSink {
	return &FileSink{
		WriteGitignore: writeGitignore,
		logger:         logger.With(slog.String("component", "file-sink")),
	}
}

// Write creates the parent directory if needed and replaces path atomically.
func (s *FileSink) Write(ctx context.Context, path string, data []byte) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve output path %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	if err := writeFileAtomic(abs, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.logger.Debug("wrote inventory", slog.String("path", abs), slog.Int("bytes", len(data)))

	if s.WriteGitignore {
		gitignore := filepath.Join(dir, ".gitignore")
		if err := os.WriteFile(gitignore, []byte(GitignoreContent), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", gitignore, err)
		}
		s.logger.Debug("wrote gitignore marker", slog.String("path", gitignore))
	}

	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// WriterSink streams the inventory to w and ignores the path.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Write(ctx context.Context, path string, data []byte) error {
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("failed to write inventory: %w", err)
	}
	return nil
}

// MemorySink keeps written inventories in memory, keyed by path.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (s *MemorySink) Write(ctx context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[path] = append([]byte(nil), data...)
	return nil
}

// Get returns the last data written to path.
func (s *MemorySink) Get(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.files[path]
	return data, ok
}

// Len returns the number of distinct paths written.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.files)
}
