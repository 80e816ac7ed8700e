package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/kazanTW/pa-telegram-bot/internal/domain"
)

// FileRepo implements Repo on top of a single JSON file. Saves are
// atomic (temp file + rename in the same directory), so a concurrent
// Load never observes a torn write. A single mutex serializes every
// operation; concurrent mutations are not merged, last writer wins.
type FileRepo struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

// Open prepares the state file's directory and returns a repository.
// The file itself is created lazily on first Load or Update.
func Open(path string, log *zap.Logger) (*FileRepo, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	return &FileRepo{path: path, log: log}, nil
}

// Load returns the current state. A missing, empty, or malformed file
// is healed: the baseline is persisted and returned, and the defect is
// logged rather than surfaced. Genuine I/O errors still propagate.
func (r *FileRepo) Load(ctx context.Context) (domain.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx)
}

// Update applies fn to the freshly loaded state and persists the
// result, all under the repo lock.
func (r *FileRepo) Update(ctx context.Context, fn func(*domain.State) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, err := r.loadLocked(ctx)
	if err != nil {
		return err
	}
	if err := fn(&st); err != nil {
		return err
	}
	return r.saveLocked(st)
}

func (r *FileRepo) loadLocked(ctx context.Context) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}

	data, err := os.ReadFile(r.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.log.Info("state file missing, initializing", zap.String("path", r.path))
		return r.healLocked()
	case err != nil:
		return domain.State{}, fmt.Errorf("read state: %w", err)
	case len(data) == 0:
		r.log.Warn("state file empty, initializing", zap.String("path", r.path))
		return r.healLocked()
	}

	var st domain.State
	if err := json.Unmarshal(data, &st); err != nil {
		r.log.Warn("state file malformed, resetting to baseline",
			zap.String("path", r.path), zap.Error(err))
		return r.healLocked()
	}
	if st.Notes == nil {
		st.Notes = []domain.Note{}
	}
	return st, nil
}

func (r *FileRepo) healLocked() (domain.State, error) {
	base := domain.Baseline()
	if err := r.saveLocked(base); err != nil {
		return domain.State{}, err
	}
	return base, nil
}

// saveLocked writes the state to a temp file next to the target and
// renames it into place.
func (r *FileRepo) saveLocked(st domain.State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".assistant-*.json")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
