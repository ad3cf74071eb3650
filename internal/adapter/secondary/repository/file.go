package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"exposure-debugpanel/internal/domain"
)

// FileRepository implements domain.StateRepository using a JSON file.
// This is a secondary adapter.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a file-based state repository.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	return &FileRepository{path: path}, nil
}

// Path returns the file backing the repository.
func (f *FileRepository) Path() string {
	return f.path
}

// Load reads the state from disk. A missing file yields the default state.
func (f *FileRepository) Load() (domain.AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultState(), nil
		}
		return domain.AppState{}, fmt.Errorf("read state: %w", err)
	}

	state := domain.DefaultState()
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.AppState{}, fmt.Errorf("unmarshal state: %w", err)
	}
	if state.ExposureDetection.PreviousDetectionResults == nil {
		state.ExposureDetection.PreviousDetectionResults = []domain.DetectionResult{}
	}
	if state.User.CovidStatus.Kind == "" {
		state.User.CovidStatus.Kind = domain.StatusNeutral
	}
	return state, nil
}

// Save persists the state to disk.
func (f *FileRepository) Save(state domain.AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}
