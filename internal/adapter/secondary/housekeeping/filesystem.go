package housekeeping

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"exposure-debugpanel/internal/logging"
)

// KeychainDir is the folder, relative to the data directory, that stands in
// for the platform keychain.
const KeychainDir = "keychain"

// Filesystem implements domain.Housekeeper on top of the data directory.
// This is a secondary adapter.
type Filesystem struct {
	dataDir string
}

// NewFilesystem creates a housekeeper rooted at dataDir.
func NewFilesystem(dataDir string) (*Filesystem, error) {
	if dataDir == "" {
		return nil, errors.New("data dir is required")
	}
	if filepath.Clean(dataDir) == string(filepath.Separator) {
		return nil, fmt.Errorf("refusing to use %q as data dir", dataDir)
	}
	return &Filesystem{dataDir: dataDir}, nil
}

// ResetKeychain removes every stored secret.
func (f *Filesystem) ResetKeychain(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Join(f.dataDir, KeychainDir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("reset keychain: %w", err)
	}
	logging.Infof("keychain reset: %s", dir)
	return nil
}

// CleanApp removes every file of the data directory.
func (f *Filesystem) CleanApp(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(f.dataDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read data dir: %w", err)
	}
	for _, e := range entries {
		path := filepath.Join(f.dataDir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	logging.Infof("app data cleaned: %s (%d entries)", f.dataDir, len(entries))
	return nil
}
