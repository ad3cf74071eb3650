package config

import (
	"os"
	"path/filepath"
)

// DefaultDir returns ~/.config/debugpanel (or a cwd fallback).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "debugpanel")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".debugpanel")
}

// DefaultDataDir returns ~/.local/share/debugpanel (or a cwd fallback).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "share", "debugpanel")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".debugpanel", "data")
}
