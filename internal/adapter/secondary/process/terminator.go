package process

import (
	"os"
	"sync"

	"exposure-debugpanel/internal/logging"
)

// Terminator ends the process with exit status 1.
// This is a secondary adapter.
type Terminator struct {
	mu         sync.Mutex
	beforeExit func()

	exit func(code int)
}

// NewTerminator creates a terminator that calls os.Exit.
func NewTerminator() *Terminator {
	return &Terminator{exit: os.Exit}
}

// SetBeforeExit installs fn to run right before exiting, e.g. to restore
// the terminal. A nil fn removes the hook.
func (t *Terminator) SetBeforeExit(fn func()) {
	t.mu.Lock()
	t.beforeExit = fn
	t.mu.Unlock()
}

// Terminate logs reason, flushes the logger and exits.
func (t *Terminator) Terminate(reason string) {
	logging.Errorf("terminating: %s", reason)
	_ = logging.Sync()
	t.mu.Lock()
	hook := t.beforeExit
	t.mu.Unlock()
	if hook != nil {
		hook()
	}
	t.exit(1)
}
