package debugmenu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"exposure-debugpanel/internal/core"
	"exposure-debugpanel/internal/domain"
)

// ErrNoSuchItem is returned for an index or query that matches no item.
var ErrNoSuchItem = errors.New("no such menu item")

// Store is the part of the core store the panel drives.
type Store interface {
	GetState() domain.AppState
	Dependencies() *domain.Dependencies
	Dispatch(action core.Action) error
}

// Panel serves the live menu to the presentation surfaces.
type Panel struct {
	store Store
}

// NewPanel creates a panel over store.
func NewPanel(store Store) *Panel {
	return &Panel{store: store}
}

// Items builds the menu for the current state.
func (p *Panel) Items() []Item {
	deps := p.store.Dependencies()
	return Build(p.store.GetState(), deps.Capabilities, deps.Clock())
}

// Labels returns the labels of Items.
func (p *Panel) Labels() []string {
	items := p.Items()
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label
	}
	return labels
}

// Select dispatches the action of the item at index (0-based).
func (p *Panel) Select(index int) (Item, error) {
	items := p.Items()
	if index < 0 || index >= len(items) {
		return Item{}, fmt.Errorf("%w: %d", ErrNoSuchItem, index+1)
	}
	item := items[index]
	if err := p.store.Dispatch(item.Action); err != nil {
		return item, fmt.Errorf("%s: %w", item.Label, err)
	}
	return item, nil
}

// Resolve turns user input into a 0-based index. Numbers are 1-based item
// positions; anything else is matched against the labels, first by
// containment and then by edit distance.
func (p *Panel) Resolve(query string) (int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, fmt.Errorf("%w: empty query", ErrNoSuchItem)
	}
	labels := p.Labels()
	if n, err := strconv.Atoi(query); err == nil {
		if n < 1 || n > len(labels) {
			return 0, fmt.Errorf("%w: %d", ErrNoSuchItem, n)
		}
		return n - 1, nil
	}
	return Match(labels, query)
}

// Match returns the index of the label closest to query.
func Match(labels []string, query string) (int, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	for i, l := range labels {
		if strings.Contains(strings.ToLower(l), q) {
			return i, nil
		}
	}

	best, bestDist := -1, 0
	for i, l := range labels {
		dist := levenshtein.ComputeDistance(q, normalizeLabel(l))
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 || bestDist > len([]rune(q))/2 {
		return 0, fmt.Errorf("%w: %q", ErrNoSuchItem, query)
	}
	return best, nil
}

// normalizeLabel drops the leading emoji and lowercases.
func normalizeLabel(label string) string {
	trimmed := strings.TrimLeftFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '['
	})
	return strings.ToLower(trimmed)
}

// State returns a snapshot of the application state.
func (p *Panel) State() domain.AppState {
	return p.store.GetState()
}
