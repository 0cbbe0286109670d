package translation

import (
	"context"
	"strings"
	"sync"

	"github.com/thisisbailin/spur/internal/catalog"
)

// DefaultSource and DefaultTarget are the language codes used when a caller
// does not specify them explicitly.
const (
	DefaultSource = catalog.AutoDetect
	DefaultTarget = "zh_CN"
)

// Manager owns the provider registry and the active provider, and exposes
// the uniform translate entry point. It is constructed once at startup and
// passed to consumers; there is no ambient global instance.
type Manager struct {
	mu        sync.Mutex
	providers map[catalog.EngineID]Provider
	active    Provider
	theme     catalog.ThemeID
}

// NewManager creates a manager with the given provider active. Additional
// providers are added with RegisterProvider.
func NewManager(defaultProvider Provider) *Manager {
	m := &Manager{
		providers: make(map[catalog.EngineID]Provider),
		theme:     catalog.ThemeDaily,
	}
	if defaultProvider != nil {
		m.providers[defaultProvider.ID()] = defaultProvider
		m.active = defaultProvider
	}
	return m
}

// RegisterProvider adds or overwrites the registry entry for p's engine id.
func (m *Manager) RegisterProvider(p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[p.ID()] = p
	if m.active == nil {
		m.active = p
	}
}

// SwitchProvider makes the provider registered under id the active one and
// reports whether the switch succeeded. An unknown id leaves the active
// provider unchanged.
func (m *Manager) SwitchProvider(id catalog.EngineID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.providers[id]
	if !ok {
		return false
	}
	m.active = p

	// Theme-aware providers read the theme at call time; push the current
	// one so a switch alone is enough to get themed output.
	if ts, ok := p.(ThemeSetter); ok {
		ts.SetTheme(m.theme)
	}
	return true
}

// SetTheme stores the current style theme and propagates it to the active
// provider if that provider is theme-aware.
func (m *Manager) SetTheme(theme catalog.ThemeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = theme
	if ts, ok := m.active.(ThemeSetter); ok {
		ts.SetTheme(theme)
	}
}

// Theme returns the currently selected style theme.
func (m *Manager) Theme() catalog.ThemeID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

// ActiveProvider returns the currently active provider.
func (m *Manager) ActiveProvider() Provider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// AvailableProviders lists the ids of all registered providers.
func (m *Manager) AvailableProviders() []catalog.EngineID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]catalog.EngineID, 0, len(m.providers))
	for id := range m.providers {
		ids = append(ids, id)
	}
	return ids
}

// Translate runs text through the active provider and wraps the outcome in
// a canonical Result stamped with the current time and the active provider's
// id. Blank input fails fast with ErrInvalidInput, as does an auto-detect
// target; auto-detection is a source-only sentinel. Provider errors are
// re-signalled with their taxonomy kind preserved.
func (m *Manager) Translate(ctx context.Context, text, from, to string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}
	if to == catalog.AutoDetect {
		return nil, ErrInvalidInput
	}

	m.mu.Lock()
	active := m.active
	m.mu.Unlock()
	if active == nil {
		return nil, Failed("no translation provider registered")
	}

	translated, err := active.Translate(ctx, text, from, to)
	if err != nil {
		return nil, classify(err)
	}

	return newResult(text, translated, from, to, active.ID()), nil
}
