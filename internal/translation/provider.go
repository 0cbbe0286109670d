package translation

import (
	"context"

	"github.com/thisisbailin/spur/internal/catalog"
)

// Provider defines the interface for translation backends
type Provider interface {
	// Translate translates text between the given language codes. The
	// source code "auto" requests source-language detection. Errors belong
	// to the package taxonomy: ErrInvalidInput for blank text, ErrNetwork
	// for transport failures, FailedError for backend-reported failures
	// (including timeouts) and ErrUnknown for unparseable responses.
	Translate(ctx context.Context, text, from, to string) (string, error)

	// CheckAvailability reports whether the source/target pair can be
	// served. It never fails; internal errors read as unavailable.
	CheckAvailability(ctx context.Context, source, target string) bool

	// ID returns the stable engine identifier for registry lookups.
	ID() catalog.EngineID
}

// ThemeSetter is implemented by providers whose prompt construction is
// influenced by a style theme. The manager pushes the current theme into
// such providers when they become active.
type ThemeSetter interface {
	SetTheme(theme catalog.ThemeID)
}
