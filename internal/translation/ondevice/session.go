package ondevice

import (
	"context"
	"errors"
)

// Session is a locale-pair-scoped handle onto the platform translation
// capability. Prepare triggers any on-demand resource download; Translate
// performs the actual translation.
type Session interface {
	Prepare(ctx context.Context) error
	Translate(ctx context.Context, text string) (string, error)
}

// SessionFactory creates sessions for a source/target pair. The source code
// is empty when the caller requested source-language auto-detection.
type SessionFactory interface {
	NewSession(source, target string) (Session, error)
}

// ErrNoCapability indicates that no platform translation capability is
// bridged into this process.
var ErrNoCapability = errors.New("on-device translation capability not available")

// UnavailableFactory is the factory used when no platform bridge is wired
// in. Every session request fails, which the provider surfaces as
// unavailability.
type UnavailableFactory struct{}

func (UnavailableFactory) NewSession(source, target string) (Session, error) {
	return nil, ErrNoCapability
}
