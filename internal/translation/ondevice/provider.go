// Package ondevice implements the translation provider backed by a local,
// locale-pair-scoped platform translation capability.
package ondevice

import (
	"context"
	"strings"
	"time"

	"github.com/thisisbailin/spur/internal/catalog"
	"github.com/thisisbailin/spur/internal/translation"
)

const (
	// translateTimeout bounds a translation call; the underlying capability
	// may otherwise hang indefinitely waiting for model downloads.
	translateTimeout = 15 * time.Second

	// availabilityTimeout bounds an availability probe.
	availabilityTimeout = 5 * time.Second
)

// Provider delegates to a platform translation session per call. Each call
// races the real work against a deadline; whichever finishes first wins and
// the loser's outcome is discarded.
type Provider struct {
	factory             SessionFactory
	translateTimeout    time.Duration
	availabilityTimeout time.Duration
}

// NewProvider creates an on-device provider using the given session factory.
func NewProvider(factory SessionFactory) *Provider {
	return &Provider{
		factory:             factory,
		translateTimeout:    translateTimeout,
		availabilityTimeout: availabilityTimeout,
	}
}

// ID returns the stable engine identifier.
func (p *Provider) ID() catalog.EngineID { return catalog.EngineOnDevice }

// Translate translates text through a platform session. If the session does
// not resolve within the translate timeout the call fails with a timeout
// FailedError and any late completion is dropped.
func (p *Provider) Translate(ctx context.Context, text, from, to string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", translation.ErrInvalidInput
	}

	source := from
	if from == catalog.AutoDetect {
		source = ""
	}

	session, err := p.factory.NewSession(source, to)
	if err != nil {
		return "", translation.Failedf("translation session unavailable: %v", err)
	}

	result, err := p.runBounded(ctx, p.translateTimeout, func(ctx context.Context) (string, error) {
		if err := session.Prepare(ctx); err != nil {
			return "", err
		}
		return session.Translate(ctx, text)
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// CheckAvailability probes whether the source/target pair can be served.
// All internal errors, including the probe timing out, read as unavailable.
func (p *Provider) CheckAvailability(ctx context.Context, source, target string) bool {
	src := source
	if source == catalog.AutoDetect {
		src = ""
	}

	session, err := p.factory.NewSession(src, target)
	if err != nil {
		return false
	}

	_, err = p.runBounded(ctx, p.availabilityTimeout, func(ctx context.Context) (string, error) {
		return "", session.Prepare(ctx)
	})
	return err == nil
}

type outcome struct {
	text string
	err  error
}

// runBounded races work against the timeout. The result channel is buffered
// so the loser's send never blocks, and only the first outcome is honoured:
// the select resolves exactly once and the late writer's value is discarded
// with its context cancelled.
func (p *Provider) runBounded(ctx context.Context, timeout time.Duration, work func(context.Context) (string, error)) (string, error) {
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		text, err := work(workCtx)
		done <- outcome{text: text, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			if workCtx.Err() != nil {
				return "", translation.Failed("request timed out")
			}
			return "", translation.Failedf("%v", out.err)
		}
		return out.text, nil
	case <-timer.C:
		return "", translation.Failed("request timed out")
	case <-ctx.Done():
		return "", translation.Failed("request cancelled")
	}
}
