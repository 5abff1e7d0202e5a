// Package auth resolves bearer tokens for cluster connections through an
// ordered fallback chain of token sources.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Source yields a bearer token.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Token returns a bearer token or an error.
	Token(ctx context.Context) (string, error)
}

// Chain tries its sources in order. A failing source is logged and the
// chain proceeds to the next, except the final source, whose failure is
// terminal. Whichever token materializes is attached directly by the
// caller; the chain itself never caches (caching, if any, belongs to
// the source).
type Chain struct {
	sources []Source
}

// NewChain creates a chain over the given sources, tried in order.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Token resolves a bearer token through the chain.
func (c *Chain) Token(ctx context.Context) (string, error) {
	if len(c.sources) == 0 {
		return "", errors.New("no token sources configured")
	}

	for i, source := range c.sources {
		token, err := source.Token(ctx)
		if err == nil && token != "" {
			return token, nil
		}
		if err == nil {
			err = errors.New("empty token")
		}
		if i == len(c.sources)-1 {
			return "", fmt.Errorf("%s: %w", source.Name(), err)
		}
		slog.Debug("token source failed, trying next",
			"source", source.Name(), "error", err)
	}
	// Unreachable: the last iteration always returns.
	return "", errors.New("no token resolved")
}
