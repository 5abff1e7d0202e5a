package auth

import (
	"context"
	"errors"
)

// Prompter asks the user for input. Implemented by the host UI layer.
type Prompter interface {
	Prompt(ctx context.Context, message string) (string, error)
}

// ManualSource asks the user to paste a token. It is the terminal step
// of the fallback chain: its failure propagates.
type ManualSource struct {
	Prompter Prompter
}

// Name implements Source.
func (*ManualSource) Name() string { return "manual" }

// Token implements Source.
func (s *ManualSource) Token(ctx context.Context) (string, error) {
	token, err := s.Prompter.Prompt(ctx, "Paste an access token for the cluster")
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("no token entered")
	}
	return token, nil
}
