package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// CLISource derives a bearer token from the ambient az CLI credential.
type CLISource struct {
	// Resource is the audience the token is requested for, typically
	// the cluster URL.
	Resource string

	// run executes the CLI; replaceable in tests.
	run func(ctx context.Context, resource string) ([]byte, error)
	now func() time.Time
}

// NewCLISource creates a CLI-backed token source.
func NewCLISource(resource string) *CLISource {
	return &CLISource{
		Resource: resource,
		run:      runAzCLI,
		now:      time.Now,
	}
}

// Name implements Source.
func (*CLISource) Name() string { return "cli" }

// Token implements Source. A token the CLI hands back already expired is
// treated as a failure so the chain can move on to an interactive source.
func (s *CLISource) Token(ctx context.Context) (string, error) {
	out, err := s.run(ctx, s.Resource)
	if err != nil {
		return "", fmt.Errorf("az cli credential: %w", err)
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return "", fmt.Errorf("parsing az cli output: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("az cli returned no token")
	}
	if expired(payload.AccessToken, s.now()) {
		return "", fmt.Errorf("az cli credential is expired")
	}
	return payload.AccessToken, nil
}

func runAzCLI(ctx context.Context, resource string) ([]byte, error) {
	args := []string{"account", "get-access-token", "--output", "json"}
	if resource != "" {
		args = append(args, "--resource", resource)
	}
	return exec.CommandContext(ctx, "az", args...).Output()
}
