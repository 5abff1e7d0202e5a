package platform

import (
	"context"
	"errors"
	"log/slog"

	"github.com/txn2/kusto-notebook/pkg/connection"
)

// logHost is the default KernelHost. The real host document system lives
// in the UI shell; standalone runs just log kernel registrations.
type logHost struct{}

func (logHost) RegisterKernel(docType string, _ connection.Token, label string) error {
	slog.Info("kernel registered", "doc_type", docType, "label", label)
	return nil
}

func (logHost) UnregisterKernel(docType string, _ connection.Token) {
	slog.Info("kernel unregistered", "doc_type", docType)
}

// noPrompter is the default Prompter. Token and key prompts need a host
// UI; without one the manual auth step fails terminally, as it should.
type noPrompter struct{}

func (noPrompter) Prompt(_ context.Context, _ string) (string, error) {
	return "", errors.New("no interactive prompter available")
}
