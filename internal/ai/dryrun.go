package ai

import (
	"context"
	"strings"
)

// DryRunProvider answers every request with the prompt it would have sent.
// Used for --dry-run and when ai.enabled is false; no network calls.
type DryRunProvider struct{}

// NewDryRunProvider returns a DryRunProvider.
func NewDryRunProvider() *DryRunProvider {
	return &DryRunProvider{}
}

// Complete returns the request's messages, each under a role header.
func (DryRunProvider) Complete(_ context.Context, req ChatRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	for i, m := range req.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("--- " + m.Role + " ---\n")
		b.WriteString(m.Content)
	}
	return b.String(), nil
}
