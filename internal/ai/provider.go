package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// LLMProvider sends a chat request to an LLM and returns the text of the
// first choice.
type LLMProvider interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// ChatRequest mirrors the OpenAI /v1/chat/completions request body.
type ChatRequest struct {
	Model       string        `json:"model" validate:"required"`
	Messages    []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	Temperature float64       `json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `json:"max_tokens" validate:"gte=1,lte=4096"`
}

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// ErrInvalidRequest marks a request rejected before it was sent.
var ErrInvalidRequest = errors.New("invalid chat request")

var validate = validator.New()

// Validate checks the request against the schema the API accepts.
func (r ChatRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}
