package classify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-1.5-flash-latest"
	DefaultTimeout = 30 * time.Second
)

type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAICapability answers prompts through an OpenAI-compatible
// chat-completions endpoint.
type OpenAICapability struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAICapability, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("AI API key is not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)
	return &OpenAICapability{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

func (o *OpenAICapability) Complete(ctx context.Context, prompt string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	completion, err := o.client.Chat.Completions.New(timeoutCtx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(o.model),
	})
	if err != nil {
		return "", classifyError(ctx, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformed)
	}
	return completion.Choices[0].Message.Content, nil
}

// classifyError maps a client failure onto the package sentinels. Failures
// that would repeat for every article, such as bad credentials, are returned
// unwrapped so the batch stops.
func classifyError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case apiErr.StatusCode == http.StatusRequestTimeout || apiErr.StatusCode >= 500:
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return fmt.Errorf("completion request: %w", err)
	}
	// Timeouts and transport failures.
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
