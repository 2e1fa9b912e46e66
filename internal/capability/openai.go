package capability

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// #endregion

// #region prompts

const temporalSystemPrompt = `You decide whether a selfie request refers to the present moment or to a past photo.
Given the scene, the request text, and recent conversation turns, answer with one JSON object only:
{"is_old_photo": bool, "timeframe": "now"|"today"|"yesterday"|"last_week"|"last_month"|"vague_past", "confidence": 0.0-1.0, "signals": ["phrases that justified the call"]}
No prose, no markdown fences.`

const contextSystemPrompt = `You infer soft appearance hints from ambient context for a selfie.
Given the scene, presence hints, and nearby calendar events, answer with one JSON object only:
{"formality": "casual"|"dressed_up"|"athletic"|"cozy"|"unknown", "hairstyle": "curly"|"straight"|"messy_bun"|"ponytail"|"waves"|"any", "activity": "short label", "confidence": 0.0-1.0}
No prose, no markdown fences.`

func systemPrompt(kind PromptKind) (string, error) {
	switch kind {
	case KindTemporal:
		return temporalSystemPrompt, nil
	case KindContext:
		return contextSystemPrompt, nil
	}
	return "", fmt.Errorf("capability: unknown prompt kind %q", kind)
}

// #endregion

// #region client-struct

// OpenAIClient implements Client against any OpenAI-compatible chat
// endpoint. Each prompt kind maps to its own system prompt; the structured
// input travels as the user message.
type OpenAIClient struct {
	client *openai.Client
	cfg    Config
	log    *slog.Logger
}

// NewOpenAIClient builds a client from the given config.
func NewOpenAIClient(cfg Config, log *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("capability: api key not set")
	}
	if log == nil {
		log = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(oc),
		cfg:    cfg,
		log:    log,
	}, nil
}

// #endregion

// #region classify

// Classify runs one chat completion bounded by the configured timeout.
// Errors are returned as-is; callers degrade to their fallback path.
func (c *OpenAIClient) Classify(ctx context.Context, kind PromptKind, input any) (json.RawMessage, error) {
	sys, err := systemPrompt(kind)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("capability: marshal input: %w", err)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sys},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		c.log.Warn("capability call failed", "kind", string(kind), "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	out = strings.TrimPrefix(out, "```json")
	out = strings.Trim(out, "` \n")
	if !json.Valid([]byte(out)) {
		return nil, fmt.Errorf("capability: malformed output for kind %q", kind)
	}
	return json.RawMessage(out), nil
}

// #endregion
