package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/finlens/insight-go/core"
	"github.com/finlens/insight-go/logger"
)

const defaultMaxTokens = 2048

// Config holds Anthropic client settings.
type Config struct {
	// APIKey authenticates against the Anthropic API.
	APIKey string
	// Model is the model identifier, e.g. "claude-sonnet-4-20250514".
	Model string
	// RequestsPerMinute throttles outgoing calls. Zero disables the
	// limiter.
	RequestsPerMinute int
}

// Anthropic implements Generator on the Anthropic Messages API.
type Anthropic struct {
	client  anthropic.Client
	model   string
	limiter *rate.Limiter
}

// NewAnthropic builds the client. The key is not validated here; the
// first Complete call surfaces auth errors.
func NewAnthropic(cfg Config) *Anthropic {
	a := &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}
	if cfg.RequestsPerMinute > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return a
}

// Complete sends the messages and returns the concatenated text blocks of
// the response. System messages become the API's system field; user and
// assistant messages map to conversation turns. Provider errors are
// wrapped and returned as-is; there are no retries.
func (a *Anthropic) Complete(ctx context.Context, msgs []core.Message, opts core.GenerateOptions) (string, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxTokens,
	}
	for _, m := range msgs {
		switch m.Role {
		case core.RoleSystem:
			req.System = append(req.System, anthropic.TextBlockParam{Text: m.Content})
		case core.RoleUser:
			req.Messages = append(req.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case core.RoleAssistant:
			req.Messages = append(req.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	start := time.Now()
	message, err := a.client.Messages.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text content in model response")
	}

	logger.L().WithFields(logrus.Fields{
		"model":        a.model,
		"inputTokens":  message.Usage.InputTokens,
		"outputTokens": message.Usage.OutputTokens,
		"durationMs":   time.Since(start).Milliseconds(),
	}).Info("generation complete")

	return b.String(), nil
}
