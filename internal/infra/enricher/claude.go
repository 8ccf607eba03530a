package enricher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"interest-feed/internal/pkg/throttle"
	"interest-feed/internal/resilience/circuitbreaker"
)

const defaultClaudeModel = "claude-sonnet-4-5-20250929"

// Claude implements Extractor using Anthropic's Claude API. Calls run through
// the shared throttled caller and a circuit breaker. There is deliberately no
// retry here: a failed extraction leaves the user stale and the refresher
// picks it up again next cycle.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	caller          *throttle.Caller
	config          Config
	metricsRecorder MetricsRecorder
}

// NewClaude creates a Claude keyword extractor sharing the given throttled
// caller.
func NewClaude(apiKey string, caller *throttle.Caller) (*Claude, error) {
	cfg, err := LoadConfig(defaultClaudeModel)
	if err != nil {
		return nil, fmt.Errorf("load claude enricher config: %w", err)
	}

	slog.Info("Initialized Claude keyword extractor",
		slog.String("model", cfg.Model),
		slog.Int("max_concurrent", cfg.MaxSimultaneous),
		slog.Float64("max_per_second", cfg.MaxPerSecond))

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.EnrichmentAPIConfig("claude-api")),
		caller:          caller,
		config:          cfg,
		metricsRecorder: NewPrometheusMetrics(),
	}, nil
}

// ExtractKeywords derives interest phrases from the description via Claude.
func (c *Claude) ExtractKeywords(ctx context.Context, description string) ([]string, error) {
	if description == "" {
		return []string{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	keywords, err := throttle.Call(ctx, c.caller, func(ctx context.Context) ([]string, error) {
		result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doExtract(ctx, description)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
			}
			return nil, err
		}
		return result.([]string), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnrichmentUnavailable, err)
	}
	return keywords, nil
}

// doExtract performs the actual API call without throttling or breaker.
func (c *Claude) doExtract(ctx context.Context, description string) ([]string, error) {
	requestID := uuid.New().String()

	slog.InfoContext(ctx, "Starting keyword extraction",
		slog.String("request_id", requestID),
		slog.Int("description_length", len(description)))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPreamble},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(instructionPrompt)),
			anthropic.NewUserMessage(anthropic.NewTextBlock(exampleProfile)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock(exampleKeywords)),
			anthropic.NewUserMessage(anthropic.NewTextBlock("User: " + description)),
		},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Keyword extraction failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		c.metricsRecorder.RecordRequest("error", duration)
		return nil, fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		c.metricsRecorder.RecordRequest("error", duration)
		return nil, fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		c.metricsRecorder.RecordRequest("error", duration)
		return nil, fmt.Errorf("claude api returned unexpected response type")
	}

	keywords := ParseKeywords(textBlock.Text)

	slog.InfoContext(ctx, "Keyword extraction completed",
		slog.String("request_id", requestID),
		slog.Int("keywords", len(keywords)),
		slog.Duration("duration", duration))

	c.metricsRecorder.RecordRequest("success", duration)
	c.metricsRecorder.RecordKeywords(len(keywords))

	return keywords, nil
}
