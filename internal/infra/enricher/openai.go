package enricher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"interest-feed/internal/pkg/throttle"
	"interest-feed/internal/resilience/circuitbreaker"
)

const defaultOpenAIModel = "gpt-3.5-turbo"

// OpenAI implements Extractor using OpenAI chat completions, mirroring the
// Claude adapter: shared throttled caller, circuit breaker, no internal retry.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	caller          *throttle.Caller
	config          Config
	metricsRecorder MetricsRecorder
}

// NewOpenAI creates an OpenAI keyword extractor sharing the given throttled
// caller.
func NewOpenAI(apiKey string, caller *throttle.Caller) (*OpenAI, error) {
	cfg, err := LoadConfig(defaultOpenAIModel)
	if err != nil {
		return nil, fmt.Errorf("load openai enricher config: %w", err)
	}

	slog.Info("Initialized OpenAI keyword extractor",
		slog.String("model", cfg.Model),
		slog.Int("max_concurrent", cfg.MaxSimultaneous),
		slog.Float64("max_per_second", cfg.MaxPerSecond))

	return &OpenAI{
		client:          openai.NewClient(apiKey),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.EnrichmentAPIConfig("openai-api")),
		caller:          caller,
		config:          cfg,
		metricsRecorder: NewPrometheusMetrics(),
	}, nil
}

// ExtractKeywords derives interest phrases from the description via OpenAI.
func (o *OpenAI) ExtractKeywords(ctx context.Context, description string) ([]string, error) {
	if description == "" {
		return []string{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	keywords, err := throttle.Call(ctx, o.caller, func(ctx context.Context) ([]string, error) {
		result, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doExtract(ctx, description)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
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

func (o *OpenAI) doExtract(ctx context.Context, description string) ([]string, error) {
	requestID := uuid.New().String()

	slog.InfoContext(ctx, "Starting keyword extraction",
		slog.String("request_id", requestID),
		slog.Int("description_length", len(description)))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		MaxTokens:   o.config.MaxTokens,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPreamble},
			{Role: openai.ChatMessageRoleUser, Content: instructionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: exampleProfile},
			{Role: openai.ChatMessageRoleAssistant, Content: exampleKeywords},
			{Role: openai.ChatMessageRoleUser, Content: "User: " + description},
		},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Keyword extraction failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		o.metricsRecorder.RecordRequest("error", duration)
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		o.metricsRecorder.RecordRequest("error", duration)
		return nil, fmt.Errorf("openai api returned empty response")
	}

	keywords := ParseKeywords(resp.Choices[0].Message.Content)

	slog.InfoContext(ctx, "Keyword extraction completed",
		slog.String("request_id", requestID),
		slog.Int("keywords", len(keywords)),
		slog.Duration("duration", duration))

	o.metricsRecorder.RecordRequest("success", duration)
	o.metricsRecorder.RecordKeywords(len(keywords))

	return keywords, nil
}
