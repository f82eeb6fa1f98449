package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/mahnouor1/streetly/app/observability/metrics"
)

// Fixed replies for the two terminal failure modes. Callers must not retry.
const (
	ReplyNotConfigured = "The AI model is not available. Please check the API key and configuration."
	ReplyUnavailable   = "Sorry, I'm having trouble connecting to my knowledge base right now."
)

const placeholderAPIKey = "YOUR_GOOGLE_AI_API_KEY_HERE"

var _ Service = (*ServiceImpl)(nil)

// Service turns one free-text tourist question about a city into one reply.
// Each call is self-contained; no conversation memory is kept across calls.
// Provider failures come back as fixed apology replies, not errors; a non-nil
// error only means the call itself never ran (cancelled context).
type Service interface {
	GetAgentResponse(ctx context.Context, message, cityName string) (string, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewServiceImpl builds the adapter. A missing or placeholder API key
// degrades every call to a fixed apology instead of failing construction.
func NewServiceImpl(ctx context.Context, apiKey, model string, logger *slog.Logger) *ServiceImpl {
	s := &ServiceImpl{logger: logger, model: model}
	if model == "" {
		s.model = "gemini-2.0-flash"
	}

	if apiKey == "" || apiKey == placeholderAPIKey {
		logger.Warn("Gemini API key missing or placeholder, agent runs degraded")
		return s
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Error("Failed to initialize Gemini client, agent runs degraded", slog.Any("error", err))
		return s
	}
	s.client = client
	return s
}

func (s *ServiceImpl) GetAgentResponse(ctx context.Context, message, cityName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.client == nil {
		return ReplyNotConfigured, nil
	}

	prompt := fmt.Sprintf(
		"You are an expert local guide for %s. Provide helpful, concise, and friendly information to tourists. User's question: %q",
		cityName, message,
	)

	start := time.Now()
	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if m := metrics.Get(); m != nil {
		m.ChatDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Gemini call failed", slog.Any("error", err))
		return ReplyUnavailable, nil
	}

	text := result.Text()
	if text == "" {
		return ReplyUnavailable, nil
	}
	return text, nil
}
