package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
	"ArticlePublisher/internal/retry"
)

// OpenAIGenerator implements the text- and image-generation collaborators
// against OpenAI-compatible APIs.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	imageModel  string
	maxTokens   int
	temperature float32
	disclaimer  string
	retryCfg    retry.Config
	logger      *slog.Logger
}

var _ ports.ContentGenerator = (*OpenAIGenerator)(nil)
var _ ports.WeeklyGenerator = (*OpenAIGenerator)(nil)
var _ ports.ImageGenerator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator builds a generator from configuration. The disclaimer
// is injected into every prompt so generated bodies can pass validation.
func NewOpenAIGenerator(cfg config.OpenAIConfig, disclaimer string, logger *slog.Logger) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		imageModel:  cfg.ImageModel,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		disclaimer:  disclaimer,
		retryCfg:    retry.DefaultConfig(),
		logger:      logger,
	}, nil
}

// WithRetryConfig overrides retry behavior; tests inject a no-op sleep.
func (g *OpenAIGenerator) WithRetryConfig(cfg retry.Config) *OpenAIGenerator {
	g.retryCfg = cfg
	return g
}

// Generate produces one article for the topic, retrying transient API
// failures.
func (g *OpenAIGenerator) Generate(ctx context.Context, topic domain.Topic) (domain.Article, error) {
	g.logger.Info("generating content",
		"mbti", topic.MBTI,
		"card", topic.CardName,
		"model", g.model)

	return g.complete(ctx, contentPrompt(topic, g.disclaimer))
}

// GenerateWeekly produces the weekly fortune article for one MBTI type.
func (g *OpenAIGenerator) GenerateWeekly(ctx context.Context, mbti, weekStart, weekEnd string) (domain.Article, error) {
	g.logger.Info("generating weekly fortune",
		"mbti", mbti,
		"week", weekStart+"~"+weekEnd,
		"model", g.model)

	return g.complete(ctx, weeklyPrompt(mbti, weekStart, weekEnd, g.disclaimer))
}

// GenerateImage renders a featured illustration for the topic and returns
// the raw image bytes.
func (g *OpenAIGenerator) GenerateImage(ctx context.Context, topic domain.Topic) ([]byte, error) {
	var data []byte

	_, err := retry.Do(ctx, g.retryCfg, func(ctx context.Context, attempt int) error {
		resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
			Prompt:         imagePrompt(topic),
			Model:          g.imageModel,
			N:              1,
			Size:           openai.CreateImageSize1024x1024,
			ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		})
		if err != nil {
			return classify(err)
		}
		if len(resp.Data) == 0 {
			return retry.Permanent(fmt.Errorf("image response contained no data"))
		}

		data, err = base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
		if err != nil {
			return retry.Permanent(fmt.Errorf("decode image payload: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}

	return data, nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, prompt string) (domain.Article, error) {
	var raw string

	attempts, err := retry.Do(ctx, g.retryCfg, func(ctx context.Context, attempt int) error {
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       g.model,
			MaxTokens:   g.maxTokens,
			Temperature: g.temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return classify(err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("completion returned no choices")
		}

		raw = resp.Choices[0].Message.Content
		g.logger.Info("completion received",
			"attempt", attempt,
			"tokens", resp.Usage.TotalTokens)
		return nil
	})
	if err != nil {
		return domain.Article{}, fmt.Errorf("chat completion after %d attempts: %w", attempts, err)
	}

	article := parseResponse(raw)
	if article.Title == "" || article.Body == "" {
		return domain.Article{}, fmt.Errorf("completion missing title or body")
	}

	return article, nil
}

// classify keeps retries for rate limits and server-side failures only;
// auth and malformed-request errors fail immediately.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
			return err
		}
		return retry.Permanent(err)
	}
	return err
}
