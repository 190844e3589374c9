package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultModel   = "gpt-4o-mini"
	requestTimeout = 60 * time.Second
)

// OpenAIConfig configures the OpenAI-backed provider.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
}

// OpenAI asks a chat model for recommendations using structured outputs.
// Any failure is logged and answered from the Static tables instead.
type OpenAI struct {
	Model    string
	client   openai.Client
	fallback Static
	logger   *slog.Logger
}

func NewOpenAI(cfg OpenAIConfig, logger *slog.Logger) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{
		Model:  cfg.Model,
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

func (o *OpenAI) Techniques(ctx context.Context, style planner.LearningStyle) ([]planner.Technique, error) {
	var resp techniqueResponse
	err := o.complete(ctx, "study_techniques", techniqueSchema, buildTechniquePrompt(style), &resp)
	if err == nil && len(resp.Techniques) == 0 {
		err = fmt.Errorf("model returned no techniques")
	}
	if err != nil {
		o.logger.Warn("technique recommendation failed, using static table", "error", err)
		return o.fallback.Techniques(ctx, style)
	}
	return resp.Techniques, nil
}

func (o *OpenAI) Resources(ctx context.Context, subjects []string, style planner.LearningStyle) ([]planner.Resource, error) {
	if len(subjects) == 0 {
		return []planner.Resource{}, nil
	}
	var resp resourceResponse
	err := o.complete(ctx, "study_resources", resourceSchema, buildResourcePrompt(subjects, style), &resp)
	if err == nil && len(resp.Resources) == 0 {
		err = fmt.Errorf("model returned no resources")
	}
	if err != nil {
		o.logger.Warn("resource recommendation failed, using static table", "error", err)
		return o.fallback.Resources(ctx, subjects, style)
	}
	return resp.Resources, nil
}

func (o *OpenAI) complete(ctx context.Context, name string, schema any, prompt string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	o.logger.Debug("requesting recommendations", "model", o.Model, "schema", name, "prompt_len", len(prompt))

	chat, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   name,
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return fmt.Errorf("chat completion returned no choices")
	}

	content := chat.Choices[0].Message.Content
	o.logger.Debug("recommendations received", "schema", name, "content_len", len(content))
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
