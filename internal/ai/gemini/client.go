package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-refiner/internal/ai"
	"github.com/spigell/resume-refiner/internal/logger"
)

const (
	provider = "gemini"

	DefaultFastModel      = "gemini-2.5-flash"
	DefaultProModel       = "gemini-2.5-pro"
	DefaultRequestTimeout = 3 * time.Minute
)

// Options configures generators created for any credential.
type Options struct {
	Models         map[ai.Tier]string
	RequestTimeout time.Duration
}

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client and implements ai.Generator.
type Generator struct {
	models  modelsAPI
	tiers   map[ai.Tier]string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey string, opts Options, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, opts, log), nil
}

func newGenerator(models modelsAPI, opts Options, log *zap.Logger) *Generator {
	tiers := map[ai.Tier]string{
		ai.TierFast: DefaultFastModel,
		ai.TierPro:  DefaultProModel,
	}
	for tier, model := range opts.Models {
		if model = strings.TrimSpace(model); model != "" {
			tiers[tier] = model
		}
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &Generator{
		models:  models,
		tiers:   tiers,
		timeout: timeout,
		logger:  logger.WithFields(log),
	}
}

// Model resolves the model name used for a tier. Unknown tiers use the pro model.
func (g *Generator) Model(tier ai.Tier) string {
	if model, ok := g.tiers[tier]; ok {
		return model
	}
	return g.tiers[ai.TierPro]
}

// Generate sends a single request to Gemini and returns the generated text.
func (g *Generator) Generate(ctx context.Context, req ai.Request) (string, error) {
	if g == nil || g.models == nil {
		return "", ai.NewGenerationError("generator is not initialized", nil)
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", ai.NewGenerationError("invalid request", ai.ErrEmptyPrompt)
	}

	model := g.Model(req.Tier)
	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if system := strings.TrimSpace(req.SystemInstruction); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	log := logger.WithCommonFields(g.logger, provider, model)
	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.Float32("temperature", req.Temperature),
		zap.Int32("max_output_tokens", req.MaxOutputTokens),
	)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	resp, err := g.models.GenerateContent(callCtx, model, genai.Text(prompt), config)
	if err != nil {
		return "", ai.NewGenerationError(classify(err), fmt.Errorf("generate content: %w", err))
	}

	output := responseText(resp)
	if strings.TrimSpace(output) == "" {
		return "", ai.NewGenerationError("gemini api returned empty response", ai.ErrEmptyResponse)
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return output, nil
}

// responseText joins the text parts of the first candidate that carries
// content. Thought parts are skipped.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}

		var builder strings.Builder
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			builder.WriteString(part.Text)
		}

		if text := strings.TrimSpace(builder.String()); text != "" {
			return text
		}
	}

	return ""
}

func classify(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		code = apiErrPtr.Code
	default:
		return "request failed"
	}

	switch {
	case code == http.StatusBadRequest, code == http.StatusUnauthorized, code == http.StatusForbidden:
		return "credential or request rejected"
	case code == http.StatusTooManyRequests:
		return "quota exhausted or rate limited"
	case code >= http.StatusInternalServerError:
		return "service unavailable"
	default:
		return fmt.Sprintf("api error %d", code)
	}
}
