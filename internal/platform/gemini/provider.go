package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/kioku-app/kioku/internal/config"
	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/generation"
)

// defaultPromptTemplate asks the model for a fixed three-line format so
// the response can be parsed without guessing.
const defaultPromptTemplate = `Create a simple, natural Japanese example sentence using the word "{{.Kanji}}" ({{.Reading}}) which means "{{.Meaning}}".

Please format your response EXACTLY like this:
SENTENCE: [Japanese sentence here]
READING: [Same sentence with all kanji converted to hiragana/katakana]
ENGLISH: [Natural English translation]

Requirements:
- Make the sentence practical for daily conversation
- Include the word naturally in context
- Keep it under 30 characters in Japanese
- Don't add extra explanations or formatting`

// Provider implements the generation.SentenceProvider interface using
// Google's Gemini API.
type Provider struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// Verify interface compliance at compile time
var _ generation.SentenceProvider = (*Provider)(nil)

// NewProvider creates a Gemini-backed sentence provider or an error if
// the configuration is invalid or the client cannot be initialized.
func NewProvider(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("sentence").Parse(defaultPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Provider{
		logger:         logger.With(slog.String("component", "gemini_provider")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// Generate produces one example sentence for the given word by calling
// the Gemini API with retry, then parsing the structured response.
func (p *Provider) Generate(
	ctx context.Context,
	word *domain.Word,
	_ generation.Options,
) (*generation.Sentence, error) {
	if word == nil {
		return nil, fmt.Errorf("%w: word cannot be nil", generation.ErrGenerationFailed)
	}

	prompt, err := p.createPrompt(word)
	if err != nil {
		return nil, err
	}

	raw, err := p.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	text, err := ParseResponse(raw)
	if err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "sentence generated",
		"word_id", word.ID.String(),
		"sentence_length", len(text))

	return &generation.Sentence{Text: text, Source: generation.SourceAI}, nil
}

// createPrompt renders the prompt template for the given word.
func (p *Provider) createPrompt(word *domain.Word) (string, error) {
	data := struct {
		Kanji   string
		Reading string
		Meaning string
	}{word.Kanji, word.Reading, word.Meaning}

	var buf bytes.Buffer
	if err := p.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: failed to execute prompt template: %v",
			generation.ErrGenerationFailed, err)
	}
	return buf.String(), nil
}

// callWithRetry makes a call to the Gemini API with exponential backoff
// retry logic. Transient API errors are retried up to MaxRetries times
// with jittered delays; permanent errors (content blocked, empty
// response) are returned immediately.
func (p *Provider) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := p.config.MaxRetries
	baseDelaySeconds := p.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		p.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	if baseDelaySeconds < 1 {
		p.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		p.logger.InfoContext(ctx, "calling Gemini API",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)

		var transient bool
		var text string
		switch {
		case err != nil:
			transient = true
		case resp == nil || len(resp.Candidates) == 0:
			err = fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
		case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
			err = fmt.Errorf("%w: blocked by safety filters", generation.ErrContentBlocked)
		default:
			text = resp.Text()
			if text == "" {
				err = fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
			}
		}

		if err == nil {
			return text, nil
		}

		p.logger.WarnContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"error", err)

		if !transient {
			return "", err
		}
		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}
