package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/valpere/htmlbr/internal"
	"github.com/valpere/htmlbr/internal/postprocess"
	"github.com/valpere/htmlbr/internal/prompt"
)

// maxErrorBody caps how much of an error response is kept in the outcome.
const maxErrorBody = 4 << 10

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int32   `json:"maxOutputTokens"`
}

type generateContentRequest struct {
	Contents         []*genai.Content `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

// GeminiService calls the Gemini generateContent REST endpoint and retries
// rate-limited calls with exponential backoff.
type GeminiService struct {
	cfg     ServiceConfig
	policy  RetryPolicy
	prompts *prompt.Builder
	client  *http.Client
	sleep   func(time.Duration)
	notify  RetryNotifier
}

func NewGeminiService(cfg ServiceConfig, policy RetryPolicy, prompts *prompt.Builder) *GeminiService {
	cfg = cfg.withDefaults()
	if prompts == nil {
		prompts = prompt.Default()
	}
	return &GeminiService{
		cfg:     cfg,
		policy:  policy.withDefaults(),
		prompts: prompts,
		client:  &http.Client{Timeout: cfg.Timeout},
		sleep:   time.Sleep,
	}
}

func (s *GeminiService) Name() string {
	return "gemini"
}

// SetNotifier registers a hook called before every backoff sleep.
func (s *GeminiService) SetNotifier(n RetryNotifier) {
	s.notify = n
}

// SetSleeper replaces time.Sleep, mainly for tests.
func (s *GeminiService) SetSleeper(sleep func(time.Duration)) {
	if sleep != nil {
		s.sleep = sleep
	}
}

// Translate blocks until the row resolves. Only HTTP 429 is retried; every
// other failure is returned on the first attempt.
func (s *GeminiService) Translate(ctx context.Context, apiKey, sourceText string) internal.Outcome {
	body, err := s.requestBody(s.prompts.Build(sourceText))
	if err != nil {
		return internal.Failed(internal.KindTransportError, fmt.Sprintf("failed to marshal request: %v", err))
	}

	state := s.policy.start()
	for {
		state.Attempt++
		decision := s.policy.Classify(state.Attempt, s.call(ctx, apiKey, body))
		if decision.Action == ActionDone {
			return s.finish(decision.Outcome)
		}

		if s.notify != nil {
			s.notify(state.Attempt, s.policy.MaxAttempts, state.Delay)
		}
		s.sleep(state.Delay)
		state = state.next()
	}
}

func (s *GeminiService) finish(o internal.Outcome) internal.Outcome {
	if s.cfg.Clean && o.Status == internal.StatusSuccess {
		o.Text = postprocess.Clean(o.Text)
	}
	return o
}

func (s *GeminiService) requestBody(text string) ([]byte, error) {
	req := generateContentRequest{
		Contents: []*genai.Content{
			{Parts: []*genai.Part{{Text: text}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     float32(s.cfg.Temperature),
			MaxOutputTokens: int32(s.cfg.MaxOutputTokens),
		},
	}
	return json.Marshal(req)
}

func (s *GeminiService) endpoint(apiKey string) string {
	q := url.Values{}
	q.Set("key", apiKey)
	return fmt.Sprintf("%s/models/%s:generateContent?%s",
		strings.TrimRight(s.cfg.BaseURL, "/"), url.PathEscape(s.cfg.Model), q.Encode())
}

// call performs one HTTP round trip. Error messages never include the URL,
// which carries the API key.
func (s *GeminiService) call(ctx context.Context, apiKey string, body []byte) Attempt {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(apiKey), bytes.NewReader(body))
	if err != nil {
		return Attempt{Err: fmt.Errorf("failed to create request: %w", stripURL(err))}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return Attempt{Err: fmt.Errorf("request failed: %w", stripURL(err))}
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.StatusCode >= 400 {
		reader = io.LimitReader(resp.Body, maxErrorBody)
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		return Attempt{Err: fmt.Errorf("failed to read response: %w", stripURL(err))}
	}

	return Attempt{StatusCode: resp.StatusCode, Body: payload}
}

func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
