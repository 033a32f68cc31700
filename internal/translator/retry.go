package translator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/valpere/htmlbr/internal"
)

const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = time.Second
)

// RetryPolicy is exponential backoff applied to rate-limited calls only.
type RetryPolicy struct {
	MaxAttempts  int           `mapstructure:"max_attempts" json:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay" json:"initial_delay"`
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.InitialDelay < time.Second {
		p.InitialDelay = DefaultInitialDelay
	}
	return p
}

// RetryState lives for a single Translate call.
type RetryState struct {
	Attempt int
	Delay   time.Duration
}

func (p RetryPolicy) start() RetryState {
	return RetryState{Delay: p.InitialDelay}
}

func (s RetryState) next() RetryState {
	return RetryState{Attempt: s.Attempt, Delay: s.Delay * 2}
}

// Attempt is what one remote call produced.
type Attempt struct {
	StatusCode int    // zero when no HTTP response arrived
	Body       []byte // response payload, possibly truncated for error statuses
	Err        error  // transport-level failure
}

type Action int

const (
	ActionDone Action = iota
	ActionRetry
)

func (a Action) String() string {
	if a == ActionRetry {
		return "retry"
	}
	return "done"
}

// Decision is the classifier's verdict. Outcome is meaningful only when
// Action is ActionDone.
type Decision struct {
	Action  Action
	Outcome internal.Outcome
}

func done(o internal.Outcome) Decision {
	return Decision{Action: ActionDone, Outcome: o}
}

// Classify maps one attempt (1-based) to the next action. It has no side
// effects: only HTTP 429 is retried, and only while attempts remain.
func (p RetryPolicy) Classify(attempt int, a Attempt) Decision {
	if a.Err != nil {
		return done(internal.Failed(internal.KindTransportError, a.Err.Error()))
	}

	switch {
	case a.StatusCode == http.StatusTooManyRequests:
		if attempt >= p.MaxAttempts {
			return done(internal.Failed(internal.KindRetriesExhausted, "max retries exceeded"))
		}
		return Decision{Action: ActionRetry}
	case a.StatusCode >= 400:
		return done(internal.HTTPFailed(a.StatusCode, strings.TrimSpace(string(a.Body))))
	}

	return done(parseGenerateContent(a.Body))
}

// parseGenerateContent extracts the first text part of the response.
func parseGenerateContent(body []byte) internal.Outcome {
	var resp genai.GenerateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return internal.Failed(internal.KindTransportError, fmt.Sprintf("failed to decode response: %v", err))
	}

	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part != nil && part.Text != "" {
				return internal.Success(strings.TrimSpace(part.Text))
			}
		}
	}

	reason := "UNKNOWN"
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil && resp.Candidates[0].FinishReason != "" {
		reason = string(resp.Candidates[0].FinishReason)
	}
	return internal.Failed(internal.KindMalformedResponse, reason)
}
