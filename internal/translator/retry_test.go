package translator

import (
	"errors"
	"testing"
	"time"

	"github.com/valpere/htmlbr/internal"
)

func TestRetryPolicy_Defaults(t *testing.T) {
	p := RetryPolicy{}.withDefaults()

	if p.MaxAttempts != 5 {
		t.Errorf("expected MaxAttempts=5, got %d", p.MaxAttempts)
	}
	if p.InitialDelay != time.Second {
		t.Errorf("expected InitialDelay=1s, got %v", p.InitialDelay)
	}

	p = RetryPolicy{MaxAttempts: 3, InitialDelay: 10 * time.Millisecond}.withDefaults()
	if p.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3 to be kept, got %d", p.MaxAttempts)
	}
	if p.InitialDelay != time.Second {
		t.Errorf("expected sub-second delay raised to 1s, got %v", p.InitialDelay)
	}
}

func TestRetryState_Doubles(t *testing.T) {
	s := RetryPolicy{}.withDefaults().start()
	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}

	for i, w := range want {
		if s.Delay != w {
			t.Errorf("step %d: expected delay %v, got %v", i, w, s.Delay)
		}
		s = s.next()
	}
}

func TestClassify(t *testing.T) {
	p := RetryPolicy{}.withDefaults()

	tests := []struct {
		name       string
		attempt    int
		in         Attempt
		wantAction Action
		wantStatus internal.Status
		wantKind   internal.ErrorKind
		wantText   string
		wantDetail string
	}{
		{
			name:       "transport error",
			attempt:    1,
			in:         Attempt{Err: errors.New("connection refused")},
			wantAction: ActionDone,
			wantStatus: internal.StatusFailed,
			wantKind:   internal.KindTransportError,
			wantDetail: "connection refused",
		},
		{
			name:       "rate limited with attempts left",
			attempt:    1,
			in:         Attempt{StatusCode: 429},
			wantAction: ActionRetry,
		},
		{
			name:       "rate limited on fourth attempt",
			attempt:    4,
			in:         Attempt{StatusCode: 429},
			wantAction: ActionRetry,
		},
		{
			name:       "rate limited on last attempt",
			attempt:    5,
			in:         Attempt{StatusCode: 429},
			wantAction: ActionDone,
			wantStatus: internal.StatusFailed,
			wantKind:   internal.KindRetriesExhausted,
			wantDetail: "max retries exceeded",
		},
		{
			name:       "server error is not retried",
			attempt:    1,
			in:         Attempt{StatusCode: 500, Body: []byte("boom\n")},
			wantAction: ActionDone,
			wantStatus: internal.StatusFailed,
			wantKind:   internal.KindHTTPError,
			wantDetail: "HTTP 500: boom",
		},
		{
			name:       "bad request is not retried",
			attempt:    1,
			in:         Attempt{StatusCode: 400, Body: []byte(`{"error":"API key not valid"}`)},
			wantAction: ActionDone,
			wantStatus: internal.StatusFailed,
			wantKind:   internal.KindHTTPError,
			wantDetail: `HTTP 400: {"error":"API key not valid"}`,
		},
		{
			name:       "well-formed payload",
			attempt:    1,
			in:         Attempt{StatusCode: 200, Body: []byte(`{"candidates":[{"content":{"parts":[{"text":"  <p>Olá</p>\n"}]}}]}`)},
			wantAction: ActionDone,
			wantStatus: internal.StatusSuccess,
			wantText:   "<p>Olá</p>",
		},
		{
			name:       "text found in second part",
			attempt:    2,
			in:         Attempt{StatusCode: 200, Body: []byte(`{"candidates":[{"content":{"parts":[{},{"text":"Sim"}]}}]}`)},
			wantAction: ActionDone,
			wantStatus: internal.StatusSuccess,
			wantText:   "Sim",
		},
		{
			name:       "no candidates",
			attempt:    1,
			in:         Attempt{StatusCode: 200, Body: []byte(`{}`)},
			wantAction: ActionDone,
			wantStatus: internal.StatusFailed,
			wantKind:   internal.KindMalformedResponse,
			wantDetail: "UNKNOWN",
		},
		{
			name:       "candidate without content keeps finish reason",
			attempt:    1,
			in:         Attempt{StatusCode: 200, Body: []byte(`{"candidates":[{"finishReason":"SAFETY"}]}`)},
			wantAction: ActionDone,
			wantStatus: internal.StatusFailed,
			wantKind:   internal.KindMalformedResponse,
			wantDetail: "SAFETY",
		},
		{
			name:       "content without parts",
			attempt:    1,
			in:         Attempt{StatusCode: 200, Body: []byte(`{"candidates":[{"content":{"role":"model"},"finishReason":"MAX_TOKENS"}]}`)},
			wantAction: ActionDone,
			wantStatus: internal.StatusFailed,
			wantKind:   internal.KindMalformedResponse,
			wantDetail: "MAX_TOKENS",
		},
		{
			name:       "undecodable payload is a transport error",
			attempt:    1,
			in:         Attempt{StatusCode: 200, Body: []byte(`<html>gateway</html>`)},
			wantAction: ActionDone,
			wantStatus: internal.StatusFailed,
			wantKind:   internal.KindTransportError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Classify(tt.attempt, tt.in)

			if d.Action != tt.wantAction {
				t.Fatalf("expected action %v, got %v", tt.wantAction, d.Action)
			}
			if d.Action == ActionRetry {
				return
			}
			if d.Outcome.Status != tt.wantStatus {
				t.Errorf("expected status %v, got %v", tt.wantStatus, d.Outcome.Status)
			}
			if d.Outcome.Kind != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, d.Outcome.Kind)
			}
			if d.Outcome.Text != tt.wantText {
				t.Errorf("expected text %q, got %q", tt.wantText, d.Outcome.Text)
			}
			if tt.wantDetail != "" && d.Outcome.Detail != tt.wantDetail {
				t.Errorf("expected detail %q, got %q", tt.wantDetail, d.Outcome.Detail)
			}
		})
	}
}

func TestClassify_HTTPErrorKeepsStatusCode(t *testing.T) {
	d := RetryPolicy{}.withDefaults().Classify(1, Attempt{StatusCode: 503})

	if d.Outcome.StatusCode != 503 {
		t.Errorf("expected status code 503, got %d", d.Outcome.StatusCode)
	}
	if got := internal.Project(d.Outcome); got != "Error: HTTP 503" {
		t.Errorf("expected placeholder 'Error: HTTP 503', got %q", got)
	}
}
