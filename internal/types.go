package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Batch-level failures. Both abort a run before any remote call is made.
var (
	ErrInputValidation   = errors.New("input validation failed")
	ErrCredentialMissing = errors.New("Gemini API key is missing")
)

// TranslationRequest is one spreadsheet row to translate. Key is carried
// through untouched. NonTextual marks a source cell that held no text at all
// (absent, numeric, boolean, ...), as opposed to an empty string.
type TranslationRequest struct {
	Key        string `json:"key"`
	SourceText string `json:"source_text"`
	NonTextual bool   `json:"non_textual,omitempty"`
}

// Translatable reports whether the request should reach the remote endpoint.
func (r TranslationRequest) Translatable() bool {
	return !r.NonTextual && strings.TrimSpace(r.SourceText) != ""
}

type Status int

const (
	StatusSuccess Status = iota + 1
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "success":
		return StatusSuccess, nil
	case "skipped":
		return StatusSkipped, nil
	case "failed":
		return StatusFailed, nil
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// ErrorKind classifies a failed row.
type ErrorKind string

const (
	KindMalformedResponse ErrorKind = "MalformedResponse"
	KindHTTPError         ErrorKind = "HttpError"
	KindTransportError    ErrorKind = "TransportError"
	KindRetriesExhausted  ErrorKind = "RetriesExhausted"
)

// Outcome is the result of attempting one row. Build it with Success,
// Skipped or Failed; the zero value is not a valid outcome.
type Outcome struct {
	Status     Status    `json:"status"`
	Text       string    `json:"text,omitempty"`
	Kind       ErrorKind `json:"kind,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
}

func Success(text string) Outcome {
	return Outcome{Status: StatusSuccess, Text: text}
}

func Skipped() Outcome {
	return Outcome{Status: StatusSkipped}
}

func Failed(kind ErrorKind, detail string) Outcome {
	return Outcome{Status: StatusFailed, Kind: kind, Detail: detail}
}

// HTTPFailed is a Failed(HttpError) outcome that keeps the status code for
// the placeholder text.
func HTTPFailed(statusCode int, body string) Outcome {
	o := Failed(KindHTTPError, fmt.Sprintf("HTTP %d: %s", statusCode, body))
	o.StatusCode = statusCode
	return o
}

func (o Outcome) String() string {
	switch o.Status {
	case StatusSuccess:
		return fmt.Sprintf("Success(%q)", o.Text)
	case StatusSkipped:
		return "Skipped"
	case StatusFailed:
		return fmt.Sprintf("Failed(%s, %q)", o.Kind, o.Detail)
	}
	return "Outcome(invalid)"
}

// Project returns the text written to the portuguese_string column.
func Project(o Outcome) string {
	switch o.Status {
	case StatusSuccess:
		return o.Text
	case StatusFailed:
		switch o.Kind {
		case KindMalformedResponse:
			return "Error: Unexpected response format."
		case KindHTTPError:
			return fmt.Sprintf("Error: HTTP %d", o.StatusCode)
		case KindTransportError:
			return "Error: API call failed."
		case KindRetriesExhausted:
			return "Error: Max retries exceeded."
		}
		return "Error: " + string(o.Kind)
	}
	return ""
}

// RowResult pairs a request with its outcome.
type RowResult struct {
	Request TranslationRequest `json:"request"`
	Outcome Outcome            `json:"outcome"`
}

// BatchResult holds one RowResult per input row, in input order.
type BatchResult []RowResult

// Keys returns the row keys in order.
func (b BatchResult) Keys() []string {
	keys := make([]string, len(b))
	for i, r := range b {
		keys[i] = r.Request.Key
	}
	return keys
}

// Projection maps each key to its projected output text. Later rows win
// when keys repeat.
func (b BatchResult) Projection() map[string]string {
	out := make(map[string]string, len(b))
	for _, r := range b {
		out[r.Request.Key] = Project(r.Outcome)
	}
	return out
}

// Summary counts outcomes by status.
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

func (b BatchResult) Summary() Summary {
	s := Summary{Total: len(b)}
	for _, r := range b {
		switch r.Outcome.Status {
		case StatusSuccess:
			s.Succeeded++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// Sink consumes a finished batch (spreadsheet export, run history, ...).
type Sink interface {
	Consume(ctx context.Context, result BatchResult) error
}
