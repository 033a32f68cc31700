package internal

import (
	"errors"
	"fmt"
	"testing"
)

func TestTranslationRequest_Translatable(t *testing.T) {
	tests := []struct {
		name string
		req  TranslationRequest
		want bool
	}{
		{"text", TranslationRequest{SourceText: "<p>Hi</p>"}, true},
		{"padded text", TranslationRequest{SourceText: "  Hi  "}, true},
		{"empty", TranslationRequest{SourceText: ""}, false},
		{"whitespace only", TranslationRequest{SourceText: " \t\r\n"}, false},
		{"non textual", TranslationRequest{SourceText: "42", NonTextual: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Translatable(); got != tt.want {
				t.Errorf("Translatable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name string
		in   Outcome
		want string
	}{
		{"success", Success("<p>Olá</p>"), "<p>Olá</p>"},
		{"skipped", Skipped(), ""},
		{"malformed", Failed(KindMalformedResponse, "SAFETY"), "Error: Unexpected response format."},
		{"http", HTTPFailed(403, "forbidden"), "Error: HTTP 403"},
		{"transport", Failed(KindTransportError, "dial tcp"), "Error: API call failed."},
		{"exhausted", Failed(KindRetriesExhausted, "max retries exceeded"), "Error: Max retries exceeded."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Project(tt.in); got != tt.want {
				t.Errorf("Project(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHTTPFailed(t *testing.T) {
	o := HTTPFailed(500, "oops")

	if o.Status != StatusFailed || o.Kind != KindHTTPError {
		t.Fatalf("expected Failed(HttpError), got %v", o)
	}
	if o.Detail != "HTTP 500: oops" {
		t.Errorf("unexpected detail %q", o.Detail)
	}
	if o.StatusCode != 500 {
		t.Errorf("expected status code 500, got %d", o.StatusCode)
	}
}

func TestStatus_RoundTrip(t *testing.T) {
	for _, s := range []Status{StatusSuccess, StatusSkipped, StatusFailed} {
		got, err := ParseStatus(s.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", s.String(), err)
		}
		if got != s {
			t.Errorf("expected %v, got %v", s, got)
		}
	}

	if _, err := ParseStatus("pending"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestBatchResult_KeysAndProjection(t *testing.T) {
	b := BatchResult{
		{Request: TranslationRequest{Key: "a", SourceText: "x"}, Outcome: Success("y")},
		{Request: TranslationRequest{Key: "b"}, Outcome: Skipped()},
		{Request: TranslationRequest{Key: "c", SourceText: "z"}, Outcome: Failed(KindTransportError, "eof")},
	}

	keys := b.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("unexpected keys %v", keys)
	}

	proj := b.Projection()
	if proj["a"] != "y" || proj["b"] != "" || proj["c"] != "Error: API call failed." {
		t.Errorf("unexpected projection %v", proj)
	}

	s := b.Summary()
	if s != (Summary{Total: 3, Succeeded: 1, Skipped: 1, Failed: 1}) {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestSentinels_Wrap(t *testing.T) {
	err := fmt.Errorf("reading input: %w", ErrInputValidation)
	if !errors.Is(err, ErrInputValidation) {
		t.Error("expected wrapped ErrInputValidation to match")
	}
	if errors.Is(err, ErrCredentialMissing) {
		t.Error("sentinels must be distinct")
	}
}
