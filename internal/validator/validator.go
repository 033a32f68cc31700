// Package validator compares a translated HTML string with its source and
// reports markup that did not survive. It is advisory: a finding never turns
// a successful translation into a failure.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/valpere/htmlbr/internal/prompt"
)

var (
	// HTML/XML tags: opening, closing, and self-closing
	reHTMLTag = regexp.MustCompile(`<[^>]+>`)

	// named and numeric character references
	reEntity = regexp.MustCompile(`&(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#[xX][0-9a-fA-F]+);`)

	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reURL   = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// Validator checks translations against the source markup and a list of
// do-not-translate terms.
type Validator struct {
	dnt []string
}

// New creates a Validator. An empty list falls back to prompt.DefaultDNTTerms.
func New(dntTerms []string) *Validator {
	if len(dntTerms) == 0 {
		dntTerms = prompt.DefaultDNTTerms
	}
	return &Validator{dnt: dntTerms}
}

// IsValid returns true when translated keeps the tag sequence, character
// references, e-mail addresses, URLs and DNT terms of source. Otherwise the
// error lists every difference found.
func (v *Validator) IsValid(source, translated string) (bool, error) {
	var errs []error

	errs = append(errs, compareTags(source, translated)...)
	errs = append(errs, compareEntities(source, translated)...)

	for _, m := range unique(reEmail.FindAllString(source, -1), reURL.FindAllString(source, -1)) {
		if !strings.Contains(translated, m) {
			errs = append(errs, fmt.Errorf("missing %q", m))
		}
	}

	for _, term := range v.dnt {
		if strings.Contains(source, term) && !strings.Contains(translated, term) {
			errs = append(errs, fmt.Errorf("DNT term %q missing", term))
		}
	}

	if len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	return true, nil
}

func compareTags(source, translated string) []error {
	src := reHTMLTag.FindAllString(source, -1)
	dst := reHTMLTag.FindAllString(translated, -1)

	if len(src) != len(dst) {
		return []error{fmt.Errorf("tag count changed: %d -> %d", len(src), len(dst))}
	}
	for i := range src {
		if src[i] != dst[i] {
			// Later tags are usually off by the same shift; one finding is enough.
			return []error{fmt.Errorf("tag %d changed: %q -> %q", i+1, src[i], dst[i])}
		}
	}
	return nil
}

func compareEntities(source, translated string) []error {
	want := count(reEntity.FindAllString(source, -1))
	got := count(reEntity.FindAllString(translated, -1))

	var errs []error
	for _, e := range unique(reEntity.FindAllString(source, -1)) {
		if got[e] != want[e] {
			errs = append(errs, fmt.Errorf("entity %s: %d -> %d", e, want[e], got[e]))
		}
	}
	return errs
}

func count(items []string) map[string]int {
	m := make(map[string]int, len(items))
	for _, s := range items {
		m[s]++
	}
	return m
}

// unique concatenates lists, dropping repeats and keeping first-seen order.
func unique(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		for _, s := range l {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
