// Package prompt renders the instruction text sent to the model for one
// source string. The instruction wording is a fixed asset; only the
// do-not-translate terms and the target language are parameters, and both are
// set once when the Builder is created.
package prompt

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultDNTTerms are the brand and product names kept in English.
var DefaultDNTTerms = []string{"Mercer", "Mercer Talent Enterprise", "Element X"}

// Target is the output locale.
var Target = language.BrazilianPortuguese

// Builder renders prompts. It is immutable and safe for concurrent use.
type Builder struct {
	preamble string
}

// New creates a Builder for the given do-not-translate terms. An empty list
// falls back to DefaultDNTTerms.
func New(dntTerms []string) *Builder {
	if len(dntTerms) == 0 {
		dntTerms = DefaultDNTTerms
	}
	return &Builder{preamble: renderPreamble(targetName(), dntTerms)}
}

// Default returns a Builder with the stock glossary.
func Default() *Builder {
	return New(nil)
}

// Build appends sourceText verbatim after the instruction preamble.
// No escaping is applied.
func (b *Builder) Build(sourceText string) string {
	var sb strings.Builder
	sb.Grow(len(b.preamble) + len(sourceText) + 1)
	sb.WriteString(b.preamble)
	sb.WriteString(sourceText)
	sb.WriteString("\n")
	return sb.String()
}

func targetName() string {
	return display.English.Tags().Name(Target)
}

func quoteTerms(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = "`" + t + "`"
	}
	return strings.Join(quoted, ", ")
}

func renderPreamble(lang string, dntTerms []string) string {
	r := strings.NewReplacer(
		"{lang}", lang,
		"{dnt}", quoteTerms(dntTerms),
	)
	return r.Replace(template)
}

const template = `
**Role:** You are an expert technical translator and a native {lang} speaker. Your goal is to translate English HTML content into fluent, natural-sounding {lang}.

**Task:** Translate the user-provided English HTML content to {lang} while strictly following all the rules below. Your output must be only the translated HTML string.

**Rules:**
1.  **Preserve HTML Integrity:**
    * You MUST NOT translate, alter, add, or remove any HTML tags (e.g., ` + "`<p>`, `<span style=\"...\">`, `<a href=\"...\">`, `<strong>`" + `).
    * You MUST preserve all HTML attributes exactly as they are (e.g., ` + "`class=\"...\"`, `style=\"...\"`, `id=\"...\"`, `href=\"...\"`" + `).
    * You MUST preserve all HTML entities (e.g., ` + "`&nbsp;`" + `).
    * The HTML structure of your output must be absolutely identical to the input.

2.  **Do Not Translate (DNT) Terms:**
    * The following brand and product names MUST remain in English: {dnt}.

3.  **Do Not Translate Emails or URLs:**
    * Any email address (e.g., ` + "`mte.surveys@mercer.com`" + `) or URL must remain unchanged.

4.  **Translate Only Content:**
    * Only translate the human-readable text content that is not part of an HTML tag or a DNT term.

**Examples:**

**Example 1: Simple text with styling**
* **English Input:** ` + "`<p><strong><span style=\"font-family: Arial, Helvetica, sans-serif; font-size: 14px;\">I feel good about myself and believe others like me for who I am.</span></strong></p>`" + `
* **Portuguese Output:** ` + "`<p><strong><span style=\"font-family: Arial, Helvetica, sans-serif; font-size: 14px;\">Sinto-me bem comigo mesmo(a) e acredito que os outros gostam de mim por quem eu sou.</span></strong></p>`" + `

**Example 2: Complex paragraph with DNT and a complicated email link**
* **English Input:** ` + "`<p><span style=\"font-family: Arial, Helvetica, sans-serif; font-size: 14px;\">If you have any questions regarding this <strong>Element X</strong> questionnaire, please write to us at <a href=\"mailto:mte.surveys@mercer.com\" rel=\"noreferrer noopener\" target=\"_blank\" class=\"fui-Link ___1rxvrpe f2hkw1w\">mte.surveys@mercer.com</a> for assistance.&nbsp;</span></p>`" + `
* **Portuguese Output:** ` + "`<p><span style=\"font-family: Arial, Helvetica, sans-serif; font-size: 14px;\">Se tiver alguma dúvida sobre este questionário <strong>Element X</strong>, escreva para nós em <a href=\"mailto:mte.surveys@mercer.com\" rel=\"noreferrer noopener\" target=\"_blank\" class=\"fui-Link ___1rxvrpe f2hkw1w\">mte.surveys@mercer.com</a> para obter assistência.&nbsp;</span></p>`" + `

**Example 3: Untagged survey options**
* **English Input:** ` + "`NeverRarelySometimesVery OftenAlways`" + `
* **Portuguese Output:** ` + "`NuncaRaramenteÀs vezesMuito FrequentementeSempre`" + `

---
`
