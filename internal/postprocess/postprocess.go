// Package postprocess strips wrapper artifacts that chat models sometimes put
// around an HTML answer. It is opt-in: markup inside the answer is never
// touched, only text outside it.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean removes, in order, leaked reasoning blocks and a Markdown code fence
// wrapping the whole answer, then trims the result.
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removeCodeFence(text)
	return strings.TrimSpace(text)
}

// --- Phase 1: thinking blocks ---

// thinkingBlockRe lists each tag pair explicitly; RE2 has no backreferences.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)^\s*(?:<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>)`,
)

// Only leading blocks are removed. A <think> element in the middle of the
// answer could be legitimate source markup.
func removeThinkingBlocks(text string) string {
	for {
		loc := thinkingBlockRe.FindStringIndex(text)
		if loc == nil {
			return strings.TrimSpace(text)
		}
		text = text[loc[1]:]
	}
}

// --- Phase 2: code fence ---

// codeFenceRe matches ```html\n...\n``` (language tag optional) spanning
// the whole text.
var codeFenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*[ \t]*\r?\n(.*?)\r?\n?```$")

func removeCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := codeFenceRe.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return text
}
