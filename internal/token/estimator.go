// Package token estimates LLM token counts for markdown text.
//
// Token counts here are budget heuristics, not tokenizer output. Two
// policies exist because the knowledge-base tooling historically used
// both; a validator picks exactly one and applies it uniformly.
package token

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Policy selects the estimation heuristic.
type Policy int

const (
	// CharBased estimates one token per four characters. Characters are
	// counted as runes, not bytes, so multi-byte text is not inflated.
	CharBased Policy = iota
	// WordBased estimates 1.3 tokens per whitespace-separated word.
	WordBased
)

// wordTokenRatio is the WordBased multiplier. The direction is fixed:
// tokens are derived from words, never the reverse.
const wordTokenRatio = 1.3

// Estimator converts raw text to an approximate token count.
type Estimator struct {
	policy Policy
}

// New returns an Estimator using the given policy.
func New(policy Policy) *Estimator {
	return &Estimator{policy: policy}
}

// Policy returns the policy this estimator was built with.
func (e *Estimator) Policy() Policy {
	return e.policy
}

// Estimate returns the approximate token count for text.
// The result is always >= 0 and empty input yields 0.
func (e *Estimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	if e.policy == WordBased {
		words := len(strings.Fields(text))
		return int(math.Round(float64(words) * wordTokenRatio))
	}
	return utf8.RuneCountInString(text) / 4
}
