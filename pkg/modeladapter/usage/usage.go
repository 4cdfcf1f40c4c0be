// Package usage tracks token consumption across LLM calls.
package usage

import "sync"

// TokenCount holds input and output token counts for a single LLM call.
type TokenCount struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the sum of input and output tokens.
func (tc TokenCount) Total() int {
	return tc.InputTokens + tc.OutputTokens
}

// Tracker accumulates token usage across multiple LLM calls.
// It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	entries []TokenCount
}

// Add records the usage of one LLM call.
func (t *Tracker) Add(tc TokenCount) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, tc)
}

// Last returns the most recently recorded usage and true, or a zero
// TokenCount and false if nothing has been recorded.
func (t *Tracker) Last() (TokenCount, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return TokenCount{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Sum returns the accumulated usage across all recorded calls.
func (t *Tracker) Sum() TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sum TokenCount
	for _, e := range t.entries {
		sum.InputTokens += e.InputTokens
		sum.OutputTokens += e.OutputTokens
	}
	return sum
}

// Calls returns the number of recorded LLM calls.
func (t *Tracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
