// Package search fetches recent market context for investment insights.
package search

import "context"

// Result is the outcome of one market lookup.
type Result struct {
	// Context is the concatenated snippet text, ready for the prompt.
	// Empty when nothing was found.
	Context string
	// Queries are the search queries issued.
	Queries []string
	// SnippetCount is the number of snippets folded into Context.
	SnippetCount int
}

// Searcher looks up recent market context for a set of holdings.
// Implementations must be safe for concurrent use.
type Searcher interface {
	MarketContext(ctx context.Context, symbols, funds []string) (*Result, error)
}

// Disabled is the Searcher used when no search API key is configured. It
// always returns an empty result.
type Disabled struct{}

func (Disabled) MarketContext(ctx context.Context, symbols, funds []string) (*Result, error) {
	return &Result{}, nil
}
