package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func tavilyStub(t *testing.T, handler http.HandlerFunc) *Tavily {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTavily(TavilyConfig{APIKey: "key", BaseURL: srv.URL, MaxQueries: 4, MaxResults: 2})
}

func TestTavilyMarketContext(t *testing.T) {
	var gotQueries []string
	tv := tavilyStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		var req tavilyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.APIKey != "key" {
			t.Errorf("api_key = %q", req.APIKey)
		}
		gotQueries = append(gotQueries, req.Query)

		json.NewEncoder(w).Encode(tavilyResponse{Results: []tavilyResult{
			{Title: "Headline for " + req.Query, Content: "Snippet body."},
		}})
	})

	res, err := tv.MarketContext(context.Background(), []string{"INFY", "RELIANCE"}, []string{"UTI Nifty 50 Index"})
	if err != nil {
		t.Fatalf("MarketContext: %v", err)
	}

	if len(res.Queries) != 3 {
		t.Fatalf("queries = %v, want 3", res.Queries)
	}
	if res.Queries[0] != "INFY stock recent news analysis" {
		t.Errorf("first query = %q", res.Queries[0])
	}
	if res.Queries[2] != "UTI Nifty 50 Index mutual fund performance outlook" {
		t.Errorf("fund query = %q", res.Queries[2])
	}
	if res.SnippetCount != 3 {
		t.Errorf("SnippetCount = %d, want 3", res.SnippetCount)
	}
	if !strings.Contains(res.Context, "Snippet body.") {
		t.Errorf("Context = %q", res.Context)
	}
	if len(gotQueries) != 3 {
		t.Errorf("server saw %d queries, want 3", len(gotQueries))
	}
}

func TestTavilyCapsQueries(t *testing.T) {
	tv := tavilyStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tavilyResponse{})
	})
	tv.maxQueries = 2

	res, err := tv.MarketContext(context.Background(),
		[]string{"A", "B", "C"}, []string{"Fund X"})
	if err != nil {
		t.Fatalf("MarketContext: %v", err)
	}
	if len(res.Queries) != 2 {
		t.Errorf("queries = %v, want cap at 2", res.Queries)
	}
}

func TestTavilyNoHoldings(t *testing.T) {
	tv := NewTavily(TavilyConfig{APIKey: "key"})
	res, err := tv.MarketContext(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("MarketContext: %v", err)
	}
	if res.Context != "" || res.SnippetCount != 0 || len(res.Queries) != 0 {
		t.Errorf("res = %+v, want empty", res)
	}
}

func TestTavilyPartialFailureSalvages(t *testing.T) {
	var n int32
	tv := tavilyStub(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(tavilyResponse{Results: []tavilyResult{{Title: "T", Content: "C"}}})
	})

	res, err := tv.MarketContext(context.Background(), []string{"A", "B"}, nil)
	if err != nil {
		t.Fatalf("MarketContext: %v", err)
	}
	if res.SnippetCount != 1 {
		t.Errorf("SnippetCount = %d, want 1 salvaged snippet", res.SnippetCount)
	}
}

func TestTavilyAllFailed(t *testing.T) {
	tv := tavilyStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := tv.MarketContext(context.Background(), []string{"A"}, nil)
	if err == nil {
		t.Fatal("err = nil, want failure when every query fails")
	}
}

func TestDisabled(t *testing.T) {
	res, err := Disabled{}.MarketContext(context.Background(), []string{"INFY"}, nil)
	if err != nil {
		t.Fatalf("MarketContext: %v", err)
	}
	if res.SnippetCount != 0 || res.Context != "" {
		t.Errorf("res = %+v, want empty", res)
	}
}

// spySearcher counts lookups.
type spySearcher struct {
	calls int32
	res   *Result
	err   error
}

func (s *spySearcher) MarketContext(ctx context.Context, symbols, funds []string) (*Result, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.res, s.err
}

func TestCachedHitsMemo(t *testing.T) {
	spy := &spySearcher{res: &Result{Context: "ctx", Queries: []string{"q"}, SnippetCount: 2}}
	c, err := NewCached(spy, time.Hour)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}

	for i := 0; i < 3; i++ {
		res, err := c.MarketContext(context.Background(), []string{"INFY", "TCS"}, nil)
		if err != nil {
			t.Fatalf("MarketContext: %v", err)
		}
		if res.SnippetCount != 2 {
			t.Errorf("SnippetCount = %d", res.SnippetCount)
		}
	}
	if got := atomic.LoadInt32(&spy.calls); got != 1 {
		t.Errorf("inner calls = %d, want 1", got)
	}

	// Same holdings in a different order share the entry.
	if _, err := c.MarketContext(context.Background(), []string{"TCS", "INFY"}, nil); err != nil {
		t.Fatalf("MarketContext: %v", err)
	}
	if got := atomic.LoadInt32(&spy.calls); got != 1 {
		t.Errorf("inner calls = %d, want key to be order-insensitive", got)
	}
}

func TestCachedSkipsEmptyResults(t *testing.T) {
	spy := &spySearcher{res: &Result{}}
	c, err := NewCached(spy, time.Hour)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}

	c.MarketContext(context.Background(), []string{"INFY"}, nil)
	c.MarketContext(context.Background(), []string{"INFY"}, nil)
	if got := atomic.LoadInt32(&spy.calls); got != 2 {
		t.Errorf("inner calls = %d, want empty results not cached", got)
	}
}

func TestCachedPropagatesErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	c, err := NewCached(&spySearcher{err: boom}, time.Hour)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}

	if _, err := c.MarketContext(context.Background(), []string{"INFY"}, nil); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
