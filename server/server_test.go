package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/finlens/insight-go/collect"
	"github.com/finlens/insight-go/core"
	"github.com/finlens/insight-go/pipeline"
	"github.com/finlens/insight-go/search"
	"github.com/finlens/insight-go/store"
)

const legacyReply = `{"sections":[{"id":"note","title":"Note","type":"summary","text":"All good."}]}`

type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Complete(ctx context.Context, msgs []core.Message, opts core.GenerateOptions) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func newTestServer(t *testing.T, gen stubGenerator) (*httptest.Server, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	svc := pipeline.New(mem, collect.New(mem, "₹"), search.Disabled{}, gen, pipeline.Options{})
	ts := httptest.NewServer(New(Config{}, svc, mem).Router())
	t.Cleanup(ts.Close)
	return ts, mem
}

func seedTransactions(mem *store.Memory, userID string) {
	now := time.Now().UTC()
	txs := []store.Transaction{
		{ID: "inc-1", UserID: userID, Date: now.AddDate(0, 0, -15), Amount: 60000, Kind: "income", Category: "Salary"},
	}
	for i := 0; i < 4; i++ {
		txs = append(txs, store.Transaction{
			ID:       fmt.Sprintf("exp-%d", i),
			UserID:   userID,
			Date:     now.AddDate(0, 0, -i-1),
			Amount:   float64(900 + i*150),
			Kind:     "expense",
			Category: "Groceries",
		})
	}
	mem.SeedTransactions(userID, txs)
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, userID string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out.Bytes()
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, stubGenerator{reply: legacyReply})

	resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "ok" {
		t.Errorf("status = %q, want ok", got["status"])
	}
}

func TestTypesCatalog(t *testing.T) {
	ts, _ := newTestServer(t, stubGenerator{reply: legacyReply})

	resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/insights/types", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got struct {
		Types []core.TypeDefinition `json:"types"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Types) != 6 {
		t.Errorf("catalog has %d types, want 6", len(got.Types))
	}
}

func TestGenerate(t *testing.T) {
	ts, mem := newTestServer(t, stubGenerator{reply: legacyReply})
	seedTransactions(mem, "u1")

	resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/insights/spending_analysis/generate", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	var res core.PipelineResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Type != core.SpendingAnalysis {
		t.Errorf("type = %q, want spending_analysis", res.Type)
	}
	if res.FromCache {
		t.Error("first generation flagged fromCache")
	}
	if res.Content == "" || len(res.Sections) == 0 {
		t.Errorf("empty result: %+v", res)
	}
}

func TestGenerateRequiresIdentity(t *testing.T) {
	ts, _ := newTestServer(t, stubGenerator{reply: legacyReply})

	resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/insights/spending_analysis/generate", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	var got errorResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Error != "unauthorized" {
		t.Errorf("error = %q, want unauthorized", got.Error)
	}
}

func TestGenerateUnknownType(t *testing.T) {
	ts, _ := newTestServer(t, stubGenerator{reply: legacyReply})

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/v1/insights/horoscope/generate", "u1", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGenerateNoData(t *testing.T) {
	ts, _ := newTestServer(t, stubGenerator{reply: legacyReply})

	resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/insights/spending_analysis/generate", "empty-user", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", resp.StatusCode, body)
	}
	var got errorResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Error != noDataMessage {
		t.Errorf("error = %q, want %q", got.Error, noDataMessage)
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	ts, mem := newTestServer(t, stubGenerator{err: errors.New("model unavailable")})
	seedTransactions(mem, "u1")

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/v1/insights/spending_analysis/generate", "u1", nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
}

func TestLatest(t *testing.T) {
	ts, mem := newTestServer(t, stubGenerator{reply: legacyReply})
	seedTransactions(mem, "u1")

	resp, _ := doRequest(t, ts, http.MethodGet, "/api/v1/insights/spending_analysis", "u1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status before generation = %d, want 404", resp.StatusCode)
	}

	if resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/insights/spending_analysis/generate", "u1", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("generate failed: %d %s", resp.StatusCode, body)
	}

	resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/insights/spending_analysis", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var res core.PipelineResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.FromCache {
		t.Error("latest lookup should report fromCache")
	}
	if res.Stale {
		t.Error("minutes-old record flagged stale")
	}
}

func TestHistoryAndPurge(t *testing.T) {
	ts, mem := newTestServer(t, stubGenerator{reply: legacyReply})
	seedTransactions(mem, "u1")

	for i := 0; i < 3; i++ {
		resp, body := doRequest(t, ts, http.MethodPost, "/api/v1/insights/spending_analysis/generate", "u1", map[string]bool{"force": true})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("generate %d failed: %d %s", i, resp.StatusCode, body)
		}
	}

	resp, body := doRequest(t, ts, http.MethodGet, "/api/v1/insights/spending_analysis/history?limit=2", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history status = %d, want 200", resp.StatusCode)
	}
	var hist struct {
		Count   int                   `json:"count"`
		History []core.AnalysisRecord `json:"history"`
	}
	if err := json.Unmarshal(body, &hist); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hist.Count != 2 || len(hist.History) != 2 {
		t.Errorf("history count = %d (%d records), want 2", hist.Count, len(hist.History))
	}
	if len(hist.History) == 2 && hist.History[0].GeneratedAt.Before(hist.History[1].GeneratedAt) {
		t.Error("history not newest first")
	}

	resp, body = doRequest(t, ts, http.MethodDelete, "/api/v1/insights/spending_analysis", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("purge status = %d, want 200", resp.StatusCode)
	}
	var purged map[string]int
	if err := json.Unmarshal(body, &purged); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if purged["removed"] != 3 {
		t.Errorf("removed = %d, want 3", purged["removed"])
	}

	resp, _ = doRequest(t, ts, http.MethodGet, "/api/v1/insights/spending_analysis", "u1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status after purge = %d, want 404", resp.StatusCode)
	}
}

func dialWS(t *testing.T, ts *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	header := http.Header{}
	if userID != "" {
		header.Set("X-User-ID", userID)
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial: %v (status %d)", err, status)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketGenerate(t *testing.T) {
	ts, mem := newTestServer(t, stubGenerator{reply: legacyReply})
	seedTransactions(mem, "u1")

	conn := dialWS(t, ts, "u1")
	if err := conn.WriteJSON(wsRequest{Action: "generate", Type: "spending_analysis"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var stages []pipeline.Stage
	var result *core.PipelineResult
	for result == nil {
		var f wsFrame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read: %v", err)
		}
		switch f.Type {
		case "stage":
			stages = append(stages, f.Stage)
		case "result":
			result = f.Result
		case "error":
			t.Fatalf("error frame: %s", f.Error)
		}
	}

	want := []pipeline.Stage{
		pipeline.StageCacheCheck,
		pipeline.StageCollecting,
		pipeline.StageGenerating,
		pipeline.StageParsing,
		pipeline.StagePersisting,
		pipeline.StageDone,
	}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("stages = %v, want %v", stages, want)
		}
	}
	if result.Type != core.SpendingAnalysis || result.Content == "" {
		t.Errorf("result = %+v", result)
	}

	// The connection stays open for further actions.
	if err := conn.WriteJSON(wsRequest{Action: "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var f wsFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Type != "error" || !strings.Contains(f.Error, "dance") {
		t.Errorf("frame = %+v, want unknown action error", f)
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	ts, _ := newTestServer(t, stubGenerator{reply: legacyReply})

	conn := dialWS(t, ts, "u1")
	if err := conn.WriteJSON(wsRequest{Action: "generate", Type: "horoscope"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var f wsFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Type != "error" {
		t.Errorf("frame type = %q, want error", f.Type)
	}
}

func TestWebSocketNoDataError(t *testing.T) {
	ts, _ := newTestServer(t, stubGenerator{reply: legacyReply})

	conn := dialWS(t, ts, "empty-user")
	if err := conn.WriteJSON(wsRequest{Action: "generate", Type: "spending_analysis"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for {
		var f wsFrame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read: %v", err)
		}
		if f.Type == "stage" {
			continue
		}
		if f.Type != "error" || f.Error != noDataMessage {
			t.Errorf("frame = %+v, want no-data error", f)
		}
		return
	}
}

func TestWebSocketUnauthorized(t *testing.T) {
	ts, _ := newTestServer(t, stubGenerator{reply: legacyReply})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded without identity")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("handshake status = %v, want 401", resp)
	}
}

func TestCustomAuthFunc(t *testing.T) {
	mem := store.NewMemory()
	seedTransactions(mem, "token-user")
	svc := pipeline.New(mem, collect.New(mem, "₹"), search.Disabled{}, stubGenerator{reply: legacyReply}, pipeline.Options{})
	srv := New(Config{
		AuthFunc: func(r *http.Request) (string, error) {
			if r.Header.Get("Authorization") != "Bearer sesame" {
				return "", errors.New("bad token")
			}
			return "token-user", nil
		},
	}, svc, mem)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/insights/spending_analysis/generate", nil)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodPost, ts.URL+"/api/v1/insights/spending_analysis/generate", nil)
	req.Header.Set("Authorization", "Bearer sesame")
	resp, err = ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status with token = %d, want 200", resp.StatusCode)
	}
}
