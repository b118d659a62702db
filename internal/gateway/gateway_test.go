package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/foundation/script"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/internal/frontsvc"
	"github.com/msto63/scriptfront/pkg/core/config"
	"github.com/msto63/scriptfront/pkg/core/logging"
)

type errorBody struct {
	Error struct {
		Code      string                 `json:"code"`
		Message   string                 `json:"message"`
		Cause     string                 `json:"cause"`
		RequestID string                 `json:"request_id"`
		Details   map[string]interface{} `json:"details"`
	} `json:"error"`
}

func newTestGateway(t *testing.T, mutate func(*Config)) (*Server, *audit.MemoryStore) {
	t.Helper()
	store := audit.NewMemoryStore(0)
	svcCfg := frontsvc.DefaultConfig()
	svcCfg.Audit = store
	svcCfg.Engine = script.Config{MaxInputLength: 64}
	svcCfg.Logger = logging.Wrap(sflog.Discard())

	svc, err := frontsvc.NewService(svcCfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(func() { svc.Close() })

	cfg := DefaultConfig()
	cfg.Logger = logging.Wrap(sflog.Discard())
	if mutate != nil {
		mutate(&cfg)
	}
	return New(svc, nil, cfg), store
}

func do(t *testing.T, h http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestParseEndpoint(t *testing.T) {
	server, store := newTestGateway(t, nil)
	header := requestHeader("http-1")

	rec := do(t, server.Handler(), http.MethodPost, "/v1/parse", `{"source": "let a = 1, b;"}`, header)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(RequestIDHeader); got != "http-1" {
		t.Errorf("request id header = %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp struct {
		AST struct {
			Type string `json:"type"`
			Body []struct {
				Type         string `json:"type"`
				Declarations []struct {
					ID   struct{ Name string } `json:"id"`
					Init interface{}           `json:"init"`
				} `json:"declarations"`
			} `json:"body"`
		} `json:"ast"`
		Statements int    `json:"statements"`
		RequestID  string `json:"request_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.AST.Type != "Program" || resp.Statements != 1 || resp.RequestID != "http-1" {
		t.Errorf("response = %+v", resp)
	}
	decls := resp.AST.Body[0].Declarations
	if resp.AST.Body[0].Type != "VariableStatement" || len(decls) != 2 || decls[1].ID.Name != "b" || decls[1].Init != nil {
		t.Errorf("declarations = %+v", decls)
	}

	records, _ := store.Recent(context.Background(), 1)
	if len(records) != 1 || records[0].Transport != audit.TransportHTTP || records[0].RequestID != "http-1" {
		t.Errorf("audit = %+v", records)
	}
}

func TestParseEndpointErrors(t *testing.T) {
	server, _ := newTestGateway(t, func(cfg *Config) { cfg.MaxBodyBytes = 256 })

	tests := []struct {
		name   string
		method string
		body   string
		status int
		code   string
	}{
		{"syntax error", http.MethodPost, `{"source": "a + ;"}`, http.StatusBadRequest, "SYNTAX_ERROR"},
		{"end of input", http.MethodPost, `{"source": "{"}`, http.StatusBadRequest, "UNEXPECTED_EOF"},
		{"lexical error", http.MethodPost, `{"source": "a ~ b"}`, http.StatusBadRequest, "LEXICAL_ERROR"},
		{"too long", http.MethodPost, `{"source": "` + strings.Repeat("x", 100) + `"}`, http.StatusRequestEntityTooLarge, "INPUT_TOO_LONG"},
		{"body too large", http.MethodPost, `{"source": "` + strings.Repeat("x", 300) + `"}`, http.StatusRequestEntityTooLarge, "INPUT_TOO_LONG"},
		{"invalid JSON", http.MethodPost, `{"source": `, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", http.MethodPost, `{"src": "x;"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"wrong method", http.MethodGet, ``, http.StatusMethodNotAllowed, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, server.Handler(), tt.method, "/v1/parse", tt.body, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.code)
			}
			if body.Error.RequestID == "" {
				t.Error("error body misses the request id")
			}
		})
	}
}

func TestParseErrorDetails(t *testing.T) {
	server, _ := newTestGateway(t, nil)

	rec := do(t, server.Handler(), http.MethodPost, "/v1/parse", `{"source": "x = 1;\nif (x) y"}`, nil)
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	details := body.Error.Details
	if details["line"] != float64(2) || details["column"] != float64(9) {
		t.Errorf("position = %v:%v, want 2:9", details["line"], details["column"])
	}
	if details["expected"] != ";" || details["incomplete"] != true {
		t.Errorf("details = %v", details)
	}
	if !strings.Contains(body.Error.Cause, `Unexpected end of input, expected: ";"`) {
		t.Errorf("cause = %q", body.Error.Cause)
	}
}

func TestTokensEndpoint(t *testing.T) {
	server, _ := newTestGateway(t, nil)

	rec := do(t, server.Handler(), http.MethodPost, "/v1/tokens", `{"source": "a <= 'b'"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Tokens []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"tokens"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Count != 3 || resp.Tokens[1].Type != "RELATIONAL_OPERATOR" || resp.Tokens[2].Value != "'b'" {
		t.Errorf("tokens = %+v", resp)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("generated request id missing")
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestGateway(t, nil)

	rec := do(t, server.Handler(), http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Status  string `json:"status"`
		Version struct {
			Version string `json:"version"`
			Grammar string `json:"grammar"`
		} `json:"version"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "healthy" || resp.Version.Version == "" || len(resp.Checks) != 2 {
		t.Errorf("health = %+v", resp)
	}

	if rec := do(t, server.Handler(), http.MethodGet, "/nope", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}
	if rec := do(t, server.Handler(), http.MethodGet, "/v1/version", "", nil); rec.Code != http.StatusOK {
		t.Errorf("version status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	server, _ := newTestGateway(t, func(cfg *Config) { cfg.AllowedOrigins = []string{"http://allowed.test"} })

	allowed := do(t, server.Handler(), http.MethodOptions, "/v1/parse", "", http.Header{"Origin": []string{"http://allowed.test"}})
	if allowed.Code != http.StatusNoContent || allowed.Header().Get("Access-Control-Allow-Origin") != "http://allowed.test" {
		t.Errorf("allowed preflight = %d %v", allowed.Code, allowed.Header())
	}

	denied := do(t, server.Handler(), http.MethodOptions, "/v1/parse", "", http.Header{"Origin": []string{"http://other.test"}})
	if denied.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("foreign origin received CORS headers")
	}
}

func TestConfigFromApp(t *testing.T) {
	app := config.Default()
	app.Parser.MaxInputLength = 10
	cfg := ConfigFromApp(app)
	if cfg.Port != app.HTTP.Port || cfg.MaxBodyBytes != 10*6+4096 {
		t.Errorf("ConfigFromApp() = %+v", cfg)
	}
	if cfg.PingInterval != app.HTTP.PingInterval.Duration {
		t.Errorf("PingInterval = %v", cfg.PingInterval)
	}
}

func dialWS(t *testing.T, server *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, requestHeader("ws-conn"))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if resp.Header.Get(RequestIDHeader) != "ws-conn" {
		t.Errorf("handshake request id = %q", resp.Header.Get(RequestIDHeader))
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestWebSocketRoundTrip(t *testing.T) {
	server, store := newTestGateway(t, nil)
	conn := dialWS(t, server)

	exchange := func(msg string) map[string]interface{} {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
		var resp map[string]interface{}
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		return resp
	}

	pong := exchange(`{"type": "ping", "id": "p1"}`)
	if pong["type"] != WSTypePong || pong["id"] != "p1" {
		t.Errorf("ping answer = %v", pong)
	}

	parsed := exchange(`{"type": "parse", "id": "m1", "payload": {"source": "f(1);"}}`)
	if parsed["type"] != WSTypeAST || parsed["id"] != "m1" {
		t.Fatalf("parse answer = %v", parsed)
	}
	payload := parsed["payload"].(map[string]interface{})
	tree := payload["ast"].(map[string]interface{})
	if tree["type"] != "Program" || payload["statements"] != float64(1) {
		t.Errorf("parse payload = %v", payload)
	}

	tokens := exchange(`{"type": "tokenize", "payload": {"source": "a.b"}}`)
	if tokens["type"] != WSTypeTokens || len(tokens["payload"].([]interface{})) != 3 {
		t.Errorf("tokenize answer = %v", tokens)
	}

	failed := exchange(`{"type": "parse", "id": "m2", "payload": {"source": "("}}`)
	if failed["type"] != WSTypeError {
		t.Fatalf("error answer = %v", failed)
	}
	if code := failed["payload"].(map[string]interface{})["code"]; code != "UNEXPECTED_EOF" {
		t.Errorf("error code = %v", code)
	}

	unknown := exchange(`{"type": "shout"}`)
	if unknown["type"] != WSTypeError {
		t.Errorf("unknown type answer = %v", unknown)
	}

	records, _ := store.Query(context.Background(), audit.Filter{Transport: audit.TransportWebSocket})
	if len(records) != 3 {
		t.Errorf("websocket audit records = %d, want 3", len(records))
	}
	if byID, _ := store.Query(context.Background(), audit.Filter{RequestID: "m1"}); len(byID) != 1 {
		t.Errorf("records for m1 = %d, want 1", len(byID))
	}
}

func TestWebSocketServerPing(t *testing.T) {
	server, _ := newTestGateway(t, func(cfg *Config) { cfg.PingInterval = 50 * time.Millisecond })
	conn := dialWS(t, server)

	pinged := make(chan struct{}, 1)
	conn.SetPingHandler(func(data string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	// Control frames are handled while reading
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pinged:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not ping within 2s")
	}
}

func TestWebSocketOriginCheck(t *testing.T) {
	server, _ := newTestGateway(t, func(cfg *Config) { cfg.AllowedOrigins = []string{"http://allowed.test"} })
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.test"}})
	if err == nil {
		t.Fatal("Dial() with a foreign origin should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("handshake response = %v", resp)
	}
}

func TestLoggingIncludesRequestID(t *testing.T) {
	var logOut bytes.Buffer
	server, _ := newTestGateway(t, func(cfg *Config) {
		cfg.Logger = logging.Wrap(sflog.NewWithConfig(sflog.Config{
			Level:  sflog.LevelInfo,
			Format: sflog.FormatLogfmt,
			Output: &logOut,
		}))
	})

	do(t, server.Handler(), http.MethodPost, "/v1/parse", `{"source": "x;"}`, requestHeader("trace-7"))
	if !strings.Contains(logOut.String(), `request_id="trace-7"`) {
		t.Errorf("access log misses the request id:\n%s", logOut.String())
	}
}

func requestHeader(id string) http.Header {
	h := http.Header{}
	h.Set(RequestIDHeader, id)
	return h
}

func TestRequestIDHeaderCanonical(t *testing.T) {
	server, _ := newTestGateway(t, nil)

	rec := do(t, server.Handler(), http.MethodPost, "/v1/parse", `{"source": "x;"}`, requestHeader("canon-1"))
	if got := rec.Header().Get(RequestIDHeader); got != "canon-1" {
		t.Errorf("request id = %q, want the client value", got)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "canon-1" {
		t.Errorf("canonical lookup = %q", got)
	}
}
