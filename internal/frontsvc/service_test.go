package frontsvc

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/foundation/script"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/pkg/core/config"
	"github.com/msto63/scriptfront/pkg/core/health"
	"github.com/msto63/scriptfront/pkg/core/logging"
)

func newTestService(t *testing.T, mutate func(*Config)) (*Service, *audit.MemoryStore) {
	t.Helper()
	store := audit.NewMemoryStore(0)
	cfg := DefaultConfig()
	cfg.Audit = store
	cfg.Logger = logging.Wrap(sflog.Discard())
	if mutate != nil {
		mutate(&cfg)
	}
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc, store
}

func TestServiceParse(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	out, err := svc.Parse(ctx, Request{Source: "x = 1;", Transport: audit.TransportCLI, RequestID: "r1"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if out.Statements != 1 || out.Nodes != 5 || out.Cached {
		t.Errorf("Parse() = statements %d, nodes %d, cached %v", out.Statements, out.Nodes, out.Cached)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out.AST, &decoded); err != nil {
		t.Fatalf("AST is not JSON: %v", err)
	}
	if decoded["type"] != "Program" {
		t.Errorf("AST root type = %v", decoded["type"])
	}

	again, err := svc.Parse(ctx, Request{Source: "x = 1;", Transport: audit.TransportCLI})
	if err != nil {
		t.Fatalf("second Parse() error = %v", err)
	}
	if !again.Cached {
		t.Error("second Parse() should be served from the cache")
	}
	if string(again.AST) != string(out.AST) {
		t.Error("cached AST differs")
	}
	if hits, _, _ := svc.CacheStats(); hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}

	records, _ := store.Recent(ctx, 0)
	if len(records) != 2 {
		t.Fatalf("audit records = %d, want 2", len(records))
	}
	first := records[1]
	if first.Operation != OperationParse || first.Status != audit.StatusOK || first.RequestID != "r1" {
		t.Errorf("audit record = %+v", first)
	}
	if first.SourceSHA256 != audit.Fingerprint("x = 1;") || first.SourceLength != 6 || first.NodeCount != 5 {
		t.Errorf("audit record = %+v", first)
	}
}

func TestServiceParseCacheDisabled(t *testing.T) {
	svc, _ := newTestService(t, func(cfg *Config) { cfg.CacheSize = -1 })
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		out, err := svc.Parse(ctx, Request{Source: "x;"})
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if out.Cached {
			t.Error("Parse() reported a cache hit with the cache disabled")
		}
	}
}

func TestServiceParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   sferror.Code
		status audit.Status
	}{
		{"syntax", "let = 1;", sferror.CodeSyntax, audit.StatusRejected},
		{"end of input", "while (x", sferror.CodeUnexpectedEOF, audit.StatusRejected},
		{"lexical", "x = #;", sferror.CodeLexical, audit.StatusRejected},
		{"too long", strings.Repeat("x;", 20), sferror.CodeInputTooLong, audit.StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t, func(cfg *Config) {
				cfg.Engine = script.Config{MaxInputLength: 32}
			})

			_, err := svc.Parse(context.Background(), Request{Source: tt.source, Transport: audit.TransportHTTP})
			if !sferror.HasCode(err, tt.code) {
				t.Fatalf("Parse() code = %s, want %s (%v)", sferror.GetCode(err), tt.code, err)
			}

			records, _ := store.Recent(context.Background(), 1)
			if len(records) != 1 {
				t.Fatalf("audit records = %d, want 1", len(records))
			}
			if records[0].Status != tt.status || records[0].ErrorCode != tt.code.String() {
				t.Errorf("audit record = %+v", records[0])
			}
		})
	}
}

func TestServiceErrorsAreNotCached(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Parse(ctx, Request{Source: "x = ;"}); err == nil {
			t.Fatal("Parse() expected an error")
		}
	}
	if hits, _, _ := svc.CacheStats(); hits != 0 {
		t.Errorf("cache hits = %d, want 0", hits)
	}
}

func TestServiceTokenize(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	tokens, err := svc.Tokenize(ctx, Request{Source: "let a = 1;", Transport: audit.TransportWebSocket})
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if len(tokens) != 5 {
		t.Errorf("Tokenize() returned %d tokens, want 5", len(tokens))
	}

	_, err = svc.Tokenize(ctx, Request{Source: "a @ b", Transport: audit.TransportWebSocket})
	if !sferror.HasCode(err, sferror.CodeLexical) {
		t.Errorf("Tokenize() code = %s, want %s", sferror.GetCode(err), sferror.CodeLexical)
	}

	stats, _ := store.Stats(ctx)
	if stats.ByStatus[audit.StatusOK] != 1 || stats.ByStatus[audit.StatusRejected] != 1 {
		t.Errorf("audit stats = %+v", stats.ByStatus)
	}
	records, _ := store.Query(ctx, audit.Filter{Status: audit.StatusOK})
	if len(records) != 1 || records[0].Operation != OperationTokenize || records[0].NodeCount != 5 {
		t.Errorf("tokenize record = %+v", records)
	}
}

func TestServiceCanceledContext(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Parse(ctx, Request{Source: "x;"})
	if !sferror.HasCode(err, sferror.CodeTimeout) {
		t.Fatalf("Parse() code = %s, want %s", sferror.GetCode(err), sferror.CodeTimeout)
	}
	records, _ := store.Recent(context.Background(), 1)
	if len(records) != 1 || records[0].Status != audit.StatusFailed {
		t.Errorf("canceled request audit = %+v", records)
	}
}

func TestServiceWithoutAudit(t *testing.T) {
	svc, _ := newTestService(t, func(cfg *Config) { cfg.Audit = nil })
	if _, err := svc.Parse(context.Background(), Request{Source: "x;"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if svc.AuditStore() != nil {
		t.Error("AuditStore() should be nil")
	}
}

func TestConfigFromApp(t *testing.T) {
	app := config.Default()
	app.Parser.MaxInputLength = 99
	app.Parser.NormalizeNFC = true
	app.Parser.CacheSize = -1

	cfg := ConfigFromApp(app)
	if cfg.Engine.MaxInputLength != 99 || !cfg.Engine.NormalizeNFC || cfg.CacheSize != -1 {
		t.Errorf("ConfigFromApp() = %+v", cfg)
	}
	if cfg.CacheTTL != app.Parser.CacheTTL.Duration {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
}

func TestHealthRegistry(t *testing.T) {
	svc, _ := newTestService(t, nil)

	report := NewHealthRegistry(svc).Check(context.Background())
	if report.Status != health.StatusHealthy {
		t.Errorf("Status = %s, want healthy: %+v", report.Status, report.Checks)
	}
	if len(report.Checks) != 2 {
		t.Errorf("checks = %d, want 2 (engine, audit)", len(report.Checks))
	}
}
