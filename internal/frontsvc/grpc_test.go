package frontsvc

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/internal/audit"
	coreGrpc "github.com/msto63/scriptfront/pkg/core/grpc"
	"github.com/msto63/scriptfront/pkg/core/logging"
)

func newBufClient(t *testing.T) (*Client, *grpc.ClientConn, *audit.MemoryStore) {
	t.Helper()
	svc, store := newTestService(t, nil)

	cfg := coreGrpc.DefaultServerConfig()
	cfg.EnableReflection = false
	cfg.Logger = logging.Wrap(sflog.Discard())
	server := NewServer(svc, cfg)

	listener := bufconn.Listen(1 << 20)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Stop(ctx)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(coreGrpc.ClientRequestIDInterceptor()),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewClient(conn), conn, store
}

func TestClientParse(t *testing.T) {
	client, _, store := newBufClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx = coreGrpc.WithRequestID(ctx, "grpc-req")

	raw, err := client.Parse(ctx, "x = 1 + 2;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var tree struct {
		Type string `json:"type"`
		Body []struct {
			Type       string `json:"type"`
			Expression struct {
				Type     string `json:"type"`
				Operator string `json:"operator"`
				Right    struct {
					Type     string `json:"type"`
					Operator string `json:"operator"`
				} `json:"right"`
			} `json:"expression"`
		} `json:"body"`
	}
	if err := json.Unmarshal(raw, &tree); err != nil {
		t.Fatalf("AST is not JSON: %v", err)
	}
	if tree.Type != "Program" || len(tree.Body) != 1 {
		t.Fatalf("tree = %+v", tree)
	}
	expr := tree.Body[0].Expression
	if expr.Type != "AssignmentExpression" || expr.Operator != "=" || expr.Right.Type != "BinaryExpression" || expr.Right.Operator != "+" {
		t.Errorf("expression = %+v", expr)
	}

	records, _ := store.Recent(context.Background(), 1)
	if len(records) != 1 || records[0].Transport != audit.TransportGRPC || records[0].RequestID != "grpc-req" {
		t.Errorf("audit = %+v", records)
	}
}

func TestClientParseError(t *testing.T) {
	client, _, _ := newBufClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Parse(ctx, "let x = ;")
	if err == nil {
		t.Fatal("Parse() expected an error")
	}
	se, ok := sferror.As(err)
	if !ok {
		t.Fatalf("error %T is not structured", err)
	}
	if se.Code() != sferror.CodeSyntax {
		t.Errorf("Code() = %s, want %s", se.Code(), sferror.CodeSyntax)
	}
	if line, _ := se.Detail("line"); line != 1 {
		t.Errorf("line = %v, want 1", line)
	}
	if column, _ := se.Detail("column"); column != 9 {
		t.Errorf("column = %v, want 9", column)
	}
	if found, _ := se.Detail("found"); found != ";" {
		t.Errorf("found = %v, want ;", found)
	}
}

func TestClientIncomplete(t *testing.T) {
	client, _, _ := newBufClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Parse(ctx, "def f(a) {")
	if !sferror.HasCode(err, sferror.CodeUnexpectedEOF) {
		t.Fatalf("code = %s, want %s", sferror.GetCode(err), sferror.CodeUnexpectedEOF)
	}
	se, _ := sferror.As(err)
	if incomplete, _ := se.Detail("incomplete"); incomplete != true {
		t.Errorf("incomplete = %v, want true", incomplete)
	}
}

func TestClientTokenize(t *testing.T) {
	client, _, _ := newBufClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tokens, err := client.Tokenize(ctx, "let s = \"hi\";\nx += 2;")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	want := []RemoteToken{
		{"let", "let", 1, 1},
		{"IDENTIFIER", "s", 1, 5},
		{"SIMPLE_ASSIGN", "=", 1, 7},
		{"STRING", "\"hi\"", 1, 9},
		{";", ";", 1, 13},
		{"IDENTIFIER", "x", 2, 1},
		{"COMPLEX_ASSIGN", "+=", 2, 3},
		{"NUMBER", "2", 2, 6},
		{";", ";", 2, 7},
	}
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize() returned %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tokens[i], want[i])
		}
	}

	empty, err := client.Tokenize(ctx, "  // nothing\n")
	if err != nil || len(empty) != 0 {
		t.Errorf("Tokenize(comment) = %v, %v", empty, err)
	}
}

func TestStatusCodes(t *testing.T) {
	_, conn, _ := newBufClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tests := []struct {
		source string
		want   codes.Code
	}{
		{"x = $;", codes.InvalidArgument},
		{"1 = 2;", codes.InvalidArgument},
	}
	for _, tt := range tests {
		err := conn.Invoke(ctx, ParseMethod, wrapperspb.String(tt.source), &structpb.Struct{})
		if got := status.Code(err); got != tt.want {
			t.Errorf("Parse(%q) status = %s, want %s", tt.source, got, tt.want)
		}
	}
}

func TestServiceHealthServing(t *testing.T) {
	_, conn, _ := newBufClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %s, want SERVING", resp.GetStatus())
	}
}
