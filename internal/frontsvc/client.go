// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     frontsvc
// Description: Typed client for the FrontEnd service
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package frontsvc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	coreGrpc "github.com/msto63/scriptfront/pkg/core/grpc"
)

// RemoteToken is a token as returned by a remote server
type RemoteToken struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Client calls a remote FrontEnd service
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient creates a client on conn
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Parse returns the AST of source as JSON. Errors are *sferror.Error
// values rebuilt from the status details.
func (c *Client) Parse(ctx context.Context, source string, opts ...grpc.CallOption) (json.RawMessage, error) {
	out := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, ParseMethod, wrapperspb.String(source), out, opts...); err != nil {
		return nil, coreGrpc.FromStatus(err)
	}

	encoded, err := protojson.Marshal(out)
	if err != nil {
		return nil, decodingError(err, "frontsvc.Client.Parse")
	}
	return encoded, nil
}

// Tokenize returns the tokens of source
func (c *Client) Tokenize(ctx context.Context, source string, opts ...grpc.CallOption) ([]RemoteToken, error) {
	out := &structpb.ListValue{}
	if err := c.conn.Invoke(ctx, TokenizeMethod, wrapperspb.String(source), out, opts...); err != nil {
		return nil, coreGrpc.FromStatus(err)
	}

	encoded, err := protojson.Marshal(out)
	if err != nil {
		return nil, decodingError(err, "frontsvc.Client.Tokenize")
	}
	tokens := make([]RemoteToken, 0, len(out.GetValues()))
	if err := json.Unmarshal(encoded, &tokens); err != nil {
		return nil, decodingError(err, "frontsvc.Client.Tokenize")
	}
	return tokens, nil
}

func decodingError(err error, operation string) *sferror.Error {
	return sferror.Wrap(err, "failed to decode response").
		WithCode(sferror.CodeInternal).
		WithOperation(operation)
}
