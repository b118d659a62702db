// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     frontsvc
// Description: gRPC service scriptfront.v1.FrontEnd, described by hand
//              against the protobuf well-known types
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
	"github.com/msto63/scriptfront/internal/audit"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "scriptfront.v1.FrontEnd"

// Full method names
const (
	ParseMethod    = "/" + ServiceName + "/Parse"
	TokenizeMethod = "/" + ServiceName + "/Tokenize"
)

// FrontEndServer is the server API of the FrontEnd service
type FrontEndServer interface {
	Parse(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Tokenize(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
}

// FrontEndServiceDesc describes the FrontEnd service for grpc.Server
var FrontEndServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FrontEndServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Parse", Handler: parseHandler},
		{MethodName: "Tokenize", Handler: tokenizeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scriptfront/v1/frontend.proto",
}

// RegisterFrontEndServer registers srv on s
func RegisterFrontEndServer(s grpc.ServiceRegistrar, srv FrontEndServer) {
	s.RegisterService(&FrontEndServiceDesc, srv)
}

func parseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FrontEndServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ParseMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FrontEndServer).Parse(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func tokenizeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FrontEndServer).Tokenize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TokenizeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FrontEndServer).Tokenize(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// grpcHandler adapts the Service to FrontEndServer
type grpcHandler struct {
	service *Service
}

// Ensure grpcHandler implements FrontEndServer
var _ FrontEndServer = (*grpcHandler)(nil)

// Parse implements FrontEndServer.Parse
func (h *grpcHandler) Parse(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	out, err := h.service.Parse(ctx, Request{
		Source:    req.GetValue(),
		Transport: audit.TransportGRPC,
		RequestID: coreGrpc.GetRequestID(ctx),
	})
	if err != nil {
		return nil, coreGrpc.ToStatus(err)
	}

	tree := &structpb.Struct{}
	if err := protojson.Unmarshal(out.AST, tree); err != nil {
		return nil, coreGrpc.ToStatus(encodingError(err, "frontsvc.Parse"))
	}
	return tree, nil
}

// Tokenize implements FrontEndServer.Tokenize
func (h *grpcHandler) Tokenize(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	tokens, err := h.service.Tokenize(ctx, Request{
		Source:    req.GetValue(),
		Transport: audit.TransportGRPC,
		RequestID: coreGrpc.GetRequestID(ctx),
	})
	if err != nil {
		return nil, coreGrpc.ToStatus(err)
	}

	encoded, err := json.Marshal(tokens)
	if err != nil {
		return nil, coreGrpc.ToStatus(encodingError(err, "frontsvc.Tokenize"))
	}
	list := &structpb.ListValue{}
	if err := protojson.Unmarshal(encoded, list); err != nil {
		return nil, coreGrpc.ToStatus(encodingError(err, "frontsvc.Tokenize"))
	}
	return list, nil
}

func encodingError(err error, operation string) *sferror.Error {
	return sferror.Wrap(err, "failed to encode response").
		WithCode(sferror.CodeInternal).
		WithOperation(operation)
}
