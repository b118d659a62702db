// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     grpc
// Description: Conversion between structured errors and gRPC status values
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package grpc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
)

// ErrorDomain is the ErrorInfo domain of scriptfront errors
const ErrorDomain = "scriptfront"

// GRPCCode maps an error code to a gRPC status code
func GRPCCode(code sferror.Code) codes.Code {
	switch code {
	case sferror.CodeInvalidInput, sferror.CodeLexical, sferror.CodeSyntax, sferror.CodeUnexpectedEOF:
		return codes.InvalidArgument
	case sferror.CodeInputTooLong:
		return codes.ResourceExhausted
	case sferror.CodeNotFound:
		return codes.NotFound
	case sferror.CodeTimeout:
		return codes.DeadlineExceeded
	case sferror.CodeServiceUnavailable, sferror.CodeStorage:
		return codes.Unavailable
	case sferror.CodeInvalidConfig, sferror.CodeMissingConfig:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// ToStatus converts err into a gRPC status error. Structured errors carry
// an ErrorInfo whose reason is the error code and whose metadata holds the
// details as strings.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	se, ok := sferror.As(err)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}

	st := status.New(GRPCCode(se.Code()), se.Error())

	metadata := make(map[string]string)
	for k, v := range se.Details() {
		metadata[k] = fmt.Sprint(v)
	}
	if op := se.Operation(); op != "" {
		metadata["operation"] = op
	}

	withDetails, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   se.Code().String(),
		Domain:   ErrorDomain,
		Metadata: metadata,
	})
	if detailErr != nil {
		return st.Err()
	}
	return withDetails.Err()
}

// FromStatus rebuilds a structured error from a status returned by a
// scriptfront server
func FromStatus(err error) *sferror.Error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return sferror.Wrap(err, "remote call failed").WithCode(sferror.CodeInternal)
	}

	for _, detail := range st.Details() {
		info, ok := detail.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != ErrorDomain {
			continue
		}

		se := sferror.New(st.Message()).WithCode(sferror.Code(info.GetReason()))

		keys := make([]string, 0, len(info.GetMetadata()))
		for k := range info.GetMetadata() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := info.GetMetadata()[k]
			if k == "operation" {
				se.WithOperation(v)
				continue
			}
			se.WithDetail(k, detailValue(k, v))
		}
		return se
	}

	code := sferror.CodeInternal
	switch st.Code() {
	case codes.InvalidArgument:
		code = sferror.CodeInvalidInput
	case codes.ResourceExhausted:
		code = sferror.CodeInputTooLong
	case codes.DeadlineExceeded, codes.Canceled:
		code = sferror.CodeTimeout
	case codes.Unavailable:
		code = sferror.CodeServiceUnavailable
	case codes.NotFound:
		code = sferror.CodeNotFound
	}
	return sferror.New(st.Message()).WithCode(code)
}

// typedDetails lists detail keys whose values are not strings
var typedDetails = map[string]string{
	"line":       "int",
	"column":     "int",
	"offset":     "int",
	"length":     "int",
	"limit":      "int",
	"incomplete": "bool",
}

func detailValue(key, value string) interface{} {
	switch typedDetails[key] {
	case "int":
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	case "bool":
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return value
}
