// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errs classifies the connector's errors along the taxonomy in
// SPEC_FULL.md §7: configuration errors (surfaced synchronously, never
// retried), permanent RPC errors (surfaced immediately), and transient RPC
// errors (retried with backoff). Callers branch on Classify rather than
// string-matching error messages.
package errs

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Class is the error taxonomy bucket.
type Class int

const (
	// ClassTransient errors are retried with backoff; after retry
	// exhaustion they are surfaced as a bundle failure.
	ClassTransient Class = iota
	// ClassPermanent errors propagate immediately with no retry.
	ClassPermanent
	// ClassConfiguration errors are raised at pipeline construction time,
	// before any RPC is attempted.
	ClassConfiguration
)

// nonRetryable is the status-code set from SPEC_FULL.md §4.5.6 / §7: any
// code in this set is a permanent RPC error.
var nonRetryable = map[codes.Code]bool{
	codes.FailedPrecondition: true,
	codes.InvalidArgument:    true,
	codes.PermissionDenied:   true,
	codes.Unauthenticated:    true,
}

// ConfigError wraps a configuration-taxonomy error (missing project id,
// contradictory query configuration, non-positive limit, incomplete key).
type ConfigError struct{ msg string }

func (e *ConfigError) Error() string { return "dsconnector: configuration error: " + e.msg }

// NewConfigError constructs a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// RPCError wraps an error returned by the Store with its gRPC status
// code, so Classify can route it without inspecting message text.
type RPCError struct {
	Code codes.Code
	Err  error
}

func (e *RPCError) Error() string { return fmt.Sprintf("dsconnector: store rpc failed (%s): %v", e.Code, e.Err) }
func (e *RPCError) Unwrap() error { return e.Err }

// NewRPCError classifies a raw error from the Store client by gRPC status
// code. If err carries no gRPC status, it is treated as codes.Unknown
// (transient: we assume transport-level failures are worth retrying).
func NewRPCError(err error) *RPCError {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return &RPCError{Code: codes.Unknown, Err: err}
	}
	return &RPCError{Code: st.Code(), Err: err}
}

// Classify reports the taxonomy bucket for err.
func Classify(err error) Class {
	if err == nil {
		return ClassTransient
	}
	var cfg *ConfigError
	if errors.As(err, &cfg) {
		return ClassConfiguration
	}
	var rpc *RPCError
	if errors.As(err, &rpc) {
		if nonRetryable[rpc.Code] {
			return ClassPermanent
		}
		return ClassTransient
	}
	return ClassTransient
}

// IsNonRetryable reports whether code is in the non-retryable set.
func IsNonRetryable(code codes.Code) bool {
	return nonRetryable[code]
}

// IsDeadlineExceeded reports whether err's gRPC status is DEADLINE_EXCEEDED,
// which gets special treatment in the commit retry loop (§4.6.3): it
// updates the write batcher's latency average even though it is not a
// success.
func IsDeadlineExceeded(err error) bool {
	var rpc *RPCError
	if errors.As(err, &rpc) {
		return rpc.Code == codes.DeadlineExceeded
	}
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.DeadlineExceeded
}

// StatusCode extracts the best-effort gRPC code from err for metrics
// labeling (§4.6.4 "a service-call metric is recorded per attempt with
// the response status code").
func StatusCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	var rpc *RPCError
	if errors.As(err, &rpc) {
		return rpc.Code
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Unknown
}
