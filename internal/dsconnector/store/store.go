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

// Package store defines the Store RPC surface (§6) that the query planner
// and mutation writer depend on, plus the adapters that implement it: a
// dependency-free logging client for the demo build, and a gRPC-backed
// client for production use.
package store

import (
	"context"
	"time"

	"dsconnector/internal/dsconnector/model"
)

// MoreResults mirrors the Store's RunQuery continuation signal.
type MoreResults int

const (
	// MoreResultsUnspecified is the zero value; readers must not treat it
	// as a pagination signal.
	MoreResultsUnspecified MoreResults = iota
	NotFinished
	MoreResultsAfterLimit
	NoMoreResults
)

// RunQueryRequest is the planner's view of a RunQuery call (§6). Exactly
// one of Query or GQLQuery is set.
type RunQueryRequest struct {
	ProjectID  string
	DatabaseID string
	Partition  model.Partition

	Query    *model.Query
	GQLQuery string

	// ReadTime carries a caller-supplied snapshot timestamp, converted to
	// the wire's Timestamp representation by the real client.
	ReadTime *time.Time
}

// RunQueryResponse is the planner's view of a RunQuery result.
type RunQueryResponse struct {
	Entities    []model.Entity
	EndCursor   []byte
	MoreResults MoreResults

	// EchoedQuery is populated when the request carried GQLQuery: the
	// server echoes back the structured query it translated the text
	// into (§4.5.1).
	EchoedQuery *model.Query
}

// CommitRequest is the mutation writer's view of a non-transactional
// Commit call (§6).
type CommitRequest struct {
	ProjectID  string
	DatabaseID string
	Mutations  []model.Mutation
}

// CommitResponse reports the outcome of a Commit call. SerializedSize is
// the response's wire size, which the mutation writer attributes to the
// emitted WriteSuccessSummary's byte count (§3).
type CommitResponse struct {
	MutationResults int
	SerializedSize  int
}

// Client is the Store's proto-based RPC surface as consumed by this
// module: RunQuery for reads and statistics lookups, Commit for writes
// and deletes. Implementations are constructed per bundle and discarded
// at bundle end (§3 Lifecycles).
type Client interface {
	RunQuery(ctx context.Context, req RunQueryRequest) (RunQueryResponse, error)
	Commit(ctx context.Context, req CommitRequest) (CommitResponse, error)
}
