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

package store

import (
	"context"
	"fmt"
	"sync"

	"dsconnector/internal/dsconnector/model"
)

// LoggingClient is a dependency-free demo Client: it logs every call and
// returns a plausible synthetic response, so the demo binary and the
// bulk-writer tool run without a live Store endpoint. Not for production
// use.
type LoggingClient struct {
	mu      sync.Mutex
	entries map[string]model.Entity
}

// NewLoggingClient constructs a LoggingClient with an empty in-memory
// table, so a Commit followed by a RunQuery against the same keys can be
// exercised end-to-end in the demo (and in tests) without a real Store.
func NewLoggingClient() *LoggingClient {
	return &LoggingClient{entries: make(map[string]model.Entity)}
}

func (c *LoggingClient) RunQuery(_ context.Context, req RunQueryRequest) (RunQueryResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.GQLQuery != "" {
		fmt.Printf("[store-demo] RunQuery GQL=%q\n", req.GQLQuery)
		// Echo back a trivial structured query, as the real server would
		// when translating GQL (§4.5.1).
		return RunQueryResponse{EchoedQuery: &model.Query{Kind: "gql-result"}, MoreResults: NoMoreResults}, nil
	}

	q := req.Query
	fmt.Printf("[store-demo] RunQuery kind=%s filters=%d\n", q.Kind, len(q.Filters))

	var matched []model.Entity
	for _, e := range c.entries {
		if e.Key.Kind() != q.Kind {
			continue
		}
		if !matchesFilters(e, q.Filters) {
			continue
		}
		matched = append(matched, e)
	}

	limit := len(matched)
	if q.Limit != nil && int(*q.Limit) < limit {
		limit = int(*q.Limit)
	}
	return RunQueryResponse{Entities: matched[:limit], MoreResults: NoMoreResults}, nil
}

func (c *LoggingClient) Commit(_ context.Context, req CommitRequest) (CommitResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Printf("[store-demo] Commit mutations=%d\n", len(req.Mutations))
	size := 0
	for _, m := range req.Mutations {
		size += m.SerializedSize
		switch m.Op {
		case model.MutationUpsert, model.MutationInsert, model.MutationUpdate:
			c.entries[m.Key.Encode()] = m.Entity
		case model.MutationDelete:
			delete(c.entries, m.Key.Encode())
		}
		fmt.Printf("  - %s %s\n", m.Op, m.Key.Encode())
	}
	return CommitResponse{MutationResults: len(req.Mutations), SerializedSize: size}, nil
}

// matchesFilters is a minimal equality-only evaluator, sufficient for the
// statistics-table lookups (§4.5.2) and the demo's own round-trip tests;
// it is not a general query engine.
func matchesFilters(e model.Entity, filters []model.Filter) bool {
	for _, f := range filters {
		v, ok := e.Properties[f.Property]
		if !ok {
			return false
		}
		switch f.Op {
		case model.FilterEqual:
			if v.Int != f.Value.Int || v.Str != f.Value.Str {
				return false
			}
		default:
			// Inequality filters never appear against the demo's
			// statistics rows in this module's own tests.
			return false
		}
	}
	return true
}
