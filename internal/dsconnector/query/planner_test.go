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

package query

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/store"
)

func entityBatch(n, startID int) []model.Entity {
	out := make([]model.Entity, n)
	for i := 0; i < n; i++ {
		out[i] = model.Entity{Key: model.Key{Path: []model.PathElement{{Kind: "Widget", Id: int64(startID + i)}}}}
	}
	return out
}

func TestReadSplit_UserLimit_StopsAtLimit(t *testing.T) {
	calls := 0
	c := &fakeClient{
		runQuery: func(ctx context.Context, req store.RunQueryRequest) (store.RunQueryResponse, error) {
			calls++
			if *req.Query.Limit != 10 {
				t.Fatalf("expected page limit 10, got %d", *req.Query.Limit)
			}
			return store.RunQueryResponse{Entities: entityBatch(10, 0), MoreResults: store.NoMoreResults}, nil
		},
	}
	limit := int32(10)
	split := model.Query{Kind: "Widget", Limit: &limit}
	var got []model.Entity
	err := ReadSplit(context.Background(), c, Config{}, split, func(e model.Entity) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 entities, got %d", len(got))
	}
	if calls != 1 {
		t.Fatalf("expected a single page for a 10-limit query, got %d calls", calls)
	}
}

func TestReadSplit_FullPageContinues_ShortPageStops(t *testing.T) {
	calls := 0
	c := &fakeClient{
		runQuery: func(ctx context.Context, req store.RunQueryRequest) (store.RunQueryResponse, error) {
			calls++
			if calls == 1 {
				return store.RunQueryResponse{Entities: entityBatch(pageSize, 0), EndCursor: []byte("c1"), MoreResults: store.NotFinished}, nil
			}
			if calls == 2 {
				if string(req.Query.StartCursor) != "c1" {
					t.Fatalf("expected second page to continue from cursor c1, got %q", req.Query.StartCursor)
				}
				return store.RunQueryResponse{Entities: entityBatch(3, pageSize), MoreResults: store.NoMoreResults}, nil
			}
			t.Fatalf("unexpected third call")
			return store.RunQueryResponse{}, nil
		},
	}
	split := model.Query{Kind: "Widget"}
	var got []model.Entity
	err := ReadSplit(context.Background(), c, Config{}, split, func(e model.Entity) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != pageSize+3 {
		t.Fatalf("expected %d entities, got %d", pageSize+3, len(got))
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 pages, got %d", calls)
	}
}

func TestReadSplit_NonRetryableError_PropagatesImmediately(t *testing.T) {
	calls := 0
	c := &fakeClient{
		runQuery: func(ctx context.Context, req store.RunQueryRequest) (store.RunQueryResponse, error) {
			calls++
			return store.RunQueryResponse{}, status.Error(codes.PermissionDenied, "denied")
		},
	}
	split := model.Query{Kind: "Widget"}
	err := ReadSplit(context.Background(), c, Config{}, split, func(e model.Entity) error { return nil })
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected no retries for a non-retryable error, got %d calls", calls)
	}
}

func TestReadSplit_RetryableError_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	c := &fakeClient{
		runQuery: func(ctx context.Context, req store.RunQueryRequest) (store.RunQueryResponse, error) {
			calls++
			if calls == 1 {
				return store.RunQueryResponse{}, status.Error(codes.Unavailable, "try again")
			}
			return store.RunQueryResponse{Entities: entityBatch(1, 0), MoreResults: store.NoMoreResults}, nil
		},
	}
	split := model.Query{Kind: "Widget"}
	var got []model.Entity
	err := ReadSplit(context.Background(), c, Config{}, split, func(e model.Entity) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entity after retry, got %d", len(got))
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls (1 failure + 1 success), got %d", calls)
	}
}
