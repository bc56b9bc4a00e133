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
	"fmt"
	"math/rand"
	"time"

	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/store"
)

// pageSize is the per-RunQuery page cap (§4.5.5 step 1).
const pageSize = 500

// Plan resolves a caller-supplied query (structured or GQL) into a set of
// splits ready for parallel, per-split paginated reads (§4.5.1, §4.5.3,
// §4.5.4).
type Plan struct {
	Splits []model.Query
}

// Config carries everything the planner needs beyond the query itself
// (§6 configuration surface, Read section).
type Config struct {
	Partition      model.Partition
	NumQuerySplits int
	ReadTime       *time.Time
}

// BuildPlan translates GQL if needed, estimates size, selects a split
// count, invokes the splitter, and shuffles the resulting splits.
func BuildPlan(ctx context.Context, c store.Client, cfg Config, q *model.Query, gql string) (*Plan, error) {
	if q == nil {
		translated, err := TranslateGQL(ctx, c, cfg.Partition, gql)
		if err != nil {
			return nil, fmt.Errorf("dsconnector: translating gql query: %w", err)
		}
		q = translated
	}

	if !q.Splittable() {
		return &Plan{Splits: []model.Query{*q}}, nil
	}

	n := ChooseSplitCount(ctx, c, cfg.Partition, q.Kind, cfg.NumQuerySplits)

	splits, err := store.Split(ctx, c, *q, n)
	if err != nil {
		// Splitter failure falls back to a single un-split query (§4.5.4,
		// §7 "Split failure: falls back to a single un-split query").
		splits = []model.Query{*q}
	}

	shuffled := make([]model.Query, len(splits))
	copy(shuffled, splits)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	return &Plan{Splits: shuffled}, nil
}

// ReadSplit drives the cursor-based paginated read for a single split
// query (§4.5.5), invoking emit for every entity returned, in order.
// The remaining-result budget starts at the split's user limit, or is
// unbounded when the split has none.
func ReadSplit(ctx context.Context, c store.Client, cfg Config, split model.Query, emit func(model.Entity) error) error {
	remaining := int64(-1)
	if split.HasUserLimit() {
		remaining = int64(*split.Limit)
	}

	cursor := split.StartCursor
	first := true

	for {
		if remaining == 0 {
			return nil
		}

		page := split.Clone()
		if !first {
			page.StartCursor = cursor
		}
		first = false

		pageLimit := int32(pageSize)
		if remaining >= 0 && remaining < pageSize {
			pageLimit = int32(remaining)
		}
		page.Limit = &pageLimit

		var resp store.RunQueryResponse
		err := withReadRetry(ctx, func() error {
			var rqErr error
			resp, rqErr = c.RunQuery(ctx, store.RunQueryRequest{
				Partition: cfg.Partition,
				Query:     &page,
				ReadTime:  cfg.ReadTime,
			})
			return rqErr
		})
		if err != nil {
			return fmt.Errorf("dsconnector: reading split for kind %s: %w", split.Kind, err)
		}

		returned := len(resp.Entities)
		if remaining >= 0 && int64(returned) > remaining {
			return fmt.Errorf("dsconnector: store returned %d entities exceeding remaining limit %d", returned, remaining)
		}

		for _, e := range resp.Entities {
			if err := emit(e); err != nil {
				return err
			}
		}

		if remaining >= 0 {
			remaining -= int64(returned)
		}
		cursor = resp.EndCursor

		more := returned == pageSize || resp.MoreResults == store.NotFinished
		if remaining == 0 || !more {
			return nil
		}
	}
}
