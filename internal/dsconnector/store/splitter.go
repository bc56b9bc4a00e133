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

	"dsconnector/internal/dsconnector/model"
)

// scatterKind is the well-known pseudo-kind the Store exposes for
// scatter sampling: an approximately uniform, approximately sorted
// sample of a kind's keyspace, used here to pick split boundaries
// without a dedicated split RPC (§12 Supplemented Features).
const scatterKind = "__scatter__"

// Split fans a splittable query into up to numSplits sub-queries by
// sampling scatter keys and cutting the keyspace at evenly-spaced
// sample points. It returns one more split than the number of distinct
// boundaries it could sample; the caller (the query planner, §4.5.4) is expected
// to fall back to a single un-split query on any error from Split.
func Split(ctx context.Context, c Client, q model.Query, numSplits int) ([]model.Query, error) {
	if numSplits <= 1 {
		return []model.Query{q}, nil
	}
	if !q.Splittable() {
		return []model.Query{q}, nil
	}

	// Oversample so that, after evenly spacing, we have numSplits-1
	// genuine boundaries even when the scatter sample is sparse.
	wantSamples := int32((numSplits - 1) * 32)

	resp, err := c.RunQuery(ctx, RunQueryRequest{
		Query: &model.Query{
			Kind:  scatterKind,
			Limit: &wantSamples,
			Filters: []model.Filter{
				model.EqFilter("kind_name", model.Value{Str: q.Kind}),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dsconnector: scatter sample for kind %s: %w", q.Kind, err)
	}
	if len(resp.Entities) == 0 {
		return []model.Query{q}, nil
	}

	boundaries := evenlySpacedBoundaries(resp.Entities, numSplits-1)
	if len(boundaries) == 0 {
		return []model.Query{q}, nil
	}

	splits := make([]model.Query, 0, len(boundaries)+1)
	prev := q.Clone()
	prev.StartCursor = nil
	for _, b := range boundaries {
		cur := prev.Clone()
		cur.EndCursor = b
		splits = append(splits, cur)

		next := q.Clone()
		next.StartCursor = b
		prev = next
	}
	splits = append(splits, prev)
	return splits, nil
}

// evenlySpacedBoundaries picks numBoundaries scatter-sample keys, spaced
// as evenly as possible across the (already approximately sorted)
// sample, and returns each one's key encoding as a pagination boundary.
func evenlySpacedBoundaries(samples []model.Entity, numBoundaries int) [][]byte {
	if numBoundaries <= 0 || len(samples) == 0 {
		return nil
	}
	if numBoundaries > len(samples) {
		numBoundaries = len(samples)
	}
	stride := float64(len(samples)) / float64(numBoundaries+1)

	boundaries := make([][]byte, 0, numBoundaries)
	for i := 1; i <= numBoundaries; i++ {
		idx := int(float64(i) * stride)
		if idx >= len(samples) {
			idx = len(samples) - 1
		}
		boundaries = append(boundaries, []byte(samples[idx].Key.Encode()))
	}
	return boundaries
}
