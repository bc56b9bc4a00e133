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

// Package query implements the query planner (C5): GQL translation, size
// estimation against the Store's statistics tables, split-count
// selection, splitting policy, and the paginated, retrying read loop.
package query

import (
	"context"
	"errors"
	"fmt"

	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/store"
)

// ErrStatisticsUnavailable is returned by EstimateSize when the Store's
// statistics tables have no row yet for the kind (§4.5.2 step 1).
var ErrStatisticsUnavailable = errors.New("dsconnector: statistics unavailable")

// EstimateSize computes the estimated on-wire byte size of kind K within
// partition, by reading the Store's statistics tables (§4.5.2).
func EstimateSize(ctx context.Context, c store.Client, partition model.Partition, kind string) (int64, error) {
	totalKind := "__Stat_Total__"
	kindKind := "__Stat_Kind__"
	if partition.HasNamespace() {
		totalKind = "__Stat_Ns_Total__"
		kindKind = "__Stat_Ns_Kind__"
	}

	limit := int32(1)
	totalResp, err := c.RunQuery(ctx, store.RunQueryRequest{
		Partition: partition,
		Query: &model.Query{
			Kind:  totalKind,
			Order: []model.PropertyOrder{{Property: "timestamp", Direction: model.Descending}},
			Limit: &limit,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("dsconnector: querying %s: %w", totalKind, err)
	}
	if len(totalResp.Entities) == 0 {
		return 0, ErrStatisticsUnavailable
	}

	// timestamp property is seconds since epoch; the Store's Stat_Kind
	// rows are keyed by the same value converted to microseconds.
	timestampMicros := totalResp.Entities[0].Properties["timestamp"].Int * 1_000_000

	kindResp, err := c.RunQuery(ctx, store.RunQueryRequest{
		Partition: partition,
		Query: &model.Query{
			Kind: kindKind,
			Filters: []model.Filter{
				model.EqFilter("kind_name", model.Value{Str: kind}),
				model.EqFilter("timestamp", model.Value{Int: timestampMicros}),
			},
			Limit: &limit,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("dsconnector: querying %s for kind %s: %w", kindKind, kind, err)
	}
	if len(kindResp.Entities) == 0 {
		return 0, ErrStatisticsUnavailable
	}
	return kindResp.Entities[0].Properties["entity_bytes"].Int, nil
}
