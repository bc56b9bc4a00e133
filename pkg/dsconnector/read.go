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

package dsconnector

import (
	"context"
	"fmt"

	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/query"
	"dsconnector/internal/dsconnector/store"
)

// Plan resolves cfg's query (translating GQL if needed), estimates its
// size, chooses a split count, and returns the shuffled split queries
// (§4.5.1, §4.5.3, §4.5.4). The pipeline runtime is responsible for
// fanning each returned split out to a worker and calling ReadSplit for
// it (§1: the runtime's scheduling is an external collaborator).
func Plan(ctx context.Context, client store.Client, cfg ReadConfig) ([]model.Query, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	plan, err := query.BuildPlan(ctx, client, query.Config{
		Partition:      cfg.Partition(),
		NumQuerySplits: cfg.NumQuerySplits,
		ReadTime:       cfg.ReadTime,
	}, cfg.Query, cfg.GQLQuery)
	if err != nil {
		return nil, fmt.Errorf("dsconnector: planning read: %w", err)
	}
	return plan.Splits, nil
}

// ReadSplit drives the cursor-based paginated read for one split query
// (§4.5.5), invoking emit for every entity returned, in order, and
// retrying transient RPC failures (§4.5.6).
func ReadSplit(ctx context.Context, client store.Client, cfg ReadConfig, split model.Query, emit func(model.Entity) error) error {
	return query.ReadSplit(ctx, client, query.Config{
		Partition: cfg.Partition(),
		ReadTime:  cfg.ReadTime,
	}, split, emit)
}
