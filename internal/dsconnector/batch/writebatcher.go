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

// Package batch implements the write batcher (C3): a target next-batch
// size oracle driven by a moving average of observed per-mutation RPC
// latency.
package batch

import (
	"time"

	"dsconnector/internal/dsconnector/avg"
)

const (
	// StartSize is returned by NextBatchSize before any latency sample
	// has landed.
	StartSize = 50
	// MinBatchSize and MaxBatchSize bound NextBatchSize's output (§4.3).
	MinBatchSize = 5
	MaxBatchSize = 500
	// TargetLatencyMs is the per-RPC latency the batcher aims for; the
	// clamp in NextBatchSize keeps this from over- or under-shooting on
	// very cheap or very expensive workloads.
	TargetLatencyMs = 6000
)

// WriteBatcher owns a moving average of milliseconds-per-mutation and
// derives a target batch size from it (§4.3).
type WriteBatcher struct {
	msPerMutation *avg.MovingAverage
}

// New constructs a WriteBatcher with the component's default moving
// average window (120s / 10s buckets).
func New() *WriteBatcher {
	return &WriteBatcher{msPerMutation: avg.NewDefault()}
}

// AddRequestLatency records one commit RPC's outcome: totalLatencyMs
// spent to mutate numMutations entities. It inserts
// totalLatencyMs/numMutations into the moving average (§4.3).
func (w *WriteBatcher) AddRequestLatency(t time.Time, totalLatencyMs int64, numMutations int) {
	if numMutations <= 0 {
		return
	}
	w.msPerMutation.Add(t, float64(totalLatencyMs)/float64(numMutations))
}

// NextBatchSize returns the target number of mutations for the next
// commit, derived from recent latency and clamped to [MinBatchSize,
// MaxBatchSize] (§4.3).
func (w *WriteBatcher) NextBatchSize(t time.Time) int {
	if !w.msPerMutation.HasValue(t) {
		return StartSize
	}
	l := w.msPerMutation.Get(t)
	if l < 1 {
		l = 1
	}
	target := int(TargetLatencyMs / l)
	if target < MinBatchSize {
		target = MinBatchSize
	}
	if target > MaxBatchSize {
		target = MaxBatchSize
	}
	return target
}
