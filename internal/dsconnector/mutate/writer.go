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

// Package mutate implements the mutation writer (C6): per-bundle batch
// assembly with dedup/byte/count flush policy, retrying non-transactional
// commit RPCs, driving the write batcher and adaptive throttler.
package mutate

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"dsconnector/internal/dsconnector/batch"
	"dsconnector/internal/dsconnector/errs"
	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/runtime"
	"dsconnector/internal/dsconnector/store"
	"dsconnector/internal/dsconnector/throttle"
)

const (
	// maxBatchBytes is the byte ceiling that triggers a flush before the
	// next mutation would push size at or over it (§3 Invariants, §4.6.2).
	maxBatchBytes = 9_000_000
	// maxBatchCount is the hard upper bound on a flushed batch (§3).
	maxBatchCount = 500

	// commitRetryInitialInterval and commitMaxRetries implement §4.6.3:
	// exponential backoff, initial 5s, up to 5 retries.
	commitRetryInitialInterval = 5 * time.Second
	commitMaxRetries           = 5

	// throttleSleepMs is the sleep duration charged when the adaptive
	// throttler says to hold off, equal to the target per-RPC latency
	// (§4.6.3: "increment the throttling-time counter by the target
	// latency (6000 ms), sleep that long, then re-decide").
	throttleSleepMs = int64(batch.TargetLatencyMs)
)

// WriteSuccessSummary is emitted once per successful Commit RPC (§3,
// §4.6.1), timestamped with commit completion and attributed to the
// window of the last mutation in the batch.
type WriteSuccessSummary struct {
	NumWrites  int
	NumBytes   int
	CommitTime time.Time
	Window     runtime.Window
}

// batchState is the per-bundle accumulator described in §3/§4.6.2: an
// ordered list of pending mutations (each tagged with the window it
// arrived in, §4.6.1), their accumulated serialized size, and a set of
// keys already queued, used for in-batch dedup.
type batchState struct {
	items []runtime.WindowedElement[model.Mutation]
	size  int
	keys  map[string]struct{}
}

func newBatchState() *batchState {
	return &batchState{keys: make(map[string]struct{})}
}

func (b *batchState) reset() {
	b.items = nil
	b.size = 0
	b.keys = make(map[string]struct{})
}

func (b *batchState) empty() bool { return len(b.items) == 0 }

// Writer is the mutation writer (C6). One Writer is constructed per
// bundle for its Store client; the write batcher and adaptive throttler
// are per-worker singletons the caller constructs once and passes in
// (§3 Lifecycles, Design Notes §9 "not a lazy field").
type Writer struct {
	client     store.Client
	projectID  string
	databaseID string
	batcher    *batch.WriteBatcher
	throttler  *throttle.Adaptive
	rampup     *throttle.Rampup // nil if ramp-up throttling is disabled
	clock      runtime.Clock

	state *batchState
}

// NewWriter constructs a Writer over client for the given project and
// database. batcher and throttler are the per-worker singletons shared
// across bundles; rampup may be nil to disable warm-up throttling
// (§6 configuration surface: "throttleRampup: bool (default true)").
func NewWriter(client store.Client, projectID, databaseID string, batcher *batch.WriteBatcher, throttler *throttle.Adaptive, rampup *throttle.Rampup) *Writer {
	return &Writer{
		client:     client,
		projectID:  projectID,
		databaseID: databaseID,
		batcher:    batcher,
		throttler:  throttler,
		rampup:     rampup,
		clock:      runtime.RealClock{},
		state:      newBatchState(),
	}
}

// ProcessElement applies the batching state machine of §4.6.2 to one
// incoming mutation, tagged with the window it arrived in (§4.6.1), and
// returns any WriteSuccessSummary produced by a flush triggered along
// the way (dedup flush, byte flush, or count flush — at most two
// flushes can occur for a single element: one pre-append, one
// post-append).
func (w *Writer) ProcessElement(ctx context.Context, we runtime.WindowedElement[model.Mutation]) ([]WriteSuccessSummary, error) {
	if w.rampup != nil {
		if err := w.rampup.Admit(ctx); err != nil {
			return nil, fmt.Errorf("dsconnector: ramp-up throttle: %w", err)
		}
	}

	var summaries []WriteSuccessSummary

	m := we.Value
	key := m.Key.Encode()

	// Dedup flush: the same key cannot appear twice in one commit.
	if _, dup := w.state.keys[key]; dup {
		s, err := w.flush(ctx)
		if err != nil {
			return summaries, err
		}
		if s != nil {
			summaries = append(summaries, *s)
		}
	}

	// Byte flush: appending m would meet or exceed the byte ceiling.
	if !w.state.empty() && w.state.size+m.SerializedSize >= maxBatchBytes {
		s, err := w.flush(ctx)
		if err != nil {
			return summaries, err
		}
		if s != nil {
			summaries = append(summaries, *s)
		}
	}

	w.state.items = append(w.state.items, we)
	w.state.size += m.SerializedSize
	w.state.keys[key] = struct{}{}

	// Count flush: the batch has reached the batcher's current target,
	// or the hard §3 ceiling of 500, whichever is smaller.
	target := w.batcher.NextBatchSize(w.clock.Now())
	if target > maxBatchCount {
		target = maxBatchCount
	}
	if len(w.state.items) >= target {
		s, err := w.flush(ctx)
		if err != nil {
			return summaries, err
		}
		if s != nil {
			summaries = append(summaries, *s)
		}
	}

	return summaries, nil
}

// FinishBundle flushes any remaining pending mutations (§3 "Bundle-end
// always flushes").
func (w *Writer) FinishBundle(ctx context.Context) ([]WriteSuccessSummary, error) {
	s, err := w.flush(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	return []WriteSuccessSummary{*s}, nil
}

// flush commits the current batch, if non-empty, per §4.6.3: consult the
// adaptive throttler before each attempt, retry transient failures with
// backoff, abort on a non-retryable error, and feed DEADLINE_EXCEEDED
// latency into the write batcher even on failure.
func (w *Writer) flush(ctx context.Context) (*WriteSuccessSummary, error) {
	if w.state.empty() {
		return nil, nil
	}

	mutations := make([]model.Mutation, len(w.state.items))
	for i, p := range w.state.items {
		mutations[i] = p.Value
	}
	lastWindow := w.state.items[len(w.state.items)-1].Window
	numMutations := len(mutations)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = commitRetryInitialInterval

	attempt := 0
	for {
		now := w.clock.Now()
		for w.throttler.ThrottleRequest(now) {
			throttlingMsecs.Add(float64(throttleSleepMs))
			if err := w.sleepOrCancel(ctx, time.Duration(throttleSleepMs)*time.Millisecond); err != nil {
				return nil, err
			}
			now = w.clock.Now()
		}

		start := w.clock.Now()
		resp, err := w.client.Commit(ctx, store.CommitRequest{
			ProjectID:  w.projectID,
			DatabaseID: w.databaseID,
			Mutations:  mutations,
		})
		end := w.clock.Now()
		elapsedMs := end.Sub(start).Milliseconds()

		if err == nil {
			w.batcher.AddRequestLatency(end, elapsedMs, numMutations)
			w.throttler.SuccessfulRequest(end)

			rpcSuccesses.Inc()
			entitiesMutated.Add(float64(numMutations))
			batchSizeDist.Observe(float64(numMutations))
			latencyMsPerMutationDist.Observe(float64(elapsedMs) / float64(numMutations))

			summary := &WriteSuccessSummary{
				NumWrites:  numMutations,
				NumBytes:   resp.SerializedSize,
				CommitTime: end,
				Window:     lastWindow,
			}
			w.state.reset()
			return summary, nil
		}

		code := errs.StatusCode(err)
		rpcErrors.WithLabelValues(code.String()).Inc()

		if errs.IsNonRetryable(code) {
			return nil, fmt.Errorf("dsconnector: commit failed with non-retryable status %s: %w", code, err)
		}
		if errs.IsDeadlineExceeded(err) {
			w.batcher.AddRequestLatency(end, elapsedMs, numMutations)
		}

		attempt++
		if attempt > commitMaxRetries {
			return nil, fmt.Errorf("dsconnector: commit failed after %d retries: %w", commitMaxRetries, err)
		}
		if err := w.sleepOrCancel(ctx, bo.NextBackOff()); err != nil {
			return nil, err
		}
	}
}

func (w *Writer) sleepOrCancel(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
