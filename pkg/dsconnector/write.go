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
	"sync"
	"time"

	"dsconnector/internal/dsconnector/batch"
	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/mutate"
	"dsconnector/internal/dsconnector/runtime"
	"dsconnector/internal/dsconnector/store"
	"dsconnector/internal/dsconnector/throttle"
)

// WorkerState holds the per-worker singletons the mutation writer needs
// across bundles: the write batcher and adaptive throttler, lazily
// constructed on first use and reused thereafter, and the ramp-up
// throttle anchored to a single pipeline-run start instant (§3
// Lifecycles, Design Notes §9 "not a lazy field hidden inside the
// writer — an explicit dependency the embedder owns and threads in").
type WorkerState struct {
	mu        sync.Mutex
	batcher   *batch.WriteBatcher
	throttler *throttle.Adaptive
	rampup    *throttle.Rampup
}

// NewWorkerState constructs an empty WorkerState. One should be created
// per worker process and reused for every bundle it handles.
func NewWorkerState() *WorkerState {
	return &WorkerState{}
}

// NewWriter builds a mutate.Writer over client for the given Write/Delete
// configuration, lazily initializing this worker's batcher, throttler,
// and (if enabled) ramp-up throttle. pipelineStart is the broadcast
// pipeline-run start instant (§3, §4.4); callers share one value across
// all workers.
func (w *WorkerState) NewWriter(client store.Client, cfg Config, pipelineStart time.Time) *mutate.Writer {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.batcher == nil {
		w.batcher = batch.New()
	}
	if w.throttler == nil {
		w.throttler = throttle.NewAdaptive()
	}

	var rampup *throttle.Rampup
	if !cfg.DisableRampup {
		if w.rampup == nil {
			w.rampup = throttle.NewRampup(pipelineStart, cfg.HintNumWorkers)
		}
		rampup = w.rampup
	}

	return mutate.NewWriter(client, cfg.ProjectID, cfg.DatabaseID, w.batcher, w.throttler, rampup)
}

// ElementToMutation builds a Mutation from one input element, failing
// with a configuration error if the element's key is incomplete. This is
// the pluggable seam Design Notes §9 calls for: Write, DeleteByEntity,
// and DeleteByKey differ only in this function.
type ElementToMutation[T any] func(T) (model.Mutation, error)

// MutationEngine is the single engine behind the three public mutation
// transforms (§9: "the three public surfaces become thin configurations,
// not separate classes"). It wraps a mutate.Writer with an
// element-to-mutation function appropriate to the element type.
type MutationEngine[T any] struct {
	toMutation ElementToMutation[T]
	writer     *mutate.Writer
}

// NewMutationEngine constructs an engine over an already-built writer.
func NewMutationEngine[T any](writer *mutate.Writer, toMutation ElementToMutation[T]) *MutationEngine[T] {
	return &MutationEngine[T]{toMutation: toMutation, writer: writer}
}

// ProcessElement converts el to a mutation and runs it through the
// writer's batching state machine (§4.6.2), returning any summaries
// produced by a flush triggered along the way.
func (e *MutationEngine[T]) ProcessElement(ctx context.Context, el T, win runtime.Window) ([]mutate.WriteSuccessSummary, error) {
	m, err := e.toMutation(el)
	if err != nil {
		return nil, err
	}
	return e.writer.ProcessElement(ctx, runtime.WindowedElement[model.Mutation]{Value: m, Window: win})
}

// FinishBundle flushes any mutations still pending (§3 "Bundle-end
// always flushes").
func (e *MutationEngine[T]) FinishBundle(ctx context.Context) ([]mutate.WriteSuccessSummary, error) {
	return e.writer.FinishBundle(ctx)
}

// NewWriteEngine builds the upsert transform: one mutation engine over
// model.Entity inputs, emitting idempotent upserts.
func NewWriteEngine(writer *mutate.Writer) *MutationEngine[model.Entity] {
	return NewMutationEngine(writer, model.NewUpsert)
}

// NewDeleteByEntityEngine builds the delete-from-entity transform: reads
// only the entity's key.
func NewDeleteByEntityEngine(writer *mutate.Writer) *MutationEngine[model.Entity] {
	return NewMutationEngine(writer, model.NewDeleteEntity)
}

// NewDeleteByKeyEngine builds the delete-from-key transform.
func NewDeleteByKeyEngine(writer *mutate.Writer) *MutationEngine[model.Key] {
	return NewMutationEngine(writer, model.NewDeleteKey)
}
