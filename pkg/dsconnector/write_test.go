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
	"testing"
	"time"

	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/runtime"
	"dsconnector/internal/dsconnector/store"
)

func TestWorkerState_NewWriter_ReusesBatcherAndThrottlerAcrossBundles(t *testing.T) {
	ws := NewWorkerState()
	client := store.NewLoggingClient()
	cfg := Config{ProjectID: "proj", DisableRampup: true}

	w1 := ws.NewWriter(client, cfg, time.Now())
	b1, th1 := ws.batcher, ws.throttler
	w2 := ws.NewWriter(client, cfg, time.Now())
	if w1 == w2 {
		t.Fatalf("expected a fresh Writer per bundle")
	}
	if ws.batcher == nil || ws.throttler == nil {
		t.Fatalf("expected the worker's batcher and throttler to be initialized")
	}
	if ws.batcher != b1 || ws.throttler != th1 {
		t.Fatalf("expected the worker's batcher and throttler to be reused across bundles")
	}
}

func TestWorkerState_NewWriter_RampupDisabledByConfig(t *testing.T) {
	ws := NewWorkerState()
	client := store.NewLoggingClient()
	cfg := Config{ProjectID: "proj", DisableRampup: true}
	ws.NewWriter(client, cfg, time.Now())
	if ws.rampup != nil {
		t.Fatalf("expected no ramp-up throttle when DisableRampup is true")
	}
}

func TestWorkerState_NewWriter_RampupEnabledByDefault(t *testing.T) {
	ws := NewWorkerState()
	client := store.NewLoggingClient()
	cfg := Config{ProjectID: "proj"} // zero-value DisableRampup: ramp-up must default to enabled (§6).
	ws.NewWriter(client, cfg, time.Now())
	if ws.rampup == nil {
		t.Fatalf("expected the ramp-up throttle to be enabled by default")
	}
}

func TestNewWriteEngine_UpsertsEntity(t *testing.T) {
	ws := NewWorkerState()
	client := store.NewLoggingClient()
	cfg := Config{ProjectID: "proj", DisableRampup: true}
	writer := ws.NewWriter(client, cfg, time.Now())
	engine := NewWriteEngine(writer)

	e := model.Entity{Key: model.Key{Path: []model.PathElement{{Kind: "Widget", Id: 1}}}, SerializedSize: 10}
	if _, err := engine.ProcessElement(context.Background(), e, runtime.GlobalWindow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summaries, err := engine.FinishBundle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].NumWrites != 1 {
		t.Fatalf("expected exactly 1 write summary, got %+v", summaries)
	}
}

func TestNewWriteEngine_IncompleteKeyFailsBeforeAnyRPC(t *testing.T) {
	ws := NewWorkerState()
	client := store.NewLoggingClient()
	cfg := Config{ProjectID: "proj", DisableRampup: true}
	writer := ws.NewWriter(client, cfg, time.Now())
	engine := NewWriteEngine(writer)

	e := model.Entity{Key: model.Key{Path: []model.PathElement{{Kind: "Widget"}}}}
	if _, err := engine.ProcessElement(context.Background(), e, runtime.GlobalWindow); err == nil {
		t.Fatalf("expected an error for an incomplete key")
	}
}

func TestNewDeleteByKeyEngine_DeletesKey(t *testing.T) {
	ws := NewWorkerState()
	client := store.NewLoggingClient()
	cfg := Config{ProjectID: "proj", DisableRampup: true}
	writer := ws.NewWriter(client, cfg, time.Now())
	engine := NewDeleteByKeyEngine(writer)

	k := model.Key{Path: []model.PathElement{{Kind: "Widget", Id: 1}}}
	if _, err := engine.ProcessElement(context.Background(), k, runtime.GlobalWindow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summaries, err := engine.FinishBundle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected exactly 1 summary, got %d", len(summaries))
	}
}
