//go:build e2e

// Package e2e exercises the connector end to end through its public
// surface (pkg/dsconnector), against the in-process LoggingClient, the
// way the project's own e2e suite drives its server through a real
// adapter rather than a mock.
package e2e

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/runtime"
	"dsconnector/internal/dsconnector/store"
	"dsconnector/pkg/dsconnector"
)

func widget(id int64, size int) model.Entity {
	return model.Entity{
		Key:            model.Key{Path: []model.PathElement{{Kind: "Widget", Id: id}}},
		SerializedSize: size,
	}
}

// TestWriteThenRead_HappyPath writes 127 entities and reads the same
// kind back, matching the volume named in the write-pass demo scenario.
func TestWriteThenRead_HappyPath(t *testing.T) {
	client := store.NewLoggingClient()
	cfg := dsconnector.Config{ProjectID: "e2e-proj"}
	ws := dsconnector.NewWorkerState()
	writer := ws.NewWriter(client, cfg, time.Now())
	engine := dsconnector.NewWriteEngine(writer)
	ctx := context.Background()

	const numEntities = 127
	totalWrites := 0
	for i := int64(1); i <= numEntities; i++ {
		summaries, err := engine.ProcessElement(ctx, widget(i, 64), runtime.GlobalWindow)
		if err != nil {
			t.Fatalf("writing entity %d: %v", i, err)
		}
		for _, s := range summaries {
			totalWrites += s.NumWrites
		}
	}
	final, err := engine.FinishBundle(ctx)
	if err != nil {
		t.Fatalf("finishing bundle: %v", err)
	}
	for _, s := range final {
		totalWrites += s.NumWrites
	}
	if totalWrites != numEntities {
		t.Fatalf("expected %d entities written, got %d", numEntities, totalWrites)
	}

	readCfg := dsconnector.ReadConfig{Config: cfg, Query: &model.Query{Kind: "Widget"}}
	splits, err := dsconnector.Plan(ctx, client, readCfg)
	if err != nil {
		t.Fatalf("planning read: %v", err)
	}
	count := 0
	for _, split := range splits {
		if err := dsconnector.ReadSplit(ctx, client, readCfg, split, func(model.Entity) error {
			count++
			return nil
		}); err != nil {
			t.Fatalf("reading split: %v", err)
		}
	}
	if count != numEntities {
		t.Fatalf("expected to read back %d entities, got %d", numEntities, count)
	}
}

// TestWrite_DedupThenByteLimit_SplitsCommitsAsSpecified exercises the two
// batch-flush triggers (repeated key, byte ceiling) through the public
// write engine in a single bundle.
func TestWrite_DedupThenByteLimit_SplitsCommitsAsSpecified(t *testing.T) {
	client := store.NewLoggingClient()
	cfg := dsconnector.Config{ProjectID: "e2e-proj"}
	ws := dsconnector.NewWorkerState()
	writer := ws.NewWriter(client, cfg, time.Now())
	engine := dsconnector.NewWriteEngine(writer)
	ctx := context.Background()

	a := widget(1, 100)
	b := widget(2, 100)

	if _, err := engine.ProcessElement(ctx, a, runtime.GlobalWindow); err != nil {
		t.Fatalf("process A: %v", err)
	}
	if _, err := engine.ProcessElement(ctx, b, runtime.GlobalWindow); err != nil {
		t.Fatalf("process B: %v", err)
	}
	summaries, err := engine.ProcessElement(ctx, a, runtime.GlobalWindow) // repeats key A
	if err != nil {
		t.Fatalf("process repeated A: %v", err)
	}
	if len(summaries) != 1 || summaries[0].NumWrites != 2 {
		t.Fatalf("expected the dedup-triggered flush to commit {A, B}, got %+v", summaries)
	}

	final, err := engine.FinishBundle(ctx)
	if err != nil {
		t.Fatalf("finish bundle: %v", err)
	}
	if len(final) != 1 || final[0].NumWrites != 1 {
		t.Fatalf("expected the final flush to commit {A}, got %+v", final)
	}
}

// fakeClient lets the retry scenarios inject transient and permanent RPC
// failures without a live Store.
type fakeClient struct {
	store.Client
	commit func(req store.CommitRequest) (store.CommitResponse, error)
}

func (f *fakeClient) Commit(_ context.Context, req store.CommitRequest) (store.CommitResponse, error) {
	return f.commit(req)
}

// TestWrite_RetryableFailureThenSuccess_EventuallyCommits matches the
// backoff-then-succeed scenario: the first commit attempt fails with a
// retryable status and the second succeeds.
func TestWrite_RetryableFailureThenSuccess_EventuallyCommits(t *testing.T) {
	calls := 0
	client := &fakeClient{Client: store.NewLoggingClient(), commit: func(req store.CommitRequest) (store.CommitResponse, error) {
		calls++
		if calls == 1 {
			return store.CommitResponse{}, status.Error(codes.Unavailable, "try again")
		}
		return store.CommitResponse{MutationResults: len(req.Mutations)}, nil
	}}
	cfg := dsconnector.Config{ProjectID: "e2e-proj"}
	ws := dsconnector.NewWorkerState()
	writer := ws.NewWriter(client, cfg, time.Now())
	engine := dsconnector.NewWriteEngine(writer)
	ctx := context.Background()

	if _, err := engine.ProcessElement(ctx, widget(1, 100), runtime.GlobalWindow); err != nil {
		t.Fatalf("process: %v", err)
	}
	summaries, err := engine.FinishBundle(ctx)
	if err != nil {
		t.Fatalf("finish bundle: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected exactly 1 summary once the retry succeeds, got %d", len(summaries))
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 commit attempts, got %d", calls)
	}
}

// TestWrite_NonRetryableFailure_AbortsBundle matches the permission-denied
// scenario: the bundle must fail immediately with no retry.
func TestWrite_NonRetryableFailure_AbortsBundle(t *testing.T) {
	calls := 0
	client := &fakeClient{Client: store.NewLoggingClient(), commit: func(store.CommitRequest) (store.CommitResponse, error) {
		calls++
		return store.CommitResponse{}, status.Error(codes.PermissionDenied, "denied")
	}}
	cfg := dsconnector.Config{ProjectID: "e2e-proj"}
	ws := dsconnector.NewWorkerState()
	writer := ws.NewWriter(client, cfg, time.Now())
	engine := dsconnector.NewWriteEngine(writer)
	ctx := context.Background()

	if _, err := engine.ProcessElement(ctx, widget(1, 100), runtime.GlobalWindow); err != nil {
		t.Fatalf("process: %v", err)
	}
	if _, err := engine.FinishBundle(ctx); err == nil {
		t.Fatalf("expected the bundle to abort on a non-retryable failure")
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 attempt with no retries, got %d", calls)
	}
}

func seedScatterSample(t *testing.T, c store.Client, kind string, ids []int64) {
	t.Helper()
	ctx := context.Background()
	var muts []model.Mutation
	for _, id := range ids {
		e := model.Entity{
			Key:        model.Key{Path: []model.PathElement{{Kind: "__scatter__", Id: id}}},
			Properties: map[string]model.Value{"kind_name": {Str: kind}},
		}
		m, err := model.NewUpsert(e)
		if err != nil {
			t.Fatalf("building scatter mutation: %v", err)
		}
		muts = append(muts, m)
	}
	if _, err := c.Commit(ctx, store.CommitRequest{Mutations: muts}); err != nil {
		t.Fatalf("seeding scatter sample: %v", err)
	}
}

// TestPlan_FourSplitsRequestedThreeReturned matches the split scenario:
// 4 splits are requested through NumQuerySplits (a dynamic estimate of
// 256MiB would be clamped up to MinSplitCount, 12), but a sparse scatter
// sample only yields 2 boundaries, so 3 splits come back.
func TestPlan_FourSplitsRequestedThreeReturned(t *testing.T) {
	client := store.NewLoggingClient()
	seedScatterSample(t, client, "Widget", []int64{1, 2})

	cfg := dsconnector.Config{ProjectID: "e2e-proj"}
	readCfg := dsconnector.ReadConfig{Config: cfg, Query: &model.Query{Kind: "Widget"}, NumQuerySplits: 4}
	splits, err := dsconnector.Plan(context.Background(), client, readCfg)
	if err != nil {
		t.Fatalf("planning read: %v", err)
	}
	if len(splits) != 3 {
		t.Fatalf("expected 3 splits (4 requested, sparse scatter sample), got %d", len(splits))
	}
}
