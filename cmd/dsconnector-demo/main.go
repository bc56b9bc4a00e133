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

// Package main provides a runnable demonstration of the connector: it
// writes a batch of synthetic entities through the mutation writer, then
// reads them back through the query planner, all against the
// dependency-free LoggingClient so the demo runs without a live Store
// endpoint or emulator.
//
// This file is responsible for:
//  1. Parsing configuration flags (project, batching/ramp-up knobs).
//  2. Writing a configurable number of synthetic entities.
//  3. Reading the same kind back and reporting what came out.
//  4. Printing a short end-of-run summary and exposing /metrics if asked.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/runtime"
	"dsconnector/internal/dsconnector/store"
	"dsconnector/pkg/dsconnector"
)

func main() {
	// --- What this is ---
	// This demo writes numEntities synthetic Widget entities through the
	// mutation writer (batching, dedup, retry, throttling all exercised
	// along the way), then reads Widget back through the query planner
	// (size estimation, splitting, pagination). Both sides talk to an
	// in-process LoggingClient, so there's nothing to stand up first.
	//
	// Try it:
	//   go run ./cmd/dsconnector-demo --num_entities=200
	projectID := flag.String("project_id", "demo-project", "Project id to address (opaque for the demo client)")
	numEntities := flag.Int("num_entities", 127, "Number of synthetic entities to write")
	entitySizeBytes := flag.Int("entity_size_bytes", 1024, "Approximate serialized size per entity")
	hintNumWorkers := flag.Int("hint_num_workers", 1, "Ramp-up throttle worker hint (N in budget(s) = max(1, floor(500 * 1.5^(s/300) / N)))")
	disableRampup := flag.Bool("disable_rampup", false, "Disable the ramp-up throttle for the write pass (enabled by default per §6)")
	metricsAddr := flag.String("metrics_addr", "", "If non-empty, expose Prometheus /metrics on this address (e.g., :9090)")
	flag.Parse()

	cfg := dsconnector.Config{
		ProjectID:      *projectID,
		HintNumWorkers: *hintNumWorkers,
		DisableRampup:  *disableRampup,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			fmt.Printf("Prometheus metrics listening on %s\n", *metricsAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	client := store.NewLoggingClient()
	ctx := context.Background()

	fmt.Printf("Writing %d entities (~%d bytes each) to project %s...\n", *numEntities, *entitySizeBytes, *projectID)
	numWrites, numCommits := runWritePass(ctx, client, cfg, *numEntities, *entitySizeBytes)
	fmt.Printf("Write pass complete: %d entities across %d commits.\n", numWrites, numCommits)

	fmt.Println("Reading Widget back...")
	numRead := runReadPass(ctx, client, cfg)
	fmt.Printf("Read pass complete: %d entities returned.\n", numRead)

	select {
	case <-stop:
		fmt.Println("\nShutting down on signal.")
	default:
	}
	fmt.Println("Demo finished.")
}

func runWritePass(ctx context.Context, client store.Client, cfg dsconnector.Config, numEntities, entitySizeBytes int) (numWrites, numCommits int) {
	ws := dsconnector.NewWorkerState()
	writer := ws.NewWriter(client, cfg, time.Now())
	engine := dsconnector.NewWriteEngine(writer)

	for i := 0; i < numEntities; i++ {
		e := model.Entity{
			Key: model.Key{
				Partition: cfg.Partition(),
				Path:      []model.PathElement{{Kind: "Widget", Id: int64(i + 1)}},
			},
			SerializedSize: entitySizeBytes,
		}
		summaries, err := engine.ProcessElement(ctx, e, runtime.GlobalWindow)
		if err != nil {
			log.Fatalf("writing entity %d: %v", i, err)
		}
		for _, s := range summaries {
			numWrites += s.NumWrites
			numCommits++
		}
	}
	final, err := engine.FinishBundle(ctx)
	if err != nil {
		log.Fatalf("finishing write bundle: %v", err)
	}
	for _, s := range final {
		numWrites += s.NumWrites
		numCommits++
	}
	return numWrites, numCommits
}

func runReadPass(ctx context.Context, client store.Client, cfg dsconnector.Config) int {
	readCfg := dsconnector.ReadConfig{Config: cfg, Query: &model.Query{Kind: "Widget"}}
	splits, err := dsconnector.Plan(ctx, client, readCfg)
	if err != nil {
		log.Fatalf("planning read: %v", err)
	}

	count := 0
	for _, split := range splits {
		err := dsconnector.ReadSplit(ctx, client, readCfg, split, func(model.Entity) error {
			count++
			return nil
		})
		if err != nil {
			log.Fatalf("reading split: %v", err)
		}
	}
	return count
}
