// bulk-writer is a tiny, dependency-free load generator for the mutation
// writer. It reuses one worker's batcher/throttler pair per concurrent
// writer goroutine and reports a one-line throughput summary, mirroring
// the connection-reuse-and-summarize shape of the project's HTTP load
// generator but driving the write path directly instead of issuing HTTP
// requests.
//
// Usage example:
//
//	bulk-writer -project_id=demo -n=5000 -c=8 -entity_size_bytes=2048
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"dsconnector/internal/dsconnector/model"
	dsruntime "dsconnector/internal/dsconnector/runtime"
	"dsconnector/internal/dsconnector/store"
	"dsconnector/pkg/dsconnector"
)

func main() {
	var (
		projectID       = flag.String("project_id", "bulk-writer", "Project id to address")
		kind            = flag.String("kind", "Widget", "Entity kind to write")
		n               = flag.Int("n", 5000, "Total entities to write")
		conc            = flag.Int("c", 8, "Number of concurrent writer goroutines, each with its own worker state")
		entitySizeBytes = flag.Int("entity_size_bytes", 1024, "Approximate serialized size per entity")
		disableRampup   = flag.Bool("disable_rampup", false, "Disable the ramp-up throttle for every writer (enabled by default per §6)")
	)
	flag.Parse()

	if *n <= 0 || *conc <= 0 {
		fmt.Fprintln(os.Stderr, "-n and -c must be > 0")
		os.Exit(2)
	}

	cfg := dsconnector.Config{ProjectID: *projectID, HintNumWorkers: *conc, DisableRampup: *disableRampup}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	client := store.NewLoggingClient()
	ctx := context.Background()
	pipelineStart := time.Now()

	var writes, commits, errs int64
	worker := func(id, count, startID int) {
		ws := dsconnector.NewWorkerState()
		writer := ws.NewWriter(client, cfg, pipelineStart)
		engine := dsconnector.NewWriteEngine(writer)

		for i := 0; i < count; i++ {
			e := model.Entity{
				Key: model.Key{
					Partition: cfg.Partition(),
					Path:      []model.PathElement{{Kind: *kind, Id: int64(startID + i)}},
				},
				SerializedSize: *entitySizeBytes,
			}
			summaries, err := engine.ProcessElement(ctx, e, dsruntime.GlobalWindow)
			if err != nil {
				atomic.AddInt64(&errs, 1)
				return
			}
			for _, s := range summaries {
				atomic.AddInt64(&writes, int64(s.NumWrites))
				atomic.AddInt64(&commits, 1)
			}
		}
		final, err := engine.FinishBundle(ctx)
		if err != nil {
			atomic.AddInt64(&errs, 1)
			return
		}
		for _, s := range final {
			atomic.AddInt64(&writes, int64(s.NumWrites))
			atomic.AddInt64(&commits, 1)
		}
	}

	start := time.Now()
	per := *n / *conc
	rem := *n - per**conc
	var wg sync.WaitGroup
	wg.Add(*conc)
	nextStartID := 1
	for w := 0; w < *conc; w++ {
		count := per
		if w == *conc-1 {
			count += rem
		}
		startID := nextStartID
		nextStartID += count
		go func(id, count, startID int) {
			defer wg.Done()
			worker(id, count, startID)
		}(w, count, startID)
	}
	wg.Wait()
	elapsed := time.Since(start)
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	ops := float64(*n) / elapsed.Seconds()
	fmt.Printf("BulkWriter: n=%d c=%d go=%d writes=%d commits=%d errs=%d Duration=%s Throughput=%.0f entities/s\n",
		*n, *conc, runtime.GOMAXPROCS(0), writes, commits, errs, elapsed.Truncate(time.Millisecond), ops)
}
