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

package throttle

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// rampupBase and rampupDoublingPeriod parameterize budget(s) = max(1,
	// floor(rampupBase * 1.5^(s/rampupDoublingPeriod) / N)) from §4.4:
	// the per-worker allowance grows 1.5x every 5 minutes.
	rampupBase           = 500
	rampupDoublingPeriod = 300 * time.Second
	rampupGrowthFactor   = 1.5

	// DefaultHintNumWorkers is used when the caller does not supply one.
	DefaultHintNumWorkers = 500
)

// Rampup caps the per-worker request rate during pipeline warm-up (C4).
// Per Design Notes §9, the pipeline-start instant is an explicit
// constructor parameter rather than a broadcast side value, so the
// throttle has no hidden dependency on the runtime's side-input plumbing.
type Rampup struct {
	start          time.Time
	hintNumWorkers int

	mu          sync.Mutex
	limiter     *rate.Limiter
	lastBudget  int64
	lastSecond  int64
}

// NewRampup constructs a ramp-up throttle anchored at start (the
// pipeline-run start instant, shared by every worker) for a cluster of
// hintNumWorkers workers. If hintNumWorkers <= 0, DefaultHintNumWorkers
// is used.
func NewRampup(start time.Time, hintNumWorkers int) *Rampup {
	if hintNumWorkers <= 0 {
		hintNumWorkers = DefaultHintNumWorkers
	}
	r := &Rampup{
		start:          start,
		hintNumWorkers: hintNumWorkers,
		lastSecond:     -1,
	}
	initial := budget(0, hintNumWorkers)
	r.lastBudget = initial
	r.limiter = rate.NewLimiter(rate.Limit(initial), int(initial))
	return r
}

// budget computes the per-worker allowance at wall-clock second s since
// pipeline start, for a cluster hinted at n workers (§4.4).
func budget(s float64, n int) int64 {
	if n <= 0 {
		n = DefaultHintNumWorkers
	}
	v := int64(math.Floor(rampupBase * math.Pow(rampupGrowthFactor, s/rampupDoublingPeriod.Seconds()) / float64(n)))
	if v < 1 {
		v = 1
	}
	return v
}

// Budget returns the current per-worker allowance at time t, for display
// metadata and tests.
func (r *Rampup) Budget(t time.Time) int64 {
	return budget(t.Sub(r.start).Seconds(), r.hintNumWorkers)
}

// refresh recomputes the limiter's rate once per wall-clock second, since
// budget(s) only changes at second granularity.
func (r *Rampup) refresh(t time.Time) {
	sec := int64(t.Sub(r.start).Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()
	if sec == r.lastSecond {
		return
	}
	r.lastSecond = sec
	b := budget(float64(sec), r.hintNumWorkers)
	if b == r.lastBudget {
		return
	}
	r.lastBudget = b
	r.limiter.SetLimitAt(t, rate.Limit(b))
	r.limiter.SetBurstAt(t, int(b))
}

// Admit blocks until the caller may send one more mutation, honoring the
// current per-worker budget, or returns ctx's error if it is canceled
// first. The limiter smooths admission within the second rather than
// releasing the whole budget at the boundary and then blocking — an
// equivalent reading of "admit up to budget(s) per second" that avoids
// bursty backend load (Design Notes §9: the exact numerics at second
// granularity are implementation-defined, only the monotone shape and
// per-worker division are the contract).
func (r *Rampup) Admit(ctx context.Context) error {
	r.refresh(time.Now())
	return r.limiter.Wait(ctx)
}
