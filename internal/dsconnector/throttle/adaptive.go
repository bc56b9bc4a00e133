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

// Package throttle implements the two client-side load-shaping
// components: the adaptive throttler (C2), which probabilistically sheds
// load in response to a rising server error rate, and the ramp-up
// throttle (C4), which caps the cluster-wide request rate during
// pipeline warm-up.
package throttle

import (
	"math/rand"
	"time"

	"dsconnector/internal/dsconnector/avg"
)

const (
	// adaptiveWindow and adaptiveInterval are the moving-average
	// parameters for the request/success signals (§4.2).
	adaptiveWindow   = 120 * time.Second
	adaptiveInterval = 10 * time.Second

	// overloadFactor K: throttleRequest's p stays 0 as long as requests
	// do not exceed K times the successes.
	overloadFactor = 1.25
)

// Adaptive is the client-side adaptive throttler (C2). It is constructed
// once per worker and injected into the mutation writer (Design Notes
// §9: no lazily-initialized global throttler state).
type Adaptive struct {
	requests  *avg.MovingAverage
	successes *avg.MovingAverage
	rand      *rand.Rand
}

// NewAdaptive constructs an Adaptive throttler with the component's
// default window and bucket granularity.
func NewAdaptive() *Adaptive {
	return &Adaptive{
		requests:  avg.New(adaptiveWindow, adaptiveInterval),
		successes: avg.New(adaptiveWindow, adaptiveInterval),
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ThrottleRequest decides, at time t, whether the caller should skip this
// attempt. Every call — whether it returns true or false — counts as a
// request toward R (§4.2: "R is incremented at every decision point").
// A true return means the caller must sleep and retry later rather than
// attempt the RPC.
func (a *Adaptive) ThrottleRequest(t time.Time) bool {
	r := a.requests.Sum(t)
	s := a.successes.Sum(t)
	a.requests.Add(t, 1)

	p := (r - overloadFactor*s) / (r + 1)
	if p < 0 {
		p = 0
	}
	return a.rand.Float64() < p
}

// SuccessfulRequest records a successful (OK-status) commit at time t.
func (a *Adaptive) SuccessfulRequest(t time.Time) {
	a.successes.Add(t, 1)
}
