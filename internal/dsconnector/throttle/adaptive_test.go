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
	"testing"
	"time"
)

func TestAdaptive_NoHistory_NeverThrottles(t *testing.T) {
	a := NewAdaptive()
	now := time.Now()
	for i := 0; i < 50; i++ {
		if a.ThrottleRequest(now) {
			t.Fatalf("expected no throttling with R=S=0 on the first decisions")
		}
		a.SuccessfulRequest(now)
	}
}

func TestAdaptive_SustainedFailures_DrivesThrottlingUp(t *testing.T) {
	a := NewAdaptive()
	now := time.Now()
	throttled := 0
	const n = 2000
	for i := 0; i < n; i++ {
		// Every attempt fails: never call SuccessfulRequest.
		if a.ThrottleRequest(now) {
			throttled++
		}
	}
	if throttled == 0 {
		t.Fatalf("expected sustained failures to eventually throttle some requests")
	}
}

func TestAdaptive_SustainedSuccesses_NeverThrottles(t *testing.T) {
	a := NewAdaptive()
	now := time.Now()
	const n = 2000
	for i := 0; i < n; i++ {
		if a.ThrottleRequest(now) {
			t.Fatalf("expected sustained successes to keep p at 0 (iteration %d)", i)
		}
		a.SuccessfulRequest(now)
	}
}
