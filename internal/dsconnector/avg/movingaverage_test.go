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

package avg

import (
	"testing"
	"time"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMovingAverage_NoSamples_HasValueFalse(t *testing.T) {
	m := New(100*time.Millisecond, 10*time.Millisecond)
	if m.HasValue(base) {
		t.Fatalf("expected HasValue=false with no samples")
	}
	if got := m.Get(base); got != 0 {
		t.Fatalf("expected Get=0 with no samples, got %v", got)
	}
}

func TestMovingAverage_SingleSample(t *testing.T) {
	m := New(100*time.Millisecond, 10*time.Millisecond)
	m.Add(base, 42)
	if !m.HasValue(base) {
		t.Fatalf("expected HasValue=true after one sample")
	}
	if got := m.Get(base); got != 42 {
		t.Fatalf("expected Get=42, got %v", got)
	}
}

func TestMovingAverage_AveragesAcrossBuckets(t *testing.T) {
	m := New(100*time.Millisecond, 10*time.Millisecond)
	m.Add(base, 10)
	m.Add(base.Add(10*time.Millisecond), 20)
	m.Add(base.Add(20*time.Millisecond), 30)
	got := m.Get(base.Add(20 * time.Millisecond))
	if got != 20 {
		t.Fatalf("expected mean 20, got %v", got)
	}
}

func TestMovingAverage_BucketResetsWhenTimeAdvancesPastIt(t *testing.T) {
	// period=30ms, interval=10ms -> 3 buckets; advancing a full period
	// should wrap around and reset the bucket rather than accumulate.
	m := New(30*time.Millisecond, 10*time.Millisecond)
	m.Add(base, 1000)
	later := base.Add(30 * time.Millisecond) // same bucket index mod 3, one period later
	m.Add(later, 1)
	got := m.Get(later)
	if got != 1 {
		t.Fatalf("expected stale bucket to be reset to the new sample (1), got %v", got)
	}
}

func TestMovingAverage_SamplesOutsideWindowAreExcluded(t *testing.T) {
	m := New(30*time.Millisecond, 10*time.Millisecond)
	m.Add(base, 5)
	farFuture := base.Add(10 * time.Second)
	if m.HasValue(farFuture) {
		t.Fatalf("expected stale sample to fall out of the window")
	}
	if got := m.Get(farFuture); got != 0 {
		t.Fatalf("expected Get=0 once the only sample has aged out, got %v", got)
	}
}

func TestMovingAverage_SignificanceThresholds(t *testing.T) {
	m := New(50*time.Millisecond, 10*time.Millisecond).WithSignificance(3, 2)
	m.Add(base, 1)
	m.Add(base, 1)
	if m.HasValue(base) {
		t.Fatalf("expected HasValue=false: only 2 samples in the one touched bucket, need 3")
	}
	m.Add(base, 1)
	if m.HasValue(base) {
		t.Fatalf("expected HasValue=false still: only one bucket meets the per-bucket minimum, need 2 buckets")
	}
	m.Add(base.Add(10*time.Millisecond), 1)
	m.Add(base.Add(10*time.Millisecond), 1)
	m.Add(base.Add(10*time.Millisecond), 1)
	if !m.HasValue(base.Add(10 * time.Millisecond)) {
		t.Fatalf("expected HasValue=true: two buckets now meet the per-bucket minimum of 3")
	}
}
