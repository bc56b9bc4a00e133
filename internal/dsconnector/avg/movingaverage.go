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

// Package avg provides a time-windowed moving average of a scalar signal.
// It is the bottom component (C1) that the adaptive throttler and the
// write batcher both build on: the throttler tracks request/success
// counts over a window, and the batcher tracks observed RPC latency.
package avg

import (
	"sync"
	"time"
)

const (
	// DefaultSamplePeriod is the total window averaged over.
	DefaultSamplePeriod = 120 * time.Second
	// DefaultSampleInterval is the width of one bucket within the window.
	DefaultSampleInterval = 10 * time.Second

	// DefaultNumSignificantSamples is the minimum sample count a bucket
	// needs to count toward HasValue.
	DefaultNumSignificantSamples = 1
	// DefaultNumSignificantBuckets is the minimum number of buckets that
	// must meet DefaultNumSignificantSamples for HasValue to be true.
	DefaultNumSignificantBuckets = 1
)

type bucket struct {
	sum   float64
	count int64
	// index is the absolute bucket index (t/intervalMs) this bucket was
	// last written for. A bucket whose index is stale relative to the
	// caller's current time is treated as empty and reset on next write.
	index int64
	valid bool
}

// MovingAverage is a rolling mean of value(t) over a fixed-width window,
// subdivided into fixed-width buckets (§4.1). It is safe for concurrent
// use, though within this connector callers only ever touch it from a
// single bundle's processing goroutine (§5).
type MovingAverage struct {
	mu sync.Mutex

	intervalMs int64
	numBuckets int64

	numSignificantSamples int64
	numSignificantBuckets int64

	buckets []bucket
}

// New constructs a MovingAverage with the given period/interval. Both the
// adaptive throttler and the write batcher use the component's defaults
// (120s / 10s); this constructor exists so tests can exercise small
// windows without sleeping.
func New(samplePeriod, sampleInterval time.Duration) *MovingAverage {
	if sampleInterval <= 0 {
		sampleInterval = DefaultSampleInterval
	}
	if samplePeriod <= 0 {
		samplePeriod = DefaultSamplePeriod
	}
	n := int64(samplePeriod / sampleInterval)
	if n < 1 {
		n = 1
	}
	return &MovingAverage{
		intervalMs:            sampleInterval.Milliseconds(),
		numBuckets:            n,
		numSignificantSamples: DefaultNumSignificantSamples,
		numSignificantBuckets: DefaultNumSignificantBuckets,
		buckets:               make([]bucket, n),
	}
}

// NewDefault constructs a MovingAverage with the component's default
// 120s/10s period and interval.
func NewDefault() *MovingAverage {
	return New(DefaultSamplePeriod, DefaultSampleInterval)
}

// WithSignificance overrides the minimum-samples/minimum-buckets
// thresholds used by HasValue. Returns the receiver for chaining.
func (m *MovingAverage) WithSignificance(numSignificantSamples, numSignificantBuckets int64) *MovingAverage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if numSignificantSamples > 0 {
		m.numSignificantSamples = numSignificantSamples
	}
	if numSignificantBuckets > 0 {
		m.numSignificantBuckets = numSignificantBuckets
	}
	return m
}

func (m *MovingAverage) bucketIndex(t time.Time) int64 {
	return t.UnixMilli() / m.intervalMs
}

// Add records one sample of v at time t.
func (m *MovingAverage) Add(t time.Time, v float64) {
	idx := m.bucketIndex(t)
	slot := &m.buckets[idx%m.numBuckets]

	m.mu.Lock()
	defer m.mu.Unlock()
	if !slot.valid || slot.index != idx {
		// t has advanced past the end of this bucket (or it was never
		// written): reset before accumulating, per §4.1.
		slot.sum, slot.count, slot.index, slot.valid = 0, 0, idx, true
	}
	slot.sum += v
	slot.count++
}

// inWindow reports whether bucket index idx falls within the current
// period ending at bucket index nowIdx.
func (m *MovingAverage) inWindow(idx, nowIdx int64) bool {
	return nowIdx-idx >= 0 && nowIdx-idx < m.numBuckets
}

// Get returns the arithmetic mean over all valid, in-window buckets. The
// caller must check HasValue first; Get returns 0 on insufficient data.
func (m *MovingAverage) Get(t time.Time) float64 {
	nowIdx := m.bucketIndex(t)

	m.mu.Lock()
	defer m.mu.Unlock()

	var sum float64
	var count int64
	for i := range m.buckets {
		b := &m.buckets[i]
		if b.valid && m.inWindow(b.index, nowIdx) {
			sum += b.sum
			count += b.count
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Sum returns the total of all samples recorded within the current
// window ending at t. Counters built on top of MovingAverage (the
// adaptive throttler's request/success tallies, §4.2) want the raw total
// rather than Get's per-sample mean; Sum gives them that without a
// separate data structure.
func (m *MovingAverage) Sum(t time.Time) float64 {
	nowIdx := m.bucketIndex(t)

	m.mu.Lock()
	defer m.mu.Unlock()

	var sum float64
	for i := range m.buckets {
		b := &m.buckets[i]
		if b.valid && m.inWindow(b.index, nowIdx) {
			sum += b.sum
		}
	}
	return sum
}

// HasValue reports whether enough samples have landed within the window
// to trust Get's result (§4.1): at least numSignificantBuckets buckets
// each holding at least numSignificantSamples samples.
func (m *MovingAverage) HasValue(t time.Time) bool {
	nowIdx := m.bucketIndex(t)

	m.mu.Lock()
	defer m.mu.Unlock()

	var significant int64
	for i := range m.buckets {
		b := &m.buckets[i]
		if b.valid && m.inWindow(b.index, nowIdx) && b.count >= m.numSignificantSamples {
			significant++
		}
	}
	return significant >= m.numSignificantBuckets
}
