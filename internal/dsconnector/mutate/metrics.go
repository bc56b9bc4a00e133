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

package mutate

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Per-RPC instrumentation (§4.6.4): counters for successes/errors/entities
// mutated, distributions for batch size and per-mutation latency, and a
// counter for time spent sleeping under the adaptive throttler.
var (
	rpcSuccesses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dsconnector_commit_rpc_successes_total",
		Help: "Total number of successful Commit RPCs.",
	})
	rpcErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dsconnector_commit_rpc_errors_total",
		Help: "Total number of failed Commit RPCs, labeled by gRPC status code.",
	}, []string{"code"})
	entitiesMutated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dsconnector_entities_mutated_total",
		Help: "Total number of entities included in successful Commit RPCs.",
	})
	batchSizeDist = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dsconnector_commit_batch_size",
		Help:    "Distribution of mutation counts per Commit RPC.",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 200, 500},
	})
	latencyMsPerMutationDist = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dsconnector_commit_latency_ms_per_mutation",
		Help:    "Distribution of observed Commit RPC latency divided by batch size.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14),
	})
	throttlingMsecs = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dsconnector_throttling_msecs_total",
		Help: "Total milliseconds spent sleeping under the adaptive throttler.",
	})
)

func init() {
	prometheus.MustRegister(rpcSuccesses, rpcErrors, entitiesMutated, batchSizeDist, latencyMsPerMutationDist, throttlingMsecs)
}
