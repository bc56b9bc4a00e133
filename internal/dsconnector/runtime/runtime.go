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

// Package runtime defines the thin pipeline-runtime contract this module
// depends on (§6 "Pipeline-runtime contract consumed" / §1 "external
// collaborators"): windows and windowed elements. The runtime itself —
// scheduling, the bundle lifecycle, side-input broadcast, counter
// aggregation — lives outside this module; only the shapes it hands to
// and receives from the mutation writer and query planner live here.
package runtime

import "time"

// Window is an opaque pipeline-runtime window identity. The core never
// inspects a Window's contents; it only threads it through from input
// element to output summary (§4.6.1, §3 BatchState).
type Window struct {
	// Label is a runtime-assigned display identity, useful for logging
	// and tests; it carries no semantic meaning to this module.
	Label string
}

// GlobalWindow is the default window used when a runtime does not apply
// windowing (the common case for bounded batch pipelines).
var GlobalWindow = Window{Label: "global"}

// WindowedElement pairs a value with the window it arrived in, the shape
// of the mutation writer's input stream (§4.6.1 "stream of mutations
// tagged with the window they originated in"). The query planner's read
// path emits plain entities and does not use it.
type WindowedElement[T any] struct {
	Value  T
	Window Window
}

// Clock abstracts time.Now so tests can inject a deterministic instant;
// production code always uses RealClock.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
