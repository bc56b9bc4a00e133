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

package model

// Value is an opaque property value. The connector treats entity
// properties as opaque payload; it never interprets them except for the
// few well-known statistics properties read by the query planner
// (timestamp, kind_name, entity_bytes — see estimate.go).
type Value struct {
	// Int is populated for integer-valued properties (e.g. statistics rows).
	Int int64
	// Str is populated for string-valued properties (e.g. kind_name).
	Str string
	// Raw holds the property in whatever form the Store client decoded it,
	// for properties the connector does not need to interpret.
	Raw any
}

// Entity is an opaque record identified by a Key, plus an approximate
// wire size used for batching decisions (§3 Invariants, §4.6.2).
type Entity struct {
	Key        Key
	Properties map[string]Value
	// SerializedSize is the entity's size in bytes as it would appear on
	// the wire inside a Mutation. Callers (the public Write/Delete
	// transforms) are expected to have computed this already; the core
	// never re-serializes an entity to learn its size.
	SerializedSize int
}
