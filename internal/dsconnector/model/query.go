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

// FilterOp is the comparison operator of a single property filter.
type FilterOp int

const (
	FilterEqual FilterOp = iota
	FilterLessThan
	FilterLessThanOrEqual
	FilterGreaterThan
	FilterGreaterThanOrEqual
)

// Filter is one property comparison in a composite (AND-only) filter.
type Filter struct {
	Property string
	Op       FilterOp
	Value    Value
}

// Inequality reports whether this filter is an inequality (everything but
// equality), which is what §3 means by a query's "inequality" property.
func (f Filter) Inequality() bool {
	return f.Op != FilterEqual
}

// SortDirection is the direction of a PropertyOrder.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// PropertyOrder is a single sort key.
type PropertyOrder struct {
	Property  string
	Direction SortDirection
}

// Query is a structured query over exactly one Kind, with an optional
// composite filter, optional ordering, an optional positive user Limit,
// and optional pagination cursors.
type Query struct {
	Kind    string
	Filters []Filter
	Order   []PropertyOrder

	// Limit is the user-set result cap, or nil if the caller did not set
	// one. A non-nil Limit makes the query unsplittable (§3) and bounds
	// the paginated read loop (§4.5.5).
	Limit *int32

	StartCursor []byte
	EndCursor   []byte

	// Offset skips this many results before the first one returned.
	// Only meaningful on the first page of a query; the planner never
	// sets it itself.
	Offset int32
}

// Clone returns a deep-enough copy for the planner to mutate (limit,
// cursors) without aliasing the caller's query.
func (q Query) Clone() Query {
	c := q
	c.Filters = append([]Filter(nil), q.Filters...)
	c.Order = append([]PropertyOrder(nil), q.Order...)
	if q.Limit != nil {
		l := *q.Limit
		c.Limit = &l
	}
	c.StartCursor = append([]byte(nil), q.StartCursor...)
	c.EndCursor = append([]byte(nil), q.EndCursor...)
	return c
}

// HasUserLimit reports whether the caller set a result limit.
func (q Query) HasUserLimit() bool {
	return q.Limit != nil
}

// HasInequality reports whether any filter is an inequality comparison.
func (q Query) HasInequality() bool {
	for _, f := range q.Filters {
		if f.Inequality() {
			return true
		}
	}
	return false
}

// Splittable reports whether the query may be fanned out into parallel
// sub-queries: per §3, a query with a user limit or an inequality filter
// is not splittable.
func (q Query) Splittable() bool {
	return !q.HasUserLimit() && !q.HasInequality()
}

// EqFilter is a small constructor convenience used by the query planner
// when building statistics lookups (§4.5.2) and split-range queries.
func EqFilter(property string, v Value) Filter {
	return Filter{Property: property, Op: FilterEqual, Value: v}
}
