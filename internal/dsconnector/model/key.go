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

// Package model defines the wire-level data shapes shared by the query
// planner and the mutation writer: keys, entities, queries and mutations.
// The connector never synthesizes keys or entity contents; it only
// validates and forwards them.
package model

import "fmt"

// PathElement is one segment of a Key's path. A segment is identified by a
// kind name plus either a non-zero Id or a non-empty Name; exactly one of
// the two should be populated for a complete segment.
type PathElement struct {
	Kind string
	Id   int64
	Name string
}

// Complete reports whether this path element carries an id or a name.
func (p PathElement) Complete() bool {
	return p.Id != 0 || p.Name != ""
}

func (p PathElement) String() string {
	if p.Id != 0 {
		return fmt.Sprintf("%s,%d", p.Kind, p.Id)
	}
	if p.Name != "" {
		return fmt.Sprintf("%s,%q", p.Kind, p.Name)
	}
	return fmt.Sprintf("%s,(incomplete)", p.Kind)
}

// Key is an ordered ancestry path of PathElements plus the Partition it is
// scoped to. The last element is the key's own kind/id-or-name; everything
// before it is the ancestor chain.
type Key struct {
	Partition Partition
	Path      []PathElement
}

// Complete reports whether the key's leaf path element has an id or name.
// The connector refuses to queue a mutation for an incomplete key.
func (k Key) Complete() bool {
	if len(k.Path) == 0 {
		return false
	}
	return k.Path[len(k.Path)-1].Complete()
}

// Kind returns the kind name of the key's leaf path element, or "" if the
// key has no path.
func (k Key) Kind() string {
	if len(k.Path) == 0 {
		return ""
	}
	return k.Path[len(k.Path)-1].Kind
}

// Encode produces a stable string identity for the key, suitable for use as
// a map key in per-batch dedup (§4.6.2) and in test doubles that index
// stored entities by key. Two keys with equal partitions and equal path
// elements encode equal.
func (k Key) Encode() string {
	s := k.Partition.String()
	for _, p := range k.Path {
		s += "/" + p.String()
	}
	return s
}

// Partition addresses a (project, database, namespace) triple. An empty
// Namespace denotes the default namespace and, per the wire contract in
// SPEC_FULL.md §3, must be left unset rather than sent as "".
type Partition struct {
	ProjectID  string
	DatabaseID string
	Namespace  string
}

func (p Partition) String() string {
	ns := p.Namespace
	if ns == "" {
		ns = "(default)"
	}
	return fmt.Sprintf("%s/%s/%s", p.ProjectID, p.DatabaseID, ns)
}

// HasNamespace reports whether the namespace field should be sent on the
// wire. Kept as a named predicate rather than an inline `!= ""` check at
// each call site, since the wire-unset behavior is an explicit invariant.
func (p Partition) HasNamespace() bool {
	return p.Namespace != ""
}
