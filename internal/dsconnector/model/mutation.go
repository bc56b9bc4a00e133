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

import "dsconnector/internal/dsconnector/errs"

// MutationOp tags a Mutation as one of the Store's four operation kinds.
// The connector only ever constructs Upsert and Delete (the two
// idempotent kinds); Insert and Update exist so the type is a faithful
// mirror of the wire contract, but nothing in this module emits them.
type MutationOp int

const (
	MutationUpsert MutationOp = iota
	MutationInsert
	MutationUpdate
	MutationDelete
)

func (op MutationOp) String() string {
	switch op {
	case MutationUpsert:
		return "upsert"
	case MutationInsert:
		return "insert"
	case MutationUpdate:
		return "update"
	case MutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Mutation is a single tagged write or delete destined for a Commit
// request. Entity is populated for Upsert/Insert/Update; Key is populated
// for Delete. Every Mutation carries or references a complete key —
// constructing one from an incomplete key fails eagerly (see NewUpsert,
// NewDeleteKey, NewDeleteEntity) rather than being discovered at commit
// time.
type Mutation struct {
	Op     MutationOp
	Entity Entity // valid when Op != MutationDelete
	Key    Key    // valid always: the key being written or deleted

	// SerializedSize is the mutation's approximate size on the wire,
	// used by the batcher for the byte ceiling in §3/§4.6.2.
	SerializedSize int
}

// NewUpsert builds an idempotent upsert mutation from an entity. It
// fails if the entity's key is incomplete, per the invariant in §3 and
// §8 ("constructing a mutation from an incomplete key fails with a
// configuration error before any RPC").
func NewUpsert(e Entity) (Mutation, error) {
	if !e.Key.Complete() {
		return Mutation{}, errs.NewConfigError("cannot upsert entity with incomplete key %v", e.Key)
	}
	return Mutation{
		Op:             MutationUpsert,
		Entity:         e,
		Key:            e.Key,
		SerializedSize: e.SerializedSize,
	}, nil
}

// NewDeleteKey builds a delete mutation directly from a key.
func NewDeleteKey(k Key) (Mutation, error) {
	if !k.Complete() {
		return Mutation{}, errs.NewConfigError("cannot delete incomplete key %v", k)
	}
	return Mutation{
		Op:  MutationDelete,
		Key: k,
		// Deletes carry no entity payload; the wire size is dominated by
		// the key itself. A conservative estimate from the key's string
		// lengths plus fixed per-element and framing overheads avoids
		// having to re-encode the key just to learn its size.
		SerializedSize: estimateKeySize(k),
	}, nil
}

// NewDeleteEntity builds a delete mutation from an entity, deleting only
// its key.
func NewDeleteEntity(e Entity) (Mutation, error) {
	return NewDeleteKey(e.Key)
}

func estimateKeySize(k Key) int {
	size := len(k.Partition.ProjectID) + len(k.Partition.DatabaseID) + len(k.Partition.Namespace)
	for _, p := range k.Path {
		size += len(p.Kind) + len(p.Name) + 8 // +8 for the id varint upper bound
	}
	return size + 16 // fixed proto framing overhead
}
