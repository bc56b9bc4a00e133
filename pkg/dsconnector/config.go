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

// Package dsconnector is the public surface of the connector: a
// configuration-driven pair of Read and Write entry points built on the
// internal query planner and mutation writer. It is the thin layer
// everything in internal/dsconnector/ is an "external collaborator" to
// from the perspective of SPEC_FULL.md §1.
package dsconnector

import (
	"time"

	"dsconnector/internal/dsconnector/errs"
	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/store"
)

// ProductionEndpoint re-exports the Store's default production address.
const ProductionEndpoint = store.ProductionEndpoint

// Config is the configuration surface an embedding pipeline supplies
// (§6). ProjectID is the only required field; DatabaseID and Namespace
// default to the Store's default database and namespace.
type Config struct {
	ProjectID   string
	DatabaseID  string
	Namespace   string
	Localhost   string
	Credentials Credentials

	// HintNumWorkers and DisableRampup configure the ramp-up throttle
	// (§4.4, §6: "throttleRampup: bool (default true)"). The throttle is
	// enabled by default, so the field is expressed as an opt-out — a
	// caller who leaves it at its bool zero value gets the spec's default
	// of ramp-up enabled, rather than silently disabling a core
	// throttling component. HintNumWorkers defaults to
	// throttle.DefaultHintNumWorkers when <= 0.
	HintNumWorkers int
	DisableRampup  bool
}

// Validate surfaces configuration errors synchronously, before any RPC
// is attempted (§7 "Configuration ... surfaced synchronously at
// pipeline construction").
func (c Config) Validate() error {
	if c.ProjectID == "" {
		return errs.NewConfigError("projectId is required")
	}
	return nil
}

// Partition derives the Store partition this config addresses.
func (c Config) Partition() model.Partition {
	return model.Partition{ProjectID: c.ProjectID, DatabaseID: c.DatabaseID, Namespace: c.Namespace}
}

// Endpoint resolves the Store address this config should dial: the
// emulator override if set, else the production endpoint.
func (c Config) Endpoint() string {
	if c.Localhost != "" {
		return c.Localhost
	}
	return ProductionEndpoint
}

// ReadConfig is the Read-specific configuration surface (§6): exactly
// one of Query or GQLQuery must be set.
type ReadConfig struct {
	Config

	Query          *model.Query
	GQLQuery       string
	NumQuerySplits int
	ReadTime       *time.Time
}

// Validate checks the Read-specific invariants in addition to Config's.
func (c ReadConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.Query == nil && c.GQLQuery == "" {
		return errs.NewConfigError("exactly one of Query or GQLQuery must be set")
	}
	if c.Query != nil && c.GQLQuery != "" {
		return errs.NewConfigError("exactly one of Query or GQLQuery must be set, not both")
	}
	if c.NumQuerySplits < 0 || c.NumQuerySplits > 50000 {
		return errs.NewConfigError("numQuerySplits must be in [0, 50000], got %d", c.NumQuerySplits)
	}
	if c.Query != nil && c.Query.HasUserLimit() && *c.Query.Limit <= 0 {
		return errs.NewConfigError("query limit must be positive, got %d", *c.Query.Limit)
	}
	return nil
}
