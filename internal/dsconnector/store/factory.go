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

package store

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ProductionEndpoint is the Store's default production address (§6); it
// is overridden by Options.Localhost when talking to an emulator.
const ProductionEndpoint = "batch-datastore.googleapis.com:443"

// Options selects and configures a Client for the demo and CLI tooling.
type Options struct {
	// Localhost, if set, overrides ProductionEndpoint (§6 configuration
	// surface): "host:port" of a local emulator.
	Localhost string
	// Invoker is used to build a GRPCClient against the resolved
	// endpoint. The "grpc" adapter requires it: if nil, BuildClient
	// returns an error.
	Invoker Invoker
}

// BuildClient constructs a Client for the named adapter:
//   - "" / "logging": the dependency-free demo/test client (default).
//   - "grpc": dials the resolved Store endpoint and wraps it with the
//     supplied Invoker.
func BuildClient(adapter string, opts Options) (Client, error) {
	switch adapter {
	case "", "logging":
		return NewLoggingClient(), nil
	case "grpc":
		endpoint := ProductionEndpoint
		if opts.Localhost != "" {
			endpoint = opts.Localhost
		}
		dialOpts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
		conn, err := grpc.NewClient(endpoint, dialOpts...)
		if err != nil {
			return nil, fmt.Errorf("dsconnector: dialing store endpoint %s: %w", endpoint, err)
		}
		if opts.Invoker == nil {
			return nil, fmt.Errorf("dsconnector: grpc adapter requires an Invoker wired to the generated Datastore client")
		}
		return NewGRPCClient(conn, opts.Invoker), nil
	default:
		return nil, fmt.Errorf("dsconnector: unknown store adapter %q", adapter)
	}
}
