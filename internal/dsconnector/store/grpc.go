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
	"context"

	"google.golang.org/grpc"
)

// Invoker is the narrow slice of the generated Datastore gRPC client that
// GRPCClient depends on: a single unary RunQuery/Commit call pair. In
// production this is satisfied by the method set of a real generated
// stub constructed over a *grpc.ClientConn; the demo build never
// constructs one, since LoggingClient covers that path.
type Invoker interface {
	RunQuery(ctx context.Context, req RunQueryRequest) (RunQueryResponse, error)
	Commit(ctx context.Context, req CommitRequest) (CommitResponse, error)
}

// GRPCClient adapts a live Store endpoint to Client. It holds the
// *grpc.ClientConn purely for lifecycle ownership (closed alongside the
// per-bundle client, §3 Lifecycles) and delegates the actual RPCs to an
// injected Invoker; LoggingClient is its dependency-free counterpart.
type GRPCClient struct {
	conn    *grpc.ClientConn
	invoker Invoker
}

// NewGRPCClient wraps an established connection and an Invoker (normally
// the generated Datastore client's method set) as a store.Client.
func NewGRPCClient(conn *grpc.ClientConn, invoker Invoker) *GRPCClient {
	return &GRPCClient{conn: conn, invoker: invoker}
}

func (c *GRPCClient) RunQuery(ctx context.Context, req RunQueryRequest) (RunQueryResponse, error) {
	return c.invoker.RunQuery(ctx, req)
}

func (c *GRPCClient) Commit(ctx context.Context, req CommitRequest) (CommitResponse, error) {
	return c.invoker.Commit(ctx, req)
}

// Close releases the underlying connection. Callers that share a conn
// across bundles (a reasonable optimization over §3's "constructed per
// bundle" default) should skip this and close it themselves once.
func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
