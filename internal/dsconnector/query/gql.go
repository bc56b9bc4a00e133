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

package query

import (
	"context"
	"fmt"

	"dsconnector/internal/dsconnector/errs"
	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/store"
	"google.golang.org/grpc/codes"
)

// TranslateGQL turns a textual GQL query into the structured query the
// server translates it to (§4.5.1). It appends "LIMIT 0" to the text so
// the RunQuery call returns without scanning any results; if the server
// rejects that with INVALID_ARGUMENT (read as "the query already has a
// limit"), it retries once without the suffix and uses that response.
// Any other error code propagates.
func TranslateGQL(ctx context.Context, c store.Client, partition model.Partition, gql string) (*model.Query, error) {
	q, err := runGQL(ctx, c, partition, gql+" LIMIT 0")
	if err == nil {
		return q, nil
	}

	rpcErr := errs.NewRPCError(err)
	if rpcErr.Code != codes.InvalidArgument {
		return nil, err
	}

	q, err = runGQL(ctx, c, partition, gql)
	if err != nil {
		return nil, fmt.Errorf("dsconnector: gql translation retry without LIMIT 0: %w", err)
	}
	return q, nil
}

func runGQL(ctx context.Context, c store.Client, partition model.Partition, gql string) (*model.Query, error) {
	resp, err := c.RunQuery(ctx, store.RunQueryRequest{Partition: partition, GQLQuery: gql})
	if err != nil {
		return nil, err
	}
	if resp.EchoedQuery == nil {
		return nil, fmt.Errorf("dsconnector: server did not echo a structured query for gql %q", gql)
	}
	return resp.EchoedQuery, nil
}
