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
	"time"

	"github.com/cenkalti/backoff/v4"

	"dsconnector/internal/dsconnector/errs"
)

const (
	// readRetryInitialInterval and readMaxRetries implement §4.5.6:
	// exponential backoff, initial 5s, up to 5 retries.
	readRetryInitialInterval = 5 * time.Second
	readMaxRetries           = 5
)

// withReadRetry runs op with exponential backoff, retrying any error
// whose gRPC code is not in the non-retryable set. Non-retryable errors
// propagate on the first attempt.
func withReadRetry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = readRetryInitialInterval

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if errs.IsNonRetryable(errs.StatusCode(err)) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, readMaxRetries), ctx))
}
