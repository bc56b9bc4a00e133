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
	"math"

	"dsconnector/internal/dsconnector/model"
	"dsconnector/internal/dsconnector/store"
)

const (
	// bytesPerSplit is the target shard size used to derive a dynamic
	// split count from the estimated dataset size (§4.5.3).
	bytesPerSplit = 64 * 1024 * 1024 // 64 MiB

	// MinSplitCount and MaxSplitCount clamp the dynamic split count;
	// MaxSplitCount also caps the user-supplied one (§4.5.3).
	MinSplitCount = 12
	MaxSplitCount = 50000

	// fallbackSplitCount is used when estimation fails for any reason.
	fallbackSplitCount = 12
)

// ChooseSplitCount selects the number of sub-queries to fan a splittable
// query into (§4.5.3). If the caller set numQuerySplits > 0, it is used
// verbatim, capped at MaxSplitCount. Otherwise the count is derived from
// the Store's statistics for kind within partition, falling back to
// fallbackSplitCount on any estimation error.
func ChooseSplitCount(ctx context.Context, c store.Client, partition model.Partition, kind string, numQuerySplits int) int {
	if numQuerySplits > 0 {
		if numQuerySplits > MaxSplitCount {
			return MaxSplitCount
		}
		return numQuerySplits
	}

	size, err := EstimateSize(ctx, c, partition, kind)
	if err != nil {
		return fallbackSplitCount
	}

	n := int(math.Round(float64(size) / float64(bytesPerSplit)))
	if n < MinSplitCount {
		n = MinSplitCount
	}
	if n > MaxSplitCount {
		n = MaxSplitCount
	}
	return n
}
