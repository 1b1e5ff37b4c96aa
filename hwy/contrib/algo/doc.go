// Copyright 2025 go-highway Authors
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

// Package algo provides the tile-wise block primitives the sampling
// engine sweeps a row with: inclusive prefix sums (fast and
// fixed-tree-deterministic variants), predicate find/count, and
// elementwise Apply. None of them materialize a sorted copy of the row;
// each is a single pass expressed in terms of hwy.Vec tiles.
package algo
