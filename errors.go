// Copyright 2024 The Cockroach Authors
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

package doublekey

import "github.com/cockroachdb/errors"

var (
	// ErrNotFound is returned, wrapped, by lookups and deletions of an absent
	// key pair.
	ErrNotFound = errors.New("key not found")
	// ErrTableFull is returned, wrapped, by Set when there is no free slot
	// for a new entry and the size schedule it needs is exhausted.
	ErrTableFull = errors.New("table full")
)
