// Copyright 2025 Poiesic Systems
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

package storage

import "errors"

// Storage-layer sentinel errors. State errors the rest of the module
// also needs to recognize (tree not built, index not found, truncated
// data) live in core's error set instead, so callers outside this
// package don't have to import storage just to compare against them.
var (
	// ErrStorageClosed indicates an operation was attempted on a store
	// whose Close method has already run.
	ErrStorageClosed = errors.New("storage: store is closed")

	// ErrUnsupportedFormat indicates the decoded node records do not
	// form a tree: more than one node has no parent, or a node names a
	// parent that is missing.
	ErrUnsupportedFormat = errors.New("storage: unsupported or corrupt node file")

	// ErrSerializationFailed wraps a lower-level encode/decode failure
	// that isn't itself one of core's sentinels.
	ErrSerializationFailed = errors.New("storage: serialization failed")
)
