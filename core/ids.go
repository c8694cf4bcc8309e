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


package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// runIDLength is the number of hex characters kept from the generated UUID.
const runIDLength = 12

// NewRunID generates a short random identifier that keys a single
// pipeline run and all of its artifacts and lineage rows.
func NewRunID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:runIDLength]
}

// ContentHash returns the first 16 hex characters of the SHA-256 digest
// of text. It is a pure function of the text and is used for chunk
// deduplication.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:16]
}
