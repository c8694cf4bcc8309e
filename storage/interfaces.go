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

import "context"

// Backend stores pipeline artifacts under URI-like relative paths.
// Implementations must be thread-safe and support concurrent access.
type Backend interface {
	// ListFiles enumerates file paths under prefix whose extension is
	// in extensions (case-insensitive, with leading dot). An empty
	// extensions list matches everything.
	ListFiles(ctx context.Context, prefix string, extensions []string) ([]string, error)

	// DownloadToTemp makes the file at path available on the local
	// filesystem and returns its local path.
	// Returns ErrNotFound if the file doesn't exist.
	DownloadToTemp(ctx context.Context, path string) (string, error)

	// UploadText writes text as a UTF-8 file at path, creating parent
	// directories as needed, and returns the canonical URI of the
	// stored file. For remote backends the URI may differ from path.
	UploadText(ctx context.Context, path, text string) (string, error)

	// UploadJSON marshals v as indented JSON, writes it at path, and
	// returns the canonical URI of the stored file.
	UploadJSON(ctx context.Context, path string, v any) (string, error)

	// FileExists reports whether a file exists at path.
	FileExists(ctx context.Context, path string) (bool, error)
}
