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

// Package local implements the artifact backend on a local directory
// tree. Paths passed to the backend are interpreted relative to its
// root, and downloads short-circuit to the existing on-disk file.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/diwan/storage"
)

// Backend stores artifacts under a root directory.
type Backend struct {
	root string
}

var _ storage.Backend = (*Backend)(nil)

// New creates a backend rooted at root, creating the directory if it
// doesn't exist.
func New(root string) (*Backend, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &Backend{root: root}, nil
}

// Root returns the backend's root directory.
func (b *Backend) Root() string {
	return b.root
}

func (b *Backend) resolve(path string) string {
	return filepath.Join(b.root, filepath.FromSlash(path))
}

// ListFiles walks prefix under the root and returns relative paths
// with matching extensions, sorted.
func (b *Backend) ListFiles(ctx context.Context, prefix string, extensions []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	start := b.resolve(prefix)
	info, err := os.Stat(start)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, prefix)
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{prefix}, nil
	}

	var files []string
	err = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if len(allowed) > 0 && !allowed[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(b.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// DownloadToTemp returns the absolute on-disk path of an existing
// file. No copy is made since the file is already local.
func (b *Backend) DownloadToTemp(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full := b.resolve(path)
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", storage.ErrNotFound, path)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", storage.ErrNotFound, path)
	}
	return full, nil
}

// UploadText writes text at path, creating parent directories. The
// relative path is the canonical URI for a local backend.
func (b *Backend) UploadText(ctx context.Context, path, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full := b.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, []byte(text), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// UploadJSON writes v as indented JSON at path.
func (b *Backend) UploadJSON(ctx context.Context, path string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return b.UploadText(ctx, path, string(data))
}

// FileExists reports whether path names an existing file.
func (b *Backend) FileExists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(b.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
