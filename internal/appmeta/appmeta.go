// Copyright (C) 2025-2026 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package appmeta loads the static application metadata document that the
// status endpoint reports.
package appmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

const DefaultPath = "./metadata.json"

// Document is the parsed metadata file. It is replaced wholesale on each
// load and never mutated in place.
type Document map[string]any

func (d Document) Description() string {
	return d.stringField("description")
}

func (d Document) Version() string {
	return d.stringField("version")
}

func (d Document) stringField(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// Reader loads a metadata document from wherever it lives.
type Reader interface {
	Read(ctx context.Context) (Document, error)
}

type fileReader struct {
	path string
}

var _ Reader = (*fileReader)(nil)

// NewFileReader returns a Reader backed by a JSON file on local disk.
func NewFileReader(path string) Reader {
	if path == "" {
		path = DefaultPath
	}
	return &fileReader{path: path}
}

func (r *fileReader) Read(_ context.Context) (Document, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", r.path, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file %s: %w", r.path, err)
	}
	return doc, nil
}
