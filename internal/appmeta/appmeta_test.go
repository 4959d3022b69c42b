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

package appmeta

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempMetadata(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestFileReader(t *testing.T) {
	tests := []struct {
		name         string
		contents     string
		missing      bool
		expectError  bool
		expectedDesc string
		expectedVer  string
	}{
		{
			name:         "valid document",
			contents:     `{"description": "svc", "version": "1.2.3"}`,
			expectedDesc: "svc",
			expectedVer:  "1.2.3",
		},
		{
			name:        "missing file",
			missing:     true,
			expectError: true,
		},
		{
			name:        "invalid JSON",
			contents:    `{"description": `,
			expectError: true,
		},
		{
			name:     "extra fields preserved",
			contents: `{"description": "svc", "version": "1.2.3", "owner": "platform"}`,

			expectedDesc: "svc",
			expectedVer:  "1.2.3",
		},
		{
			name:     "non-string fields tolerated",
			contents: `{"description": 42, "version": null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.missing {
				path = filepath.Join(t.TempDir(), "does-not-exist.json")
			} else {
				path = writeTempMetadata(t, tt.contents)
			}

			doc, err := NewFileReader(path).Read(context.Background())
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDesc, doc.Description())
			assert.Equal(t, tt.expectedVer, doc.Version())
		})
	}
}

func TestNewFileReaderDefaultPath(t *testing.T) {
	r, ok := NewFileReader("").(*fileReader)
	require.True(t, ok)
	assert.Equal(t, DefaultPath, r.path)
}
