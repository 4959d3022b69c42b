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

// Package revision resolves the source-control revision the running binary
// was deployed from.
package revision

import "context"

// Source returns an opaque revision identifier. Implementations must return
// the identifier trimmed of surrounding whitespace.
type Source interface {
	Revision(ctx context.Context) (string, error)
}

type staticSource struct {
	revision string
	err      error
}

var _ Source = (*staticSource)(nil)

// NewStaticSource returns a Source that always reports the given revision.
// Useful for tests and for deployments where the revision is injected at
// build time rather than resolved from a working tree.
func NewStaticSource(revision string) Source {
	return &staticSource{revision: revision}
}

// NewFailingSource returns a Source that always fails with err.
func NewFailingSource(err error) Source {
	return &staticSource{err: err}
}

func (s *staticSource) Revision(_ context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.revision, nil
}
