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

package revision

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type gitSource struct {
	dir string
}

var _ Source = (*gitSource)(nil)

// NewGitSource returns a Source that shells out to git for the HEAD commit
// hash. dir is the working directory for the git invocation; empty means
// the process working directory.
func NewGitSource(dir string) Source {
	return &gitSource{dir: dir}
}

func (s *gitSource) Revision(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = s.dir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve git revision: %w", err)
	}

	sha := strings.TrimSpace(string(out))
	if sha == "" {
		return "", fmt.Errorf("git rev-parse returned no output")
	}
	return sha, nil
}
