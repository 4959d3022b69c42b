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
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource(t *testing.T) {
	sha, err := NewStaticSource("abc123").Revision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", sha)
}

func TestFailingSource(t *testing.T) {
	wantErr := errors.New("revision unavailable")
	sha, err := NewFailingSource(wantErr).Revision(context.Background())
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, sha)
}

func TestGitSource(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	run("commit", "--allow-empty", "-m", "initial")

	sha, err := NewGitSource(dir).Revision(context.Background())
	require.NoError(t, err)
	assert.Len(t, sha, 40)
	assert.NotContains(t, sha, "\n")
}

func TestGitSourceOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	sha, err := NewGitSource(t.TempDir()).Revision(context.Background())
	assert.Error(t, err)
	assert.Empty(t, sha)
}
