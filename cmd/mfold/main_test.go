package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/mfold/internal/indent"
)

var sample = []string{"a", "  b", "    c", "    d", "  e", "    f", "g"}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(sample, "\n")+"\n"), 0644))
	return path
}

// run executes mfold with a config path that does not exist, so defaults
// apply regardless of the user's config
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	base := []string{"--config", filepath.Join(t.TempDir(), "none.toml"), "--tab-size", "2"}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
		assert.NotEmpty(t, c.Short, c.Name())
	}
	for _, want := range []string{"levels", "children", "fold", "except", "level", "parent"} {
		assert.True(t, names[want], want)
	}
}

func TestLevels(t *testing.T) {
	out, err := run(t, "levels", writeSample(t))
	require.NoError(t, err)

	rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, rows, len(sample))
	assert.Equal(t, "1   0 1-6 a", rows[0])
	assert.Equal(t, "2   1 2-4   b", rows[1])
	assert.Equal(t, "3   2 -       c", rows[2])
}

func TestChildren(t *testing.T) {
	out, err := run(t, "children", "--line", "1", writeSample(t))
	require.NoError(t, err)
	assert.Equal(t, "2\t  b\n5\t  e\n", out)
}

func TestFold(t *testing.T) {
	out, err := run(t, "fold", "--lines", "2", writeSample(t))
	require.NoError(t, err)
	assert.Equal(t, "a\n  b ⋯ 2\n  e\n    f\ng\n", out)
}

func TestFold_OutOfRange(t *testing.T) {
	_, err := run(t, "fold", "--lines", "99", writeSample(t))
	assert.ErrorIs(t, err, indent.ErrOutOfRange)
}

func TestExcept(t *testing.T) {
	out, err := run(t, "except", "--no-markers", "--lines", "6", writeSample(t))
	require.NoError(t, err)
	assert.Equal(t, "a\n  b\n  e\n    f\ng\n", out)
}

func TestExcept_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outline.txt")

	out, err := run(t, "except", "--lines", "1", "-o", path, writeSample(t))
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(sample, "\n")+"\n", string(data), "line 1 opens the whole file")
}

func TestLevel(t *testing.T) {
	out, err := run(t, "level", "--line", "2", writeSample(t))
	require.NoError(t, err)
	assert.Equal(t, "a\n  b ⋯ 2\n  e ⋯ 1\ng\n", out)
}

func TestParent(t *testing.T) {
	out, err := run(t, "parent", "--line", "3", writeSample(t))
	require.NoError(t, err)
	assert.Equal(t, "a\n  b ⋯ 2\n  e ⋯ 1\ng\n", out)
}

func TestParent_LineOutOfRange(t *testing.T) {
	_, err := run(t, "parent", "--line", "0", writeSample(t))
	assert.ErrorIs(t, err, indent.ErrOutOfRange)
}

func TestInvalidTabSize(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"levels", "--config", filepath.Join(t.TempDir(), "none.toml"), "--tab-size", "-1", writeSample(t)})

	assert.ErrorContains(t, cmd.Execute(), "tab_width")
}
