package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/statectl/internal/elements"
)

func TestGatherFile(t *testing.T) {
	t.Run("missing file is the zero list", func(t *testing.T) {
		l, err := GatherFile(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Equal(t, 0, l.Len())
	})

	t.Run("existing file gets the marker and keeps terminators", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		require.NoError(t, os.WriteFile(path, []byte("line1\nline2\n"), 0o644))

		l, err := GatherFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"e", "line1\n", "line2\n"}, l.Strings())
	})

	t.Run("trailing partial line survives", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		require.NoError(t, os.WriteFile(path, []byte("line1\nno newline"), 0o644))

		l, err := GatherFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"e", "line1\n", "no newline"}, l.Strings())
	})

	t.Run("empty file is just the marker", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		l, err := GatherFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"e"}, l.Strings())
	})
}

func fileDiff(t *testing.T, before, after elements.List) elements.ListDiff {
	t.Helper()
	d, err := before.Diff(after)
	require.NoError(t, err)
	return d.(elements.ListDiff)
}

func TestRenderFileDiff(t *testing.T) {
	exists := elements.NewLines([]string{"e", "content\n"})
	missing := elements.List{}
	empty := elements.NewLines([]string{"e"})

	t.Run("no change renders nothing", func(t *testing.T) {
		cmds, err := RenderFileDiff("~/f", elements.ListDiff{})
		require.NoError(t, err)
		assert.Empty(t, cmds)
	})

	t.Run("deletion renders rm", func(t *testing.T) {
		cmds, err := RenderFileDiff("~/f", fileDiff(t, exists, missing))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"rm", `"~/f"`}}, cmds)
	})

	t.Run("creation of an empty file renders touch", func(t *testing.T) {
		cmds, err := RenderFileDiff("~/f", fileDiff(t, missing, empty))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"touch", `"~/f"`}}, cmds)
	})

	t.Run("creation with content renders touch and patch", func(t *testing.T) {
		cmds, err := RenderFileDiff("~/f", fileDiff(t, missing, exists))
		require.NoError(t, err)
		require.Len(t, cmds, 2)
		assert.Equal(t, []string{"touch", `"~/f"`}, cmds[0])
		assert.Equal(t, "statectl", cmds[1][0])
		assert.Equal(t, "patch", cmds[1][1])
	})

	t.Run("content change renders a patch against the real file", func(t *testing.T) {
		after := elements.NewLines([]string{"e", "content\n", "added\n"})
		cmds, err := RenderFileDiff("~/f", fileDiff(t, exists, after))
		require.NoError(t, err)
		require.Len(t, cmds, 1)
		assert.Equal(t, []string{
			"statectl", "patch", `"~/f"`,
			`[["=",0,"content\\n"],["+",1,"added\\n"]]`,
		}, cmds[0])
	})
}

func TestRenderedPatchRoundTrip(t *testing.T) {
	// a rendered patch payload must reproduce the gathered target content
	before := elements.NewLines([]string{"e", "keep\n", "old\n"})
	after := elements.NewLines([]string{"e", "keep\n", "new\n", "added\n"})

	cmds, err := RenderFileDiff("~/f", fileDiff(t, before, after))
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	payload := cmds[0][3]

	patched, err := ApplyListPatch("keep\nold\n", payload)
	require.NoError(t, err)
	assert.Equal(t, "keep\nnew\nadded\n", patched)
}

func TestApplyListPatchStaleContent(t *testing.T) {
	before := elements.NewLines([]string{"e", "keep\n", "old\n"})
	after := elements.NewLines([]string{"e", "keep\n", "new\n"})

	cmds, err := RenderFileDiff("~/f", fileDiff(t, before, after))
	require.NoError(t, err)
	require.Len(t, cmds, 1)

	_, err = ApplyListPatch("something\nelse\n", cmds[0][3])
	require.ErrorIs(t, err, elements.ErrConsistency)
}
