package statefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/elements"
	"github.com/danmuck/statectl/internal/systems"
)

func sampleSystem() *systems.System {
	return systems.New(
		&components.Component{
			Name: "packages.demo",
			Elements: map[string]elements.Element{
				"names":    elements.NewSetOfStrings("a", "b"),
				"settings": elements.NewMapOfStrings(map[string]string{"key": "value"}),
				"file":     elements.NewLines([]string{"e", "line one\n", "line two\n"}),
				"home":     elements.Atom("~/demo"),
			},
		},
	)
}

func TestJSONRoundTrip(t *testing.T) {
	system := sampleSystem()

	data, err := Encode(system, false)
	require.NoError(t, err)

	decoded, err := Decode(data, false)
	require.NoError(t, err)
	assert.True(t, system.Equal(decoded))
}

func TestJSONOutputIsDeterministic(t *testing.T) {
	first, err := Encode(sampleSystem(), false)
	require.NoError(t, err)
	second, err := Encode(sampleSystem(), false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMsgpackRoundTrip(t *testing.T) {
	system := sampleSystem()

	data, err := Encode(system, true)
	require.NoError(t, err)

	decoded, err := Decode(data, true)
	require.NoError(t, err)
	assert.True(t, system.Equal(decoded))
}

func TestDiffDocumentRoundTrip(t *testing.T) {
	desired := systems.New(
		&components.Component{
			Name: "packages.demo",
			Elements: map[string]elements.Element{
				"names":    elements.NewSetOfStrings("a", "c"),
				"settings": elements.NewMapOfStrings(map[string]string{"key": "other"}),
				"file":     elements.NewLines([]string{"e", "line one\n", "changed\n"}),
				"home":     elements.Atom("~/demo"),
			},
		},
	)
	diff, err := sampleSystem().Diff(desired)
	require.NoError(t, err)

	data, err := Encode(diff, false)
	require.NoError(t, err)

	decoded, err := Decode(data, false)
	require.NoError(t, err)
	require.True(t, decoded.IsDiff())
	assert.True(t, diff.Equal(decoded))
}

func TestSaveAndLoadByExtension(t *testing.T) {
	system := sampleSystem()
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "state.json")
	require.NoError(t, Save(jsonPath, system))
	loaded, err := Load(jsonPath)
	require.NoError(t, err)
	assert.True(t, system.Equal(loaded))

	msgpackPath := filepath.Join(dir, "state.msgpack")
	require.NoError(t, Save(msgpackPath, system))
	loaded, err = Load(msgpackPath)
	require.NoError(t, err)
	assert.True(t, system.Equal(loaded))

	// the two encodings are genuinely different on disk
	jsonData, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	msgpackData, err := os.ReadFile(msgpackPath)
	require.NoError(t, err)
	assert.NotEqual(t, jsonData, msgpackData)
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"), false)
	require.Error(t, err)

	_, err = Decode([]byte(`{"components": [], "version": "2"}`), false)
	require.ErrorIs(t, err, elements.ErrInvalidPrimitive)
}
