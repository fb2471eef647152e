package fixture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reviv-lang/reviv/scope"
	"github.com/reviv-lang/reviv/value"
)

const cyclicObjectFixture = `{
	"root": 1,
	"nodes": [
		{"id": 1, "kind": "object", "props": {
			"self": {"value": 1, "writable": true, "enumerable": true, "configurable": true},
			"name": {"value": 2, "writable": true, "enumerable": true, "configurable": true}
		}},
		{"id": 2, "kind": "string", "str": "root"}
	]
}`

func TestDecodeAndBuildCyclicObject(t *testing.T) {
	f, err := Decode([]byte(cyclicObjectFixture))
	require.NoError(t, err)

	root, trackers, err := f.Build()
	require.NoError(t, err)
	require.Empty(t, trackers, "expected no function trackers")
	require.Equal(t, value.KindObject, root.Kind)

	self, ok := root.Props.Get(value.StringKey("self"))
	require.True(t, ok, "expected a self property")
	require.Same(t, root, self.Value, "expected self to reference the same *value.Value as root (identity preserved)")
}

const closureFixture = `{
	"root": 1,
	"nodes": [
		{"id": 1, "kind": "function", "name": "counter", "frames": [
			{"blockId": "outer", "instantiationId": 1, "bindings": {"count": 2}}
		]},
		{"id": 2, "kind": "number", "number": 7}
	]
}`

func TestBuildFunctionWithFrame(t *testing.T) {
	f, err := Decode([]byte(closureFixture))
	require.NoError(t, err)

	root, trackers, err := f.Build()
	require.NoError(t, err)
	require.Equal(t, value.KindFunction, root.Kind)

	tr, ok := trackers[root.Identity]
	require.True(t, ok, "expected a tracker registered for the function's identity")

	result, ok := tr.Track(scope.NewRunToken(1))
	require.True(t, ok, "expected Track to succeed")
	require.Len(t, result.Frames, 1)
	require.Equal(t, float64(7), result.Frames[0].Bindings["count"].Number)
}
