package tree

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsKeyOrder(t *testing.T) {
	root, err := Parse([]byte(`{"z": "1", "a": {"m": "2", "b": "3"}, "list": [1, 2]}`))
	require.NoError(t, err)

	var keys []string
	Walk(root, func(path []string, n *Node) Action {
		keys = append(keys, strings.Join(append(path, n.Key), "/"))
		return Continue
	})

	assert.Equal(t, []string{"z", "a", "a/m", "a/b", "list"}, keys)

	list, ok := root.Child("list")
	require.True(t, ok)
	assert.False(t, list.IsBranch())
	assert.Len(t, list.Value, 2)
}

func TestParse_NumbersKeepTheirText(t *testing.T) {
	root, err := Parse([]byte(`{"revision": {"cardinfo.json": 12345678901234567890, "en.json": 1.50}}`))
	require.NoError(t, err)

	rev, ok := root.Child("revision")
	require.True(t, ok)
	require.Len(t, rev.Children, 2)
	assert.Equal(t, "cardinfo.json", rev.Children[0].Key)
	assert.Equal(t, json.Number("12345678901234567890"), rev.Children[0].Value)
	assert.Equal(t, json.Number("1.50"), rev.Children[1].Value)
}

func TestParse_RejectsNonObjectRoot(t *testing.T) {
	_, err := Parse([]byte(`[1, 2, 3]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"a": `))
	assert.Error(t, err)
}

func TestParse_EmptyObjectIsBranch(t *testing.T) {
	root, err := Parse([]byte(`{"empty": {}}`))
	require.NoError(t, err)

	empty, ok := root.Child("empty")
	require.True(t, ok)
	assert.True(t, empty.IsBranch())
	assert.Empty(t, empty.Children)
}

func TestWalk_SkipAndStop(t *testing.T) {
	root := NewBranch("",
		NewBranch("a", NewLeaf("a1", "x"), NewLeaf("a2", "y")),
		NewBranch("b", NewLeaf("b1", "z")),
		NewLeaf("c", "w"),
	)

	var visited []string
	Walk(root, func(path []string, n *Node) Action {
		visited = append(visited, n.Key)
		if n.Key == "a" {
			return Skip
		}
		if n.Key == "b1" {
			return Stop
		}
		return Continue
	})

	assert.Equal(t, []string{"a", "b", "b1"}, visited)
}

func TestWalk_PathDoesNotAlias(t *testing.T) {
	root := NewBranch("",
		NewBranch("a", NewBranch("x", NewLeaf("1", "")), NewBranch("y", NewLeaf("2", ""))),
	)

	paths := map[string][]string{}
	Walk(root, func(path []string, n *Node) Action {
		paths[n.Key] = path
		return Continue
	})

	assert.Equal(t, []string{"a", "x"}, paths["1"])
	assert.Equal(t, []string{"a", "y"}, paths["2"])
}
