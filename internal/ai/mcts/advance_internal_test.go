package mcts

import (
	"testing"

	"github.com/kestrelgames/boardhouse/internal/games/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Advance must reset a promoted child's cached subtree, rather than trust it, when any of
// that child's own already-expanded children is no longer legal in the real resulting
// state. Built by hand (white-box, in-package) rather than through a live search, since
// forcing a specific node to be both "the matched child" and "already expanded with a since
// staled grandchild" isn't reachable deterministically through Strategy's public API.
func TestAdvanceResetsSubtreeWhenGrandchildIllegal(t *testing.T) {
	e := tictactoe.Engine{}
	root := tictactoe.State{Turn: tictactoe.X}
	afterX, _, err := e.Apply(root, tictactoe.Move{Cell: 0})
	require.NoError(t, err)

	tree := &Tree{
		root: 0,
		arena: []node{
			{state: root, parent: noChild, firstChild: 1, numChildren: 1, expanded: true},
			{
				state: afterX, move: tictactoe.Move{Cell: 0}, parent: 0,
				firstChild: 2, numChildren: 1, expanded: true,
			},
			// Stale: claims cell 0 is still playable from afterX, but it's occupied there.
			{state: afterX, move: tictactoe.Move{Cell: 0}, parent: 1},
		},
	}

	ok := tree.Advance(e, tictactoe.Move{Cell: 0}, afterX)
	require.True(t, ok)
	assert.Equal(t, 1, tree.root)
	assert.False(t, tree.arena[tree.root].expanded)
	assert.Equal(t, noChild, tree.arena[tree.root].firstChild)
	assert.Equal(t, 0, tree.arena[tree.root].numChildren)
}
