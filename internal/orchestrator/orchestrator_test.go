package orchestrator_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelgames/boardhouse/internal/ai"
	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/events"
	"github.com/kestrelgames/boardhouse/internal/games"
	_ "github.com/kestrelgames/boardhouse/internal/games/chess"
	_ "github.com/kestrelgames/boardhouse/internal/games/tictactoe"
	"github.com/kestrelgames/boardhouse/internal/orchestrator"
	"github.com/kestrelgames/boardhouse/internal/store"
)

func newOrchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(store.NewMemStore(), events.NewInProcessBus(), ai.Build(nil))
}

func mustMove(cell int) json.RawMessage {
	b, _ := json.Marshal(map[string]int{"cell": cell})
	return b
}

func TestMoveAppliesHumanMoveAndPersists(t *testing.T) {
	o := newOrchestrator()
	ctx := context.Background()

	row, err := o.Create(ctx, games.TicTacToe, nil, []store.Participant{
		{ID: "alice", Kind: "human", Seat: "x"},
		{ID: "bob", Kind: "human", Seat: "o"},
	})
	require.NoError(t, err)
	require.Equal(t, "x", row.CurrentTurn)

	row, err = o.Move(ctx, games.TicTacToe, row.ID, "alice", mustMove(4))
	require.NoError(t, err)
	assert.Equal(t, "o", row.CurrentTurn)
	assert.Equal(t, games.InProgress, row.Status)
}

func TestMoveRejectsWrongPrincipal(t *testing.T) {
	o := newOrchestrator()
	ctx := context.Background()

	row, err := o.Create(ctx, games.TicTacToe, nil, []store.Participant{
		{ID: "alice", Kind: "human", Seat: "x"},
		{ID: "bob", Kind: "human", Seat: "o"},
	})
	require.NoError(t, err)

	_, err = o.Move(ctx, games.TicTacToe, row.ID, "bob", mustMove(0))
	require.Error(t, err)
	assert.Equal(t, apperr.NotYourTurn, apperr.CodeOf(err))
}

func TestMoveRejectsOnFinishedGame(t *testing.T) {
	o := newOrchestrator()
	ctx := context.Background()

	row, err := o.Create(ctx, games.TicTacToe, nil, []store.Participant{
		{ID: "alice", Kind: "human", Seat: "x"},
		{ID: "bob", Kind: "human", Seat: "o"},
	})
	require.NoError(t, err)

	// x: 0, o: 3, x: 1, o: 4, x: 2 -> x wins top row.
	plays := []struct {
		who  string
		cell int
	}{
		{"alice", 0}, {"bob", 3}, {"alice", 1}, {"bob", 4}, {"alice", 2},
	}
	for _, p := range plays {
		row, err = o.Move(ctx, games.TicTacToe, row.ID, p.who, mustMove(p.cell))
		require.NoError(t, err)
	}
	assert.Equal(t, games.Status("x_won"), row.Status)

	_, err = o.Move(ctx, games.TicTacToe, row.ID, "bob", mustMove(5))
	require.Error(t, err)
	assert.Equal(t, apperr.GameOver, apperr.CodeOf(err))
}

func TestMoveCascadesThroughAIOpponent(t *testing.T) {
	o := newOrchestrator()
	ctx := context.Background()

	row, err := o.Create(ctx, games.TicTacToe, nil, []store.Participant{
		{ID: "alice", Kind: "human", Seat: "x"},
		{ID: "bot", Kind: "ai", Seat: "o", Name: "random"},
	})
	require.NoError(t, err)

	row, err = o.Move(ctx, games.TicTacToe, row.ID, "alice", mustMove(4))
	require.NoError(t, err)

	// The cascade only stops when it is x's turn again or the game has ended; it must
	// never leave the bot ("o") on move.
	if !row.Status.IsTerminal() {
		assert.Equal(t, "x", row.CurrentTurn)
	}
}

func TestCascadeLeavesTurnUntouchedWhenNoStrategyRegistered(t *testing.T) {
	o := newOrchestrator()
	ctx := context.Background()

	row, err := o.Create(ctx, games.TicTacToe, nil, []store.Participant{
		{ID: "alice", Kind: "human", Seat: "x"},
		{ID: "bot", Kind: "ai", Seat: "o", Name: "does-not-exist"},
	})
	require.NoError(t, err)

	row, err = o.Move(ctx, games.TicTacToe, row.ID, "alice", mustMove(4))
	require.NoError(t, err)
	assert.Equal(t, "o", row.CurrentTurn, "cascade should stop rather than guess a move for an unregistered AI")
}

func chessMove(uci string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"uci": uci})
	return b
}

func TestUndoHumanVsHumanRewindsOnePly(t *testing.T) {
	o := newOrchestrator()
	ctx := context.Background()

	row, err := o.Create(ctx, games.Chess, nil, []store.Participant{
		{ID: "alice", Kind: "human", Seat: "white"},
		{ID: "bob", Kind: "human", Seat: "black"},
	})
	require.NoError(t, err)

	row, err = o.Move(ctx, games.Chess, row.ID, "alice", chessMove("e2e4"))
	require.NoError(t, err)
	require.Equal(t, "black", row.CurrentTurn)

	row, err = o.Undo(ctx, row.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "white", row.CurrentTurn)
}

func TestUndoHumanVsAIRewindsTwoPlies(t *testing.T) {
	o := newOrchestrator()
	ctx := context.Background()

	row, err := o.Create(ctx, games.Chess, nil, []store.Participant{
		{ID: "alice", Kind: "human", Seat: "white"},
		{ID: "bot", Kind: "ai", Seat: "black", Name: "random"},
	})
	require.NoError(t, err)

	row, err = o.Move(ctx, games.Chess, row.ID, "alice", chessMove("e2e4"))
	require.NoError(t, err)

	row, err = o.Undo(ctx, row.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "white", row.CurrentTurn, "undoing a human-vs-ai game rewinds both the ai's reply and the human's move")
}

func TestUndoRejectsNonChessGames(t *testing.T) {
	o := newOrchestrator()
	ctx := context.Background()

	row, err := o.Create(ctx, games.TicTacToe, nil, []store.Participant{
		{ID: "alice", Kind: "human", Seat: "x"},
		{ID: "bob", Kind: "human", Seat: "o"},
	})
	require.NoError(t, err)

	_, err = o.Undo(ctx, row.ID, "alice")
	require.Error(t, err)
	assert.Equal(t, apperr.BadRequest, apperr.CodeOf(err))
}
