package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/store"
)

func TestCreateThenGetRoundTrips(t *testing.T) {
	s := store.NewMemStore()
	ctx := context.Background()

	row := &store.Row{
		Kind:        games.TicTacToe,
		Status:      games.InProgress,
		CurrentTurn: "x",
		State:       []byte(`{"turn":"x"}`),
		Participants: []store.Participant{
			{ID: "alice", Kind: "human", Seat: "x"},
			{ID: "bob", Kind: "human", Seat: "o"},
		},
	}
	require.NoError(t, s.Create(ctx, row))
	require.NotEqual(t, uuid.Nil, row.ID)

	got, err := s.Get(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, games.InProgress, got.Status)
	assert.Equal(t, "x", got.CurrentTurn)
}

func TestGetMissingRowIsNotFound(t *testing.T) {
	s := store.NewMemStore()
	_, err := s.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
}

func TestUpdatePersistsMutation(t *testing.T) {
	s := store.NewMemStore()
	ctx := context.Background()
	row := &store.Row{Kind: games.Nim, Status: games.InProgress, CurrentTurn: "p1", State: []byte(`{}`)}
	require.NoError(t, s.Create(ctx, row))

	row.Status = "p1_won"
	row.CurrentTurn = "p1"
	require.NoError(t, s.Update(ctx, row))

	got, err := s.Get(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, games.Status("p1_won"), got.Status)
}

func TestListInProgressFiltersByKindAndStatus(t *testing.T) {
	s := store.NewMemStore()
	ctx := context.Background()

	inProgress := &store.Row{Kind: games.Chess, Status: games.InProgress, CurrentTurn: "white", State: []byte(`{}`)}
	done := &store.Row{Kind: games.Chess, Status: "checkmate", CurrentTurn: "white", State: []byte(`{}`)}
	other := &store.Row{Kind: games.Connect4, Status: games.InProgress, CurrentTurn: "red", State: []byte(`{}`)}
	require.NoError(t, s.Create(ctx, inProgress))
	require.NoError(t, s.Create(ctx, done))
	require.NoError(t, s.Create(ctx, other))

	rows, err := s.ListInProgress(ctx, games.Chess)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, inProgress.ID, rows[0].ID)
}

func TestDeleteAIBoundOnlyRemovesAllAIRows(t *testing.T) {
	s := store.NewMemStore()
	ctx := context.Background()

	aiOnly := &store.Row{Kind: games.Nim, Status: games.InProgress, State: []byte(`{}`), Participants: []store.Participant{
		{ID: "bot1", Kind: "ai", Seat: "p1", Name: "optimal"},
		{ID: "bot2", Kind: "ai", Seat: "p2", Name: "optimal"},
	}}
	mixed := &store.Row{Kind: games.Nim, Status: games.InProgress, State: []byte(`{}`), Participants: []store.Participant{
		{ID: "alice", Kind: "human", Seat: "p1"},
		{ID: "bot1", Kind: "ai", Seat: "p2", Name: "optimal"},
	}}
	require.NoError(t, s.Create(ctx, aiOnly))
	require.NoError(t, s.Create(ctx, mixed))

	require.NoError(t, s.DeleteAIBound(ctx))

	_, err := s.Get(ctx, aiOnly.ID)
	assert.Error(t, err)
	_, err = s.Get(ctx, mixed.ID)
	assert.NoError(t, err)
}
