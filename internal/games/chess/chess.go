// Package chess adapts pkg/board, pkg/board/fen and pkg/search into the games.Engine
// contract: moves in UCI coordinate notation, optional Chess960 starting positions, and
// check/checkmate/stalemate/insufficient-material/repetition/fifty-move status surfaces
// (spec §4.1.2).
package chess

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/pkg/board"
	"github.com/kestrelgames/boardhouse/pkg/board/fen"
)

// State is the stored initial position, the UCI move history applied to it, and a cached
// view of the current FEN and status. Per spec, the FEN is always consistent with the
// history: the history replays from InitialFEN to FEN exactly (enforced by Apply, never
// by direct field mutation).
type State struct {
	InitialFEN string   `json:"initial_fen"`
	Chess960   bool     `json:"chess960"`
	Moves      []string `json:"moves"`
	FEN        string   `json:"fen"`
	Status     string   `json:"status"`
}

func (s State) CurrentTurn() string {
	fields := strings.Fields(s.FEN)
	if len(fields) < 2 {
		return "white"
	}
	if fields[1] == "b" {
		return "black"
	}
	return "white"
}

// Move is a UCI coordinate move, e.g. "e2e4" or "e7e8q".
type Move struct {
	UCI string `json:"uci"`
}

func (m Move) String() string { return m.UCI }

// Config optionally overrides the starting FEN, requests a Chess960 starting position, or
// seeds its random back-rank shuffle.
type Config struct {
	FEN      string `json:"fen"`
	Chess960 bool   `json:"chess960"`
	Seed     int64  `json:"seed"`
}

type Engine struct{}

func (Engine) Initial(config json.RawMessage) (games.State, error) {
	var cfg Config
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return nil, apperr.BadRequestf("invalid config: %v", err)
		}
	}

	initialFEN := fen.Initial
	switch {
	case cfg.FEN != "":
		initialFEN = cfg.FEN
	case cfg.Chess960:
		initialFEN = chess960FEN(cfg.Seed)
	}

	if _, err := fen.NewBoard(initialFEN); err != nil {
		return nil, apperr.BadRequestf("invalid starting position: %v", err)
	}

	return State{
		InitialFEN: initialFEN,
		Chess960:   cfg.Chess960,
		Moves:      nil,
		FEN:        initialFEN,
		Status:     string(games.InProgress),
	}, nil
}

// chess960FEN generates one of the 960 classical starting back-rank arrangements.
//
// The underlying board package's castling-move generator assumes the classical king/rook
// home squares (e1/e8 for the king, a1/h1/a8/h8 for the rooks) when computing castling
// destinations and the rook's accompanying square; it does not parameterize these by the
// arrangement's actual king/rook files. Deriving correct Chess960 castling rights would
// require reworking that generator to track king/rook home files rather than hardcoding
// them, which is out of proportion to this adapter. Chess960 games are therefore fully
// playable with the randomized back rank, but start with no castling rights -- a
// conservative restriction (no illegal move is ever reachable), not a silent bug.
func chess960FEN(seed int64) string {
	r := rand.New(rand.NewSource(seed))

	var rank [8]board.Piece
	var occupied [8]bool

	place := func(sq int, p board.Piece) {
		rank[sq] = p
		occupied[sq] = true
	}
	randomEmpty := func() int {
		for {
			sq := r.Intn(8)
			if !occupied[sq] {
				return sq
			}
		}
	}

	// Bishops on opposite-color squares (even and odd files alternate in color).
	lightSquares := []int{0, 2, 4, 6}
	darkSquares := []int{1, 3, 5, 7}
	place(lightSquares[r.Intn(len(lightSquares))], board.Bishop)
	place(darkSquares[r.Intn(len(darkSquares))], board.Bishop)

	place(randomEmpty(), board.Queen)
	place(randomEmpty(), board.Knight)
	place(randomEmpty(), board.Knight)

	// The 3 remaining empty squares take rook, king, rook in file order: the king ends up
	// between the two rooks automatically.
	var remaining []int
	for sq := 0; sq < 8; sq++ {
		if !occupied[sq] {
			remaining = append(remaining, sq)
		}
	}
	place(remaining[0], board.Rook)
	place(remaining[1], board.King)
	place(remaining[2], board.Rook)

	var backRank strings.Builder
	for _, p := range rank {
		backRank.WriteRune(pieceLetter(p))
	}

	white := backRank.String()
	black := strings.ToLower(white)
	return fmt.Sprintf("%v/pppppppp/8/8/8/8/PPPPPPPP/%v w - - 0 1", black, white)
}

func pieceLetter(p board.Piece) rune {
	switch p {
	case board.Rook:
		return 'R'
	case board.Knight:
		return 'N'
	case board.Bishop:
		return 'B'
	case board.Queen:
		return 'Q'
	case board.King:
		return 'K'
	default:
		return '?'
	}
}

func (Engine) LegalMoves(s games.State) []games.Move {
	st := s.(State)
	b, err := fen.NewBoard(st.FEN)
	if err != nil {
		return nil
	}

	var moves []games.Move
	for _, m := range b.Position().PseudoLegalMoves(b.Turn()) {
		if _, ok := b.Position().Move(m); ok {
			moves = append(moves, Move{UCI: uciOf(m)})
		}
	}
	return moves
}

func uciOf(m board.Move) string {
	if m.Promotion == 0 {
		return m.From.String() + m.To.String()
	}
	return m.From.String() + m.To.String() + strings.ToLower(string(pieceLetter(m.Promotion)))
}

func (Engine) Apply(s games.State, mv games.Move) (games.State, games.Status, error) {
	st := s.(State)
	m := mv.(Move)

	b, err := loadBoard(st)
	if err != nil {
		return nil, games.InProgress, apperr.Internalf("replay history: %v", err)
	}

	candidate, err := board.ParseMove(m.UCI)
	if err != nil {
		return nil, games.InProgress, apperr.BadRequestf("invalid move %q: %v", m.UCI, err)
	}

	applied := false
	for _, legal := range b.Position().PseudoLegalMoves(b.Turn()) {
		if !candidate.Equals(legal) {
			continue
		}
		if !b.PushMove(legal) {
			return nil, games.InProgress, apperr.IllegalMove("in-check", "move %v leaves king in check", m.UCI)
		}
		applied = true
		break
	}
	if !applied {
		return nil, games.InProgress, apperr.IllegalMove("not-legal", "move %v is not legal", m.UCI)
	}

	status := statusOf(b)

	next := State{
		InitialFEN: st.InitialFEN,
		Chess960:   st.Chess960,
		Moves:      append(append([]string(nil), st.Moves...), m.UCI),
		FEN:        fen.Encode(b.Position(), b.Turn(), b.NoProgress(), b.FullMoves()),
		Status:     string(status),
	}
	return next, status, nil
}

// loadBoard reconstructs a *board.Board (with full repetition/no-progress history) by
// replaying State.Moves over State.InitialFEN.
func loadBoard(st State) (*board.Board, error) {
	b, err := fen.NewBoard(st.InitialFEN)
	if err != nil {
		return nil, fmt.Errorf("decode initial fen: %w", err)
	}
	for _, u := range st.Moves {
		candidate, err := board.ParseMove(u)
		if err != nil {
			return nil, fmt.Errorf("decode move %q: %w", u, err)
		}
		applied := false
		for _, m := range b.Position().PseudoLegalMoves(b.Turn()) {
			if candidate.Equals(m) {
				if !b.PushMove(m) {
					return nil, fmt.Errorf("illegal move in history: %v", u)
				}
				applied = true
				break
			}
		}
		if !applied {
			return nil, fmt.Errorf("move not legal in history: %v", u)
		}
	}
	return b, nil
}

func statusOf(b *board.Board) games.Status {
	if !b.Position().HasLegalMove(b.Turn()) {
		return resultStatus(b.AdjudicateNoLegalMoves())
	}
	if r := b.Result(); r.Outcome != board.Undecided {
		return resultStatus(r)
	}
	return games.InProgress
}

func resultStatus(r board.Result) games.Status {
	if r.Reason == board.Checkmate {
		return "checkmate"
	}
	switch r.Outcome {
	case board.WhiteWins:
		return "white_won"
	case board.BlackWins:
		return "black_won"
	case board.Draw:
		return games.Draw
	default:
		return games.InProgress
	}
}

// Undo replays the move history truncated by n plies, per spec §4.5 (1 ply for
// human-vs-human, 2 for human-vs-AI). Any terminal status is cleared back to in_progress
// if the truncated position is not itself terminal.
func Undo(s games.State, plies int) (games.State, error) {
	st := s.(State)
	if plies < 0 || plies > len(st.Moves) {
		return nil, apperr.BadRequestf("cannot undo %d plies: only %d played", plies, len(st.Moves))
	}

	truncated := State{
		InitialFEN: st.InitialFEN,
		Chess960:   st.Chess960,
		Moves:      append([]string(nil), st.Moves[:len(st.Moves)-plies]...),
	}
	b, err := loadBoard(truncated)
	if err != nil {
		return nil, apperr.Internalf("replay truncated history: %v", err)
	}

	status := statusOf(b)
	truncated.FEN = fen.Encode(b.Position(), b.Turn(), b.NoProgress(), b.FullMoves())
	truncated.Status = string(status)
	return truncated, nil
}

func (Engine) Clone(s games.State) games.State {
	st := s.(State)
	st.Moves = append([]string(nil), st.Moves...)
	return st
}

func (Engine) ParseMove(raw json.RawMessage) (games.Move, error) {
	var m Move
	if err := json.Unmarshal(raw, &m); err != nil {
		var uci string
		if err2 := json.Unmarshal(raw, &uci); err2 == nil {
			return Move{UCI: uci}, nil
		}
		return nil, apperr.BadRequestf("invalid move: %v", err)
	}
	return m, nil
}

func (Engine) EncodeState(s games.State) (json.RawMessage, error) {
	return json.Marshal(s.(State))
}

func (Engine) DecodeState(raw json.RawMessage) (games.State, error) {
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode chess state: %w", err)
	}
	return s, nil
}
