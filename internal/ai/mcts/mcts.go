// Package mcts implements PUCT Monte-Carlo Tree Search over any games.Engine (spec
// §4.3.1): an arena of nodes addressed by integer handles rather than pointers (the same
// shape other_examples/janpfeifer-hiveGo's and Elvenson-alphabeth's MCTS trees use for
// their node tables), a pluggable leaf Evaluator for the value/prior estimate, and a
// single-player-optimization mode used by Azul, where a move is scored purely by its own
// expected score rather than a zero-sum flip between two adversaries.
package mcts

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/kestrelgames/boardhouse/internal/games"
)

// noChild is the nil node handle.
const noChild = -1

// Evaluator estimates, for a leaf state, a value in [-1, 1] from the perspective of
// state.CurrentTurn() and a prior probability per legal move. The zero-value evaluator
// (nil) is never used directly; Strategy falls back to Rollout if none is supplied.
type Evaluator interface {
	Evaluate(ctx context.Context, engine games.Engine, state games.State, moves []games.Move) (value float64, priors []float64)
}

// node is one arena slot. Children are a contiguous run in the arena, indexed
// [firstChild, firstChild+numChildren).
type node struct {
	state       games.State
	move        games.Move // the move that produced this node from its parent
	parent      int
	firstChild  int
	numChildren int
	prior       float64
	visits      int
	valueSum    float64
	terminal    bool
	terminalVal float64
	expanded    bool
}

func (n *node) value() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.valueSum / float64(n.visits)
}

// Tree is a reusable PUCT search tree. Held across calls by a caller that wants Advance's
// subtree reuse; a zero-value Tree is a fresh, empty tree.
type Tree struct {
	arena []node
	root  int
}

func newTree(engine games.Engine, state games.State) *Tree {
	t := &Tree{root: 0}
	t.arena = append(t.arena, node{state: state, parent: noChild, firstChild: noChild})
	return t
}

// Advance reuses the subtree rooted at the child reached by playing action from the
// current root, discarding everything else, so repeated searches across a game's moves
// don't restart from scratch. newState is the actual resulting state, not whatever expand()
// computed when it built this child (for a game with hidden randomness, e.g. Azul's factory
// refill, those can differ). Returns false (and the caller should start a fresh tree) if no
// such child was ever expanded. If the child was expanded but any of its own cached
// children's moves are no longer legal in newState -- a sign the position actually reached
// diverged from what was searched -- the promoted node's subtree is reset to unexpanded
// rather than trusted, so stale statistics never leak into the next search.
func (t *Tree) Advance(engine games.Engine, action games.Move, newState games.State) bool {
	if t == nil || t.root == noChild {
		return false
	}
	root := &t.arena[t.root]
	for i := 0; i < root.numChildren; i++ {
		idx := root.firstChild + i
		child := &t.arena[idx]
		if child.move.String() != action.String() {
			continue
		}
		if child.expanded && !grandchildrenStillLegal(engine, t, idx, newState) {
			child.firstChild = noChild
			child.numChildren = 0
			child.expanded = false
		}
		child.parent = noChild
		child.state = newState
		t.root = idx
		return true
	}
	return false
}

// grandchildrenStillLegal checks that every move t's children at idx already expanded
// against the pre-advance state is still among engine.LegalMoves(newState).
func grandchildrenStillLegal(engine games.Engine, t *Tree, idx int, newState games.State) bool {
	child := &t.arena[idx]
	if child.numChildren == 0 {
		return true
	}
	legal := map[string]bool{}
	for _, m := range engine.LegalMoves(newState) {
		legal[m.String()] = true
	}
	for j := 0; j < child.numChildren; j++ {
		gc := &t.arena[child.firstChild+j]
		if !legal[gc.move.String()] {
			return false
		}
	}
	return true
}

// Strategy runs Iterations simulations of select-expand-evaluate-backpropagate per move,
// picking the root child with the most visits (the standard robust-child rule, more stable
// than highest mean value under limited budgets).
type Strategy struct {
	Engine       games.Engine
	Evaluator    Evaluator // nil falls back to Rollout{}
	Iterations   int
	Exploration  float64 // PUCT's c_puct; 0 uses DefaultExploration
	SinglePlayer bool     // Azul: score moves by the mover's own value, never negated
	Reuse        *Tree    // optional, mutated in place across calls for tree reuse

	rand *rand.Rand
}

const (
	DefaultIterations  = 400
	DefaultExploration = 1.4
)

func New(engine games.Engine, evaluator Evaluator, iterations int, seed int64) *Strategy {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Strategy{
		Engine:      engine,
		Evaluator:   evaluator,
		Iterations:  iterations,
		Exploration: DefaultExploration,
		rand:        rand.New(rand.NewSource(seed)),
	}
}

func (s *Strategy) SelectMove(ctx context.Context, state games.State) (games.Move, error) {
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(1))
	}
	eval := s.Evaluator
	if eval == nil {
		eval = Rollout{MaxDepth: 60}
	}
	cExplore := s.Exploration
	if cExplore == 0 {
		cExplore = DefaultExploration
	}

	tree := s.reuseOrFresh(state)
	s.Reuse = tree

	moves := s.Engine.LegalMoves(state)
	if len(moves) == 0 {
		return nil, nil
	}
	if len(moves) == 1 {
		return moves[0], nil
	}

	for i := 0; i < s.Iterations; i++ {
		if ctx.Err() != nil {
			break
		}
		s.simulate(ctx, tree, tree.root, eval, cExplore)
	}

	root := &tree.arena[tree.root]
	best := noChild
	bestVisits := -1
	for i := 0; i < root.numChildren; i++ {
		idx := root.firstChild + i
		if tree.arena[idx].visits > bestVisits {
			bestVisits = tree.arena[idx].visits
			best = idx
		}
	}
	if best == noChild {
		return moves[s.rand.Intn(len(moves))], nil
	}
	bestMove := tree.arena[best].move

	// Promote the subtree this move leads to now, while we still know the exact action: the
	// next call only gets the resulting state, by which point the other player's (or
	// players') reply has already been folded in and the action that led here is no longer
	// recoverable from the tree alone.
	if applied, _, err := s.Engine.Apply(s.Engine.Clone(state), bestMove); err == nil {
		tree.Advance(s.Engine, bestMove, applied)
	}

	return bestMove, nil
}

// reuseOrFresh returns a tree ready to search from state: the existing Reuse tree if its
// root already matches, or if state is reachable by one more real ply from the tree's
// current root (the usual case -- the root was already advanced past this engine's own
// last move in a prior SelectMove call, so the remaining gap is whatever the other
// player(s) just played); a brand-new tree otherwise.
func (s *Strategy) reuseOrFresh(state games.State) *Tree {
	tree := s.Reuse
	if tree == nil || tree.root == noChild {
		return newTree(s.Engine, state)
	}
	root := &tree.arena[tree.root]
	if statesEqual(s.Engine, root.state, state) {
		return tree
	}
	for i := 0; i < root.numChildren; i++ {
		idx := root.firstChild + i
		child := &tree.arena[idx]
		applied, _, err := s.Engine.Apply(s.Engine.Clone(root.state), child.move)
		if err != nil || !statesEqual(s.Engine, applied, state) {
			continue
		}
		tree.Advance(s.Engine, child.move, state)
		return tree
	}
	return newTree(s.Engine, state)
}

// MoveDiagnostic reports one root child's search statistics, for the saliency/policy
// diagnostics endpoint (spec §6's /azul/{id}/visualize_ai).
type MoveDiagnostic struct {
	Move   games.Move `json:"move"`
	Visits int        `json:"visits"`
	Value  float64    `json:"value"`
	Prior  float64    `json:"prior"`
}

// RootDiagnostics runs SelectMove (so the tree reflects a full search from state) and
// reports every root child's visit count, mean value and prior, most-visited first.
func (s *Strategy) RootDiagnostics(ctx context.Context, state games.State) ([]MoveDiagnostic, error) {
	if _, err := s.SelectMove(ctx, state); err != nil {
		return nil, err
	}
	tree := s.Reuse
	if tree == nil || tree.root == noChild {
		return nil, nil
	}
	root := &tree.arena[tree.root]
	out := make([]MoveDiagnostic, 0, root.numChildren)
	for i := 0; i < root.numChildren; i++ {
		idx := root.firstChild + i
		child := &tree.arena[idx]
		out = append(out, MoveDiagnostic{Move: child.move, Visits: child.visits, Value: child.value(), Prior: child.prior})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Visits > out[j].Visits })
	return out, nil
}

// statesEqual compares two states via their encoded JSON form, since games.State carries
// no Equal method; this is only used to decide whether a reused tree's root still matches
// the orchestrator's current state.
func statesEqual(e games.Engine, a, b games.State) bool {
	ea, err1 := e.EncodeState(a)
	eb, err2 := e.EncodeState(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(ea) == string(eb)
}

// simulate runs one select-expand-evaluate-backpropagate pass starting at arena index idx.
// A node's value sum is kept from the perspective of the seat that moved into it (idx's
// parent's mover), which is what selectChild maximizes over. simulate increments idx's own
// visit count and value sum with that value and returns it; the caller one level up flips
// it into its own parent's perspective (adversarial mode) or keeps it unchanged
// (single-player mode) the same way at every depth, including the root.
func (s *Strategy) simulate(ctx context.Context, t *Tree, idx int, eval Evaluator, cExplore float64) float64 {
	n := &t.arena[idx]

	var value float64
	switch {
	case n.terminal:
		value = n.terminalVal
	case !n.expanded:
		value = s.flip(s.expand(ctx, t, idx, eval, cExplore))
	default:
		child := s.selectChild(t, idx, cExplore)
		value = s.flip(s.simulate(ctx, t, child, eval, cExplore))
	}

	n.visits++
	n.valueSum += value

	return value
}

// flip negates a value into the other side's perspective in adversarial mode; in
// single-player-optimization mode (Azul) there is only ever one acting perspective, so the
// value passes through unchanged.
func (s *Strategy) flip(v float64) float64 {
	if s.SinglePlayer {
		return v
	}
	return -v
}

func (s *Strategy) expand(ctx context.Context, t *Tree, idx int, eval Evaluator, cExplore float64) float64 {
	n := &t.arena[idx]
	moves := s.Engine.LegalMoves(n.state)

	if len(moves) == 0 {
		v, _ := eval.Evaluate(ctx, s.Engine, n.state, nil)
		n.terminal = true
		n.terminalVal = s.flip(v)
		n.expanded = true
		return v
	}

	value, priors := eval.Evaluate(ctx, s.Engine, n.state, moves)
	if len(priors) != len(moves) {
		priors = uniform(len(moves))
	}

	first := len(t.arena)
	for i, m := range moves {
		child, status, err := s.Engine.Apply(s.Engine.Clone(n.state), m)
		cn := node{move: m, parent: idx, firstChild: noChild, prior: priors[i]}
		if err == nil {
			cn.state = child
			if status.IsTerminal() {
				cn.terminal = true
				if v, ok := outcomeValue(status, n.state.CurrentTurn()); ok {
					cn.terminalVal = v
				} else {
					// A status outside the "<seat>_won"/draw convention (Azul's
					// "completed" tag, which has no winner): defer to the evaluator,
					// which for a game like that is expected to read the terminal
					// state's own scores rather than roll out a dead position.
					v, _ := eval.Evaluate(ctx, s.Engine, child, nil)
					cn.terminalVal = s.flip(v)
				}
			}
		} else {
			cn.terminal = true
			cn.terminalVal = -1
		}
		t.arena = append(t.arena, cn)
	}

	n.firstChild = first
	n.numChildren = len(moves)
	n.expanded = true

	return value
}

// selectChild applies the PUCT formula: argmax over Q(child) + c*P(child)*sqrt(N(parent))/
// (1+N(child)).
func (s *Strategy) selectChild(t *Tree, idx int, cExplore float64) int {
	n := &t.arena[idx]
	sqrtParent := math.Sqrt(float64(n.visits))

	best := n.firstChild
	bestScore := math.Inf(-1)
	for i := 0; i < n.numChildren; i++ {
		c := n.firstChild + i
		cn := &t.arena[c]
		u := cExplore * cn.prior * sqrtParent / float64(1+cn.visits)
		score := cn.value() + u
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

func uniform(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = 1.0 / float64(n)
	}
	return p
}

// Rollout is the default Evaluator: a uniform-random playout to a terminal state or
// MaxDepth plies, scored +1/-1/0 for win/loss/draw from the mover's perspective; a playout
// that hits MaxDepth, or ends in a status outside the "<seat>_won"/draw convention, scores 0.
// Priors are uniform, letting PUCT's visit-count
// statistics alone drive move selection -- the classic "flat MCTS" baseline these roll-out
// evaluators are descended from before policy networks replaced them.
type Rollout struct {
	MaxDepth int
	Rand     *rand.Rand
}

func (r Rollout) Evaluate(ctx context.Context, engine games.Engine, state games.State, moves []games.Move) (float64, []float64) {
	rng := r.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	maxDepth := r.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 60
	}

	cur := engine.Clone(state)
	mover := state.CurrentTurn()

	for depth := 0; depth < maxDepth; depth++ {
		legal := engine.LegalMoves(cur)
		if len(legal) == 0 {
			break
		}
		m := legal[rng.Intn(len(legal))]
		next, status, err := engine.Apply(cur, m)
		if err != nil {
			break
		}
		cur = next
		if status.IsTerminal() {
			v, _ := outcomeValue(status, mover)
			return v, uniform(len(moves))
		}
	}
	return 0, uniform(len(moves))
}

// outcomeValue interprets a terminal games.Status against the "<seat>_won" / games.Draw
// convention the tictactoe/connect4/chess/nim/wythoff/santorini engines all use, returning
// the value from seat's own perspective. ok is false for a status outside that convention
// (Azul's "completed" tag has no winner), telling the caller to ask its Evaluator instead.
func outcomeValue(status games.Status, seat string) (float64, bool) {
	s := string(status)
	if status == games.Draw {
		return 0, true
	}
	if s == seat+"_won" {
		return 1, true
	}
	if strings.HasSuffix(s, "_won") {
		return -1, true
	}
	return 0, false
}
