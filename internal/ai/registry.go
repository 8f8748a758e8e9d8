// Package ai is the process-wide registry of AI strategies available to the orchestrator
// (spec §4.4): a name -> Strategy map built once at startup from declarative config, so
// the orchestrator can look a bot up by name ("chess:modern", "azul:mcts") without knowing
// which concrete package implements it.
package ai

import (
	"context"
	"fmt"

	"github.com/kestrelgames/boardhouse/internal/ai/chessai"
	"github.com/kestrelgames/boardhouse/internal/ai/connect4ai"
	"github.com/kestrelgames/boardhouse/internal/ai/heuristic"
	"github.com/kestrelgames/boardhouse/internal/ai/mcts"
	"github.com/kestrelgames/boardhouse/internal/ai/nimai"
	"github.com/kestrelgames/boardhouse/internal/ai/wythoffai"
	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/games/azul"
	"github.com/kestrelgames/boardhouse/internal/games/chess"
	"github.com/kestrelgames/boardhouse/internal/games/connect4"
	"github.com/kestrelgames/boardhouse/internal/games/nim"
	"github.com/kestrelgames/boardhouse/internal/games/santorini"
	"github.com/kestrelgames/boardhouse/internal/games/tictactoe"
	"github.com/kestrelgames/boardhouse/internal/games/wythoff"
	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/seekerror/logw"
)

// Strategy is the one move-selection contract every AI package in this module implements.
type Strategy interface {
	SelectMove(ctx context.Context, state games.State) (games.Move, error)
}

// Diagnosable is implemented by strategies that can report search statistics for the
// /azul/{id}/visualize_ai diagnostics endpoint (spec §6); currently only *mcts.Strategy.
type Diagnosable interface {
	RootDiagnostics(ctx context.Context, state games.State) ([]mcts.MoveDiagnostic, error)
}

// boundRandom adapts heuristic.Random (generic over any games.Engine, so it takes the
// engine as an explicit argument) to the registry's single-state Strategy shape by closing
// over the one engine it will ever be asked to play.
type boundRandom struct {
	engine games.Engine
	random heuristic.Random
}

func (b boundRandom) SelectMove(ctx context.Context, state games.State) (games.Move, error) {
	return b.random.SelectMove(ctx, b.engine, state)
}

func randomFor(kind games.Kind, seed int64) Strategy {
	var engine games.Engine
	switch kind {
	case games.TicTacToe:
		engine = tictactoe.Engine{}
	case games.Connect4:
		engine = connect4.Engine{}
	case games.Chess:
		engine = chess.Engine{}
	case games.Santorini:
		engine = santorini.Engine{}
	case games.Nim:
		engine = nim.Engine{}
	case games.Wythoff:
		engine = wythoff.Engine{}
	case games.Azul:
		engine = azul.Engine{}
	}
	return boundRandom{engine: engine, random: heuristic.NewRandom(seed)}
}

// Entry is one named, configured AI available for a given game kind.
type Entry struct {
	Kind     games.Kind
	Name     string // e.g. "modern", "mcts", "random"
	Strategy Strategy
}

// Config declares one registry entry by name; the Options map is strategy-specific (depth,
// iterations, seed, ...) and validated when building that strategy.
type Config struct {
	Kind    string         `json:"kind"`
	Name    string         `json:"name"`
	Options map[string]any `json:"options"`
}

// Registry resolves "<kind>:<name>" to a Strategy. Immutable once built: config errors for
// one entry are logged and that entry is skipped rather than failing registry construction
// outright, so a typo in one bot's config doesn't take every other game's AI down with it.
type Registry struct {
	entries map[string]Strategy
}

func key(kind games.Kind, name string) string {
	return fmt.Sprintf("%s:%s", kind, name)
}

// Lookup returns the named strategy for kind, or ok=false if it was never registered (or
// failed to build at startup).
func (r *Registry) Lookup(kind games.Kind, name string) (Strategy, bool) {
	s, ok := r.entries[key(kind, name)]
	return s, ok
}

// Names lists every AI name registered for kind, for the API's discovery endpoint.
func (r *Registry) Names(kind games.Kind) []string {
	var names []string
	prefix := string(kind) + ":"
	for k := range r.entries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			names = append(names, k[len(prefix):])
		}
	}
	return names
}

// Build constructs a Registry from config, always including the built-in defaults (the
// closed-form solvers, the depth-bounded search personalities, and a uniform-random
// fallback for every game kind) before layering in any additional declarative entries.
func Build(configs []Config) *Registry {
	r := &Registry{entries: map[string]Strategy{}}

	for _, kind := range []games.Kind{
		games.TicTacToe, games.Connect4, games.Chess, games.Santorini, games.Nim, games.Wythoff, games.Azul,
	} {
		r.entries[key(kind, "random")] = randomFor(kind, 1)
	}

	r.entries[key(games.Nim, "optimal")] = nimai.Strategy{}
	r.entries[key(games.Wythoff, "optimal")] = wythoffai.Strategy{}
	r.entries[key(games.Santorini, "greedy")] = heuristic.NewSantorini(1)
	r.entries[key(games.Connect4, "negamax")] = connect4ai.New(7, 1)

	r.entries[key(games.Chess, "modern")] = chessai.Modern(4, 1)
	r.entries[key(games.Chess, "turochamp")] = chessai.Turochamp(3, 1)
	r.entries[key(games.Chess, "bernstein")] = chessai.Bernstein(3, 1)
	r.entries[key(games.Chess, "sargon")] = chessai.Sargon(3, 1)

	r.entries[key(games.Azul, "mcts")] = mctsStrategy(azul.Engine{}, mcts.AzulEvaluator{}, 500, 1, true)
	r.entries[key(games.TicTacToe, "mcts")] = mctsStrategy(tictactoe.Engine{}, nil, 300, 1, false)
	r.entries[key(games.Connect4, "mcts")] = mctsStrategy(connect4.Engine{}, nil, 500, 1, false)

	for _, cfg := range configs {
		if err := r.add(cfg); err != nil {
			logw.Warningf(context.Background(), "skipping misconfigured AI entry kind=%v name=%v: %v", cfg.Kind, cfg.Name, err)
		}
	}

	return r
}

func mctsStrategy(engine games.Engine, eval mcts.Evaluator, iterations int, seed int64, singlePlayer bool) Strategy {
	s := mcts.New(engine, eval, iterations, seed)
	s.SinglePlayer = singlePlayer
	return s
}

// add builds one Config entry and installs it, overwriting any built-in default with the
// same kind/name.
func (r *Registry) add(cfg Config) error {
	kind := games.Kind(cfg.Kind)
	if cfg.Name == "" {
		return apperr.BadRequestf("ai config missing name for kind %q", cfg.Kind)
	}

	seed := int64(1)
	if v, ok := cfg.Options["seed"].(float64); ok {
		seed = int64(v)
	}
	depth := 0
	if v, ok := cfg.Options["depth"].(float64); ok {
		depth = int(v)
	}
	iterations := 0
	if v, ok := cfg.Options["iterations"].(float64); ok {
		iterations = int(v)
	}

	var strategy Strategy
	switch kind {
	case games.Chess:
		switch cfg.Options["personality"] {
		case "turochamp":
			strategy = chessai.Turochamp(depth, seed)
		case "bernstein":
			strategy = chessai.Bernstein(depth, seed)
		case "sargon":
			strategy = chessai.Sargon(depth, seed)
		default:
			strategy = chessai.Modern(depth, seed)
		}
	case games.Connect4:
		strategy = connect4ai.New(depth, seed)
	case games.Nim:
		strategy = nimai.Strategy{}
	case games.Wythoff:
		strategy = wythoffai.Strategy{}
	case games.Santorini:
		strategy = heuristic.NewSantorini(seed)
	case games.Azul:
		strategy = mctsStrategy(azul.Engine{}, mcts.AzulEvaluator{}, iterations, seed, true)
	case games.TicTacToe:
		strategy = randomFor(kind, seed)
	default:
		return apperr.BadRequestf("unknown game kind %q", cfg.Kind)
	}

	r.entries[key(kind, cfg.Name)] = strategy
	return nil
}
