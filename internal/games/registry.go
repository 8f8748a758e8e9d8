package games

import (
	"fmt"
)

// engineFactories is filled by each kind's init() (see register.go in each game package) so
// that the games package itself stays free of import cycles with its own subpackages.
var engineFactories = map[Kind]func() Engine{}

// Register installs the Engine constructor for kind. Called from each game package's
// init() when imported for side effect by the orchestrator/httpapi wiring layer.
func Register(kind Kind, factory func() Engine) {
	engineFactories[kind] = factory
}

// EngineFor returns the registered Engine for kind, or an error if no game package
// registered one (i.e. it was never imported by the process's wiring root).
func EngineFor(kind Kind) (Engine, error) {
	factory, ok := engineFactories[kind]
	if !ok {
		return nil, fmt.Errorf("games: no engine registered for kind %q", kind)
	}
	return factory(), nil
}

// Kinds lists every kind with a registered engine, in the fixed declaration order.
func Kinds() []Kind {
	all := []Kind{TicTacToe, Connect4, Chess, Santorini, Nim, Wythoff, Azul}
	var out []Kind
	for _, k := range all {
		if _, ok := engineFactories[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
