package azul

import "github.com/kestrelgames/boardhouse/internal/games"

func init() {
	games.Register(games.Azul, func() games.Engine { return Engine{} })
}
