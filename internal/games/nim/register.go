package nim

import "github.com/kestrelgames/boardhouse/internal/games"

func init() {
	games.Register(games.Nim, func() games.Engine { return Engine{} })
}
