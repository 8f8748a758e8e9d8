package chess

import "github.com/kestrelgames/boardhouse/internal/games"

func init() {
	games.Register(games.Chess, func() games.Engine { return Engine{} })
}
