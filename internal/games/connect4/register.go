package connect4

import "github.com/kestrelgames/boardhouse/internal/games"

func init() {
	games.Register(games.Connect4, func() games.Engine { return Engine{} })
}
