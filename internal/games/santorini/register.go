package santorini

import "github.com/kestrelgames/boardhouse/internal/games"

func init() {
	games.Register(games.Santorini, func() games.Engine { return Engine{} })
}
