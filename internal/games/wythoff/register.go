package wythoff

import "github.com/kestrelgames/boardhouse/internal/games"

func init() {
	games.Register(games.Wythoff, func() games.Engine { return Engine{} })
}
