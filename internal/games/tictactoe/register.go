package tictactoe

import "github.com/kestrelgames/boardhouse/internal/games"

func init() {
	games.Register(games.TicTacToe, func() games.Engine { return Engine{} })
}
