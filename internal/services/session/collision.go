package session

import (
	"fmt"

	"github.com/rjmcf/dungeonchat-go/internal/model"
)

// removeCaught evicts every human sharing a cell with the bot. Sharing a cell
// is the capture condition, no matter whose move created the overlap.
func (s *Session) removeCaught() {
	for _, player := range s.caughtPlayers() {
		s.broadcast(fmt.Sprintf("Player %s has lost. The bot caught you", player.Username))
		s.removePlayer(player)
	}
}

// caughtPlayers returns the humans currently standing on the bot's cell
func (s *Session) caughtPlayers() []*model.Player {
	var caught []*model.Player
	for _, p := range s.players {
		if p.IsHuman() && p.Pos == s.bot.Pos {
			caught = append(caught, p)
		}
	}
	return caught
}
