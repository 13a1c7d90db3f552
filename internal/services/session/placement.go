package session

import (
	"github.com/rjmcf/dungeonchat-go/internal/model"
	"github.com/rjmcf/dungeonchat-go/internal/services/dungeon"
)

// placementAttempts bounds the random draws made to place one player
const placementAttempts = 1000

// place assigns the player a uniformly random cell that is not a wall, not
// gold, and not occupied by a different player. Sharing a cell is otherwise
// legal during play; placement just never starts a player on top of someone.
func (s *Session) place(player *model.Player) error {
	for attempt := 0; attempt < placementAttempts; attempt++ {
		pos := model.Position{
			X: s.random.Intn(s.dungeon.Width()),
			Y: s.random.Intn(s.dungeon.Height()),
		}

		if c := s.dungeon.CharAt(pos); c == dungeon.CellWall || c == dungeon.CellGold {
			continue
		}
		if s.occupiedByOther(pos, player) {
			continue
		}

		player.Pos = pos
		return nil
	}
	return model.ErrPlacementFailed
}

func (s *Session) occupiedByOther(pos model.Position, player *model.Player) bool {
	for _, other := range s.players {
		if other != player && other.Pos == pos {
			return true
		}
	}
	return false
}
