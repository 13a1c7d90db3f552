package session

import (
	"fmt"
	"strings"

	"github.com/rjmcf/dungeonchat-go/internal/model"
	"github.com/rjmcf/dungeonchat-go/internal/services/dungeon"
)

// lookSize is the side length of the square window a LOOK reveals
const lookSize = 5

// execute dispatches one command against one player. Tokens are expected
// upper-cased. It returns the reply text and whether the command was valid;
// invalid commands (unknown word, wrong arity, or a human-only command from
// the bot) mutate nothing and do not count as a turn.
func (s *Session) execute(tokens []string, player *model.Player) (string, bool) {
	switch len(tokens) {
	case 1:
		switch tokens[0] {
		case "HELLO":
			return fmt.Sprintf("Gold to win: %d", s.dungeon.GoldRequired()), true
		case "GOLD":
			if player.IsHuman() {
				return fmt.Sprintf("Gold owned: %d", player.Gold), true
			}
		case "PICKUP":
			if player.IsHuman() {
				return s.pickup(player), true
			}
		case "LOOK":
			return s.look(player), true
		case "QUIT":
			if player.IsHuman() {
				return s.quit(player), true
			}
		}
	case 2:
		if tokens[0] == "MOVE" {
			return s.move(player, tokens[1]), true
		}
	}
	return "", false
}

// move steps the player one cell in the given direction. Walls (including
// the solid border beyond the map edge) block the move; anything else,
// gold, exits, other players, is fair ground.
func (s *Session) move(player *model.Player, token string) string {
	dir, ok := model.ParseDirection(token)
	if !ok {
		return "FAIL"
	}
	if s.dungeon.CharAt(player.Pos.Step(dir)) == dungeon.CellWall {
		return "FAIL"
	}
	player.MoveBy(dir.Vector())
	return "SUCCESS"
}

// pickup collects the gold on the player's cell, if there is any. The reply
// reports the resulting total either way.
func (s *Session) pickup(player *model.Player) string {
	if s.dungeon.CharAt(player.Pos) != dungeon.CellGold {
		return fmt.Sprintf("FAIL. Gold owned: %d", player.Gold)
	}
	player.PickupGold()
	s.dungeon.ClearAt(player.Pos)
	return fmt.Sprintf("SUCCESS. Gold owned: %d", player.Gold)
}

// look renders the 5x5 window around the player with all players overlaid.
// When the bot looks, the window feeds its perception before rendering.
func (s *Session) look(player *model.Player) string {
	view := s.dungeon.Window(player.Pos, lookSize, s.players)
	if player.Role == model.RoleBot {
		s.brain.Observe(view, HumanMarker)
	}

	rows := make([]string, len(view))
	for i, row := range view {
		rows[i] = string(row)
	}
	return strings.Join(rows, "\n")
}

// quit ends the player's game: a win on an exit cell with enough gold, a loss
// anywhere else. The player leaves the active set either way.
func (s *Session) quit(player *model.Player) string {
	result := "LOSE"
	announcement := fmt.Sprintf("Player %s has lost.", player.Username)
	if s.dungeon.CharAt(player.Pos) == dungeon.CellExit && player.Gold >= s.dungeon.GoldRequired() {
		result = "WIN"
		announcement = fmt.Sprintf("Player %s has won. Congratulations!", player.Username)
	}

	s.broadcast(announcement)
	s.removePlayer(player)
	return result
}
