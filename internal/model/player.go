package model

// Role distinguishes the kinds of actor that can occupy the dungeon
type Role string

const (
	RoleHuman Role = "human"
	RoleBot   Role = "bot"
)

// Player represents an actor in the dungeon. Humans carry a username and a
// gold count; the bot carries neither. The session owns all Player values.
type Player struct {
	Role     Role
	Marker   byte   // character shown for this player on the map
	Username string // empty for the bot
	Pos      Position
	Gold     int
}

// NewHuman creates a human player at the zero position with no gold
func NewHuman(username string, marker byte) *Player {
	return &Player{
		Role:     RoleHuman,
		Marker:   marker,
		Username: username,
	}
}

// NewBot creates the bot player at the zero position
func NewBot(marker byte) *Player {
	return &Player{
		Role:   RoleBot,
		Marker: marker,
	}
}

// IsHuman reports whether the player is human-controlled
func (p *Player) IsHuman() bool {
	return p.Role == RoleHuman
}

// MoveBy displaces the player's position by the given deltas
func (p *Player) MoveBy(dx, dy int) {
	p.Pos.X += dx
	p.Pos.Y += dy
}

// PickupGold increments the player's gold count by one
func (p *Player) PickupGold() {
	p.Gold++
}
