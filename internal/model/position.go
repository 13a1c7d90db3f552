package model

// Position is a cell coordinate on the dungeon grid.
// X grows eastward, Y grows southward.
type Position struct {
	X int
	Y int
}

// Direction is a compass direction for movement commands
type Direction string

const (
	DirectionNorth Direction = "N"
	DirectionSouth Direction = "S"
	DirectionEast  Direction = "E"
	DirectionWest  Direction = "W"
)

// Directions lists all movement directions in a fixed order
var Directions = []Direction{DirectionNorth, DirectionSouth, DirectionEast, DirectionWest}

// ParseDirection converts a command token into a Direction
func ParseDirection(token string) (Direction, bool) {
	switch Direction(token) {
	case DirectionNorth, DirectionSouth, DirectionEast, DirectionWest:
		return Direction(token), true
	}
	return "", false
}

// Vector returns the unit displacement for the direction
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case DirectionNorth:
		return 0, -1
	case DirectionSouth:
		return 0, 1
	case DirectionEast:
		return 1, 0
	case DirectionWest:
		return -1, 0
	}
	return 0, 0
}

// Step returns the position one cell away in the given direction
func (p Position) Step(d Direction) Position {
	dx, dy := d.Vector()
	return Position{X: p.X + dx, Y: p.Y + dy}
}
