package bot

import (
	"github.com/rjmcf/dungeonchat-go/internal/dependencies/random"
	"github.com/rjmcf/dungeonchat-go/internal/model"
)

// ChaseStrategy alternates between looking and moving. After a look that
// revealed a human it moves toward the nearest one; otherwise it wanders in a
// random direction.
type ChaseStrategy struct {
	random random.Random

	moveNext  bool // next command is a move rather than a look
	hasTarget bool
	targetDX  int // offset of the chased human relative to the bot
	targetDY  int
}

// Ensure ChaseStrategy implements Strategy
var _ Strategy = (*ChaseStrategy)(nil)

// NewChaseStrategy creates a ChaseStrategy drawing wander directions from rnd
func NewChaseStrategy(rnd random.Random) *ChaseStrategy {
	return &ChaseStrategy{random: rnd}
}

// Observe records the offset of the nearest visible human, if any.
// The view is assumed square with the bot at its center.
func (s *ChaseStrategy) Observe(view [][]byte, humanMarker byte) {
	half := len(view) / 2
	s.hasTarget = false
	best := 0
	for y := range view {
		for x := range view[y] {
			if view[y][x] != humanMarker {
				continue
			}
			dx, dy := x-half, y-half
			dist := abs(dx) + abs(dy)
			if !s.hasTarget || dist < best {
				s.hasTarget = true
				s.targetDX, s.targetDY = dx, dy
				best = dist
			}
		}
	}
}

// NextCommand returns the bot's next action. Looks and moves alternate so the
// bot's picture of its surroundings never goes more than one move stale.
func (s *ChaseStrategy) NextCommand() []string {
	if !s.moveNext {
		s.moveNext = true
		return []string{"LOOK"}
	}
	s.moveNext = false

	dir := s.chaseDirection()
	if dir == "" {
		dir = model.Directions[s.random.Intn(len(model.Directions))]
	}
	return []string{"MOVE", string(dir)}
}

// chaseDirection picks the direction that closes the larger axis of the gap
// to the chased human, or "" when there is nobody to chase.
func (s *ChaseStrategy) chaseDirection() model.Direction {
	if !s.hasTarget || (s.targetDX == 0 && s.targetDY == 0) {
		return ""
	}

	var dir model.Direction
	if abs(s.targetDX) >= abs(s.targetDY) {
		if s.targetDX > 0 {
			dir = model.DirectionEast
		} else {
			dir = model.DirectionWest
		}
	} else {
		if s.targetDY > 0 {
			dir = model.DirectionSouth
		} else {
			dir = model.DirectionNorth
		}
	}

	// Track the expected gap after the move so a chase can continue past the
	// next look if the human stands still.
	dx, dy := dir.Vector()
	s.targetDX -= dx
	s.targetDY -= dy
	return dir
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
