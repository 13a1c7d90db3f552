package dungeon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rjmcf/dungeonchat-go/internal/dependencies/random"
	"github.com/rjmcf/dungeonchat-go/internal/model"
)

// Cell characters used on the dungeon grid
const (
	CellWall  = '#'
	CellFloor = '.'
	CellGold  = 'G'
	CellExit  = 'E'
)

// replenishAttempts bounds the random draws made when topping up gold
const replenishAttempts = 1000

// Map holds the dungeon grid and its win condition
type Map struct {
	name         string
	goldRequired int
	grid         [][]byte
}

// Parse reads a map definition. The format is a `name` line, a `win` line
// holding the gold required to win, then one row of cells per line. Rows may
// have differing lengths; short rows are padded with walls.
func Parse(r io.Reader) (*Map, error) {
	m := &Map{}

	scanner := bufio.NewScanner(r)
	width := 0
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "name "):
			m.name = strings.TrimPrefix(line, "name ")
		case strings.HasPrefix(line, "win "):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "win ")))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad win line %q", model.ErrMapFormat, line)
			}
			m.goldRequired = n
		case line != "":
			row := []byte(line)
			if len(row) > width {
				width = len(row)
			}
			m.grid = append(m.grid, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}

	if m.name == "" {
		m.name = "Unnamed Dungeon"
	}
	if len(m.grid) == 0 {
		return nil, fmt.Errorf("%w: no grid rows", model.ErrMapFormat)
	}
	for i, row := range m.grid {
		for len(row) < width {
			row = append(row, CellWall)
		}
		m.grid[i] = row
	}

	return m, nil
}

// LoadFile parses a map definition from a file on disk
func LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening map file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Default returns the built-in map used when no map file is given
func Default() *Map {
	m, err := Parse(strings.NewReader(defaultMap))
	if err != nil {
		// The embedded map is a constant; failing to parse it is a bug
		panic(err)
	}
	return m
}

const defaultMap = `name The Dungeon of Doom
win 3
###################
#...#....G........#
#...#.........E...#
#.###.......##....#
#.....G.....##....#
#..........###....#
#...###......G....#
#...#E#...........#
#...###......#....#
#..G.........#....#
###################
`

// Name returns the human-readable map name
func (m *Map) Name() string {
	return m.name
}

// GoldRequired returns the gold a player needs before quitting on an exit wins
func (m *Map) GoldRequired() int {
	return m.goldRequired
}

// Width returns the number of columns in the grid
func (m *Map) Width() int {
	return len(m.grid[0])
}

// Height returns the number of rows in the grid
func (m *Map) Height() int {
	return len(m.grid)
}

// CharAt returns the cell character at the given position.
// Positions outside the grid read as walls, so lookers see a solid border
// and nothing can move or be placed out of bounds.
func (m *Map) CharAt(pos model.Position) byte {
	if pos.Y < 0 || pos.Y >= m.Height() || pos.X < 0 || pos.X >= m.Width() {
		return CellWall
	}
	return m.grid[pos.Y][pos.X]
}

// ClearAt resets the cell at the given position to bare floor.
// Used when a player picks up the gold on their cell.
func (m *Map) ClearAt(pos model.Position) {
	if pos.Y < 0 || pos.Y >= m.Height() || pos.X < 0 || pos.X >= m.Width() {
		return
	}
	m.grid[pos.Y][pos.X] = CellFloor
}

// Window extracts a size x size view centered on the given position, with
// every active player's marker overlaid on the underlying cells. A player
// marker wins over the map cell beneath it.
func (m *Map) Window(center model.Position, size int, players []*model.Player) [][]byte {
	half := size / 2
	view := make([][]byte, size)
	for wy := 0; wy < size; wy++ {
		view[wy] = make([]byte, size)
		for wx := 0; wx < size; wx++ {
			pos := model.Position{X: center.X - half + wx, Y: center.Y - half + wy}
			view[wy][wx] = m.CharAt(pos)
			for _, p := range players {
				if p.Pos == pos {
					view[wy][wx] = p.Marker
				}
			}
		}
	}
	return view
}

// GoldOnMap counts the gold cells remaining on the grid
func (m *Map) GoldOnMap() int {
	count := 0
	for _, row := range m.grid {
		for _, c := range row {
			if c == CellGold {
				count++
			}
		}
	}
	return count
}

// ReplenishGold tops up the gold on the map so that the active human players
// can still collectively reach the target. It adds gold to random free floor
// cells (never walls, exits, existing gold, or occupied cells) until the gold
// remaining on the map covers what the players still need, giving up after a
// bounded number of draws on crowded maps.
func (m *Map) ReplenishGold(target int, players []*model.Player, rnd random.Random) {
	needed := 0
	for _, p := range players {
		if !p.IsHuman() {
			continue
		}
		if deficit := target - p.Gold; deficit > 0 {
			needed += deficit
		}
	}

	toAdd := needed - m.GoldOnMap()
	for attempt := 0; attempt < replenishAttempts && toAdd > 0; attempt++ {
		pos := model.Position{X: rnd.Intn(m.Width()), Y: rnd.Intn(m.Height())}
		if m.CharAt(pos) != CellFloor {
			continue
		}
		occupied := false
		for _, p := range players {
			if p.Pos == pos {
				occupied = true
				break
			}
		}
		if occupied {
			continue
		}
		m.grid[pos.Y][pos.X] = CellGold
		toAdd--
	}
}
