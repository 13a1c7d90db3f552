package bot

// Strategy defines how the dungeon bot perceives and acts.
//
// Observe ingests a square perception window centered on the bot, together
// with the marker character that distinguishes human players in the window.
// NextCommand returns the bot's next action as interpreter-ready tokens,
// e.g. ["LOOK"] or ["MOVE", "N"].
type Strategy interface {
	Observe(view [][]byte, humanMarker byte)
	NextCommand() []string
}
