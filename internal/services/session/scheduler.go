package session

import "log/slog"

// afterTurn runs the bookkeeping that follows every valid human command:
// capture detection, then possibly a bot turn with its own capture pass.
// The double capture check catches both directions of collision, a human
// walking onto the bot and the bot walking onto a human.
func (s *Session) afterTurn() {
	s.removeCaught()

	s.turnsSinceBot++
	if s.turnsSinceBot >= s.botTurnThreshold() {
		s.runBotTurn()
		s.removeCaught()
		s.turnsSinceBot = 0
	}
}

// botTurnThreshold is the number of valid human commands between bot turns:
// one fewer than the active player count, so the bot averages one turn per
// human per round. The count includes the bot itself, making the threshold
// equal to the number of active humans. Clamped to 1 so a humanless session
// does not hand the bot a turn after every single command.
func (s *Session) botTurnThreshold() int {
	threshold := len(s.players) - 1
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}

// runBotTurn pulls the bot's next decision and runs it through the same
// interpreter path as human commands. The reply text is discarded; a bot LOOK
// feeds its perception as a side effect of the interpreter.
func (s *Session) runBotTurn() {
	tokens := s.brain.NextCommand()
	result, valid := s.execute(tokens, s.bot)
	if !valid {
		s.logger.Warn("bot issued invalid command", slog.Any("tokens", tokens))
		return
	}
	s.logger.Debug("bot turn",
		slog.Any("tokens", tokens),
		slog.String("result", firstLine(result)),
	)
}

func firstLine(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			return text[:i]
		}
	}
	return text
}
