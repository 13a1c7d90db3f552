package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rjmcf/dungeonchat-go/internal/dependencies/random"
	"github.com/rjmcf/dungeonchat-go/internal/model"
	"github.com/rjmcf/dungeonchat-go/internal/relay"
	"github.com/rjmcf/dungeonchat-go/internal/services/bot"
	"github.com/rjmcf/dungeonchat-go/internal/services/dungeon"
)

// Map display markers for the two kinds of player
const (
	HumanMarker = 'P'
	BotMarker   = 'B'
)

// JoinDirective is the chat message that enters a player into the game
const JoinDirective = "JOIN"

// Transport is the session's view of the relay connection. ReadLine blocks
// until the next inbound line; Broadcast and Whisper emit outbound lines.
type Transport interface {
	ReadLine() (string, error)
	Broadcast(text string) error
	Whisper(username, text string) error
}

// Session runs one dungeon game driven entirely by relay chat lines. All game
// state (players, map, turn counter) is owned by the goroutine calling Run;
// only the Transport is shared with other goroutines.
type Session struct {
	dungeon   *dungeon.Map
	brain     bot.Strategy
	transport Transport
	random    random.Random
	logger    *slog.Logger

	bot     *model.Player
	players []*model.Player // active set; includes the bot once Setup succeeds

	turnsSinceBot int // valid commands since the bot last acted
}

// New creates a Session over the given map, bot strategy and transport
func New(m *dungeon.Map, brain bot.Strategy, transport Transport, rnd random.Random, logger *slog.Logger) *Session {
	return &Session{
		dungeon:   m,
		brain:     brain,
		transport: transport,
		random:    rnd,
		logger:    logger.With(slog.String("component", "session")),
	}
}

// Setup places the bot and invites the chat to join. A bot placement failure
// is fatal to the session.
func (s *Session) Setup() error {
	s.bot = model.NewBot(BotMarker)
	if err := s.place(s.bot); err != nil {
		return fmt.Errorf("placing bot: %w", err)
	}
	s.players = append(s.players, s.bot)
	s.broadcast("Type JOIN to enter the game.")
	return nil
}

// Run ingests relay lines until the transport fails or is closed. A read
// error is fatal to the session; the caller decides whether it was a
// deliberate teardown.
func (s *Session) Run(ctx context.Context) error {
	for {
		line, err := s.transport.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("relay read: %w", err)
		}
		s.HandleLine(line)
	}
}

// HandleLine classifies and processes one inbound relay line
func (s *Session) HandleLine(line string) {
	msg, ok := relay.ParseLine(line)
	if !ok {
		return
	}

	if msg.Kind == relay.KindSystem {
		s.logger.Info("relay message", slog.String("text", msg.Body))
		if username, isLeaver := relay.Leaver(msg.Body); isLeaver {
			s.handleDeparture(username)
		}
		return
	}

	s.handleClientMessage(msg.Sender, msg.Body)
}

// handleClientMessage processes a line authored by another relay client:
// either a join request or a game command from an active player.
func (s *Session) handleClientMessage(sender, body string) {
	payload := strings.ToUpper(body)
	player := s.humanByUsername(sender)

	if payload == JoinDirective {
		if player != nil {
			s.broadcast(fmt.Sprintf("Player %s already in game", sender))
			return
		}
		s.join(sender)
		return
	}

	if player == nil {
		return
	}

	result, valid := s.execute(strings.Split(payload, " "), player)
	if !valid {
		// Unknown or unauthorized commands get no reply and no turn
		return
	}
	s.whisper(sender, result)
	s.afterTurn()
}

// join places a new human player, or reports why it could not
func (s *Session) join(username string) {
	player := model.NewHuman(username, HumanMarker)
	if err := s.place(player); err != nil {
		s.logger.Warn("could not place joining player",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		s.broadcast(fmt.Sprintf("Player %s could not be added to game", username))
		return
	}

	s.players = append(s.players, player)
	// Top the map up so the newcomer can still reach the win threshold
	s.dungeon.ReplenishGold(s.dungeon.GoldRequired(), s.players, s.random)

	s.broadcast(fmt.Sprintf("Player %s added to game", username))
	s.whisper(username, "Welcome to the "+s.dungeon.Name())
}

// handleDeparture silently removes a player whose chat client disconnected
func (s *Session) handleDeparture(username string) {
	player := s.humanByUsername(username)
	if player == nil {
		return
	}
	s.removePlayer(player)
	s.logger.Info("player left the chat", slog.String("username", username))
}

// humanByUsername finds the active human with the given (case-sensitive)
// username, or nil.
func (s *Session) humanByUsername(username string) *model.Player {
	for _, p := range s.players {
		if p.IsHuman() && p.Username == username {
			return p
		}
	}
	return nil
}

// removePlayer drops a player from the active set
func (s *Session) removePlayer(player *model.Player) {
	for i, p := range s.players {
		if p == player {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return
		}
	}
}

// broadcast emits a public line; relay write failures are logged, not fatal
func (s *Session) broadcast(text string) {
	if err := s.transport.Broadcast(text); err != nil {
		s.logger.Warn("broadcast failed", slog.String("error", err.Error()))
	}
}

// whisper emits a private reply; relay write failures are logged, not fatal
func (s *Session) whisper(username, text string) {
	if err := s.transport.Whisper(username, text); err != nil {
		s.logger.Warn("whisper failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
	}
}
