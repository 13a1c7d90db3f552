package session

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rjmcf/dungeonchat-go/internal/dependencies/mocks"
	"github.com/rjmcf/dungeonchat-go/internal/model"
	"github.com/rjmcf/dungeonchat-go/internal/services/dungeon"
	"github.com/rjmcf/dungeonchat-go/internal/testutil"
)

// testMap is a 5x5 open arena: gold at (2,2), exit at (4,4), one gold to win.
// Off-map cells read as walls, so the edges are solid.
const testMap = `name Test Arena
win 1
.....
.....
..G..
.....
....E
`

type whisper struct {
	username string
	text     string
}

// fakeTransport scripts inbound lines and records outbound traffic
type fakeTransport struct {
	lines      []string
	broadcasts []string
	whispers   []whisper
}

var _ Transport = (*fakeTransport)(nil)

func (t *fakeTransport) ReadLine() (string, error) {
	if len(t.lines) == 0 {
		return "", io.EOF
	}
	line := t.lines[0]
	t.lines = t.lines[1:]
	return line, nil
}

func (t *fakeTransport) Broadcast(text string) error {
	t.broadcasts = append(t.broadcasts, text)
	return nil
}

func (t *fakeTransport) Whisper(username, text string) error {
	t.whispers = append(t.whispers, whisper{username: username, text: text})
	return nil
}

func (t *fakeTransport) lastWhisper() whisper {
	if len(t.whispers) == 0 {
		return whisper{}
	}
	return t.whispers[len(t.whispers)-1]
}

// scriptedStrategy replays queued bot commands, defaulting to LOOK
type scriptedStrategy struct {
	commands [][]string
	calls    int
	views    [][][]byte
}

func (s *scriptedStrategy) Observe(view [][]byte, humanMarker byte) {
	s.views = append(s.views, view)
}

func (s *scriptedStrategy) NextCommand() []string {
	s.calls++
	if len(s.commands) == 0 {
		return []string{"LOOK"}
	}
	cmd := s.commands[0]
	s.commands = s.commands[1:]
	return cmd
}

type SessionSuite struct {
	suite.Suite
	random    *mocks.MockRandom
	transport *fakeTransport
	brain     *scriptedStrategy
	session   *Session
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.transport = &fakeTransport{}
	s.brain = &scriptedStrategy{}

	m, err := dungeon.Parse(strings.NewReader(testMap))
	s.Require().NoError(err)

	s.session = New(m, s.brain, s.transport, s.random, testutil.NopLogger())
}

// setupGame places the bot at (0, 0)
func (s *SessionSuite) setupGame() {
	s.random.QueueIntn(0, 0)
	s.Require().NoError(s.session.Setup())
}

// joinAt adds a human via the JOIN directive, placed at the given cell.
// Extra draws feed the gold replenishment that follows a successful join.
func (s *SessionSuite) joinAt(username string, x, y int, replenishDraws ...int) {
	s.random.QueueIntn(x, y)
	s.random.QueueIntn(replenishDraws...)
	s.session.HandleLine("[" + username + "] JOIN")
	s.Require().NotNil(s.session.humanByUsername(username))
}

func (s *SessionSuite) command(username, text string) {
	s.session.HandleLine("[" + username + "] " + text)
}

func (s *SessionSuite) TestSetupInvitesChat() {
	s.setupGame()

	s.Equal([]string{"Type JOIN to enter the game."}, s.transport.broadcasts)
	s.Len(s.session.players, 1)
	s.Equal(model.RoleBot, s.session.players[0].Role)
	s.Equal(model.Position{X: 0, Y: 0}, s.session.players[0].Pos)
}

func (s *SessionSuite) TestSetupFailsOnFullMap() {
	m, err := dungeon.Parse(strings.NewReader("name Solid\nwin 1\n###\n###\n"))
	s.Require().NoError(err)

	sess := New(m, s.brain, s.transport, s.random, testutil.NopLogger())
	s.ErrorIs(sess.Setup(), model.ErrPlacementFailed)
}

func (s *SessionSuite) TestJoinWelcomesPlayer() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	s.Contains(s.transport.broadcasts, "Player alice added to game")
	s.Equal(whisper{username: "alice", text: "Welcome to the Test Arena"}, s.transport.lastWhisper())
	s.Len(s.session.players, 2)
}

func (s *SessionSuite) TestJoinTwiceRejected() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	s.command("alice", "JOIN")
	s.Contains(s.transport.broadcasts, "Player alice already in game")
	s.Len(s.session.players, 2)
}

func (s *SessionSuite) TestJoinPlacementExhaustionRejected() {
	s.setupGame()

	// No queued draws: every attempt lands on (0, 0), the bot's cell
	s.session.HandleLine("[bob] JOIN")

	s.Contains(s.transport.broadcasts, "Player bob could not be added to game")
	s.Nil(s.session.humanByUsername("bob"))
	s.Len(s.session.players, 1)
}

func (s *SessionSuite) TestWinScenario() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	// The bot stays put: the scripted strategy answers every turn with LOOK
	s.command("alice", "MOVE S")
	s.Equal(whisper{"alice", "SUCCESS"}, s.transport.lastWhisper())
	s.command("alice", "MOVE S")

	s.command("alice", "PICKUP")
	s.Equal(whisper{"alice", "SUCCESS. Gold owned: 1"}, s.transport.lastWhisper())

	s.command("alice", "MOVE E")
	s.command("alice", "MOVE E")
	s.command("alice", "MOVE S")
	s.command("alice", "MOVE S")
	s.Equal(model.Position{X: 4, Y: 4}, s.session.humanByUsername("alice").Pos)

	s.command("alice", "QUIT")
	s.Equal(whisper{"alice", "WIN"}, s.transport.lastWhisper())
	s.Contains(s.transport.broadcasts, "Player alice has won. Congratulations!")
	s.Len(s.session.players, 1)
}

func (s *SessionSuite) TestQuitWithoutGoldLoses() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	s.command("alice", "QUIT")
	s.Equal(whisper{"alice", "LOSE"}, s.transport.lastWhisper())
	s.Contains(s.transport.broadcasts, "Player alice has lost.")
	s.Nil(s.session.humanByUsername("alice"))
}

func (s *SessionSuite) TestMoveIntoWallFails() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	// North of (2, 0) is off the map, which reads as wall
	s.command("alice", "MOVE N")
	s.Equal(whisper{"alice", "FAIL"}, s.transport.lastWhisper())
	s.Equal(model.Position{X: 2, Y: 0}, s.session.humanByUsername("alice").Pos)
}

func (s *SessionSuite) TestMoveBadDirectionFailsButCounts() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	s.command("alice", "MOVE X")
	s.Equal(whisper{"alice", "FAIL"}, s.transport.lastWhisper())
	s.Equal(model.Position{X: 2, Y: 0}, s.session.humanByUsername("alice").Pos)
	// A failed move is still a valid command, so the bot got its turn
	s.Equal(1, s.brain.calls)
}

func (s *SessionSuite) TestPickupOffGoldFails() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	s.command("alice", "PICKUP")
	s.Equal(whisper{"alice", "FAIL. Gold owned: 0"}, s.transport.lastWhisper())
}

func (s *SessionSuite) TestPickupTwiceOnlyPaysOnce() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	s.command("alice", "MOVE S")
	s.command("alice", "MOVE S")
	s.command("alice", "PICKUP")
	s.Equal(whisper{"alice", "SUCCESS. Gold owned: 1"}, s.transport.lastWhisper())

	s.command("alice", "PICKUP")
	s.Equal(whisper{"alice", "FAIL. Gold owned: 1"}, s.transport.lastWhisper())
}

func (s *SessionSuite) TestHelloAndGold() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	s.command("alice", "HELLO")
	s.Equal(whisper{"alice", "Gold to win: 1"}, s.transport.lastWhisper())

	s.command("alice", "GOLD")
	s.Equal(whisper{"alice", "Gold owned: 0"}, s.transport.lastWhisper())
}

func (s *SessionSuite) TestLookRendersWindow() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	s.command("alice", "LOOK")

	// Centered on alice at (2, 0): two rows of off-map wall, then the top of
	// the arena with the bot at (0, 0) and alice herself in the middle.
	want := "#####\n" +
		"#####\n" +
		"B.P..\n" +
		".....\n" +
		"..G.."
	s.Equal(whisper{"alice", want}, s.transport.lastWhisper())
}

func (s *SessionSuite) TestBotLookFeedsPerception() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	// Default scripted command is LOOK, so alice's command hands the bot a
	// look that must reach the strategy's perception.
	s.command("alice", "HELLO")

	s.Require().Len(s.brain.views, 1)
	view := s.brain.views[0]
	s.Require().Len(view, 5)
	s.Equal(byte(BotMarker), view[2][2])
}

func (s *SessionSuite) TestInvalidCommandsIgnored() {
	s.setupGame()
	s.joinAt("alice", 2, 0)
	whispersBefore := len(s.transport.whispers)

	s.command("alice", "DANCE")
	s.command("alice", "MOVE N W")
	s.command("stranger", "HELLO")

	s.Len(s.transport.whispers, whispersBefore)
	// None of those counted as a turn, so the bot never acted
	s.Equal(0, s.brain.calls)
}

func (s *SessionSuite) TestCommandsAreCaseInsensitive() {
	s.setupGame()
	s.joinAt("alice", 2, 0)

	s.command("alice", "move s")
	s.Equal(whisper{"alice", "SUCCESS"}, s.transport.lastWhisper())
	s.Equal(model.Position{X: 2, Y: 1}, s.session.humanByUsername("alice").Pos)
}

func (s *SessionSuite) TestBotTurnCadenceWithTwoHumans() {
	s.setupGame()
	s.joinAt("alice", 2, 0)
	// carol's join needs a replenishment draw: two humans now need two gold
	// in total and the map only holds one. (1, 1) is free floor.
	s.joinAt("carol", 2, 4, 1, 1)

	// Three active players (two humans + bot): the bot acts every 2 commands
	s.command("alice", "HELLO")
	s.Equal(0, s.brain.calls)
	s.command("carol", "HELLO")
	s.Equal(1, s.brain.calls)
	s.command("alice", "HELLO")
	s.Equal(1, s.brain.calls)
	s.command("carol", "HELLO")
	s.Equal(2, s.brain.calls)
}

func (s *SessionSuite) TestBotCapturesByMovingOntoHuman() {
	s.setupGame()
	s.joinAt("bob", 0, 2)
	s.brain.commands = [][]string{{"MOVE", "S"}, {"MOVE", "S"}}

	s.command("bob", "HELLO")
	s.NotContains(s.transport.broadcasts, "Player bob has lost. The bot caught you")

	// The second bot move lands on bob, who issued no movement at all
	s.command("bob", "HELLO")
	s.Contains(s.transport.broadcasts, "Player bob has lost. The bot caught you")
	s.Nil(s.session.humanByUsername("bob"))
	s.Len(s.session.players, 1)
}

func (s *SessionSuite) TestHumanCapturedByWalkingOntoBot() {
	s.setupGame()
	s.joinAt("alice", 0, 1)

	s.command("alice", "MOVE N")
	// The move itself succeeds; the capture check then removes alice
	s.Contains(s.transport.whispers, whisper{"alice", "SUCCESS"})
	s.Contains(s.transport.broadcasts, "Player alice has lost. The bot caught you")
	s.Nil(s.session.humanByUsername("alice"))
}

func (s *SessionSuite) TestBotInvalidCommandIsDiscarded() {
	s.setupGame()
	s.joinAt("alice", 2, 0)
	s.brain.commands = [][]string{{"GOLD"}}
	whispersBefore := len(s.transport.whispers)

	s.command("alice", "HELLO")

	s.Equal(1, s.brain.calls)
	// Only alice's own reply went out; the bot's rejected command produced
	// no traffic and no crash.
	s.Len(s.transport.whispers, whispersBefore+1)
}

func (s *SessionSuite) TestLeaveChatRemovesSilently() {
	s.setupGame()
	s.joinAt("alice", 2, 0)
	broadcastsBefore := len(s.transport.broadcasts)

	s.session.HandleLine("alice has left the chat")

	s.Nil(s.session.humanByUsername("alice"))
	s.Len(s.transport.broadcasts, broadcastsBefore)
}

func (s *SessionSuite) TestLeaveChatForUnknownUserIgnored() {
	s.setupGame()
	s.session.HandleLine("mallory has left the chat")
	s.Len(s.session.players, 1)
}

func (s *SessionSuite) TestRunStopsOnDisconnect() {
	s.setupGame()
	s.random.QueueIntn(2, 0)
	s.transport.lines = []string{
		"[alice] JOIN",
		"[alice] MOVE S",
	}

	err := s.session.Run(context.Background())

	s.ErrorIs(err, io.EOF)
	s.NotNil(s.session.humanByUsername("alice"))
	s.Equal(model.Position{X: 2, Y: 1}, s.session.humanByUsername("alice").Pos)
}

func (s *SessionSuite) TestPlacementAvoidsWallsGoldAndPlayers() {
	s.setupGame()

	// Draws land on gold (2,2), then the bot's cell (0,0), then free floor
	s.random.QueueIntn(2, 2, 0, 0, 3, 3)
	s.session.HandleLine("[dave] JOIN")

	dave := s.session.humanByUsername("dave")
	s.Require().NotNil(dave)
	s.Equal(model.Position{X: 3, Y: 3}, dave.Pos)
}
