package chatbot_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rjmcf/dungeonchat-go/internal/chatbot"
	"github.com/rjmcf/dungeonchat-go/internal/dependencies/mocks"
	"github.com/rjmcf/dungeonchat-go/internal/testutil"
)

// fakeTransport replays scripted relay lines and records sent replies
type fakeTransport struct {
	lines []string
	sent  []string
}

func (t *fakeTransport) ReadLine() (string, error) {
	if len(t.lines) == 0 {
		return "", io.EOF
	}
	line := t.lines[0]
	t.lines = t.lines[1:]
	return line, nil
}

func (t *fakeTransport) Send(line string) error {
	t.sent = append(t.sent, line)
	return nil
}

type BotSuite struct {
	suite.Suite

	clock *mocks.MockClock
	bot   *chatbot.Bot
}

func TestBotSuite(t *testing.T) {
	suite.Run(t, new(BotSuite))
}

func (s *BotSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))
	s.bot = chatbot.New(chatbot.DefaultUsername, &fakeTransport{}, s.clock, testutil.NopLogger())
}

func (s *BotSuite) TestRespond() {
	tests := []struct {
		name  string
		line  string
		reply string
		ok    bool
	}{
		{
			name:  "whispered greeting",
			line:  "(alice) hello",
			reply: "@alice Hi!",
			ok:    true,
		},
		{
			name:  "whisper is case insensitive",
			line:  "(alice) HELLO THERE",
			reply: "@alice General Kenobi!",
			ok:    true,
		},
		{
			name:  "whispered birth date uses the clock",
			line:  "(alice) when were you born?",
			reply: "@alice Mon Jan 1 12:00:00 UTC 2024",
			ok:    true,
		},
		{
			name:  "addressed broadcast answered in the open",
			line:  "[alice] ChatBot tell me a joke",
			reply: "Why did the programmer quit his job? Because he didn't get arrays.",
			ok:    true,
		},
		{
			name:  "addressing is case insensitive",
			line:  "[alice] chatbot what's your name?",
			reply: "My name is ChatBot.",
			ok:    true,
		},
		{
			name:  "dismissal makes the bot leave",
			line:  "(alice) go away",
			reply: "@alice LEAVE",
			ok:    true,
		},
		{
			name: "unaddressed broadcast ignored",
			line: "[alice] hello",
		},
		{
			name: "unknown question ignored",
			line: "(alice) what is the meaning of life?",
		},
		{
			name: "system line ignored",
			line: "alice has entered the chat",
		},
		{
			name: "own broadcast ignored",
			line: "[ChatBot] ChatBot hello",
		},
		{
			name: "own whisper ignored",
			line: "(ChatBot) hello",
		},
		{
			name: "empty line ignored",
			line: "",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			reply, ok := s.bot.Respond(tt.line)
			s.Equal(tt.ok, ok)
			s.Equal(tt.reply, reply)
		})
	}
}

func (s *BotSuite) TestRunAnswersUntilDisconnect() {
	transport := &fakeTransport{lines: []string{
		"alice has entered the chat",
		"(alice) hi",
		"[alice] ChatBot tell me a dog fact",
	}}
	bot := chatbot.New(chatbot.DefaultUsername, transport, s.clock, testutil.NopLogger())

	err := bot.Run(context.Background())
	s.Require().ErrorIs(err, io.EOF)
	s.Equal([]string{
		"@alice Hi there!",
		"Did you know dogs have 3 eyelids?",
	}, transport.sent)
}

func (s *BotSuite) TestCustomUsername() {
	bot := chatbot.New("Robotnik", &fakeTransport{}, s.clock, testutil.NopLogger())

	reply, ok := bot.Respond("[alice] robotnik what's your name?")
	s.Require().True(ok)
	s.Equal("My name is Robotnik.", reply)

	_, ok = bot.Respond("[alice] ChatBot what's your name?")
	s.False(ok)
}
