package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rjmcf/dungeonchat-go/internal/dependencies/clock"
	"github.com/rjmcf/dungeonchat-go/internal/relay"
)

// DefaultUsername is the name the bot introduces itself with on the relay
const DefaultUsername = "ChatBot"

// Transport is the bot's view of the relay connection
type Transport interface {
	ReadLine() (string, error)
	Send(line string) error
}

// Bot is a canned-response chat participant. It answers whispers directly and
// answers broadcasts that open with its own username.
type Bot struct {
	username  string
	transport Transport
	responses map[string]string
	logger    *slog.Logger
}

// New creates a Bot. The clock stamps the "when were you born?" answer with
// the bot's startup time.
func New(username string, transport Transport, clk clock.Clock, logger *slog.Logger) *Bot {
	return &Bot{
		username:  username,
		transport: transport,
		responses: cannedResponses(username, clk),
		logger:    logger.With(slog.String("component", "chatbot")),
	}
}

func cannedResponses(username string, clk clock.Clock) map[string]string {
	return map[string]string{
		"hello":               "Hi!",
		"hi":                  "Hi there!",
		"hey":                 "Hey there!",
		"hello there":         "General Kenobi!",
		"how are you?":        "Good thanks!",
		"tell me a joke":      "Why did the programmer quit his job? Because he didn't get arrays.",
		"when were you born?": clk.Now().Format("Mon Jan 2 15:04:05 MST 2006"),
		"tell me a dog fact":  "Did you know dogs have 3 eyelids?",
		"what's your name?":   fmt.Sprintf("My name is %s.", username),
		"go away":             relay.LeaveDirective,
	}
}

// Run answers relay messages until the connection drops
func (b *Bot) Run(ctx context.Context) error {
	for {
		line, err := b.transport.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("relay read: %w", err)
		}

		reply, ok := b.Respond(line)
		if !ok {
			continue
		}
		if err := b.transport.Send(reply); err != nil {
			b.logger.Warn("send failed", slog.String("error", err.Error()))
		}
	}
}

// Respond computes the reply for one inbound relay line. It returns false
// when the line warrants no reply: system lines, the bot's own messages,
// unaddressed broadcasts, and messages with no canned answer.
func (b *Bot) Respond(line string) (string, bool) {
	msg, ok := relay.ParseLine(line)
	if !ok {
		return "", false
	}

	switch msg.Kind {
	case relay.KindSystem:
		b.logger.Info("relay message", slog.String("text", msg.Body))
		return "", false
	case relay.KindWhisper:
		if msg.Sender == b.username {
			return "", false
		}
		answer, found := b.responses[strings.ToLower(msg.Body)]
		if !found {
			return "", false
		}
		// Whisper the answer back to whoever asked
		return relay.WhisperPrefix + msg.Sender + " " + answer, true
	default:
		if msg.Sender == b.username {
			return "", false
		}
		// Broadcasts only get an answer when addressed by name, e.g.
		// "ChatBot tell me a joke".
		prefix := strings.ToLower(b.username) + " "
		body := strings.ToLower(msg.Body)
		if !strings.HasPrefix(body, prefix) {
			return "", false
		}
		answer, found := b.responses[body[len(prefix):]]
		if !found {
			return "", false
		}
		return answer, true
	}
}
