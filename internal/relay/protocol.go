package relay

import "strings"

// Line decorations used by the relay wire protocol. A client-authored line is
// fanned out as `[<username>] <text>`; a whisper is delivered as
// `(<username>) <text>`; anything else originates from the relay itself.
const (
	broadcastOpen  = '['
	broadcastClose = ']'
	whisperOpen    = '('
	whisperClose   = ')'

	// WhisperPrefix marks an outbound line as directed at one recipient
	WhisperPrefix = "@"

	// LeftChatSuffix ends the relay's departure announcements
	LeftChatSuffix = " has left the chat"

	// EnteredChatSuffix ends the relay's arrival announcements
	EnteredChatSuffix = " has entered the chat"

	// LeaveDirective is the line a client sends to disconnect cleanly
	LeaveDirective = "LEAVE"
)

// Kind classifies an inbound relay line
type Kind int

const (
	// KindSystem is a line originating from the relay itself
	KindSystem Kind = iota
	// KindBroadcast is a client-authored line fanned out to everyone
	KindBroadcast
	// KindWhisper is a client-authored line directed at this connection only
	KindWhisper
)

// Message is a classified inbound relay line
type Message struct {
	Kind   Kind
	Sender string // authoring client's username; empty for system lines
	Body   string
}

// ParseLine classifies one inbound relay line. It returns false for empty
// lines and for authored lines too mangled to carry a sender and a body.
func ParseLine(line string) (Message, bool) {
	if line == "" {
		return Message{}, false
	}

	var kind Kind
	switch line[0] {
	case broadcastOpen:
		kind = KindBroadcast
	case whisperOpen:
		kind = KindWhisper
	default:
		return Message{Kind: KindSystem, Body: line}, true
	}

	// `[user] text` / `(user) text`: the sender runs from after the opening
	// bracket to just before the space, with the closing bracket stripped.
	space := strings.IndexByte(line, ' ')
	if space < 3 {
		return Message{}, false
	}
	return Message{
		Kind:   kind,
		Sender: line[1 : space-1],
		Body:   line[space+1:],
	}, true
}

// Leaver extracts the username from a relay departure announcement.
// It returns false when the line is not one.
func Leaver(line string) (string, bool) {
	if !strings.HasSuffix(line, LeftChatSuffix) {
		return "", false
	}
	return strings.TrimSuffix(line, LeftChatSuffix), true
}
