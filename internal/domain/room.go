package domain

import "strings"

const (
	RoomIDDelimiter = "-"

	// DefaultSessionID подставляется, когда в идентификаторе комнаты нет части с сессией
	DefaultSessionID = "sessionid"
)

// RoomRef is what a room identifier says about the exam it belongs to.
type RoomRef struct {
	CandidateName string
	SessionID     string
}

// ParseRoomID splits "<candidate>-<session>" at the first delimiter. The room id is
// never validated: a missing or empty session part falls back to DefaultSessionID and
// an empty candidate part means the join is not recorded in the ledger.
func ParseRoomID(raw string) RoomRef {
	candidate, session, _ := strings.Cut(raw, RoomIDDelimiter)
	if session == "" {
		session = DefaultSessionID
	}

	return RoomRef{
		CandidateName: candidate,
		SessionID:     session,
	}
}
