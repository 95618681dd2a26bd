package events

import (
	"encoding/json"
)

const (
	TypeConnected             = "connected"
	TypeJoin                  = "join"
	TypePeerJoined            = "peer-joined"
	TypeSignal                = "signal"
	TypeRequestOffers         = "request-offers"
	TypeSendOfferToLateJoiner = "send-offer-to-late-joiner"
	TypeSubmitted             = "submitted"
	TypePeerLeft              = "peer-left"
	TypePing                  = "ping"
	TypePong                  = "pong"
	TypeError                 = "error"
)

// Message - общее событие
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// JoinEvent - вход в комнату
type JoinEvent struct {
	RoomID string `json:"roomId"`
}

// RoomEvent - request-offers и submitted, roomId только для логов
type RoomEvent struct {
	RoomID string `json:"roomId"`
}

// SignalEvent - непрозрачный payload, релей смотрит только на target
type SignalEvent struct {
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload"`
}

// SignalTarget достаёт необязательный адресат из payload
type SignalTarget struct {
	Target string `json:"target"`
}

type ConnectedEvent struct {
	ID string `json:"id"`
}

type PeerJoinedEvent struct {
	ID            string `json:"id"`
	CandidateName string `json:"candidateName"`
}

type RelayedSignalEvent struct {
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

type LateJoinerEvent struct {
	NewPeerID string `json:"newPeerId"`
}

type SubmittedEvent struct {
	RoomID string `json:"roomId"`
}

type PeerLeftEvent struct {
	ID string `json:"id"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}
