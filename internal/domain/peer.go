package domain

import (
	"sync"

	"github.com/google/uuid"
)

type PeerState int

const (
	PeerUnjoined PeerState = iota
	PeerJoined
	PeerClosed
)

func (s PeerState) String() string {
	switch s {
	case PeerUnjoined:
		return "unjoined"
	case PeerJoined:
		return "joined"
	case PeerClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Peer - состояние одного живого соединения в релее.
// События одного соединения обрабатываются последовательно, мьютекс нужен для disconnect,
// который может прийти из другой горутины.
type Peer struct {
	Handle uuid.UUID

	mu            sync.Mutex
	state         PeerState
	roomID        string
	candidateName string
}

func NewPeer(handle uuid.UUID) *Peer {
	return &Peer{Handle: handle}
}

func (p *Peer) State() PeerState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Room returns the joined room, ok is false unless the peer is currently joined.
func (p *Peer) Room() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.roomID, p.state == PeerJoined
}

func (p *Peer) CandidateName() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.candidateName
}

// Join moves the peer into roomID and returns the room it was in before, if any.
// A closed peer stays closed and ok is false.
func (p *Peer) Join(roomID, candidateName string) (previous string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == PeerClosed {
		return "", false
	}

	if p.state == PeerJoined {
		previous = p.roomID
	}

	p.state = PeerJoined
	p.roomID = roomID
	p.candidateName = candidateName

	return previous, true
}

// Close is terminal. It returns the room to leave and whether this call did the transition.
func (p *Peer) Close() (roomID string, wasJoined bool, closed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == PeerClosed {
		return "", false, false
	}

	wasJoined = p.state == PeerJoined
	p.state = PeerClosed

	return p.roomID, wasJoined, true
}
