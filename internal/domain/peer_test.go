package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPeer_Lifecycle(t *testing.T) {
	req := require.New(t)
	p := NewPeer(uuid.New())

	req.Equal(PeerUnjoined, p.State())
	_, joined := p.Room()
	req.False(joined)

	prev, ok := p.Join("alice-s1", "alice")
	req.True(ok)
	req.Empty(prev)
	req.Equal(PeerJoined, p.State())

	prev, ok = p.Join("alice-s2", "alice")
	req.True(ok)
	req.Equal("alice-s1", prev)

	room, joined := p.Room()
	req.True(joined)
	req.Equal("alice-s2", room)

	room, wasJoined, closed := p.Close()
	req.True(closed)
	req.True(wasJoined)
	req.Equal("alice-s2", room)
	req.Equal(PeerClosed, p.State())

	// повторный disconnect ничего не делает
	_, _, closed = p.Close()
	req.False(closed)

	_, ok = p.Join("alice-s3", "alice")
	req.False(ok)
	req.Equal(PeerClosed, p.State())
}

func TestPeer_CloseUnjoined(t *testing.T) {
	p := NewPeer(uuid.New())

	room, wasJoined, closed := p.Close()
	require.True(t, closed)
	require.False(t, wasJoined)
	require.Empty(t, room)
}
