package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/proctorlink/internal/domain"
)

type PeerRepository interface {
	Add(*domain.Peer)
	Get(uuid.UUID) (*domain.Peer, bool)
	Remove(uuid.UUID)
}

type peerRepository struct {
	// peers хранит map[handle]*Peer
	peers map[uuid.UUID]*domain.Peer
	mu    sync.RWMutex
}

func NewPeerRepository() PeerRepository {
	return &peerRepository{
		peers: make(map[uuid.UUID]*domain.Peer),
	}
}

func (r *peerRepository) Add(peer *domain.Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.peers[peer.Handle] = peer
}

func (r *peerRepository) Get(handle uuid.UUID) (*domain.Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	peer, ok := r.peers[handle]
	return peer, ok
}

func (r *peerRepository) Remove(handle uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.peers, handle)
}
