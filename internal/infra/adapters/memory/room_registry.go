package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/qrave1/proctorlink/internal/application/metric"
)

// RoomRegistry хранит участников комнат: roomId -> set<handle>.
// Комната появляется при первом join и удаляется, когда из неё вышел последний участник.
type RoomRegistry interface {
	// Join returns the room occupancy after the join. Joining twice is a no-op.
	Join(roomID string, handle uuid.UUID) int
	Leave(roomID string, handle uuid.UUID)

	// Members returns a copy, safe to iterate while the room changes.
	Members(roomID string) []uuid.UUID
	Count() int
}

type roomRegistry struct {
	rooms map[string]map[uuid.UUID]struct{}
	mu    sync.RWMutex
}

func NewRoomRegistry() RoomRegistry {
	return &roomRegistry{
		rooms: make(map[string]map[uuid.UUID]struct{}),
	}
}

func (r *roomRegistry) Join(roomID string, handle uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[uuid.UUID]struct{})
		r.rooms[roomID] = members
		metric.SetActiveRooms(len(r.rooms))
	}

	members[handle] = struct{}{}

	return len(members)
}

func (r *roomRegistry) Leave(roomID string, handle uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return
	}

	delete(members, handle)

	if len(members) == 0 {
		delete(r.rooms, roomID)
		metric.SetActiveRooms(len(r.rooms))
	}
}

func (r *roomRegistry) Members(roomID string) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return []uuid.UUID{}
	}

	return lo.Keys(members)
}

func (r *roomRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}
