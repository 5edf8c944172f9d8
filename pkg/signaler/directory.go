package signaler

import (
	"sort"
	"sync"
)

// Directory is a bidirectional in-memory index between rooms and participants.
//
// Both maps are kept as mirror images under every mutation: a room's member
// set contains a participant if and only if that participant's room set
// contains the room. Participants reduced to zero rooms are purged from the
// index entirely, rooms are removed only through RemoveRoom.
//
// Unknown ids are not errors, lookups on them yield empty results.
type Directory struct {
	mu           sync.Mutex
	rooms        map[string]map[string]struct{}
	participants map[string]map[string]struct{}
}

func NewDirectory() *Directory {
	return &Directory{
		rooms:        make(map[string]map[string]struct{}),
		participants: make(map[string]map[string]struct{}),
	}
}

// CreateRoom ensures the room exists with an empty member set.
// Idempotent, returns the room id.
func (d *Directory) CreateRoom(roomId string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.rooms[roomId]; !ok {
		d.rooms[roomId] = make(map[string]struct{})
	}
	return roomId
}

// AddParticipant puts the participant into the room, creating the room when
// absent. Idempotent under repeated calls with the same pair; reports whether
// this call created the room, decided under the same lock as the insertion.
func (d *Directory) AddParticipant(roomId string, participantId string) (created bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.rooms[roomId]; !ok {
		d.rooms[roomId] = make(map[string]struct{})
		created = true
	}
	d.rooms[roomId][participantId] = struct{}{}
	if _, ok := d.participants[participantId]; !ok {
		d.participants[participantId] = make(map[string]struct{})
	}
	d.participants[participantId][roomId] = struct{}{}
	return created
}

// RemoveParticipant removes the pairing from both sides of the index.
// The room is kept even when it became empty, its fate is the caller's call.
func (d *Directory) RemoveParticipant(roomId string, participantId string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unlink(roomId, participantId)
}

// RemoveRoom drops the room and unlinks it from every member.
// No-op when the room does not exist.
func (d *Directory) RemoveRoom(roomId string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for participantId := range d.rooms[roomId] {
		d.unlink(roomId, participantId)
	}
	delete(d.rooms, roomId)
}

// unlink breaks one (room, participant) pairing, purging the participant
// when its room set became empty. Callers must hold the mutex.
func (d *Directory) unlink(roomId string, participantId string) {
	if members, ok := d.rooms[roomId]; ok {
		delete(members, participantId)
	}
	if rooms, ok := d.participants[participantId]; ok {
		delete(rooms, roomId)
		if len(rooms) == 0 {
			delete(d.participants, participantId)
		}
	}
}

// ParticipantsOf returns the room's current members.
// The order carries no meaning, it is sorted only to be stable.
func (d *Directory) ParticipantsOf(roomId string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return keys(d.rooms[roomId])
}

// RoomsOf returns the rooms the participant currently belongs to.
func (d *Directory) RoomsOf(participantId string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return keys(d.participants[participantId])
}

// HasRoom tells if the room is present in the index.
func (d *Directory) HasRoom(roomId string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.rooms[roomId]
	return ok
}

func keys(set map[string]struct{}) []string {
	list := make([]string, 0, len(set))
	for k := range set {
		list = append(list, k)
	}
	sort.Strings(list)
	return list
}
