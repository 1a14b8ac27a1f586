package world

import (
	"sort"
	"sync"
)

// Location is a place entities can be in. It has its own entity
// identity, so rooms can be named, titled, and wiretapped like anything
// else. The presence list keeps arrival order: that order is the stable
// resolution order for "all".
type Location struct {
	*Entity

	description string

	mu      sync.RWMutex
	present []*Entity
	exits   map[string]*Location
}

func (l *Location) Description() string {
	return l.description
}

// Present returns a snapshot of the entities here, in arrival order.
func (l *Location) Present() []*Entity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]*Entity, len(l.present))
	copy(result, l.present)
	return result
}

func (l *Location) add(e *Entity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, present := range l.present {
		if present == e {
			return
		}
	}
	l.present = append(l.present, e)
}

func (l *Location) remove(e *Entity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, present := range l.present {
		if present == e {
			l.present = append(l.present[:i], l.present[i+1:]...)
			return
		}
	}
}

// AddExit connects this location to dest under the given name.
func (l *Location) AddExit(name string, dest *Location) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.exits == nil {
		l.exits = map[string]*Location{}
	}
	l.exits[name] = dest
}

// Exit returns the destination of the named exit, if any.
func (l *Location) Exit(name string) (*Location, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	dest, found := l.exits[name]
	return dest, found
}

// ExitNames returns the exit names in sorted order.
func (l *Location) ExitNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]string, 0, len(l.exits))
	for name := range l.exits {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Tell delivers text to every entity present except those excluded, and
// forwards a tagged copy to observers tapping the room itself. The room
// keeps no output of its own.
func (l *Location) Tell(text string, exclude ...*Entity) {
	l.Entity.deliverMu.Lock()
	l.realm.taps.deliver(l.Entity, text)
	l.Entity.deliverMu.Unlock()
	for _, e := range l.Present() {
		if !contains(exclude, e) {
			e.Tell(text)
		}
	}
}

func contains(entities []*Entity, e *Entity) bool {
	for _, candidate := range entities {
		if candidate == e {
			return true
		}
	}
	return false
}
