package world

import (
	"fmt"
	"sort"
	"sync"
)

// SecurityError is returned when a privileged operation is attempted
// without the required privilege. It is never downgraded or retried.
type SecurityError struct {
	Actor string
	Op    string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("%s: %q lacks the %q privilege", e.Op, e.Actor, PrivilegeWizard)
}

// Wiretaps tracks which observers receive copies of which entities'
// messages. Installation is an explicit relation, not ownership:
// clearing an observer's taps is complete once Clear returns, with no
// dependence on collector timing. Fan-out runs under the read lock, so
// Clear cannot interleave with an in-flight delivery.
type Wiretaps struct {
	mu        sync.RWMutex
	observers map[*Entity]map[*Entity]bool // source -> observers
	installed map[*Entity]map[*Entity]bool // observer -> sources
}

func newWiretaps() *Wiretaps {
	return &Wiretaps{
		observers: map[*Entity]map[*Entity]bool{},
		installed: map[*Entity]map[*Entity]bool{},
	}
}

// Install makes observer receive a tagged copy of every message source
// emits or receives. Requires the wizard privilege on the observer.
func (w *Wiretaps) Install(observer *Entity, source *Entity) error {
	if !observer.HasPrivilege(PrivilegeWizard) {
		return &SecurityError{Actor: observer.Name(), Op: "install wiretap"}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.observers[source] == nil {
		w.observers[source] = map[*Entity]bool{}
	}
	w.observers[source][observer] = true
	if w.installed[observer] == nil {
		w.installed[observer] = map[*Entity]bool{}
	}
	w.installed[observer][source] = true
	return nil
}

// Remove detaches the observer's tap on source. Removing an absent tap
// is a no-op.
func (w *Wiretaps) Remove(observer *Entity, source *Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.observers[source], observer)
	if len(w.observers[source]) == 0 {
		delete(w.observers, source)
	}
	delete(w.installed[observer], source)
	if len(w.installed[observer]) == 0 {
		delete(w.installed, observer)
	}
}

// Detach drops all taps installed on source, for when the source leaves
// the world.
func (w *Wiretaps) Detach(source *Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for observer := range w.observers[source] {
		delete(w.installed[observer], source)
		if len(w.installed[observer]) == 0 {
			delete(w.installed, observer)
		}
	}
	delete(w.observers, source)
}

// Clear detaches all of the observer's taps at once. No deliveries reach
// the observer after Clear returns.
func (w *Wiretaps) Clear(observer *Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for source := range w.installed[observer] {
		delete(w.observers[source], observer)
		if len(w.observers[source]) == 0 {
			delete(w.observers, source)
		}
	}
	delete(w.installed, observer)
}

// Installed returns the sources the observer taps, sorted by name.
func (w *Wiretaps) Installed(observer *Entity) []*Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]*Entity, 0, len(w.installed[observer]))
	for source := range w.installed[observer] {
		result = append(result, source)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// deliver appends a tagged copy of message to every observer tapping
// source. Called with the source's delivery lock held.
func (w *Wiretaps) deliver(source *Entity, message string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for observer := range w.observers[source] {
		observer.buffer.Append(fmt.Sprintf("[wiretap on '%s': %s]", source.Name(), message), true, true)
	}
}
