package world

import (
	"strings"
	"sync"

	"github.com/zond/talemud/lang"
)

const PrivilegeWizard = "wizard"

// NameMarker is the insertion point for the entity's capitalized name in
// a title template.
const NameMarker = "{name}"

// Entity is anything that can be a parse target or message participant:
// a player, an NPC, or (via Location) a room. Each entity owns exactly
// one output Buffer.
type Entity struct {
	realm  *Realm
	buffer *Buffer

	// deliverMu serializes message delivery plus wiretap fan-out, so an
	// observer never sees a partially delivered message. Always taken
	// before any observer buffer lock.
	deliverMu sync.Mutex

	mu            sync.RWMutex
	name          string
	titleTemplate string
	privileges    map[string]bool
	location      *Location
}

func (e *Entity) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.name
}

// SetTitle sets the entity's title template. The template may contain
// NameMarker, which is replaced with the capitalized name when the title
// is read: "{name} the great" yields "Fritz the great" for fritz.
func (e *Entity) SetTitle(template string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.titleTemplate = template
}

// Title returns the rendered title. Without an explicit title template
// the plain name is used.
func (e *Entity) Title() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.titleTemplate == "" {
		return e.name
	}
	return strings.ReplaceAll(e.titleTemplate, NameMarker, lang.Capitalize(e.name))
}

// CapTitle returns the title with its first letter capitalized, for use
// at sentence starts. The underlying title is never modified.
func (e *Entity) CapTitle() string {
	return lang.Capitalize(e.Title())
}

func (e *Entity) SetPrivileges(privileges ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.privileges = map[string]bool{}
	for _, priv := range privileges {
		e.privileges[priv] = true
	}
}

func (e *Entity) HasPrivilege(privilege string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.privileges[privilege]
}

// Location returns where the entity currently is, or nil.
func (e *Entity) Location() *Location {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.location
}

// Move removes the entity from its current location and appends it to
// the presence list of loc. Passing nil removes it from the world.
func (e *Entity) Move(loc *Location) {
	e.mu.Lock()
	old := e.location
	e.location = loc
	e.mu.Unlock()
	if old != nil {
		old.remove(e)
	}
	if loc != nil {
		loc.add(e)
	}
}

// Output returns the entity's output buffer.
func (e *Entity) Output() *Buffer {
	return e.buffer
}

// Tell delivers text to the entity's output buffer and forwards a
// tagged copy to every wiretap observer, as one atomic unit. Each
// delivered message is its own paragraph.
func (e *Entity) Tell(text string) {
	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()
	e.buffer.Append(text, true, true)
	e.realm.taps.deliver(e, text)
}
