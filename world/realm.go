// Package world holds the shared mutable state of a running game: the
// entities, their locations, their output buffers, and the wiretap
// registry. Everything reaches shared state through an explicit Realm
// rather than process globals.
package world

import (
	"strings"

	"github.com/zond/talemud"
)

// Realm is the root of one game world. It owns the wiretap registry and
// constructs all entities and locations, so every entity can fan out
// deliveries without ambient global state.
type Realm struct {
	taps     *Wiretaps
	entities *talemud.SyncMap[string, *Entity]
}

func NewRealm() *Realm {
	return &Realm{
		taps:     newWiretaps(),
		entities: talemud.NewSyncMap[string, *Entity](),
	}
}

func (r *Realm) Wiretaps() *Wiretaps {
	return r.taps
}

// Find returns the entity with the given name, case-insensitively.
func (r *Realm) Find(name string) (*Entity, bool) {
	return r.entities.GetHas(strings.ToLower(name))
}

func (r *Realm) NewEntity(name string) *Entity {
	result := &Entity{
		realm:      r,
		buffer:     NewBuffer(),
		name:       name,
		privileges: map[string]bool{},
	}
	r.entities.Set(strings.ToLower(name), result)
	return result
}

// Remove forgets the entity: it leaves its location, its own taps and
// any taps on it are cleared, and its name no longer resolves via Find.
func (r *Realm) Remove(e *Entity) {
	e.Move(nil)
	r.taps.Clear(e)
	r.taps.Detach(e)
	r.entities.Del(strings.ToLower(e.Name()))
}

func (r *Realm) NewLocation(name string, description string) *Location {
	return &Location{
		Entity:      r.NewEntity(name),
		description: description,
		exits:       map[string]*Location{},
	}
}
