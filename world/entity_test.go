package world

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEntityTitle(t *testing.T) {
	realm := NewRealm()
	tests := []struct {
		name     string
		template string
		title    string
		capTitle string
	}{
		{
			name:     "fritz",
			template: "",
			title:    "fritz",
			capTitle: "Fritz",
		},
		{
			name:     "fritz",
			template: "{name} the great",
			title:    "Fritz the great",
			capTitle: "Fritz the great",
		},
		{
			name:     "merlin",
			template: "wizard merlin",
			title:    "wizard merlin",
			capTitle: "Wizard merlin",
		},
		{
			name:     "julie",
			template: "the great",
			title:    "the great",
			capTitle: "The great",
		},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			e := realm.NewEntity(tt.name)
			e.SetTitle(tt.template)
			if got := e.Title(); got != tt.title {
				t.Errorf("Title() = %q, want %q", got, tt.title)
			}
			if got := e.CapTitle(); got != tt.capTitle {
				t.Errorf("CapTitle() = %q, want %q", got, tt.capTitle)
			}
			// Reading the capitalized variant never mutates the title.
			if got := e.Title(); got != tt.title {
				t.Errorf("Title() after CapTitle() = %q, want %q", got, tt.title)
			}
		})
	}
}

func TestPresenceOrder(t *testing.T) {
	realm := NewRealm()
	attic := realm.NewLocation("Attic", "A dark attic.")
	cellar := realm.NewLocation("Cellar", "A gloomy cellar.")
	a := realm.NewEntity("anna")
	b := realm.NewEntity("bert")
	c := realm.NewEntity("carl")

	a.Move(attic)
	b.Move(attic)
	c.Move(attic)

	names := func(loc *Location) []string {
		result := []string{}
		for _, e := range loc.Present() {
			result = append(result, e.Name())
		}
		return result
	}
	if diff := cmp.Diff([]string{"anna", "bert", "carl"}, names(attic)); diff != "" {
		t.Errorf("unexpected arrival order (-want +got):\n%s", diff)
	}

	b.Move(cellar)
	if diff := cmp.Diff([]string{"anna", "carl"}, names(attic)); diff != "" {
		t.Errorf("unexpected order after departure (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bert"}, names(cellar)); diff != "" {
		t.Errorf("unexpected cellar presence (-want +got):\n%s", diff)
	}
	if b.Location() != cellar {
		t.Error("bert should be in the cellar")
	}

	// Moving in again puts the entity at the end of the order.
	b.Move(attic)
	if diff := cmp.Diff([]string{"anna", "carl", "bert"}, names(attic)); diff != "" {
		t.Errorf("unexpected order after return (-want +got):\n%s", diff)
	}
}

func TestLocationTellExcludes(t *testing.T) {
	realm := NewRealm()
	attic := realm.NewLocation("Attic", "A dark attic.")
	a := realm.NewEntity("anna")
	b := realm.NewEntity("bert")
	a.Move(attic)
	b.Move(attic)

	attic.Tell("hello", a)
	if got := a.Output().DrainRaw(); len(got) != 0 {
		t.Errorf("excluded entity should get nothing, got %v", got)
	}
	if diff := cmp.Diff([]string{"hello"}, b.Output().DrainRaw()); diff != "" {
		t.Errorf("unexpected broadcast output (-want +got):\n%s", diff)
	}
}

func TestExits(t *testing.T) {
	realm := NewRealm()
	attic := realm.NewLocation("Attic", "A dark attic.")
	cellar := realm.NewLocation("Cellar", "A gloomy cellar.")
	attic.AddExit("down", cellar)
	attic.AddExit("south", cellar)

	if dest, found := attic.Exit("down"); !found || dest != cellar {
		t.Error("down should lead to the cellar")
	}
	if _, found := attic.Exit("up"); found {
		t.Error("up should not exist")
	}
	if diff := cmp.Diff([]string{"down", "south"}, attic.ExitNames()); diff != "" {
		t.Errorf("unexpected exit names (-want +got):\n%s", diff)
	}
}
