package soul

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/zond/talemud/world"
)

func testRoom(t *testing.T) (*world.Realm, *world.Location, *world.Entity, *world.Entity) {
	t.Helper()
	realm := world.NewRealm()
	attic := realm.NewLocation("Attic", "A dark attic.")
	player := realm.NewEntity("fritz")
	julie := realm.NewEntity("julie")
	player.Move(attic)
	julie.Move(attic)
	return realm, attic, player, julie
}

func targetNames(targets []*world.Entity) []string {
	names := make([]string, len(targets))
	for i, target := range targets {
		names[i] = target.Name()
	}
	return names
}

func TestParseWave(t *testing.T) {
	_, attic, player, julie := testRoom(t)

	result, err := Parse(player, attic, "wave all", nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"julie"}, targetNames(result.Targets)); diff != "" {
		t.Errorf("got unexpected targets: %v", diff)
	}
	if want := "You wave happily at julie."; result.ActorMessage != want {
		t.Errorf("got actor message %q, want %q", result.ActorMessage, want)
	}
	if want := "Fritz waves happily at julie."; result.RoomMessage != want {
		t.Errorf("got room message %q, want %q", result.RoomMessage, want)
	}
	if want := "Fritz waves happily at you."; result.TargetMessages[julie] != want {
		t.Errorf("got target message %q, want %q", result.TargetMessages[julie], want)
	}
	if !result.SoulVerb {
		t.Errorf("wave should be a soul verb")
	}
}

func TestParseAlone(t *testing.T) {
	_, attic, player, _ := testRoom(t)

	result, err := Parse(player, attic, "wave", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Targets) != 0 {
		t.Errorf("got targets %v, want none", targetNames(result.Targets))
	}
	if want := "You wave happily."; result.ActorMessage != want {
		t.Errorf("got actor message %q, want %q", result.ActorMessage, want)
	}
	if want := "Fritz waves happily."; result.RoomMessage != want {
		t.Errorf("got room message %q, want %q", result.RoomMessage, want)
	}
}

func TestParseSynonym(t *testing.T) {
	_, attic, player, _ := testRoom(t)

	result, err := Parse(player, attic, "chuckle", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Verb != "laugh" {
		t.Errorf("got verb %q, want %q", result.Verb, "laugh")
	}
}

func TestParseExcept(t *testing.T) {
	realm, attic, player, _ := testRoom(t)
	bob := realm.NewEntity("bob")
	carol := realm.NewEntity("carol")
	bob.Move(attic)
	carol.Move(attic)

	result, err := Parse(player, attic, "greet all except bob", nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"julie", "carol"}, targetNames(result.Targets)); diff != "" {
		t.Errorf("got unexpected targets: %v", diff)
	}

	result, err = Parse(player, attic, "greet all but julie and carol", nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"bob"}, targetNames(result.Targets)); diff != "" {
		t.Errorf("got unexpected targets: %v", diff)
	}
}

func TestParseSelfTarget(t *testing.T) {
	_, attic, player, _ := testRoom(t)

	result, err := Parse(player, attic, "poke me", nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"fritz"}, targetNames(result.Targets)); diff != "" {
		t.Errorf("got unexpected targets: %v", diff)
	}
}

func TestParseUnknownAndExternalVerb(t *testing.T) {
	_, attic, player, _ := testRoom(t)

	if _, err := Parse(player, attic, "befrotzificate all and me", nil); err == nil {
		t.Errorf("got nil error for unknown verb")
	} else {
		unknownErr := &UnknownVerbError{}
		if !errors.As(err, &unknownErr) {
			t.Errorf("got %v, want UnknownVerbError", err)
		} else if unknownErr.Verb != "befrotzificate" {
			t.Errorf("got verb %q, want %q", unknownErr.Verb, "befrotzificate")
		}
	}

	external := map[string]bool{"befrotzificate": true}
	_, err := Parse(player, attic, "befrotzificate all and me", external)
	if err == nil {
		t.Fatal("got nil error for external verb")
	}
	nonSoulErr := &NonSoulVerbError{}
	if !errors.As(err, &nonSoulErr) {
		t.Fatalf("got %v, want NonSoulVerbError", err)
	}
	if nonSoulErr.Parsed.Verb != "befrotzificate" {
		t.Errorf("got verb %q, want %q", nonSoulErr.Parsed.Verb, "befrotzificate")
	}
	if diff := cmp.Diff([]string{"julie", "fritz"}, targetNames(nonSoulErr.Parsed.Targets)); diff != "" {
		t.Errorf("got unexpected targets: %v", diff)
	}
	if nonSoulErr.Parsed.SoulVerb {
		t.Errorf("external verb result marked as soul verb")
	}

	// Targeting failures never block routing to external command code.
	_, err = Parse(player, attic, "befrotzificate gandalf", external)
	if !errors.As(err, &nonSoulErr) {
		t.Fatalf("got %v, want NonSoulVerbError", err)
	}
	if len(nonSoulErr.Parsed.Targets) != 0 {
		t.Errorf("got targets %v, want none", targetNames(nonSoulErr.Parsed.Targets))
	}
}

func TestParseTargetFailures(t *testing.T) {
	realm, attic, player, _ := testRoom(t)
	jack := realm.NewEntity("jack")
	jack.Move(attic)

	for _, testCase := range []struct {
		input string
		kind  TargetFailure
	}{
		{input: "poke gandalf", kind: TargetNotFound},
		{input: "poke j", kind: TargetAmbiguous},
		{input: "comfort", kind: TargetMissing},
		{input: "comfort all", kind: TargetTooMany},
		{input: "hug", kind: TargetMissing},
	} {
		_, err := Parse(player, attic, testCase.input, nil)
		targetErr := &TargetError{}
		if !errors.As(err, &targetErr) {
			t.Errorf("%q: got %v, want TargetError", testCase.input, err)
			continue
		}
		if targetErr.Kind != testCase.kind {
			t.Errorf("%q: got kind %v, want %v", testCase.input, targetErr.Kind, testCase.kind)
		}
	}

	targetErr := &TargetError{}
	_, err := Parse(player, attic, "poke j", nil)
	if !errors.As(err, &targetErr) {
		t.Fatalf("got %v, want TargetError", err)
	}
	if diff := cmp.Diff([]string{"jack", "julie"}, targetErr.Candidates); diff != "" {
		t.Errorf("got unexpected candidates: %v", diff)
	}
}

func TestParseNoTargetVerbIgnoresRest(t *testing.T) {
	_, attic, player, _ := testRoom(t)

	// A verb that takes no targets never raises targeting failures, no
	// matter what trails it.
	result, err := Parse(player, attic, "ponder the meaning of gandalf", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Targets) != 0 {
		t.Errorf("got targets %v, want none", targetNames(result.Targets))
	}
	if want := "You ponder the situation."; result.ActorMessage != want {
		t.Errorf("got actor message %q, want %q", result.ActorMessage, want)
	}
}

func TestParseEmptyInput(t *testing.T) {
	_, attic, player, _ := testRoom(t)

	for _, input := range []string{"", "   ", "\t\n"} {
		if _, err := Parse(player, attic, input, nil); !errors.Is(err, ErrNoInput) {
			t.Errorf("%q: got %v, want ErrNoInput", input, err)
		}
	}
}

func TestParseTitles(t *testing.T) {
	_, attic, player, julie := testRoom(t)
	player.SetTitle("{name} the great")
	julie.SetTitle("lady {name}")

	result, err := Parse(player, attic, "bow to julie", nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := "You bow to lady Julie."; result.ActorMessage != want {
		t.Errorf("got actor message %q, want %q", result.ActorMessage, want)
	}
	if want := "Fritz the great bows to lady Julie."; result.RoomMessage != want {
		t.Errorf("got room message %q, want %q", result.RoomMessage, want)
	}
	if want := "Fritz the great bows to you."; result.TargetMessages[julie] != want {
		t.Errorf("got target message %q, want %q", result.TargetMessages[julie], want)
	}
}

func TestRenderUnknownField(t *testing.T) {
	if _, err := Render("hello {nobody}", Fields{"name": "x"}); err == nil {
		t.Errorf("got nil error for unresolved field")
	}
	result, err := Render("{Name} says hi", Fields{"Name": "Fritz"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "Fritz says hi"; result != want {
		t.Errorf("got %q, want %q", result, want)
	}
}
