// Package soul resolves free-form player input into social actions: a
// recognized verb, the entities it applies to, and ready-to-deliver
// message text for the actor, the room, and each target. Parsing is
// pure; it reads names and presence but changes nothing.
package soul

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/zond/talemud"
	"github.com/zond/talemud/lang"
	"github.com/zond/talemud/world"
)

var ErrNoInput = errors.New("no input to parse")

// UnknownVerbError means the verb is in no vocabulary at all.
type UnknownVerbError struct {
	Verb string
}

func (e *UnknownVerbError) Error() string {
	return fmt.Sprintf("the verb %q is unknown", e.Verb)
}

// NonSoulVerbError is a routing signal, not a true failure: the verb
// belongs to externally supplied command code. Parsed carries the verb
// and resolved targets so the caller need not parse again.
type NonSoulVerbError struct {
	Parsed *ParseResult
}

func (e *NonSoulVerbError) Error() string {
	return fmt.Sprintf("%q is not a soul verb", e.Parsed.Verb)
}

type TargetFailure int

const (
	// TargetNotFound: a name token matched nobody present.
	TargetNotFound TargetFailure = iota
	// TargetAmbiguous: a prefix matched several entities.
	TargetAmbiguous
	// TargetMissing: the verb requires a target and none resolved.
	TargetMissing
	// TargetTooMany: the verb takes exactly one target.
	TargetTooMany
)

// TargetError describes a targeting failure with enough detail for the
// caller to phrase a correction to the actor.
type TargetError struct {
	Kind       TargetFailure
	Verb       string
	Token      string
	Candidates []string
}

func (e *TargetError) Error() string {
	switch e.Kind {
	case TargetAmbiguous:
		return fmt.Sprintf("%q could mean %s", e.Token, lang.Enumerator{Operator: "or"}.Do(e.Candidates...))
	case TargetMissing:
		return fmt.Sprintf("who or what do you want to %s?", e.Verb)
	case TargetTooMany:
		return fmt.Sprintf("you can only %s one at a time", e.Verb)
	default:
		return fmt.Sprintf("there is no %q here", e.Token)
	}
}

// ParseResult is the outcome of a successful parse. Targets keeps
// resolution order with duplicates removed. All message strings are
// fully substituted before the result is returned.
type ParseResult struct {
	Verb           string
	Targets        []*world.Entity
	ActorMessage   string
	RoomMessage    string
	TargetMessages map[*world.Entity]string
	SoulVerb       bool
}

// Fields maps template field names to their substitutions. A field
// whose name starts with an upper-case letter holds the capitalized
// variant.
type Fields map[string]string

var fieldPattern = regexp.MustCompile(`\{([A-Za-z]+)\}`)

// Render substitutes {field} references in template. Unresolved fields
// are an error, never silently passed through.
func Render(template string, fields Fields) (string, error) {
	missing := []string{}
	result := fieldPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if value, found := fields[key]; found {
			return value
		}
		missing = append(missing, key)
		return match
	})
	if len(missing) > 0 {
		return "", errors.Errorf("unresolved template fields %v in %q", missing, template)
	}
	return result, nil
}

// ActorFields returns the template fields describing an actor, for
// rendering text like "{title} and {Title}" outside verb handling.
func ActorFields(actor *world.Entity) Fields {
	return Fields{
		"name":  actor.Name(),
		"Name":  lang.Capitalize(actor.Name()),
		"title": actor.Title(),
		"Title": actor.CapTitle(),
	}
}

// messageFields extends the actor's fields with target fields. When
// personal is one of the targets, {who} becomes "you" so the target
// reads the message from their own perspective.
func messageFields(actor *world.Entity, targets []*world.Entity, personal *world.Entity) Fields {
	fields := ActorFields(actor)
	if len(targets) == 0 {
		return fields
	}
	who := ""
	if personal != nil {
		who = "you"
	} else {
		titles := make([]string, len(targets))
		for i, target := range targets {
			titles[i] = target.Title()
		}
		who = lang.Enumerator{}.Do(titles...)
	}
	fields["who"] = who
	fields["Who"] = lang.Capitalize(who)
	subject := personal
	if subject == nil {
		subject = targets[0]
	}
	fields["target"] = subject.Title()
	fields["Target"] = subject.CapTitle()
	return fields
}

// sentence joins the verb form and phrase into a full stop terminated
// sentence.
func sentence(subject string, verb string, phrase string) string {
	if phrase == "" {
		return fmt.Sprintf("%s %s.", subject, verb)
	}
	return fmt.Sprintf("%s %s %s.", subject, verb, phrase)
}

// messages renders the three audience messages for a resolved verb.
func (v *Verb) messages(actor *world.Entity, targets []*world.Entity) (string, string, map[*world.Entity]string, error) {
	phrase := v.AlonePhrase
	if len(targets) > 0 {
		phrase = v.Phrase
	}
	actorMessage, err := Render(sentence("You", v.Name, phrase), messageFields(actor, targets, nil))
	if err != nil {
		return "", "", nil, talemud.WithStack(err)
	}
	third := lang.ThirdPersonSingular(v.Name)
	roomMessage, err := Render(sentence("{Title}", third, phrase), messageFields(actor, targets, nil))
	if err != nil {
		return "", "", nil, talemud.WithStack(err)
	}
	targetMessages := map[*world.Entity]string{}
	for _, target := range targets {
		message, err := Render(sentence("{Title}", third, phrase), messageFields(actor, targets, target))
		if err != nil {
			return "", "", nil, talemud.WithStack(err)
		}
		targetMessages[target] = message
	}
	return actorMessage, roomMessage, targetMessages, nil
}

// Parse resolves raw input for an actor at a location. externalVerbs
// names verbs recognized by story-specific command code: hitting one
// returns a NonSoulVerbError carrying a best-effort partial result so
// the caller can route without re-parsing. Context-sensitive
// restrictions (exits, game modes) are the caller's business; Parse
// knows only the vocabulary and who is present.
func Parse(actor *world.Entity, location *world.Location, raw string, externalVerbs map[string]bool) (*ParseResult, error) {
	tokens, err := Tokenize(raw)
	if err != nil {
		return nil, err
	}
	verbToken := strings.ToLower(tokens[0])
	rest := tokens[1:]
	present := []*world.Entity{}
	if location != nil {
		present = location.Present()
	}

	verb, found := Lookup(verbToken)
	if !found {
		if externalVerbs[verbToken] {
			// Best effort: target failures must not block routing.
			targets, _ := resolveTargets(rest, actor, present)
			return nil, talemud.WithStack(&NonSoulVerbError{Parsed: &ParseResult{
				Verb:    verbToken,
				Targets: targets,
			}})
		}
		return nil, talemud.WithStack(&UnknownVerbError{Verb: verbToken})
	}

	targets := []*world.Entity{}
	if verb.Policy != TargetNone && len(rest) > 0 {
		if targets, err = resolveTargets(rest, actor, present); err != nil {
			if targetErr := (*TargetError)(nil); errors.As(err, &targetErr) {
				targetErr.Verb = verb.Name
			}
			return nil, err
		}
	}
	switch verb.Policy {
	case TargetOne:
		if len(targets) == 0 {
			return nil, talemud.WithStack(&TargetError{Kind: TargetMissing, Verb: verb.Name})
		}
		if len(targets) > 1 {
			return nil, talemud.WithStack(&TargetError{Kind: TargetTooMany, Verb: verb.Name})
		}
	case TargetMany:
		if len(targets) == 0 {
			return nil, talemud.WithStack(&TargetError{Kind: TargetMissing, Verb: verb.Name})
		}
	}

	actorMessage, roomMessage, targetMessages, err := verb.messages(actor, targets)
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		Verb:           verb.Name,
		Targets:        targets,
		ActorMessage:   actorMessage,
		RoomMessage:    roomMessage,
		TargetMessages: targetMessages,
		SoulVerb:       true,
	}, nil
}
