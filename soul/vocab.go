package soul

import (
	"fmt"
	"sort"
	"strings"
)

// TargetPolicy says what a verb demands of its targets.
type TargetPolicy int

const (
	// TargetNone ignores target tokens entirely.
	TargetNone TargetPolicy = iota
	// TargetOptional works with or without targets.
	TargetOptional
	// TargetOne requires exactly one target.
	TargetOne
	// TargetMany requires at least one target.
	TargetMany
)

// Verb is one immutable entry of the social vocabulary. Phrase is the
// part of the sentence after the verb when targets are present,
// AlonePhrase when none are. Both may use the template fields accepted
// by Render; {who} names the targets.
type Verb struct {
	Name        string
	Synonyms    []string
	Policy      TargetPolicy
	Phrase      string
	AlonePhrase string
}

var verbDefs = []Verb{
	{Name: "blush", Policy: TargetNone},
	{Name: "bow", Policy: TargetOptional, Phrase: "to {who}", AlonePhrase: "gracefully"},
	{Name: "cheer", Policy: TargetOptional, Phrase: "for {who}", AlonePhrase: "enthusiastically"},
	{Name: "clap", Synonyms: []string{"applaud"}, Policy: TargetOptional, Phrase: "for {who}"},
	{Name: "comfort", Policy: TargetOne, Phrase: "{who}"},
	{Name: "congratulate", Synonyms: []string{"grats"}, Policy: TargetMany, Phrase: "{who}"},
	{Name: "cough", Policy: TargetNone},
	{Name: "cry", Synonyms: []string{"weep"}, Policy: TargetNone},
	{Name: "dance", Policy: TargetOptional, Phrase: "with {who}"},
	{Name: "frown", Policy: TargetOptional, Phrase: "at {who}"},
	{Name: "gasp", Policy: TargetNone},
	{Name: "giggle", Synonyms: []string{"snicker"}, Policy: TargetOptional, Phrase: "at {who}"},
	{Name: "greet", Policy: TargetMany, Phrase: "{who}"},
	{Name: "grin", Policy: TargetOptional, Phrase: "at {who}", AlonePhrase: "evilly"},
	{Name: "groan", Policy: TargetNone},
	{Name: "growl", Policy: TargetOptional, Phrase: "at {who}"},
	{Name: "hug", Policy: TargetMany, Phrase: "{who}"},
	{Name: "kiss", Synonyms: []string{"smooch"}, Policy: TargetMany, Phrase: "{who}"},
	{Name: "laugh", Synonyms: []string{"chuckle"}, Policy: TargetOptional, Phrase: "at {who}"},
	{Name: "nod", Policy: TargetOptional, Phrase: "at {who}"},
	{Name: "pat", Policy: TargetMany, Phrase: "{who} on the head"},
	{Name: "point", Policy: TargetOptional, Phrase: "at {who}", AlonePhrase: "into the distance"},
	{Name: "poke", Synonyms: []string{"prod"}, Policy: TargetMany, Phrase: "{who} in the ribs"},
	{Name: "ponder", Policy: TargetNone, AlonePhrase: "the situation"},
	{Name: "push", Synonyms: []string{"shove"}, Policy: TargetMany, Phrase: "{who}"},
	{Name: "shrug", Policy: TargetNone},
	{Name: "sigh", Policy: TargetNone, AlonePhrase: "deeply"},
	{Name: "smile", Policy: TargetOptional, Phrase: "at {who}", AlonePhrase: "happily"},
	{Name: "stare", Synonyms: []string{"gaze"}, Policy: TargetOptional, Phrase: "at {who}", AlonePhrase: "into the distance"},
	{Name: "thank", Policy: TargetMany, Phrase: "{who} heartily"},
	{Name: "wave", Policy: TargetOptional, Phrase: "happily at {who}", AlonePhrase: "happily"},
	{Name: "wink", Policy: TargetOptional, Phrase: "at {who}"},
	{Name: "yawn", Policy: TargetNone},
}

var vocabulary = mustVocabulary(verbDefs)

// mustVocabulary indexes the verb definitions by canonical name and
// synonym, and validates every phrase template. A bad definition is a
// programming error caught at startup, not at parse time.
func mustVocabulary(defs []Verb) map[string]*Verb {
	dummy := Fields{}
	for _, key := range []string{"name", "Name", "title", "Title", "who", "Who", "target", "Target"} {
		dummy[key] = key
	}
	result := map[string]*Verb{}
	for i := range defs {
		verb := &defs[i]
		for _, phrase := range []string{verb.Phrase, verb.AlonePhrase} {
			if _, err := Render(phrase, dummy); err != nil {
				panic(fmt.Sprintf("verb %q: %v", verb.Name, err))
			}
		}
		for _, name := range append([]string{verb.Name}, verb.Synonyms...) {
			if _, found := result[name]; found {
				panic(fmt.Sprintf("verb %q defined twice", name))
			}
			result[strings.ToLower(name)] = verb
		}
	}
	return result
}

// Lookup finds a verb by canonical name or synonym. Matching is
// case-insensitive.
func Lookup(verb string) (*Verb, bool) {
	result, found := vocabulary[strings.ToLower(verb)]
	return result, found
}

// Verbs returns all recognized verb words (canonical names and
// synonyms) in sorted order.
func Verbs() []string {
	result := make([]string, 0, len(vocabulary))
	for name := range vocabulary {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
