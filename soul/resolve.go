package soul

import (
	"sort"
	"strings"

	"github.com/zond/talemud"
	"github.com/zond/talemud/world"
)

// Reserved words of the target grammar. Everything else is matched
// against the names of whoever is present.
const (
	wordAll    = "all"
	wordAnd    = "and"
	wordExcept = "except"
	wordBut    = "but"
	wordMe     = "me"
	wordMyself = "myself"
)

// Tokenize splits raw input on whitespace. Garbage tokens are not an
// error here; unresolved names surface from target resolution instead.
func Tokenize(raw string) ([]string, error) {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return nil, talemud.WithStack(ErrNoInput)
	}
	return words, nil
}

// targetSet accumulates targets in first-seen order, deduplicating by
// case-insensitive name.
type targetSet struct {
	order []*world.Entity
	seen  map[string]bool
}

func (s *targetSet) add(e *world.Entity) {
	key := strings.ToLower(e.Name())
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.order = append(s.order, e)
}

// remove drops e from the set. Removing an absent entity is a no-op.
func (s *targetSet) remove(e *world.Entity) {
	key := strings.ToLower(e.Name())
	if !s.seen[key] {
		return
	}
	delete(s.seen, key)
	for i, present := range s.order {
		if present == e {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// resolveTargets turns the token sequence after the verb into an
// ordered, deduplicated list of entities present with the actor.
// "all" seeds everyone but the actor in presence order, "and" is a pure
// separator, and tokens after "except"/"but" are removed instead of
// added. Name tokens match case-insensitively by prefix; an exact match
// beats a prefix match, and a prefix shared by several entities is
// ambiguous.
func resolveTargets(tokens []string, actor *world.Entity, present []*world.Entity) ([]*world.Entity, error) {
	set := &targetSet{}
	excluding := false
	apply := func(e *world.Entity) {
		if excluding {
			set.remove(e)
		} else {
			set.add(e)
		}
	}
	for _, token := range tokens {
		switch strings.ToLower(token) {
		case wordAnd:
		case wordExcept, wordBut:
			excluding = true
		case wordAll:
			for _, e := range present {
				if e != actor {
					apply(e)
				}
			}
		case wordMe, wordMyself:
			apply(actor)
		default:
			match, err := matchName(token, present)
			if err != nil {
				return nil, err
			}
			apply(match)
		}
	}
	return set.order, nil
}

// matchName finds the present entity the token refers to.
func matchName(token string, present []*world.Entity) (*world.Entity, error) {
	lower := strings.ToLower(token)
	candidates := []*world.Entity{}
	for _, e := range present {
		name := strings.ToLower(e.Name())
		if name == lower {
			return e, nil
		}
		if strings.HasPrefix(name, lower) {
			candidates = append(candidates, e)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, talemud.WithStack(&TargetError{Kind: TargetNotFound, Token: token})
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, e := range candidates {
			names[i] = e.Name()
		}
		sort.Strings(names)
		return nil, talemud.WithStack(&TargetError{Kind: TargetAmbiguous, Token: token, Candidates: names})
	}
}
