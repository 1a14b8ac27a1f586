// Package lang renders small pieces of English: articles, plurals,
// enumerations, verb conjugation. Nothing here knows about the game; it
// only turns words into other words.
package lang

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/gertd/go-pluralize"
)

var pluralizer = pluralize.NewClient()

// Plural returns the plural form of a singular English noun.
func Plural(word string) string {
	return pluralizer.Plural(word)
}

// Singular returns the singular form of a plural English noun.
func Singular(word string) string {
	return pluralizer.Singular(word)
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Words whose leading 'h' is silent, so they take "an".
var silentH = []string{"hour", "honest", "honor", "honour", "heir"}

// Words starting with a vowel letter but a consonant sound, so they take "a".
var consonantSound = []string{"uni", "use", "usu", "eu", "one", "once"}

// Article returns "a" or "an" for the given word.
func Article(word string) string {
	lower := strings.ToLower(word)
	if lower == "" {
		return "a"
	}
	if lower[0] == '8' {
		return "an"
	}
	for _, prefix := range silentH {
		if strings.HasPrefix(lower, prefix) {
			return "an"
		}
	}
	for _, prefix := range consonantSound {
		if strings.HasPrefix(lower, prefix) {
			return "a"
		}
	}
	if strings.ContainsRune("aeiou", rune(lower[0])) {
		return "an"
	}
	return "a"
}

// Indef prefixes word with its indefinite article.
func Indef(word string) string {
	return fmt.Sprintf("%s %s", Article(word), word)
}

var smallCounts = map[int]string{
	0: "no",
	2: "two",
	3: "three",
}

// Card renders a counted noun: "no swords", "a sword", "two swords",
// "4 swords".
func Card(count int, word string) string {
	if count == 1 {
		return Indef(word)
	}
	n, found := smallCounts[count]
	if !found {
		n = fmt.Sprint(count)
	}
	return fmt.Sprintf("%s %s", n, Plural(word))
}

// ThirdPersonSingular conjugates an English verb for a third person
// singular subject: "wave" -> "waves", "slash" -> "slashes".
func ThirdPersonSingular(verb string) string {
	switch verb {
	case "":
		return ""
	case "go", "do":
		return verb + "es"
	case "have":
		return "has"
	}
	for _, suffix := range []string{"s", "sh", "ch", "x", "z"} {
		if strings.HasSuffix(verb, suffix) {
			return verb + "es"
		}
	}
	if strings.HasSuffix(verb, "y") && len(verb) > 1 && !strings.ContainsRune("aeiou", rune(verb[len(verb)-2])) {
		return verb[:len(verb)-1] + "ies"
	}
	return verb + "s"
}

// Possessive returns the possessive form of a name.
func Possessive(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasSuffix(strings.ToLower(name), "s") {
		return name + "'"
	}
	return name + "'s"
}

type Tense int

const (
	NoTense Tense = iota
	Present
	Past
)

func (t Tense) forCount(count int) string {
	switch t {
	case Present:
		if count == 1 {
			return " is"
		}
		return " are"
	case Past:
		if count == 1 {
			return " was"
		}
		return " were"
	}
	return ""
}

const (
	DefaultPattern   = "%s"
	DefaultSeparator = ","
	DefaultOperator  = "and"
)

// Enumerator joins elements into an English list: "a, b, and c". Pattern
// is applied to each element, Operator joins the last pair, and Tense
// appends a matching form of "to be".
type Enumerator struct {
	Pattern   string
	Separator string
	Operator  string
	Tense     Tense
}

func (e Enumerator) Do(elements ...string) string {
	pattern, separator, operator := DefaultPattern, DefaultSeparator, DefaultOperator
	if e.Pattern != "" {
		pattern = e.Pattern
	}
	if e.Separator != "" {
		separator = e.Separator
	}
	if e.Operator != "" {
		operator = e.Operator
	}
	res := &bytes.Buffer{}
	for idx, element := range elements {
		if idx+2 < len(elements) {
			fmt.Fprintf(res, fmt.Sprintf("%s%%s ", pattern), element, separator)
		} else if idx+1 < len(elements) {
			if len(elements) == 2 {
				fmt.Fprintf(res, fmt.Sprintf("%s %%s ", pattern), element, operator)
			} else {
				fmt.Fprintf(res, fmt.Sprintf("%s%%s %%s ", pattern), element, separator, operator)
			}
		} else {
			fmt.Fprintf(res, pattern, element)
		}
	}
	res.WriteString(e.Tense.forCount(len(elements)))
	return res.String()
}
