package game

import (
	"fmt"
	"regexp"
	"strings"
)

// Username policy. A username doubles as the in-world entity name, so
// besides the character rules it must not shadow a word the target
// grammar or the movement commands already claim.
const usernameMaxLength = 16

var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

var reservedUsernames = func() map[string]bool {
	res := map[string]bool{
		"all":    true,
		"and":    true,
		"except": true,
		"but":    true,
		"me":     true,
		"myself": true,
	}
	for alias, direction := range directionAliases {
		res[alias] = true
		res[direction] = true
	}
	return res
}()

// InvalidUsernameError is returned when a username fails validation.
type InvalidUsernameError struct {
	Name string
}

func (e InvalidUsernameError) Error() string {
	if reservedUsernames[strings.ToLower(e.Name)] {
		return fmt.Sprintf("%q is a reserved word and can't be used as a name.", e.Name)
	}
	return fmt.Sprintf("Invalid name. Must be 1-%d characters, start with a letter, and contain only letters, numbers, hyphens, or underscores.", usernameMaxLength)
}

func validateUsername(name string) error {
	if len(name) == 0 || len(name) > usernameMaxLength || !usernamePattern.MatchString(name) {
		return InvalidUsernameError{Name: name}
	}
	if reservedUsernames[strings.ToLower(name)] {
		return InvalidUsernameError{Name: name}
	}
	return nil
}
