package game

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"single letter", "a", false},
		{"short name", "bob", false},
		{"mixed case", "Fritz", false},
		{"with numbers", "julie2", false},
		{"with hyphen", "tea-master", false},
		{"with underscore", "inn_keeper", false},
		{"max length", "abcdefghijklmnop", false},
		{"reserved word as prefix", "mead", false},
		{"reserved word embedded", "northman", false},

		{"empty", "", true},
		{"starts with number", "1bob", true},
		{"starts with hyphen", "-bob", true},
		{"starts with underscore", "_bob", true},
		{"one over max length", "abcdefghijklmnopq", true},
		{"contains space", "old bob", true},
		{"contains dot", "bob.smith", true},
		{"only numbers", "123456", true},
		{"special chars", "bob!", true},
		{"unicode", "bøb", true},

		// Words the target grammar claims
		{"reserved me", "me", true},
		{"reserved myself", "myself", true},
		{"reserved all uppercased", "All", true},
		{"reserved except", "except", true},
		// Words the movement commands claim
		{"reserved direction", "north", true},
		{"reserved direction alias", "n", true},
		{"reserved direction mixed case", "Down", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(InvalidUsernameError); !ok {
					t.Errorf("validateUsername(%q) returned %T, want InvalidUsernameError", tt.username, err)
				}
			}
		})
	}
}

func TestInvalidUsernameErrorMessage(t *testing.T) {
	msg := InvalidUsernameError{Name: "bob!"}.Error()
	if !strings.Contains(msg, "1-16 characters") {
		t.Errorf("error message should mention length requirement, got: %q", msg)
	}
	if !strings.Contains(msg, "start with a letter") {
		t.Errorf("error message should mention letter requirement, got: %q", msg)
	}

	msg = InvalidUsernameError{Name: "north"}.Error()
	if !strings.Contains(msg, "reserved") {
		t.Errorf("error message should call the name reserved, got: %q", msg)
	}
}
