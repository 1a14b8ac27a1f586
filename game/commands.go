package game

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rodaine/table"
	"github.com/zond/talemud"
	"github.com/zond/talemud/lang"
	"github.com/zond/talemud/soul"
	"github.com/zond/talemud/world"
)

type command struct {
	names map[string]bool
	f     func(*Connection, string) error
}

type commands []command

func (c commands) attempt(conn *Connection, name string, line string) (bool, error) {
	for _, cmd := range c {
		if cmd.names[name] {
			if err := cmd.f(conn, line); err != nil {
				return true, talemud.WithStack(err)
			}
			return true, nil
		}
	}
	return false, nil
}

func m(s ...string) map[string]bool {
	res := map[string]bool{}
	for _, p := range s {
		res[p] = true
	}
	return res
}

// rest returns the line with its first word stripped.
func rest(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(line[strings.Index(line, fields[0])+len(fields[0]):])
}

// directionAliases maps short direction commands to their full exit names
var directionAliases = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
	"u":  "up",
	"d":  "down",
}

func (c *Connection) basicCommands() commands {
	return []command{
		{
			names: m("l", "look"),
			f: func(c *Connection, s string) error {
				return c.look()
			},
		},
		{
			names: m("say"),
			f: func(c *Connection, s string) error {
				text := rest(s)
				if text == "" {
					fmt.Fprintln(c.term, "Say what?")
					return nil
				}
				c.entity.Tell(fmt.Sprintf("You say: %q", text))
				if loc := c.entity.Location(); loc != nil {
					loc.Tell(fmt.Sprintf("%s says: %q", c.entity.CapTitle(), text), c.entity)
				}
				return nil
			},
		},
		{
			names: m("emote"),
			f: func(c *Connection, s string) error {
				text := rest(s)
				if text == "" {
					fmt.Fprintln(c.term, "Emote what?")
					return nil
				}
				message := fmt.Sprintf("%s %s", c.entity.CapTitle(), text)
				c.entity.Tell(message)
				if loc := c.entity.Location(); loc != nil {
					loc.Tell(message, c.entity)
				}
				return nil
			},
		},
		{
			names: m("who"),
			f: func(c *Connection, s string) error {
				t := table.New("Name", "Wizard", "Last login").WithWriter(c.term)
				for _, conn := range c.game.connections.Each() {
					wiz := ""
					if conn.user.Wizard {
						wiz = "yes"
					}
					t.AddRow(conn.user.Name, wiz, conn.user.LastLogin)
				}
				t.Print()
				return nil
			},
		},
		{
			names: m("exits"),
			f: func(c *Connection, s string) error {
				loc := c.entity.Location()
				if loc == nil || len(loc.ExitNames()) == 0 {
					fmt.Fprintln(c.term, "There are no exits here.")
					return nil
				}
				fmt.Fprintf(c.term, "Exits: %s\n", strings.Join(loc.ExitNames(), ", "))
				return nil
			},
		},
		{
			names: m("verbs"),
			f: func(c *Connection, s string) error {
				c.entity.Output().Tell(strings.Join(soul.Verbs(), ", "))
				return nil
			},
		},
		{
			names: m("help"),
			f: func(c *Connection, s string) error {
				fmt.Fprint(c.term, "Commands: look, say <text>, emote <text>, who, exits, verbs, quit, and any social verb (see [verbs]). Move by typing an exit name.\n")
				if c.wiz {
					fmt.Fprint(c.term, "Wizard commands: /wiretap <name>, /untap <name>|all, /taps, /addwiz <user>, /delwiz <user>\n")
				}
				return nil
			},
		},
		{
			names: m("quit"),
			f: func(c *Connection, s string) error {
				fmt.Fprintln(c.term, "Goodbye!")
				return errQuit
			},
		},
	}
}

// externalVerbs names the words the command tables claim, so the parser
// can route them instead of treating them as unknown verbs.
func (c *Connection) externalVerbs() map[string]bool {
	result := map[string]bool{}
	sets := []commands{c.basicCommands()}
	if c.wiz {
		sets = append(sets, c.wizCommands())
	}
	for _, set := range sets {
		for _, cmd := range set {
			for name := range cmd.names {
				result[name] = true
			}
		}
	}
	return result
}

// socialize handles everything the command tables did not: movement
// through an exit, or a social verb.
func (c *Connection) socialize(line string) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}
	loc := c.entity.Location()

	if loc != nil && len(words) == 1 {
		name := strings.ToLower(words[0])
		if alias, found := directionAliases[name]; found {
			name = alias
		}
		if dest, found := loc.Exit(name); found {
			c.move(loc, dest, name)
			return
		}
	}

	result, err := soul.Parse(c.entity, loc, line, c.externalVerbs())
	if err != nil {
		// The parser knows people, not geography: a target token naming
		// an exit gets a generic rejection instead of "there is no ...".
		targetErr := &soul.TargetError{}
		if errors.As(err, &targetErr) && targetErr.Kind == soul.TargetNotFound && loc != nil {
			if _, found := loc.Exit(strings.ToLower(targetErr.Token)); found {
				fmt.Fprintln(c.term, "That doesn't make much sense.")
				return
			}
		}
		fmt.Fprintf(c.term, "%s\n", lang.Capitalize(err.Error()))
		return
	}
	c.entity.Tell(result.ActorMessage)
	if loc != nil {
		loc.Tell(result.RoomMessage, append([]*world.Entity{c.entity}, result.Targets...)...)
	}
	for target, message := range result.TargetMessages {
		target.Tell(message)
	}
}

func (c *Connection) move(from *world.Location, to *world.Location, exitName string) {
	from.Tell(fmt.Sprintf("%s leaves %s.", c.entity.CapTitle(), exitName), c.entity)
	c.entity.Move(to)
	to.Tell(fmt.Sprintf("%s arrives.", c.entity.CapTitle()), c.entity)
	if err := c.look(); err != nil {
		fmt.Fprintln(c.term, err)
	}
}

func (c *Connection) look() error {
	loc := c.entity.Location()
	if loc == nil {
		fmt.Fprintln(c.term, "You are nowhere.")
		return nil
	}
	out := c.entity.Output()
	out.Append(loc.Title(), true, true)
	out.Append(loc.Description(), true, true)
	others := []string{}
	for _, present := range loc.Present() {
		if present != c.entity {
			others = append(others, present.Title())
		}
	}
	if len(others) > 0 {
		out.Append(fmt.Sprintf("%s here.", lang.Capitalize(lang.Enumerator{Tense: lang.Present}.Do(others...))), true, true)
	}
	if names := loc.ExitNames(); len(names) > 0 {
		out.Append(fmt.Sprintf("Exits: %s.", strings.Join(names, ", ")), true, true)
	}
	return nil
}
