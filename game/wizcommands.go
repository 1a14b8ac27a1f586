package game

import (
	"fmt"

	"github.com/buildkite/shellwords"
	"github.com/rodaine/table"
	"github.com/zond/talemud"
	"github.com/zond/talemud/storage"
)

func (c *Connection) wizCommands() commands {
	return []command{
		{
			names: m("/wiretap"),
			f: func(c *Connection, s string) error {
				parts, err := shellwords.SplitPosix(s)
				if err != nil {
					return talemud.WithStack(err)
				}
				if len(parts) != 2 {
					fmt.Fprintln(c.term, "usage: /wiretap <name>")
					return nil
				}
				source, found := c.game.realm.Find(parts[1])
				if !found {
					fmt.Fprintf(c.term, "No such entity: %q\n", parts[1])
					return nil
				}
				if err := c.game.realm.Wiretaps().Install(c.entity, source); err != nil {
					fmt.Fprintf(c.term, "Error: %v\n", err)
					return nil
				}
				c.game.storage.AuditLog(c.ctx, "WIRETAP_INSTALL", storage.AuditWiretap{
					Observer: storage.Ref(c.user.Id, c.user.Name),
					Source:   source.Name(),
				})
				fmt.Fprintf(c.term, "Wiretap installed on %q\n", source.Name())
				return nil
			},
		},
		{
			names: m("/untap"),
			f: func(c *Connection, s string) error {
				parts, err := shellwords.SplitPosix(s)
				if err != nil {
					return talemud.WithStack(err)
				}
				if len(parts) != 2 {
					fmt.Fprintln(c.term, "usage: /untap <name>|all")
					return nil
				}
				if parts[1] == "all" {
					c.game.realm.Wiretaps().Clear(c.entity)
					c.game.storage.AuditLog(c.ctx, "WIRETAP_CLEAR", storage.AuditWiretap{
						Observer: storage.Ref(c.user.Id, c.user.Name),
					})
					fmt.Fprintln(c.term, "All wiretaps removed")
					return nil
				}
				source, found := c.game.realm.Find(parts[1])
				if !found {
					fmt.Fprintf(c.term, "No such entity: %q\n", parts[1])
					return nil
				}
				c.game.realm.Wiretaps().Remove(c.entity, source)
				c.game.storage.AuditLog(c.ctx, "WIRETAP_REMOVE", storage.AuditWiretap{
					Observer: storage.Ref(c.user.Id, c.user.Name),
					Source:   source.Name(),
				})
				fmt.Fprintf(c.term, "Wiretap removed from %q\n", source.Name())
				return nil
			},
		},
		{
			names: m("/taps"),
			f: func(c *Connection, s string) error {
				sources := c.game.realm.Wiretaps().Installed(c.entity)
				if len(sources) == 0 {
					fmt.Fprintln(c.term, "No wiretaps installed")
					return nil
				}
				t := table.New("Name", "Title").WithWriter(c.term)
				for _, source := range sources {
					t.AddRow(source.Name(), source.Title())
				}
				t.Print()
				return nil
			},
		},
		{
			names: m("/addwiz"),
			f: func(c *Connection, s string) error {
				if !c.user.Owner {
					fmt.Fprintln(c.term, "Only owners can grant wizard privileges.")
					return nil
				}
				parts, err := shellwords.SplitPosix(s)
				if err != nil {
					return talemud.WithStack(err)
				}
				if len(parts) != 2 {
					fmt.Fprintln(c.term, "usage: /addwiz <username>")
					return nil
				}
				if err := c.game.setWizard(c.ctx, parts[1], true); err != nil {
					fmt.Fprintf(c.term, "Error: %v\n", err)
					return nil
				}
				fmt.Fprintf(c.term, "Granted wizard privileges to %q\n", parts[1])
				return nil
			},
		},
		{
			names: m("/delwiz"),
			f: func(c *Connection, s string) error {
				if !c.user.Owner {
					fmt.Fprintln(c.term, "Only owners can revoke wizard privileges.")
					return nil
				}
				parts, err := shellwords.SplitPosix(s)
				if err != nil {
					return talemud.WithStack(err)
				}
				if len(parts) != 2 {
					fmt.Fprintln(c.term, "usage: /delwiz <username>")
					return nil
				}
				if err := c.game.setWizard(c.ctx, parts[1], false); err != nil {
					fmt.Fprintf(c.term, "Error: %v\n", err)
					return nil
				}
				fmt.Fprintf(c.term, "Revoked wizard privileges from %q\n", parts[1])
				return nil
			},
		},
	}
}
