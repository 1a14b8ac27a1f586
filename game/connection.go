package game

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/pkg/errors"
	"github.com/zond/talemud"
	"github.com/zond/talemud/lang"
	"github.com/zond/talemud/storage"
	"github.com/zond/talemud/world"
	"golang.org/x/term"
)

var (
	ErrOperationAborted = fmt.Errorf("operation aborted")

	// errQuit unwinds the command loop on a clean "quit".
	errQuit = fmt.Errorf("quit")
)

type Connection struct {
	game   *Game
	sess   ssh.Session
	term   *term.Terminal
	user   *storage.User
	entity *world.Entity
	wiz    bool
	ctx    context.Context // Derived from sess.Context(), updated with session ID and authenticated user
}

const defaultTermWidth = 80

// TermWidth returns the terminal width in columns.
// Falls back to defaultTermWidth if PTY info is unavailable.
func (c *Connection) TermWidth() int {
	pty, _, ok := c.sess.Pty()
	if !ok || pty.Window.Width <= 0 {
		return defaultTermWidth
	}
	return pty.Window.Width
}

func (c *Connection) SelectExec(options map[string]func() error) error {
	commandNames := make(sort.StringSlice, 0, len(options))
	for name := range options {
		commandNames = append(commandNames, name)
	}
	sort.Sort(commandNames)
	prompt := fmt.Sprintf("%s\n", lang.Enumerator{Pattern: "[%s]", Operator: "or"}.Do(commandNames...))
	for {
		fmt.Fprint(c.term, prompt)
		line, err := c.term.ReadLine()
		if err != nil {
			return talemud.WithStack(err)
		}
		if cmd, found := options[line]; found {
			if err := cmd(); err != nil {
				return talemud.WithStack(err)
			}
			break
		}
	}
	return nil
}

func (c *Connection) SelectReturn(prompt string, options []string) (string, error) {
	for {
		fmt.Fprintf(c.term, "%s [%s]\n", prompt, strings.Join(options, "/"))
		line, err := c.term.ReadLine()
		if err != nil {
			return "", talemud.WithStack(err)
		}
		for _, option := range options {
			if strings.EqualFold(line, option) {
				return option, nil
			}
		}
	}
}

func (c *Connection) Connect() error {
	// Generate session ID at connection start so all audit events (including failed logins) can be correlated
	c.ctx = storage.SetSessionID(c.ctx, talemud.NextUniqueID())
	fmt.Fprint(c.term, "Welcome!\n\n")
	sel := func() error {
		return c.SelectExec(map[string]func() error{
			"login user":  c.loginUser,
			"create user": c.createUser,
		})
	}
	var err error
	for err = sel(); errors.Is(err, ErrOperationAborted); err = sel() {
	}
	if err != nil {
		return talemud.WithStack(err)
	}
	if err := c.join(); err != nil {
		return talemud.WithStack(err)
	}
	defer c.leave()
	if err := c.look(); err != nil {
		return talemud.WithStack(err)
	}
	return c.Process()
}

// join materializes the user in the world: an entity at the spawn
// location, with wizard privileges if the account carries them, and a
// pump goroutine copying the entity's output to the terminal. A second
// login kicks the earlier connection's entity out of the world.
func (c *Connection) join() error {
	key := strings.ToLower(c.user.Name)
	if old, found := c.game.connections.GetHas(key); found {
		fmt.Fprintln(old.term, "You have logged in from elsewhere. Goodbye!")
		c.game.realm.Remove(old.entity)
	}
	c.entity = c.game.realm.NewEntity(key)
	if c.user.Wizard {
		c.entity.SetPrivileges(world.PrivilegeWizard)
	}
	c.game.connections.Set(key, c)
	go c.pump()
	c.entity.Move(c.game.spawn)
	c.game.spawn.Tell(fmt.Sprintf("%s arrives.", c.entity.CapTitle()), c.entity)
	return nil
}

func (c *Connection) leave() {
	if loc := c.entity.Location(); loc != nil {
		loc.Tell(fmt.Sprintf("%s leaves.", c.entity.CapTitle()), c.entity)
	}
	c.game.realm.Remove(c.entity)
	key := strings.ToLower(c.user.Name)
	if current, found := c.game.connections.GetHas(key); found && current == c {
		c.game.connections.Del(key)
	}
	c.game.storage.AuditLog(c.ctx, "SESSION_END", storage.AuditSessionEnd{
		User: storage.Ref(c.user.Id, c.user.Name),
	})
}

// pump copies buffered output to the terminal whenever the entity's
// buffer signals an update. It exits with the session context.
func (c *Connection) pump() {
	updates := c.entity.Output().Updates()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-updates:
			c.flush()
		}
	}
}

func (c *Connection) flush() {
	if out := c.entity.Output().DrainWrapped(c.TermWidth()); out != "" {
		fmt.Fprintln(c.term, out)
	}
}

func (c *Connection) Process() error {
	if c.user == nil {
		return errors.New("can't process without user")
	}
	c.wiz = c.user.Wizard

	commandSets := []commands{c.basicCommands()}
	if c.wiz {
		commandSets = append([]commands{c.wizCommands()}, commandSets...)
	}

	for {
		line, err := c.term.ReadLine()
		if err != nil {
			return talemud.WithStack(err)
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		handled := false
		for _, commands := range commandSets {
			if found, err := commands.attempt(c, words[0], line); errors.Is(err, errQuit) {
				return err
			} else if err != nil {
				fmt.Fprintln(c.term, err)
				handled = true
				break
			} else if found {
				handled = true
				break
			}
		}
		if !handled {
			c.socialize(line)
		}
	}
}

func (c *Connection) loginUser() error {
	fmt.Fprint(c.term, "** Login user **\n\n")
	for c.user == nil {
		fmt.Fprintln(c.term, "Enter username or [abort]:")
		username, err := c.term.ReadLine()
		if err != nil {
			return err
		}
		if username == "abort" {
			return talemud.WithStack(ErrOperationAborted)
		}

		// Rate limit login attempts per username (only after failed attempts)
		c.game.loginLimiter.waitIfNeeded(username, c.term)

		fmt.Fprint(c.term, "Enter password or [abort]:\n")
		password, err := c.term.ReadPassword("> ")
		if err != nil {
			return err
		}
		if password == "abort" {
			return talemud.WithStack(ErrOperationAborted)
		}

		user, err := c.game.storage.LoadUser(c.ctx, username)
		if errors.Is(err, os.ErrNotExist) {
			// User doesn't exist - same response as a bad password, to
			// prevent username enumeration.
			c.game.loginLimiter.recordFailure(username)
			c.game.storage.AuditLog(c.ctx, "LOGIN_FAILED", storage.AuditLoginFailed{
				User:   storage.Ref(0, username),
				Remote: c.sess.RemoteAddr().String(),
			})
			fmt.Fprintln(c.term, "Invalid credentials!")
			continue
		} else if err != nil {
			return talemud.WithStack(err)
		}

		if !verifyPassword(password, user.PasswordHash) {
			c.game.loginLimiter.recordFailure(user.Name)
			c.game.storage.AuditLog(c.ctx, "LOGIN_FAILED", storage.AuditLoginFailed{
				User:   storage.Ref(user.Id, user.Name),
				Remote: c.sess.RemoteAddr().String(),
			})
			fmt.Fprintln(c.term, "Invalid credentials!")
		} else {
			c.game.loginLimiter.clearFailure(user.Name)
			user.SetLastLogin(time.Now().UTC())
			if err := c.game.storage.StoreUser(c.ctx, user, true, c.sess.RemoteAddr().String()); err != nil {
				// Log but don't fail login - don't expose internal errors to users
				log.Printf("Failed to update last login for user %s: %v", user.Name, err)
			}
			c.user = user
		}
	}
	c.ctx = storage.AuthenticateUser(c.ctx, c.user)
	c.game.storage.AuditLog(c.ctx, "USER_LOGIN", storage.AuditUserLogin{
		User:   storage.Ref(c.user.Id, c.user.Name),
		Remote: c.sess.RemoteAddr().String(),
	})
	fmt.Fprintf(c.term, "Welcome back, %v!\n\n", c.user.Name)
	return nil
}

func (c *Connection) createUser() error {
	fmt.Fprint(c.term, "** Create user **\n\n")
	var user *storage.User
	for user == nil {
		fmt.Fprint(c.term, "Enter new username or [abort]:\n")
		username, err := c.term.ReadLine()
		if err != nil {
			return err
		}
		if username == "abort" {
			return talemud.WithStack(ErrOperationAborted)
		}
		if err := validateUsername(username); err != nil {
			fmt.Fprintln(c.term, err.Error())
			continue
		}
		if _, found := c.game.realm.Find(username); found {
			// NPCs and rooms hold their names too.
			fmt.Fprintln(c.term, "Username already exists!")
			continue
		}
		if _, err = c.game.storage.LoadUser(c.ctx, username); errors.Is(err, os.ErrNotExist) {
			user = &storage.User{
				Name: username,
			}
		} else if err == nil {
			fmt.Fprintln(c.term, "Username already exists!")
		} else {
			return talemud.WithStack(err)
		}
	}
	for c.user == nil {
		fmt.Fprintln(c.term, "Enter new password:")
		password, err := c.term.ReadPassword("> ")
		if err != nil {
			return err
		}
		if password == "abort" {
			fmt.Fprintln(c.term, "Password cannot be 'abort' (reserved keyword).")
			continue
		}
		fmt.Fprintln(c.term, "Repeat new password:")
		verification, err := c.term.ReadPassword("> ")
		if err != nil {
			return err
		}
		if password == verification {
			selection, err := c.SelectReturn(fmt.Sprintf("Create user %q with provided password?", user.Name), []string{"y", "n", "abort"})
			if err != nil {
				return err
			}
			switch selection {
			case "abort":
				return talemud.WithStack(ErrOperationAborted)
			case "y":
				hash, err := hashPassword(password)
				if err != nil {
					return talemud.WithStack(err)
				}
				user.PasswordHash = hash
				c.user = user
			}
		} else {
			fmt.Fprintln(c.term, "Passwords don't match!")
		}
	}
	c.user.SetLastLogin(time.Now().UTC())
	if err := c.game.storage.StoreUser(c.ctx, c.user, false, c.sess.RemoteAddr().String()); err != nil {
		return talemud.WithStack(err)
	}
	c.ctx = storage.AuthenticateUser(c.ctx, c.user)
	c.game.storage.AuditLog(c.ctx, "USER_LOGIN", storage.AuditUserLogin{
		User:   storage.Ref(c.user.Id, c.user.Name),
		Remote: c.sess.RemoteAddr().String(),
	})
	fmt.Fprintf(c.term, "Welcome %s!\n\n", c.user.Name)
	if c.user.Owner {
		fmt.Fprint(c.term, "You are the first user, and therefore owner and wizard.\n\n")
	}
	return nil
}
