// Package game ties the pieces together: it owns the realm, accepts SSH
// sessions, authenticates users, and runs their command loops.
package game

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gliderlabs/ssh"
	"github.com/pkg/errors"
	"github.com/zond/talemud"
	"github.com/zond/talemud/storage"
	"github.com/zond/talemud/world"
	"golang.org/x/term"
)

type Game struct {
	storage      *storage.Storage
	realm        *world.Realm
	spawn        *world.Location
	connections  *talemud.SyncMap[string, *Connection]
	loginLimiter *loginRateLimiter
}

func New(ctx context.Context, s *storage.Storage) (*Game, error) {
	realm := world.NewRealm()

	square := realm.NewLocation("The Village Square", "The heart of the village. A worn cobblestone plaza with a dry fountain in the middle. A road leads north, and a rickety ladder goes up to the attic of the inn.")
	road := realm.NewLocation("The North Road", "A dusty road stretching north out of the village. The village square lies south.")
	attic := realm.NewLocation("The Attic", "A dark attic above the inn, full of cobwebs and old crates.")
	square.AddExit("north", road)
	road.AddExit("south", square)
	square.AddExit("up", attic)
	attic.AddExit("down", square)

	innkeeper := realm.NewEntity("julie")
	innkeeper.SetTitle("{name} the innkeeper")
	innkeeper.Move(square)

	return &Game{
		storage:      s,
		realm:        realm,
		spawn:        square,
		connections:  talemud.NewSyncMap[string, *Connection](),
		loginLimiter: newLoginRateLimiter(),
	}, nil
}

func (g *Game) Realm() *world.Realm {
	return g.realm
}

// setWizard persists the privilege change and applies it to the live
// connection, if any. Revocation also tears down the entity's wiretaps:
// no privilege, no taps.
func (g *Game) setWizard(ctx context.Context, name string, wizard bool) error {
	user, err := g.storage.SetUserWizard(ctx, name, wizard)
	if err != nil {
		return err
	}
	if conn, found := g.connections.GetHas(strings.ToLower(user.Name)); found {
		conn.user.Wizard = wizard
		if wizard {
			conn.entity.SetPrivileges(world.PrivilegeWizard)
		} else {
			conn.entity.SetPrivileges()
			g.realm.Wiretaps().Clear(conn.entity)
		}
	}
	return nil
}

func (g *Game) HandleSession(sess ssh.Session) {
	conn := &Connection{
		game: g,
		sess: sess,
		term: term.NewTerminal(sess, "> "),
		ctx:  sess.Context(),
	}
	if err := conn.Connect(); err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, errQuit) {
			fmt.Fprintf(conn.term, "InternalServerError: %v\n", err)
			log.Println(err)
			log.Println(talemud.StackTrace(err))
		}
	}
}
