package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/zond/talemud"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE COLLATE NOCASE,
  password_hash TEXT NOT NULL,
  wizard INTEGER NOT NULL DEFAULT 0,
  owner INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  last_login TEXT NOT NULL
);
`

// User is a registered account. PasswordHash is a PHC format string,
// never the password itself.
type User struct {
	Id           int64  `db:"id"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	Wizard       bool   `db:"wizard"`
	Owner        bool   `db:"owner"`
	CreatedAt    string `db:"created_at"`
	LastLogin    string `db:"last_login"`
}

func (u *User) SetLastLogin(at time.Time) {
	u.LastLogin = at.UTC().Format(time.RFC3339)
}

// Storage persists users and writes the audit log. All methods are safe
// for concurrent use.
type Storage struct {
	db    *sqlx.DB
	audit *AuditLogger
}

// New opens (creating if necessary) the databases under dir.
func New(ctx context.Context, dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, talemud.WithStack(err)
	}
	db, err := sqlx.Open("sqlite", filepath.Join(dir, "users.sqlite"))
	if err != nil {
		return nil, talemud.WithStack(err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, talemud.WithStack(err)
	}
	audit, err := NewAuditLogger(filepath.Join(dir, "audit.log"))
	if err != nil {
		return nil, talemud.WithStack(err)
	}
	return &Storage{
		db:    db,
		audit: audit,
	}, nil
}

func (s *Storage) Close() error {
	if err := s.audit.Close(); err != nil {
		return talemud.WithStack(err)
	}
	return talemud.WithStack(s.db.Close())
}

// AuditLog writes a structured audit event tagged with the session ID
// found in ctx.
func (s *Storage) AuditLog(ctx context.Context, event string, data AuditData) {
	s.audit.Log(ctx, event, data)
}

// LoadUser fetches a user by name, case-insensitively. Returns an
// error wrapping os.ErrNotExist when the name is unknown.
func (s *Storage) LoadUser(ctx context.Context, name string) (*User, error) {
	user := &User{}
	if err := s.db.GetContext(ctx, user, "SELECT * FROM users WHERE name = ?", name); errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(os.ErrNotExist, "user %q", name)
	} else if err != nil {
		return nil, talemud.WithStack(err)
	}
	return user, nil
}

// Users returns all registered users ordered by ID.
func (s *Storage) Users(ctx context.Context) ([]User, error) {
	users := []User{}
	if err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY id"); err != nil {
		return nil, talemud.WithStack(err)
	}
	return users, nil
}

// UserCount returns the number of registered users.
func (s *Storage) UserCount(ctx context.Context) (int64, error) {
	count := int64(0)
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, talemud.WithStack(err)
	}
	return count, nil
}

// StoreUser inserts or, when overwrite is true, updates a user. The
// very first user ever created becomes owner and wizard. remote is the
// peer address, recorded in the audit log on creation.
func (s *Storage) StoreUser(ctx context.Context, user *User, overwrite bool, remote string) error {
	if overwrite {
		if _, err := s.db.NamedExecContext(ctx, `
UPDATE users SET password_hash = :password_hash, wizard = :wizard, owner = :owner, last_login = :last_login WHERE id = :id
`, user); err != nil {
			return talemud.WithStack(err)
		}
		return nil
	}
	count, err := s.UserCount(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		user.Owner = true
		user.Wizard = true
	}
	user.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	result, err := s.db.NamedExecContext(ctx, `
INSERT INTO users (name, password_hash, wizard, owner, created_at, last_login)
VALUES (:name, :password_hash, :wizard, :owner, :created_at, :last_login)
`, user)
	if err != nil {
		return talemud.WithStack(err)
	}
	if user.Id, err = result.LastInsertId(); err != nil {
		return talemud.WithStack(err)
	}
	s.AuditLog(ctx, "USER_CREATE", AuditUserCreate{
		User:   Ref(user.Id, user.Name),
		Remote: remote,
	})
	return nil
}

// SetUserWizard grants or revokes the wizard privilege and records who
// did it.
func (s *Storage) SetUserWizard(ctx context.Context, name string, wizard bool) (*User, error) {
	user, err := s.LoadUser(ctx, name)
	if err != nil {
		return nil, err
	}
	user.Wizard = wizard
	if _, err := s.db.ExecContext(ctx, "UPDATE users SET wizard = ? WHERE id = ?", user.Wizard, user.Id); err != nil {
		return nil, talemud.WithStack(err)
	}
	event := "WIZARD_REVOKE"
	if wizard {
		event = "WIZARD_GRANT"
	}
	caller := SystemRef()
	if authenticated, found := AuthenticatedUser(ctx); found {
		caller = Ref(authenticated.Id, authenticated.Name)
	}
	s.AuditLog(ctx, event, AuditWizardChange{
		Caller: caller,
		User:   Ref(user.Id, user.Name),
	})
	return user, nil
}
