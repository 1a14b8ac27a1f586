package storage

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	auditMaxSizeMB = 50
	auditMaxFiles  = 10
)

// AuditLogger writes security-relevant events to a rotated log file as
// one JSON object per line.
type AuditLogger struct {
	mu  sync.Mutex
	out *lumberjack.Logger
	enc *json.Encoder
}

// NewAuditLogger creates an audit logger writing to path. Rotation
// keeps at most auditMaxFiles files of auditMaxSizeMB each.
func NewAuditLogger(path string) (*AuditLogger, error) {
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    auditMaxSizeMB,
		MaxBackups: auditMaxFiles,
	}
	return &AuditLogger{
		out: out,
		enc: json.NewEncoder(out),
	}, nil
}

// AuditRef identifies a user by ID and name for audit logging. ID is a
// pointer to distinguish "ID is 0" from "no ID" (nil for system).
type AuditRef struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name"`
}

func Ref(id int64, name string) AuditRef {
	return AuditRef{ID: &id, Name: name}
}

// SystemRef is the acting party for events without an authenticated
// caller.
func SystemRef() AuditRef {
	return AuditRef{Name: "system"}
}

// AuditData is the interface for typed audit event payloads.
type AuditData interface {
	auditData()
}

// AuditEntry is a single audit log line.
type AuditEntry struct {
	Time      string    `json:"time"`
	SessionID string    `json:"session_id,omitempty"`
	Event     string    `json:"event"`
	Data      AuditData `json:"data"`
}

// AuditUserCreate is logged when a new user registers.
type AuditUserCreate struct {
	User   AuditRef `json:"user"`
	Remote string   `json:"remote"`
}

func (AuditUserCreate) auditData() {}

// AuditUserLogin is logged on successful login.
type AuditUserLogin struct {
	User   AuditRef `json:"user"`
	Remote string   `json:"remote"`
}

func (AuditUserLogin) auditData() {}

// AuditLoginFailed is logged on a failed login attempt.
type AuditLoginFailed struct {
	User   AuditRef `json:"user"`
	Remote string   `json:"remote"`
}

func (AuditLoginFailed) auditData() {}

// AuditSessionEnd is logged when a session ends.
type AuditSessionEnd struct {
	User AuditRef `json:"user"`
}

func (AuditSessionEnd) auditData() {}

// AuditWizardChange is logged when wizard privileges are granted or
// revoked.
type AuditWizardChange struct {
	Caller AuditRef `json:"caller"`
	User   AuditRef `json:"user"`
}

func (AuditWizardChange) auditData() {}

// AuditWiretap is logged when a wiretap is installed or when all taps
// of an observer are cleared.
type AuditWiretap struct {
	Observer AuditRef `json:"observer"`
	Source   string   `json:"source,omitempty"`
}

func (AuditWiretap) auditData() {}

// Log writes a structured audit entry. Panics if encoding fails, since
// that means a bug in the typed AuditData structs.
func (a *AuditLogger) Log(ctx context.Context, event string, data AuditData) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sessionID, _ := SessionID(ctx)
	if err := a.enc.Encode(AuditEntry{
		Time:      time.Now().UTC().Format(time.RFC3339Nano),
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	}); err != nil {
		panic(fmt.Sprintf("audit log encode failed: %v", err))
	}
}

// Close closes the audit log file.
func (a *AuditLogger) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.out.Close(); err != nil {
		log.Printf("audit log close failed: %v", err)
		return err
	}
	return nil
}
