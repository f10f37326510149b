// Package audit records best-effort audit events for security-relevant actions.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contacthub/backend/internal/audit/domain"
	auditrepo "contacthub/backend/internal/audit/repository"
)

// Auth event actions recorded by the identity and user services. For failed
// logins the metadata field carries the internal reason (invalid_credentials
// or account_disabled) that is never exposed to the client.
const (
	ActionRegister     = "user.register"
	ActionLogin        = "auth.login"
	ActionLoginFailure = "auth.login_failure"
	ActionUserUpdate   = "user.update"

	ActionContactCreate = "contact.create"
	ActionContactUpdate = "contact.update"
	ActionContactDelete = "contact.delete"
)

// IPExtractor returns the client IP for the request carried by ctx.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
	log         *zap.Logger
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor, log *zap.Logger) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor, log: log}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		if s := l.ipExtractor(ctx); s != "" {
			ip = s
		}
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.Warn("audit: failed to log event",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err))
	}
}

// Nop returns an AuditLogger that discards all events. Useful in tests.
func Nop() AuditLogger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) LogEvent(context.Context, string, string, string, string) {}
