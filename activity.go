package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-repository-bun"
)

// ActivityEvent captures audit-friendly information about an action.
type ActivityEvent struct {
	Type       LogType
	UserID     string
	Email      string
	ActorID    string
	OccurredAt time.Time
}

// Message renders the persisted audit line for the event.
func (e ActivityEvent) Message() string {
	subject := fmt.Sprintf("[%s | %s]", e.UserID, e.Email)

	switch e.Type {
	case LogUserRegistered:
		return "New User Registered: " + subject
	case LogUserVerified:
		return "New User Verified: " + subject
	case LogUserLogin:
		return "User Login: " + subject
	case LogUserPasswordUpdated:
		return "User Password Updated: " + subject
	case LogUserBanned:
		return fmt.Sprintf("User Banned: %s by [%s]", subject, e.ActorID)
	case LogUserUnbanned:
		return fmt.Sprintf("User Unbanned: %s by [%s]", subject, e.ActorID)
	case LogUserArchived:
		return fmt.Sprintf("User Archived: %s by [%s]", subject, e.ActorID)
	case LogUserRestored:
		return fmt.Sprintf("User Restored: %s by [%s]", subject, e.ActorID)
	default:
		return fmt.Sprintf("%s: %s", e.Type, subject)
	}
}

// ActivitySink consumes activity events for auditing purposes. Sinks run
// best-effort: callers log failures and move on, an audit write can never
// fail an authentication request.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

// authLogSink persists activity events to the auth_logs table.
type authLogSink struct {
	logs repository.Repository[*AuthLog]
}

// NewAuthLogSink returns an ActivitySink backed by the audit-log repository.
func NewAuthLogSink(logs repository.Repository[*AuthLog]) ActivitySink {
	return &authLogSink{logs: logs}
}

func (s *authLogSink) Record(ctx context.Context, event ActivityEvent) error {
	entry := &AuthLog{
		LogType: event.Type,
		Message: event.Message(),
	}

	if !event.OccurredAt.IsZero() {
		at := event.OccurredAt
		entry.CreatedAt = &at
	}

	_, err := s.logs.Create(ctx, entry)
	return err
}

// recordActivity is the shared best-effort emit helper used by handlers.
func recordActivity(ctx context.Context, sink ActivitySink, logger Logger, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := normalizeActivitySink(sink).Record(ctx, event); err != nil {
		if logger == nil {
			logger = defLogger{}
		}
		logger.Warn("activity sink record error", "type", event.Type, "error", err)
	}
}
