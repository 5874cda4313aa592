package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type ArchiveUserMessage struct {
	ID      string `json:"id"`
	ActorID string `json:"-"`
}

func (e ArchiveUserMessage) Type() string { return "user.archive" }

func (e ArchiveUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, is.UUID),
	)
}

type ArchiveUserResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
}

// ArchiveUserHandler soft-deletes and restores accounts. An archived
// account keeps its row and audit trail but fails the status gate until
// restored.
type ArchiveUserHandler struct {
	repo     Users
	activity ActivitySink
	logger   Logger
}

func NewArchiveUserHandler(repo Users) *ArchiveUserHandler {
	return &ArchiveUserHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

func (h *ArchiveUserHandler) WithActivitySink(sink ActivitySink) *ArchiveUserHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *ArchiveUserHandler) WithLogger(logger Logger) *ArchiveUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ArchiveUserHandler) Execute(ctx context.Context, event ArchiveUserMessage) (*ArchiveUserResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user archival",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ArchiveUserHandler) execute(ctx context.Context, event ArchiveUserMessage) (*ArchiveUserResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid archive payload")
	}

	id, err := uuid.Parse(event.ID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user id")
	}

	user, err := h.repo.Archive(ctx, id)
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		Type:    LogUserArchived,
		UserID:  user.ID.String(),
		Email:   user.Email,
		ActorID: event.ActorID,
	})

	return &ArchiveUserResponse{
		ID:         user.ID.String(),
		Email:      user.Email,
		ArchivedAt: user.ArchivedAt,
	}, nil
}

func (h *ArchiveUserHandler) ExecuteRestore(ctx context.Context, event ArchiveUserMessage) (*ArchiveUserResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user restore",
		)
	default:
		return h.executeRestore(ctx, event)
	}
}

func (h *ArchiveUserHandler) executeRestore(ctx context.Context, event ArchiveUserMessage) (*ArchiveUserResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid restore payload")
	}

	id, err := uuid.Parse(event.ID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user id")
	}

	user, err := h.repo.Restore(ctx, id)
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		Type:    LogUserRestored,
		UserID:  user.ID.String(),
		Email:   user.Email,
		ActorID: event.ActorID,
	})

	return &ArchiveUserResponse{
		ID:         user.ID.String(),
		Email:      user.Email,
		ArchivedAt: user.ArchivedAt,
	}, nil
}
