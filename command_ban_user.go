package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type BanUserMessage struct {
	ID      string `json:"id"`
	Reason  string `json:"reason"`
	ActorID string `json:"-"`
}

func (e BanUserMessage) Type() string { return "user.ban" }

func (e BanUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, is.UUID),
		validation.Field(&e.Reason, validation.Required),
	)
}

type UnbanUserMessage struct {
	ID      string `json:"id"`
	ActorID string `json:"-"`
}

func (e UnbanUserMessage) Type() string { return "user.unban" }

func (e UnbanUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, is.UUID),
	)
}

type ModerateUserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	IsBanned  bool   `json:"isBanned"`
	BanReason string `json:"banReason,omitempty"`
}

// BanUserHandler handles super admin moderation of accounts. A ban records
// the reason alongside the flag; an unban clears both.
type BanUserHandler struct {
	repo     Users
	activity ActivitySink
	logger   Logger
}

func NewBanUserHandler(repo Users) *BanUserHandler {
	return &BanUserHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

func (h *BanUserHandler) WithActivitySink(sink ActivitySink) *BanUserHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *BanUserHandler) WithLogger(logger Logger) *BanUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *BanUserHandler) Execute(ctx context.Context, event BanUserMessage) (*ModerateUserResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user ban",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *BanUserHandler) execute(ctx context.Context, event BanUserMessage) (*ModerateUserResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid ban payload")
	}

	id, err := uuid.Parse(event.ID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user id")
	}

	user, err := h.repo.Ban(ctx, id, event.Reason)
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		Type:    LogUserBanned,
		UserID:  user.ID.String(),
		Email:   user.Email,
		ActorID: event.ActorID,
	})

	return &ModerateUserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		IsBanned:  user.IsBanned,
		BanReason: user.BanReason,
	}, nil
}

func (h *BanUserHandler) ExecuteUnban(ctx context.Context, event UnbanUserMessage) (*ModerateUserResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user unban",
		)
	default:
		return h.executeUnban(ctx, event)
	}
}

func (h *BanUserHandler) executeUnban(ctx context.Context, event UnbanUserMessage) (*ModerateUserResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid unban payload")
	}

	id, err := uuid.Parse(event.ID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user id")
	}

	user, err := h.repo.Unban(ctx, id)
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		Type:    LogUserUnbanned,
		UserID:  user.ID.String(),
		Email:   user.Email,
		ActorID: event.ActorID,
	})

	return &ModerateUserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		IsBanned: user.IsBanned,
	}, nil
}
