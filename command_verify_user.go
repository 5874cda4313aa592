package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

type VerifyUserMessage struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

func (e VerifyUserMessage) Type() string { return "user.verify" }

func (e VerifyUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Token, validation.Required),
	)
}

type VerifyUserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// VerifyUserHandler flips an account to verified once the caller proves
// ownership of the verification token minted at registration.
type VerifyUserHandler struct {
	store    AccountStore
	tokens   TokenVerifier
	activity ActivitySink
	logger   Logger
}

func NewVerifyUserHandler(store AccountStore, tokens TokenVerifier) *VerifyUserHandler {
	return &VerifyUserHandler{
		store:    store,
		tokens:   tokens,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

func (h *VerifyUserHandler) WithActivitySink(sink ActivitySink) *VerifyUserHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *VerifyUserHandler) WithLogger(logger Logger) *VerifyUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *VerifyUserHandler) Execute(ctx context.Context, event VerifyUserMessage) (*VerifyUserResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyUserHandler) execute(ctx context.Context, event VerifyUserMessage) (*VerifyUserResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid verification payload")
	}

	subjectID, err := h.tokens.Validate(VerificationToken, event.Token)
	if err != nil {
		return nil, err
	}

	if subjectID != event.ID {
		h.logger.Warn("verification token subject %s does not match requested user %s", subjectID, event.ID)
		return nil, ErrTokenInvalid
	}

	user, err := h.store.FindByID(ctx, subjectID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	user.Verified = true

	user, err = h.store.SaveAccount(ctx, user)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not mark user as verified")
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		Type:   LogUserVerified,
		UserID: user.ID.String(),
		Email:  user.Email,
	})

	return &VerifyUserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Verified: user.Verified,
	}, nil
}
