package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

type PasswordResetVerifyMessage struct {
	ID       string `json:"id"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (e PasswordResetVerifyMessage) Type() string { return "user.password.reset.verify" }

func (e PasswordResetVerifyMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Token, validation.Required),
		validation.Field(&e.Password, validation.Required),
	)
}

type PasswordResetVerifyResponse struct {
	Status string `json:"status"`
}

// PasswordResetVerifyHandler finalizes a password reset: the caller proves
// possession of the verification token minted by the reset request and the
// stored hash is replaced with one for the new password.
type PasswordResetVerifyHandler struct {
	store    AccountStore
	tokens   TokenVerifier
	activity ActivitySink
	logger   Logger
}

func NewPasswordResetVerifyHandler(store AccountStore, tokens TokenVerifier) *PasswordResetVerifyHandler {
	return &PasswordResetVerifyHandler{
		store:    store,
		tokens:   tokens,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

func (h *PasswordResetVerifyHandler) WithActivitySink(sink ActivitySink) *PasswordResetVerifyHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *PasswordResetVerifyHandler) WithLogger(logger Logger) *PasswordResetVerifyHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *PasswordResetVerifyHandler) Execute(ctx context.Context, event PasswordResetVerifyMessage) (*PasswordResetVerifyResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *PasswordResetVerifyHandler) execute(ctx context.Context, event PasswordResetVerifyMessage) (*PasswordResetVerifyResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}

	subjectID, err := h.tokens.Validate(VerificationToken, event.Token)
	if err != nil {
		return nil, err
	}

	if subjectID != event.ID {
		h.logger.Warn("reset token subject %s does not match requested user %s", subjectID, event.ID)
		return nil, ErrTokenInvalid
	}

	user, err := h.store.FindByID(ctx, subjectID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrPasswordResetFailed
		}
		return nil, err
	}

	if err := CheckAccountStatus(user, true); err != nil {
		return nil, err
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user.PasswordHash = hash

	user, err = h.store.SaveAccount(ctx, user)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not store new password")
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		Type:   LogUserPasswordUpdated,
		UserID: user.ID.String(),
		Email:  user.Email,
	})

	return &PasswordResetVerifyResponse{Status: "ok"}, nil
}
