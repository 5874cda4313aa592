package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

type PasswordResetRequestMessage struct {
	Email string `json:"email"`
}

func (e PasswordResetRequestMessage) Type() string { return "user.password.reset.request" }

func (e PasswordResetRequestMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
	)
}

type PasswordResetRequestResponse struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	VerificationToken string `json:"verificationToken"`
}

// PasswordResetRequestHandler mints a short lived verification token for an
// account that wants to reset its password. Unverified accounts are allowed
// through since the reset proves mailbox ownership just like verification
// does; banned and archived accounts stay locked out.
type PasswordResetRequestHandler struct {
	store  AccountStore
	tokens TokenIssuer
	logger Logger
}

func NewPasswordResetRequestHandler(store AccountStore, tokens TokenIssuer) *PasswordResetRequestHandler {
	return &PasswordResetRequestHandler{
		store:  store,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (h *PasswordResetRequestHandler) WithLogger(logger Logger) *PasswordResetRequestHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *PasswordResetRequestHandler) Execute(ctx context.Context, event PasswordResetRequestMessage) (*PasswordResetRequestResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset request",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *PasswordResetRequestHandler) execute(ctx context.Context, event PasswordResetRequestMessage) (*PasswordResetRequestResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}

	user, err := h.store.FindByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			h.logger.Warn("password reset requested for unknown email %s", event.Email)
			return nil, ErrPasswordResetFailed
		}
		return nil, err
	}

	if err := CheckAccountStatus(user, true); err != nil {
		return nil, err
	}

	token, err := h.tokens.Mint(VerificationToken, user.ID.String(), "")
	if err != nil {
		return nil, err
	}

	return &PasswordResetRequestResponse{
		ID:                user.ID.String(),
		Email:             user.Email,
		VerificationToken: token,
	}, nil
}
