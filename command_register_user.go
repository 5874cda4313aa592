package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

type RegisterUserMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Password, validation.Required),
	)
}

type RegisterUserResponse struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	VerificationToken string `json:"verificationToken"`
}

// RegisterUserHandler creates a new unverified account and hands back the
// verification token the caller must present to activate it.
type RegisterUserHandler struct {
	store    AccountStore
	tokens   TokenIssuer
	activity ActivitySink
	logger   Logger
}

func NewRegisterUserHandler(store AccountStore, tokens TokenIssuer) *RegisterUserHandler {
	return &RegisterUserHandler{
		store:    store,
		tokens:   tokens,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithActivitySink sets the sink used to emit registration events.
func (h *RegisterUserHandler) WithActivitySink(sink ActivitySink) *RegisterUserHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*RegisterUserResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*RegisterUserResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	if _, err := h.store.FindByEmail(ctx, event.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !goerrors.IsNotFound(err) {
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

	user, err := h.store.CreateAccount(ctx, event.Email, hash)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
	}

	token, err := h.tokens.Mint(VerificationToken, user.ID.String(), "")
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		Type:   LogUserRegistered,
		UserID: user.ID.String(),
		Email:  user.Email,
	})

	return &RegisterUserResponse{
		ID:                user.ID.String(),
		Email:             user.Email,
		VerificationToken: token,
	}, nil
}
