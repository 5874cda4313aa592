package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

type LoginBasicMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e LoginBasicMessage) Type() string { return "user.login.basic" }

func (e LoginBasicMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Password, validation.Required),
	)
}

type LoginBasicResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginBasicHandler exchanges an email/password pair for an access token and
// a refresh token. Lookup misses and password mismatches collapse into the
// same credentials error so callers cannot probe for registered emails.
type LoginBasicHandler struct {
	store    AccountStore
	tokens   TokenIssuer
	activity ActivitySink
	logger   Logger
	now      func() time.Time
}

func NewLoginBasicHandler(store AccountStore, tokens TokenIssuer) *LoginBasicHandler {
	return &LoginBasicHandler{
		store:    store,
		tokens:   tokens,
		activity: noopActivitySink{},
		logger:   defLogger{},
		now:      time.Now,
	}
}

func (h *LoginBasicHandler) WithActivitySink(sink ActivitySink) *LoginBasicHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *LoginBasicHandler) WithLogger(logger Logger) *LoginBasicHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithClock overrides the time source, used by tests to pin last-login.
func (h *LoginBasicHandler) WithClock(now func() time.Time) *LoginBasicHandler {
	if now != nil {
		h.now = now
	}
	return h
}

func (h *LoginBasicHandler) Execute(ctx context.Context, event LoginBasicMessage) (*LoginBasicResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LoginBasicHandler) execute(ctx context.Context, event LoginBasicMessage) (*LoginBasicResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload")
	}

	user, err := h.store.FindByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckAccountStatus(user, false); err != nil {
		return nil, err
	}

	if !VerifyPassword(event.Password, user.PasswordHash, h.logger) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := h.tokens.Mint(AccessToken, user.ID.String(), user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := h.tokens.Mint(RefreshToken, user.ID.String(), "")
	if err != nil {
		return nil, err
	}

	// best effort, a stale last_login should never block a login
	if _, err := h.store.SaveAccount(ctx, user.Touch(h.now())); err != nil {
		h.logger.Error("failed to update last login for %s: %v", user.ID, err)
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		Type:   LogUserLogin,
		UserID: user.ID.String(),
		Email:  user.Email,
	})

	return &LoginBasicResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
