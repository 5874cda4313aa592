package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

type RefreshTokenMessage struct {
	RefreshToken string `json:"refreshToken"`
}

func (e RefreshTokenMessage) Type() string { return "user.token.refresh" }

func (e RefreshTokenMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.RefreshToken, validation.Required),
	)
}

type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// RefreshTokenHandler mints a fresh access token from a still-valid refresh
// token. The account is re-gated on every refresh so bans and archival take
// effect before the old access token would have expired.
type RefreshTokenHandler struct {
	store    AccountStore
	verifier TokenVerifier
	issuer   TokenIssuer
	logger   Logger
	now      func() time.Time
}

func NewRefreshTokenHandler(store AccountStore, verifier TokenVerifier, issuer TokenIssuer) *RefreshTokenHandler {
	return &RefreshTokenHandler{
		store:    store,
		verifier: verifier,
		issuer:   issuer,
		logger:   defLogger{},
		now:      time.Now,
	}
}

func (h *RefreshTokenHandler) WithLogger(logger Logger) *RefreshTokenHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RefreshTokenHandler) WithClock(now func() time.Time) *RefreshTokenHandler {
	if now != nil {
		h.now = now
	}
	return h
}

func (h *RefreshTokenHandler) Execute(ctx context.Context, event RefreshTokenMessage) (*RefreshTokenResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during token refresh",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RefreshTokenHandler) execute(ctx context.Context, event RefreshTokenMessage) (*RefreshTokenResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid refresh payload")
	}

	subjectID, err := h.verifier.Validate(RefreshToken, event.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := h.store.FindByID(ctx, subjectID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			h.logger.Warn("refresh token subject %s has no matching account", subjectID)
			return nil, ErrRefreshFailed
		}
		return nil, err
	}

	if err := CheckAccountStatus(user, false); err != nil {
		return nil, err
	}

	accessToken, err := h.issuer.Mint(AccessToken, user.ID.String(), user.Email)
	if err != nil {
		return nil, err
	}

	if _, err := h.store.SaveAccount(ctx, user.Touch(h.now())); err != nil {
		h.logger.Error("failed to update last login for %s: %v", user.ID, err)
	}

	return &RefreshTokenResponse{AccessToken: accessToken}, nil
}
