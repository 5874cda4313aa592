package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeTokenInvalid       = "TOKEN_INVALID"
	textCodeUserBanned         = "USER_BANNED"
	textCodeUserUnverified     = "USER_UNVERIFIED"
	textCodeUserArchived       = "USER_ARCHIVED"
	textCodeEmailTaken         = "EMAIL_TAKEN"
	textCodeMissingSecret      = "MISSING_TOKEN_SECRET"
	textCodePermissionDenied   = "PERMISSION_DENIED"
)

// ErrInvalidCredentials is the unified login failure. Unknown email and a
// wrong password both return this exact value so the two payloads are byte
// identical and account enumeration learns nothing.
var ErrInvalidCredentials = goerrors.New(
	"Your login information was incorrect. Please try again!",
	goerrors.CategoryAuth,
).WithTextCode(textCodeInvalidCredentials).WithCode(goerrors.CodeUnauthorized)

// ErrTokenInvalid covers every token failure surfaced to a caller: bad
// signature, wrong audience/subject/issuer, expired, malformed, and the
// subject/id mismatch on verification. The specific cause is logged, never
// returned, so the error cannot be used as an oracle.
var ErrTokenInvalid = goerrors.New(
	"The token could not be validated!",
	goerrors.CategoryAuth,
).WithTextCode(textCodeTokenInvalid).WithCode(goerrors.CodeUnauthorized)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = goerrors.New(
	"A user with this email address already exists!",
	goerrors.CategoryConflict,
).WithTextCode(textCodeEmailTaken).WithCode(goerrors.CodeConflict)

// ErrUserUnverified blocks token issuance until the account completed email
// verification. The password-reset flow waives it.
var ErrUserUnverified = goerrors.New(
	"Please check your email to finish the verification process before trying to login!",
	goerrors.CategoryAuth,
).WithTextCode(textCodeUserUnverified).WithCode(goerrors.CodeUnauthorized)

// ErrUserArchived blocks all token issuance for deactivated accounts.
var ErrUserArchived = goerrors.New(
	"This user is no longer active. Please reach out to support if you believe this to be an error!",
	goerrors.CategoryAuth,
).WithTextCode(textCodeUserArchived).WithCode(goerrors.CodeUnauthorized)

// ErrRefreshFailed is returned when a refresh token maps to no account.
var ErrRefreshFailed = goerrors.New(
	"Your refresh request could not be completed! Please try logging in again!",
	goerrors.CategoryAuth,
).WithTextCode(textCodeTokenInvalid).WithCode(goerrors.CodeUnauthorized)

// ErrPasswordResetFailed is the generic failure for both reset steps when
// the account cannot be resolved.
var ErrPasswordResetFailed = goerrors.New(
	"An error occurred when attempting to generate a password reset request. Please try again!",
	goerrors.CategoryAuth,
).WithTextCode(textCodeTokenInvalid).WithCode(goerrors.CodeUnauthorized)

// ErrPermissionDenied is returned by the super-admin guard.
var ErrPermissionDenied = goerrors.New(
	"You do not have permission to access this resource!",
	goerrors.CategoryAuth,
).WithTextCode(textCodePermissionDenied).WithCode(goerrors.CodeForbidden)

// ErrMismatchedHashAndPassword is the internal bcrypt mismatch error.
var ErrMismatchedHashAndPassword = goerrors.New(
	"password does not match hash",
	goerrors.CategoryAuth,
).WithTextCode(textCodeInvalidCredentials)

// ErrNoEmptyString rejects hashing an empty secret.
var ErrNoEmptyString = goerrors.New(
	"value must not be an empty string",
	goerrors.CategoryValidation,
).WithCode(goerrors.CodeBadRequest)

// NewBannedError carries the ban reason; gating surfaces it on login,
// refresh, and reset because identity is already established on those paths.
func NewBannedError(reason string) *goerrors.Error {
	return goerrors.New(
		"User Is Banned: ["+reason+"]",
		goerrors.CategoryAuth,
	).WithTextCode(textCodeUserBanned).
		WithCode(goerrors.CodeUnauthorized).
		WithMetadata(map[string]any{"ban_reason": reason})
}

// NewMissingSecretError is the fatal configuration error for a token kind
// with no signing secret.
func NewMissingSecretError(envKey string) *goerrors.Error {
	return goerrors.New(
		"["+envKey+"] was not found in your environment!",
		goerrors.CategoryInternal,
	).WithTextCode(textCodeMissingSecret)
}
