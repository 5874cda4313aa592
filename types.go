package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// AccountStore is the storage contract the credential flows depend on.
// The bun-backed Users repository satisfies it; tests substitute mocks.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	CreateAccount(ctx context.Context, email, passwordHash string) (*User, error)
	SaveAccount(ctx context.Context, user *User) (*User, error)
}

// TokenVerifier validates a token of a given kind and returns the subject id.
type TokenVerifier interface {
	Validate(kind TokenKind, token string) (string, error)
}

// TokenIssuer mints tokens. The email argument is only embedded for
// AccessToken; other kinds ignore it.
type TokenIssuer interface {
	Mint(kind TokenKind, subjectID, email string) (string, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
