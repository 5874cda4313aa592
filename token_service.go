package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenKind selects one of the three independently configured token
// classes. Every kind signs with its own secret and pins its own
// audience/subject/issuer triple, so a token minted as one kind can never
// validate as another even if two kinds shared secret material.
type TokenKind string

const (
	// VerificationToken proves control of an email-bound account during
	// initial verification and password resets.
	VerificationToken TokenKind = "verification"
	// AccessToken authorizes API calls.
	AccessToken TokenKind = "access"
	// RefreshToken mints new access tokens without re-authentication.
	RefreshToken TokenKind = "refresh"
)

// TokenIssuerName is the issuer claim stamped into every token.
const TokenIssuerName = "auth_microservice"

// TokenConfig is the immutable per-kind configuration: signing secret,
// lifetime, and the pinned claim triple.
type TokenConfig struct {
	Secret     []byte
	Expiration time.Duration
	Audience   string
	Subject    string
	Issuer     string
}

// TODO: shrink the access token TTL to minutes once every client refreshes.
var tokenDefaults = map[TokenKind]TokenConfig{
	VerificationToken: {
		Expiration: time.Hour,
		Audience:   "auth_verification_user",
		Subject:    "verification_token",
		Issuer:     TokenIssuerName,
	},
	AccessToken: {
		Expiration: time.Hour,
		Audience:   "auth_access_user",
		Subject:    "access_token",
		Issuer:     TokenIssuerName,
	},
	RefreshToken: {
		Expiration: 30 * 24 * time.Hour,
		Audience:   "auth_refresh_user",
		Subject:    "refresh_token",
		Issuer:     TokenIssuerName,
	},
}

// TokenService mints and validates all three token kinds. Configuration is
// fixed at construction; the service holds no other state and is safe for
// concurrent use.
type TokenService struct {
	configs map[TokenKind]TokenConfig
	logger  Logger
	now     func() time.Time
}

type TokenServiceOption func(*TokenService)

// WithTokenClock injects a custom clock (useful for tests).
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		if clock != nil {
			ts.now = clock
		}
	}
}

// WithTokenLogger overrides the logger used for validation failures.
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenService) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService builds the per-kind configuration from cfg. A missing
// secret for any kind is a fatal configuration error here, at startup,
// never deferred to first use.
func NewTokenService(cfg *Config, opts ...TokenServiceOption) (*TokenService, error) {
	secrets := map[TokenKind]struct {
		envKey string
		value  string
	}{
		VerificationToken: {envKey: EnvVerificationSecret, value: cfg.VerificationSecret},
		AccessToken:       {envKey: EnvAccessSecret, value: cfg.AccessSecret},
		RefreshToken:      {envKey: EnvRefreshSecret, value: cfg.RefreshSecret},
	}

	configs := make(map[TokenKind]TokenConfig, len(tokenDefaults))
	for kind, def := range tokenDefaults {
		secret := secrets[kind]
		if secret.value == "" {
			return nil, NewMissingSecretError(secret.envKey)
		}
		def.Secret = []byte(secret.value)
		configs[kind] = def
	}

	ts := &TokenService{
		configs: configs,
		logger:  defLogger{},
		now:     time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts, nil
}

// Mint signs a token of the given kind for subjectID. The email argument
// is embedded only for AccessToken; other kinds ignore it.
func (ts *TokenService) Mint(kind TokenKind, subjectID, email string) (string, error) {
	cfg, ok := ts.configs[kind]
	if !ok {
		return "", goerrors.New(fmt.Sprintf("unknown token kind: %q", kind), goerrors.CategoryInternal)
	}

	now := ts.now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   cfg.Subject,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiration)),
		},
		UID: subjectID,
	}

	if kind == AccessToken {
		claims.Email = email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Validate verifies signature, audience, subject, issuer, and expiry
// against the kind's fixed configuration and returns the embedded subject
// id. Every failure collapses to ErrTokenInvalid toward the caller; the
// underlying cause is only logged.
func (ts *TokenService) Validate(kind TokenKind, tokenString string) (string, error) {
	cfg, ok := ts.configs[kind]
	if !ok {
		return "", goerrors.New(fmt.Sprintf("unknown token kind: %q", kind), goerrors.CategoryInternal)
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return cfg.Secret, nil
	},
		jwt.WithAudience(cfg.Audience),
		jwt.WithSubject(cfg.Subject),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		ts.logger.Warn("token validation failed", "kind", kind, "error", err)
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.UID == "" {
		ts.logger.Warn("token claims could not be decoded", "kind", kind)
		return "", ErrTokenInvalid
	}

	return claims.UID, nil
}

var (
	_ TokenIssuer   = (*TokenService)(nil)
	_ TokenVerifier = (*TokenService)(nil)
)
