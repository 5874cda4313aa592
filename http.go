package auth

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

const (
	// LocalUserID is the fiber locals key holding the authenticated user id.
	LocalUserID = "user_id"
	// LocalUserEmail is the fiber locals key holding the authenticated email.
	LocalUserEmail = "user_email"
	// LocalIsSuperAdmin is the fiber locals key holding the admin flag.
	LocalIsSuperAdmin = "is_super_admin"

	authScheme  = "Bearer"
	basicScheme = "Basic"
)

// RouteGuard authenticates requests with a bearer access token and loads the
// account behind it into the request locals. Handlers downstream read the
// locals instead of re-parsing the token.
type RouteGuard struct {
	verifier TokenVerifier
	store    AccountStore
	Logger   Logger
}

func NewRouteGuard(verifier TokenVerifier, store AccountStore) *RouteGuard {
	return &RouteGuard{
		verifier: verifier,
		store:    store,
		Logger:   defLogger{},
	}
}

// WithLogger overrides the guard logger.
func (g *RouteGuard) WithLogger(logger Logger) *RouteGuard {
	if logger != nil {
		g.Logger = logger
	}
	return g
}

// RequireAccessToken rejects requests without a valid access token. The
// account is re-gated on every request so a ban revokes access immediately,
// not when the token expires.
func (g *RouteGuard) RequireAccessToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}

		subjectID, err := g.verifier.Validate(AccessToken, token)
		if err != nil {
			return err
		}

		user, err := g.store.FindByID(c.UserContext(), subjectID)
		if err != nil {
			if goerrors.IsNotFound(err) {
				g.Logger.Warn("access token subject %s has no matching account", subjectID)
				return ErrTokenInvalid
			}
			return err
		}

		if err := CheckAccountStatus(user, false); err != nil {
			return err
		}

		c.Locals(LocalUserID, user.ID.String())
		c.Locals(LocalUserEmail, user.Email)
		c.Locals(LocalIsSuperAdmin, user.IsSuperAdmin)
		c.SetUserContext(WithContext(c.UserContext(), user))

		return c.Next()
	}
}

// RequireSuperAdmin must run after RequireAccessToken.
func (g *RouteGuard) RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, _ := c.Locals(LocalIsSuperAdmin).(bool)
		if !isAdmin {
			userID, _ := c.Locals(LocalUserID).(string)
			g.Logger.Warn("user %s attempted an admin only route %s", userID, c.OriginalURL())
			return ErrPermissionDenied
		}
		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrTokenInvalid
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, authScheme) || token == "" {
		return "", ErrTokenInvalid
	}

	return strings.TrimSpace(token), nil
}

// basicCredentials decodes an Authorization: Basic header into its email and
// password halves. Passwords may themselves contain colons so only the first
// one splits.
func basicCredentials(header string) (string, string, error) {
	if header == "" {
		return "", "", ErrInvalidCredentials
	}

	scheme, payload, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, basicScheme) {
		return "", "", ErrInvalidCredentials
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	email, password, found := strings.Cut(string(raw), ":")
	if !found || email == "" || password == "" {
		return "", "", ErrInvalidCredentials
	}

	return email, password, nil
}

// HTTPErrorHandler maps rich errors to a JSON problem payload. Wire it as
// the fiber app ErrorHandler so every route shares one shape.
func HTTPErrorHandler(logger Logger, debug bool) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				richErr = goerrors.New(fiberErr.Message, goerrors.CategoryBadInput).
					WithCode(fiberErr.Code)
			} else {
				richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
					WithCode(http.StatusInternalServerError)
			}
		}

		status := statusForError(richErr)

		logger.Info(
			"request error %s %s: %s (category=%s text_code=%s status=%d)",
			c.Method(), c.OriginalURL(),
			richErr.Message, richErr.Category, richErr.TextCode, status,
		)

		if debug {
			logger.Debug("error details: %s", print.MaybePrettyJSON(richErr))
		}

		body := fiber.Map{
			"description": richErr.Message,
			"code":        status,
		}

		if richErr.TextCode != "" {
			body["details"] = richErr.TextCode
		}

		return c.Status(status).JSON(body)
	}
}

func statusForError(err *goerrors.Error) int {
	if err.Code >= http.StatusContinue && err.Code < 600 {
		return err.Code
	}

	switch err.Category {
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
