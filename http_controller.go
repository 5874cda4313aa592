package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// AuthControllerRoutes holds the mount points for the identity API.
type AuthControllerRoutes struct {
	Register             string
	Verify               string
	LoginBasic           string
	TokenRefresh         string
	PasswordResetRequest string
	PasswordResetVerify  string
	AdminBan             string
	AdminUnban           string
	AdminArchive         string
	AdminRestore         string
	Health               string
}

// AuthController exposes the credential flows over JSON. Each route binds
// the payload, hands it to the matching command handler, and lets the app
// level error handler shape failures.
type AuthController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Tokens *TokenService
	Guard  *RouteGuard
	Routes *AuthControllerRoutes

	activity ActivitySink
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithRepositoryManager(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithTokenService(tokens *TokenService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = tokens
		return c
	}
}

func WithControllerActivitySink(sink ActivitySink) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.activity = normalizeActivitySink(sink)
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:   defLogger{},
		activity: noopActivitySink{},
		Routes: &AuthControllerRoutes{
			Register:             "/auth/register",
			Verify:               "/auth/verify",
			LoginBasic:           "/auth/login/basic",
			TokenRefresh:         "/auth/token/refresh",
			PasswordResetRequest: "/auth/password/reset-request",
			PasswordResetVerify:  "/auth/password/reset-verify",
			AdminBan:             "/admin/users/:id/ban",
			AdminUnban:           "/admin/users/:id/unban",
			AdminArchive:         "/admin/users/:id/archive",
			AdminRestore:         "/admin/users/:id/restore",
			Health:               "/health",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	if c.Guard == nil {
		c.Guard = NewRouteGuard(c.Tokens, c.Repo.Users()).WithLogger(c.Logger)
	}

	return c
}

// RegisterAuthRoutes mounts the identity API on a fiber app.
func RegisterAuthRoutes(app *fiber.App, opts ...AuthControllerOption) *AuthController {
	c := NewAuthController(opts...)

	app.Get(c.Routes.Health, c.Health).Name("health.get")

	app.Post(c.Routes.Register, c.RegisterPost).Name("register.post")
	app.Put(c.Routes.Verify, c.VerifyPut).Name("verify.put")
	app.Post(c.Routes.LoginBasic, c.LoginBasicPost).Name("login-basic.post")
	app.Post(c.Routes.TokenRefresh, c.TokenRefreshPost).Name("token-refresh.post")
	app.Post(c.Routes.PasswordResetRequest, c.PasswordResetRequestPost).Name("pwd-reset-request.post")
	app.Put(c.Routes.PasswordResetVerify, c.PasswordResetVerifyPut).Name("pwd-reset-verify.put")

	admin := []fiber.Handler{
		c.Guard.RequireAccessToken(),
		c.Guard.RequireSuperAdmin(),
	}

	app.Post(c.Routes.AdminBan, append(admin, c.AdminBanPost)...).Name("admin-ban.post")
	app.Post(c.Routes.AdminUnban, append(admin, c.AdminUnbanPost)...).Name("admin-unban.post")
	app.Post(c.Routes.AdminArchive, append(admin, c.AdminArchivePost)...).Name("admin-archive.post")
	app.Post(c.Routes.AdminRestore, append(admin, c.AdminRestorePost)...).Name("admin-restore.post")

	return c
}

func (a *AuthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

func (a *AuthController) RegisterPost(ctx *fiber.Ctx) error {
	payload := new(RegisterUserMessage)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register user parse payload: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body").
			WithCode(fiber.StatusBadRequest)
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	handler := NewRegisterUserHandler(a.Repo.Users(), a.Tokens).
		WithActivitySink(a.activity).
		WithLogger(a.Logger)

	res, err := handler.Execute(ctx.UserContext(), *payload)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (a *AuthController) VerifyPut(ctx *fiber.Ctx) error {
	payload := new(VerifyUserMessage)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("verify user parse payload: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body").
			WithCode(fiber.StatusBadRequest)
	}

	handler := NewVerifyUserHandler(a.Repo.Users(), a.Tokens).
		WithActivitySink(a.activity).
		WithLogger(a.Logger)

	res, err := handler.Execute(ctx.UserContext(), *payload)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (a *AuthController) LoginBasicPost(ctx *fiber.Ctx) error {
	payload := new(LoginBasicMessage)

	// a Basic authorization header wins over the body so CLI callers can
	// skip JSON entirely
	if header := ctx.Get(fiber.HeaderAuthorization); header != "" {
		email, password, err := basicCredentials(header)
		if err != nil {
			return err
		}
		payload.Email = email
		payload.Password = password
	} else if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body").
			WithCode(fiber.StatusBadRequest)
	}

	handler := NewLoginBasicHandler(a.Repo.Users(), a.Tokens).
		WithActivitySink(a.activity).
		WithLogger(a.Logger)

	res, err := handler.Execute(ctx.UserContext(), *payload)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (a *AuthController) TokenRefreshPost(ctx *fiber.Ctx) error {
	payload := new(RefreshTokenMessage)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("token refresh parse payload: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body").
			WithCode(fiber.StatusBadRequest)
	}

	handler := NewRefreshTokenHandler(a.Repo.Users(), a.Tokens, a.Tokens).
		WithLogger(a.Logger)

	res, err := handler.Execute(ctx.UserContext(), *payload)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (a *AuthController) PasswordResetRequestPost(ctx *fiber.Ctx) error {
	payload := new(PasswordResetRequestMessage)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("password reset parse payload: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body").
			WithCode(fiber.StatusBadRequest)
	}

	handler := NewPasswordResetRequestHandler(a.Repo.Users(), a.Tokens).
		WithLogger(a.Logger)

	res, err := handler.Execute(ctx.UserContext(), *payload)
	if err != nil {
		return err
	}

	if a.Debug {
		fmt.Println("======= Password Reset ======")
		fmt.Println(print.MaybePrettyJSON(res))
		fmt.Println("=============================")
	}

	return ctx.JSON(res)
}

func (a *AuthController) PasswordResetVerifyPut(ctx *fiber.Ctx) error {
	payload := new(PasswordResetVerifyMessage)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("password reset verify parse payload: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body").
			WithCode(fiber.StatusBadRequest)
	}

	handler := NewPasswordResetVerifyHandler(a.Repo.Users(), a.Tokens).
		WithActivitySink(a.activity).
		WithLogger(a.Logger)

	res, err := handler.Execute(ctx.UserContext(), *payload)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

// AdminBanPayload is the ban request body. The target comes from the route
// param, the actor from the access token.
type AdminBanPayload struct {
	Reason string `json:"reason"`
}

func (a *AuthController) AdminBanPost(ctx *fiber.Ctx) error {
	payload := new(AdminBanPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("ban user parse payload: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body").
			WithCode(fiber.StatusBadRequest)
	}

	actorID, _ := ctx.Locals(LocalUserID).(string)

	handler := NewBanUserHandler(a.Repo.Users()).
		WithActivitySink(a.activity).
		WithLogger(a.Logger)

	res, err := handler.Execute(ctx.UserContext(), BanUserMessage{
		ID:      ctx.Params("id"),
		Reason:  payload.Reason,
		ActorID: actorID,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (a *AuthController) AdminArchivePost(ctx *fiber.Ctx) error {
	actorID, _ := ctx.Locals(LocalUserID).(string)

	handler := NewArchiveUserHandler(a.Repo.Users()).
		WithActivitySink(a.activity).
		WithLogger(a.Logger)

	res, err := handler.Execute(ctx.UserContext(), ArchiveUserMessage{
		ID:      ctx.Params("id"),
		ActorID: actorID,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (a *AuthController) AdminRestorePost(ctx *fiber.Ctx) error {
	actorID, _ := ctx.Locals(LocalUserID).(string)

	handler := NewArchiveUserHandler(a.Repo.Users()).
		WithActivitySink(a.activity).
		WithLogger(a.Logger)

	res, err := handler.ExecuteRestore(ctx.UserContext(), ArchiveUserMessage{
		ID:      ctx.Params("id"),
		ActorID: actorID,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (a *AuthController) AdminUnbanPost(ctx *fiber.Ctx) error {
	actorID, _ := ctx.Locals(LocalUserID).(string)

	handler := NewBanUserHandler(a.Repo.Users()).
		WithActivitySink(a.activity).
		WithLogger(a.Logger)

	res, err := handler.ExecuteUnban(ctx.UserContext(), UnbanUserMessage{
		ID:      ctx.Params("id"),
		ActorID: actorID,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
