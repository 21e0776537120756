package credentials

import (
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// AuthControllerRoutes are the JSON API paths
type AuthControllerRoutes struct {
	Register string
	Token    string
	Refresh  string
	Validate string
	Health   string
}

// AuthController exposes the registration and token lifecycle over HTTP.
// It is pure glue: every decision is delegated to the Registrar and the
// Authenticator, and every error that crosses it is already one of the
// module's tagged errors.
type AuthController struct {
	Debug     bool
	Logger    Logger
	Auther    Authenticator
	Registrar AccountRegistrerer
	Routes    *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerRegistrar(registrar AccountRegistrerer) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Registrar = registrar
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Token:    "/auth/token",
			Refresh:  "/auth/refresh-token",
			Validate: "/auth/validate-token",
			Health:   "/auth/health",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Registrar == nil {
		panic("Missing AccountRegistrerer in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the auth endpoints on the given router
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Token, controller.TokenPost)
	app.Post(controller.Routes.Refresh, controller.RefreshPost)
	app.Post(controller.Routes.Validate, controller.ValidatePost)
	app.Get(controller.Routes.Health, controller.HealthGet)

	return controller
}

// RegisterUserPayload is the registration request body
type RegisterUserPayload struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Password    string `json:"password"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Validate will run validation rules
func (r RegisterUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.FullName, validation.Length(0, 200)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

// TokenRequestPayload is the login request body
type TokenRequestPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r TokenRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshTokenPayload is the refresh request body
type RefreshTokenPayload struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate will run validation rules
func (r RefreshTokenPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// ValidateTokenPayload is the validation request body
type ValidateTokenPayload struct {
	AccessToken string `json:"access_token"`
}

// Validate will run validation rules
func (r ValidateTokenPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccessToken, validation.Required),
	)
}

// ValidateTokenResponse is the validation response body
type ValidateTokenResponse struct {
	Valid bool `json:"valid"`
	AccountSummary
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterUserPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return respondDetail(c, fiber.StatusBadRequest, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Warn("register user validate payload", "error", err)
		return respondDetail(c, fiber.StatusBadRequest, err.Error())
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	user, err := a.Registrar.Execute(c.UserContext(), RegisterUserMessage{
		Email:     payload.Email,
		FullName:  payload.FullName,
		Password:  payload.Password,
		Active:    payload.IsActive,
		Superuser: payload.IsSuperuser,
	})
	if err != nil {
		return a.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (a *AuthController) TokenPost(c *fiber.Ctx) error {
	payload := new(TokenRequestPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("token request parse payload", "error", err)
		return respondDetail(c, fiber.StatusBadRequest, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Warn("token request validate payload", "error", err)
		return respondDetail(c, fiber.StatusBadRequest, err.Error())
	}

	pair, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.respondError(c, err)
	}

	return c.JSON(pair)
}

func (a *AuthController) RefreshPost(c *fiber.Ctx) error {
	payload := new(RefreshTokenPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("refresh token parse payload", "error", err)
		return respondDetail(c, fiber.StatusBadRequest, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		return respondDetail(c, fiber.StatusBadRequest, "refresh token is required")
	}

	pair, err := a.Auther.Refresh(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return a.respondError(c, err)
	}

	return c.JSON(pair)
}

func (a *AuthController) ValidatePost(c *fiber.Ctx) error {
	payload := new(ValidateTokenPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("validate token parse payload", "error", err)
		return respondDetail(c, fiber.StatusBadRequest, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		return respondDetail(c, fiber.StatusBadRequest, "access token is required")
	}

	summary, err := a.Auther.Validate(c.UserContext(), payload.AccessToken)
	if err != nil {
		return a.respondError(c, err)
	}

	return c.JSON(ValidateTokenResponse{
		Valid:          true,
		AccountSummary: *summary,
	})
}

func (a *AuthController) HealthGet(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// RequireAccessToken guards routes behind a valid bearer access token. The
// verified AccountSummary is stored in ctx locals under "user".
func (a *AuthController) RequireAccessToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return respondDetail(c, fiber.StatusUnauthorized, "missing or malformed JWT")
		}

		summary, err := a.Auther.Validate(c.UserContext(), token)
		if err != nil {
			return a.respondError(c, err)
		}

		c.Locals("user", summary)
		c.SetUserContext(WithSummaryContext(c.UserContext(), summary))
		return c.Next()
	}
}

// SummaryFromCtx retrieves the AccountSummary stored by RequireAccessToken
func SummaryFromCtx(c *fiber.Ctx) (*AccountSummary, bool) {
	summary, ok := c.Locals("user").(*AccountSummary)
	return summary, ok
}

func (a *AuthController) respondError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Warn(
		"auth request failed",
		"error", richErr.Message,
		"category", richErr.Category,
		"text_code", richErr.TextCode,
	)

	status := richErr.Code
	if status == 0 {
		switch richErr.Category {
		case errors.CategoryAuth, errors.CategoryAuthz:
			status = http.StatusUnauthorized
		case errors.CategoryConflict:
			status = http.StatusConflict
		case errors.CategoryValidation, errors.CategoryBadInput:
			status = http.StatusBadRequest
		default:
			status = http.StatusInternalServerError
		}
	}

	return respondDetail(c, status, richErr.Message)
}

func respondDetail(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
