package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,strongpassword"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name"  validate:"omitempty,max=100"`
	CI        string `json:"ci,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type validateRequest struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,strongpassword"`
}

// userSummary is the identity view returned by the auth endpoints.
type userSummary struct {
	ID                     string         `json:"id"`
	Email                  string         `json:"email"`
	Role                   domain.Role    `json:"role"`
	Status                 domain.Status  `json:"status"`
	Profile                domain.Profile `json:"profile"`
	LastLogin              *time.Time     `json:"last_login,omitempty"`
	RequiresPasswordChange bool           `json:"requires_password_change,omitempty"`
}

type authResponse struct {
	User   userSummary      `json:"user"`
	Tokens *ports.TokenPair `json:"tokens,omitempty"`
}

type decodedToken struct {
	Subject   string `json:"sub"`
	ID        string `json:"jti"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

type validateResponse struct {
	Valid   bool          `json:"valid"`
	Decoded *decodedToken `json:"decoded,omitempty"`
	Message string        `json:"message,omitempty"`
}

func summarize(u *domain.User, requiresPasswordChange bool) userSummary {
	return userSummary{
		ID:                     u.ID,
		Email:                  u.Email,
		Role:                   u.Role,
		Status:                 u.Status,
		Profile:                u.Profile,
		LastLogin:              u.LastLogin,
		RequiresPasswordChange: requiresPasswordChange,
	}
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{User: summarize(r.User, r.RequiresPasswordChange), Tokens: r.Tokens}
}

// Register creates a citizen account.
//
// @Summary      Register a citizen account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  Envelope{data=authResponse}
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Failure      429   {object}  Envelope
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CI:        req.CI,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}

	msg := "registration successful"
	if result.Tokens == nil {
		msg = "registration received, the account awaits activation"
	}
	return created(c, toAuthResponse(result), msg)
}

// Login authenticates with email and password and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope{data=authResponse}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      429   {object}  Envelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return ok(c, toAuthResponse(result))
}

// Refresh exchanges a refresh token for a new access token.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  Envelope{data=ports.TokenPair}
// @Failure      401   {object}  Envelope
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return ok(c, map[string]any{"tokens": tokens})
}

// Logout ends the session: the refresh token is dropped and the presented
// access token is revoked.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), p); err != nil {
		return err
	}
	return message(c, "logged out")
}

// Me returns the authenticated identity.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=userSummary}
// @Failure      401  {object}  Envelope
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Me(c.Request().Context(), p.User.ID)
	if err != nil {
		return err
	}
	return ok(c, map[string]any{"user": summarize(user, false)})
}

// Validate reports whether an access token is currently valid. It always
// answers 200.
//
// @Summary      Validate an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      validateRequest  true  "Token"
// @Success      200   {object}  Envelope{data=validateResponse}
// @Router       /api/auth/validate [post]
func (h *AuthHandler) Validate(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return ok(c, validateResponse{Valid: false, Message: domain.ErrMissingToken.Error()})
	}

	claims, err := h.authService.Validate(c.Request().Context(), req.Token)
	if err != nil {
		return ok(c, validateResponse{Valid: false, Message: err.Error()})
	}
	return ok(c, validateResponse{
		Valid: true,
		Decoded: &decodedToken{
			Subject:   claims.Subject,
			ID:        claims.ID,
			ExpiresAt: claims.ExpiresAt.Unix(),
			IssuedAt:  claims.IssuedAt.Unix(),
		},
	})
}

// ChangePassword replaces the caller's password and revokes the session.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), p.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return message(c, "password changed, please log in again")
}
