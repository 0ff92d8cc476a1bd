package server

import (
	"fmt"
	"time"

	"devcamper/internal/middleware"
	"devcamper/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultCookieExpireDays = 30

// tokenResponse is the body of every route that signs a new token.
type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// sendTokenResponse sets the token cookie and writes {success, token}.
func (s *Server) sendTokenResponse(c *fiber.Ctx, status int, session *service.Session) error {
	days := s.config.JWTCookieExpireDays
	if days <= 0 {
		days = defaultCookieExpireDays
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    session.Token,
		Expires:  time.Now().Add(time.Duration(days) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Status(status).JSON(tokenResponse{Success: true, Token: session.Token})
}

// Register handles POST /api/v1/auth/register
// @Summary Register a user
// @Description Create an account with role user or publisher and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Account"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	session, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return s.sendTokenResponse(c, fiber.StatusOK, session)
}

// Login handles POST /api/v1/auth/login
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Login credentials"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	session, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return s.sendTokenResponse(c, fiber.StatusOK, session)
}

// Logout handles GET /api/v1/auth/logout
// @Summary Log out
// @Description Revoke the current token and clear the cookie
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} envelope
// @Router /auth/logout [get]
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), middleware.CurrentClaims(c)); err != nil {
		return respondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "none",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
	})
	return respondData(c, fiber.StatusOK, fiber.Map{})
}

// GetMe handles GET /api/v1/auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} envelope{data=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.authService.Me(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, user)
}

// UpdateDetails handles PUT /api/v1/auth/updatedetails
// @Summary Update name and email
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateDetailsInput true "Changed fields"
// @Success 200 {object} envelope{data=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/updatedetails [put]
func (s *Server) UpdateDetails(c *fiber.Ctx) error {
	var req service.UpdateDetailsInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.UpdateDetails(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, user)
}

// UpdatePassword handles PUT /api/v1/auth/updatepassword
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdatePasswordInput true "Passwords"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/updatepassword [put]
func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	var req service.UpdatePasswordInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	session, err := s.authService.UpdatePassword(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return s.sendTokenResponse(c, fiber.StatusOK, session)
}

// ForgotPassword handles POST /api/v1/auth/forgotpassword
// @Summary Email a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Account email"
// @Success 200 {object} envelope{data=string}
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/forgotpassword [post]
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	resetURL := func(token string) string {
		return fmt.Sprintf("%s://%s/api/v1/auth/resetpassword/%s", c.Protocol(), c.Hostname(), token)
	}
	if err := s.authService.ForgotPassword(c.UserContext(), req.Email, resetURL); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, "Email sent")
}

// ResetPassword handles PUT /api/v1/auth/resetpassword/:resettoken
// @Summary Reset a password with an emailed token
// @Tags auth
// @Accept json
// @Produce json
// @Param resettoken path string true "Reset token"
// @Param request body object{password=string} true "New password"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/resetpassword/{resettoken} [put]
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	session, err := s.authService.ResetPassword(c.UserContext(), c.Params("resettoken"), req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return s.sendTokenResponse(c, fiber.StatusOK, session)
}
