// Package middleware provides authentication, authorization, rate limiting,
// tracing and request logging for the Fiber app.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"devcamper/internal/auth"
	"devcamper/internal/cache"
	"devcamper/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals set by AuthRequired and RolesRequired.
const (
	LocalUserID = "userID"
	LocalClaims = "claims"
	LocalRole   = "role"
)

// TokenCookie is the cookie that carries the JWT for browser clients.
const TokenCookie = "token"

const notAuthorized = "Not authorized to access this route"

var tokens *auth.TokenIssuer

// InitMiddleware sets the token issuer used to verify bearer tokens.
func InitMiddleware(issuer *auth.TokenIssuer) {
	tokens = issuer
}

// RoleLoader fetches the current state of a user account.
type RoleLoader interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

func extractToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return c.Cookies(TokenCookie)
}

func unauthorized(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(notAuthorized))
}

// AuthRequired accepts a JWT from "Authorization: Bearer" or the token cookie,
// rejects revoked tokens and stores the caller in Fiber locals.
func AuthRequired(c *fiber.Ctx) error {
	raw := extractToken(c)
	if raw == "" || tokens == nil {
		return unauthorized(c)
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		return unauthorized(c)
	}
	userID, err := claims.UserID()
	if err != nil {
		return unauthorized(c)
	}

	revoked, err := cache.IsBlacklisted(c.UserContext(), claims.ID)
	if err != nil {
		// Redis outage: the signature and expiry were still checked
		Logger.WarnContext(c.UserContext(), "token blacklist unavailable", slog.String("error", err.Error()))
	}
	if revoked {
		return unauthorized(c)
	}

	c.Locals(LocalUserID, userID)
	c.Locals(LocalClaims, claims)
	c.Locals(LocalRole, claims.Role)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
	return c.Next()
}

// RolesRequired must follow AuthRequired. It loads the caller's current role,
// so a role change takes effect before the token expires.
func RolesRequired(users RoleLoader, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(LocalUserID).(uint)
		if !ok {
			return unauthorized(c)
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			if models.IsCode(err, models.CodeNotFound) {
				return unauthorized(c)
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		c.Locals(LocalRole, user.Role)

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(fmt.Sprintf("User role %s is unauthorized to access this route", user.Role)))
	}
}

// CurrentUserID returns the authenticated user id, or 0.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

// CurrentRole returns the caller's role as last seen by the auth middlewares.
func CurrentRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return role
}

// CurrentClaims returns the verified token claims, or nil.
func CurrentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(LocalClaims).(*auth.Claims)
	return claims
}
