package server

import (
	"context"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/policy"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer access token, loads the user and rejects
// inactive accounts. The resolved actor lands in locals for handlers.
func (s *Server) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.tokens.Validate(c.Context(), tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		// The role in the token is a hint; the database row is the truth
		// for both role and account status.
		user, err := s.userRepo.GetByID(c.Context(), claims.UserID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}
		if !user.CanAuthenticate() {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Account is inactive"))
		}

		c.Locals("userID", user.ID)
		c.Locals("userRole", user.Role)
		c.Locals("accessClaims", claims)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequireRole rejects actors below the given role rank with 403. Must be
// placed after RequireAuth.
func (s *Server) RequireRole(min models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("userRole").(models.UserRole)
		if !ok || !role.AtLeast(min) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewPermissionDeniedError(string(min)+" access required"))
		}
		return c.Next()
	}
}

// actor builds the policy actor from locals set by RequireAuth.
func (s *Server) actor(c *fiber.Ctx) policy.Actor {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("userRole").(models.UserRole)
	return policy.Actor{ID: userID, Role: role}
}

// optionalActor resolves the actor on public routes: a missing or invalid
// token degrades to anonymous instead of failing.
func (s *Server) optionalActor(c *fiber.Ctx) policy.Actor {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return policy.Actor{}
	}
	claims, err := s.tokens.Validate(c.Context(), tokenString)
	if err != nil {
		return policy.Actor{}
	}
	user, err := s.userRepo.GetByID(c.Context(), claims.UserID)
	if err != nil || !user.CanAuthenticate() {
		return policy.Actor{}
	}
	return policy.Actor{ID: user.ID, Role: user.Role}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
