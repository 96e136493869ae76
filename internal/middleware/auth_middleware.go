package middleware

import (
	"log"
	"strings"

	"atlas/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserKey is the Locals key under which the authenticated user is
// stored for downstream handlers.
const CurrentUserKey = "current_user"

// AuthRequired is a Fiber middleware that resolves the request credentials to
// a user. Two forms are accepted: an api_key/user_domain query pair, or a
// session token from the Authorization header or the session cookie. Requests
// that present neither, or whose credential does not resolve, get a 401 and
// the chain stops.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userDomain := c.Query("user_domain")

		if apiKey := c.Query("api_key"); apiKey != "" {
			user, err := authService.AuthenticateAPIKey(userDomain, apiKey)
			if err != nil {
				log.Printf("API key authentication failed for domain %q: %v", userDomain, err)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Invalid credentials",
				})
			}
			c.Locals(CurrentUserKey, user)
			return c.Next()
		}

		token := sessionToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}

		user, err := authService.AuthenticateToken(token)
		if err != nil {
			log.Printf("Session token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session",
			})
		}

		// A session for one tenant cannot address another tenant's API.
		if userDomain != "" && userDomain != user.Username {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid credentials",
			})
		}

		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// sessionToken extracts a session token from the Authorization header
// ("Bearer <token>") or from the session cookie.
func sessionToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Cookies("session")
}
