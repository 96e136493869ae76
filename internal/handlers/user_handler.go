package handlers

import (
	"errors"
	"log"

	"atlas/internal/middleware"
	"atlas/internal/models"
	"atlas/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for the current user's account and profile.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes with the Fiber app. The router is
// expected to carry the authentication middleware already.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", h.HandleMe)
	userRoutes.Put("/:user_id", h.HandleUpdateMe)
}

// updateRequest is the envelope of the update-me payload: the partial field
// map lives under the "user" key.
type updateRequest struct {
	User services.UserUpdate `json:"user"`
}

// HandleMe returns the authenticated user's representation together with the
// derived dashboard fields.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	user := currentUser(c)

	payload, err := h.service.Me(user)
	if err != nil {
		log.Printf("Error building me payload for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve user",
		})
	}
	return c.JSON(payload)
}

// HandleUpdateMe applies a partial account/profile update to the user
// addressed by the path. Only the authenticated user may update their own
// record; validation failures come back as one 400 with per-field errors.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	user := currentUser(c)

	if c.Params("user_id") != user.ID {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	}

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	updated, err := h.service.UpdateUser(user, req.User)
	if err != nil {
		var validationErrs services.ValidationErrors
		if errors.As(err, &validationErrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Error updating your account details",
				"errors":  validationErrs,
			})
		}
		log.Printf("Error updating user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update user",
		})
	}

	return c.JSON(updated.Presentation())
}

// currentUser pulls the authenticated user placed in Locals by the
// authentication middleware.
func currentUser(c *fiber.Ctx) *models.User {
	return c.Locals(middleware.CurrentUserKey).(*models.User)
}
