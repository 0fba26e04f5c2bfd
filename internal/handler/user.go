package handler

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/studiopipe/gateway/internal/middleware"
	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/service"
	"github.com/studiopipe/gateway/internal/store"
	"github.com/studiopipe/gateway/pkg/response"
)

// UserHandler serves the user directory CRUD endpoints.
type UserHandler struct {
	service   *service.UserService
	validator *validator.Validate
}

func NewUserHandler(svc *service.UserService, v *validator.Validate) *UserHandler {
	return &UserHandler{
		service:   svc,
		validator: v,
	}
}

// Create handles POST /
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req model.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	return response.Created(c, h.service.Create(&req))
}

// List handles GET /
func (h *UserHandler) List(c *fiber.Ctx) error {
	return response.OK(c, h.service.List())
}

// Me handles GET /me. With auth enabled the principal comes from the
// token; otherwise the first seeded user stands in. Must be registered
// before the dynamic /:id route so the literal path wins.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	if userID := middleware.GetUserID(c); userID != "" {
		if id, err := strconv.Atoi(userID); err == nil {
			user, err := h.service.Get(id)
			if err == nil {
				return response.OK(c, user)
			}
		}
		if user, ok := h.service.GetByUsername(userID); ok {
			return response.OK(c, user)
		}
		return response.NotFound(c, "Current user not found")
	}

	user, ok := h.service.First()
	if !ok {
		return response.NotFound(c, "Current user not found")
	}
	return response.OK(c, user)
}

// Get handles GET /:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.ValidationError(c, "Invalid user id", map[string]string{"id": "integer"})
	}

	user, err := h.service.Get(id)
	if err != nil {
		if store.IsNotFound(err) {
			return response.NotFound(c, fmt.Sprintf("User %d not found", id))
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, user)
}

// Update handles PUT /:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.ValidationError(c, "Invalid user id", map[string]string{"id": "integer"})
	}

	var req model.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	user, err := h.service.Update(id, &req)
	if err != nil {
		if store.IsNotFound(err) {
			return response.NotFound(c, fmt.Sprintf("User %d not found", id))
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, user)
}

// Delete handles DELETE /:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.ValidationError(c, "Invalid user id", map[string]string{"id": "integer"})
	}

	user, err := h.service.Delete(id)
	if err != nil {
		if store.IsNotFound(err) {
			return response.NotFound(c, fmt.Sprintf("User %d not found", id))
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, user)
}
