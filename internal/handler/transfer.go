package handler

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/service"
	"github.com/studiopipe/gateway/internal/store"
	"github.com/studiopipe/gateway/pkg/response"
)

// TransferHandler serves the transfer tracker CRUD endpoints.
type TransferHandler struct {
	service   *service.TransferService
	validator *validator.Validate
}

func NewTransferHandler(svc *service.TransferService, v *validator.Validate) *TransferHandler {
	return &TransferHandler{
		service:   svc,
		validator: v,
	}
}

func parseID(c *fiber.Ctx) (int, error) {
	return strconv.Atoi(c.Params("id"))
}

// Create handles POST /
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var req model.CreateTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	return response.Created(c, h.service.Create(c.Context(), &req))
}

// List handles GET /
func (h *TransferHandler) List(c *fiber.Ctx) error {
	return response.OK(c, h.service.List())
}

// Get handles GET /:id
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.ValidationError(c, "Invalid transfer id", map[string]string{"id": "integer"})
	}

	transfer, err := h.service.Get(id)
	if err != nil {
		if store.IsNotFound(err) {
			return response.NotFound(c, fmt.Sprintf("Transfer %d not found", id))
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, transfer)
}

// Update handles PUT /:id
func (h *TransferHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.ValidationError(c, "Invalid transfer id", map[string]string{"id": "integer"})
	}

	var req model.UpdateTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	transfer, err := h.service.Update(id, &req)
	if err != nil {
		if store.IsNotFound(err) {
			return response.NotFound(c, fmt.Sprintf("Transfer %d not found", id))
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, transfer)
}

// Delete handles DELETE /:id
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.ValidationError(c, "Invalid transfer id", map[string]string{"id": "integer"})
	}

	transfer, err := h.service.Delete(id)
	if err != nil {
		if store.IsNotFound(err) {
			return response.NotFound(c, fmt.Sprintf("Transfer %d not found", id))
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, transfer)
}
