package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hcastells/fincas/internal/models"
	"github.com/hcastells/fincas/internal/storage"
	"github.com/hcastells/fincas/internal/validation"
)

// PropertyHandler serves properties in their reduced projection: flat
// fields plus the tenant id, never the nested tenant record.
type PropertyHandler struct {
	store storage.Storage
}

func NewPropertyHandler(store storage.Storage) *PropertyHandler {
	return &PropertyHandler{store: store}
}

func (h *PropertyHandler) List(c *fiber.Ctx) error {
	properties, err := h.store.ListProperties(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch properties",
		})
	}

	resp := make([]models.PropertyResponse, 0, len(properties))
	for i := range properties {
		resp = append(resp, properties[i].ToResponse())
	}
	return c.JSON(resp)
}

func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property id",
		})
	}

	property, err := h.store.GetProperty(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrPropertyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch property",
		})
	}
	return c.JSON(property.ToResponse())
}

func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var req models.PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validation.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if req.TenantID != nil {
		if _, err := h.store.GetTenant(c.Context(), *req.TenantID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown tenant",
			})
		}
	}

	property := &models.Property{
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		MonthlyRent: req.MonthlyRent,
		Status:      req.Status,
		TenantID:    req.TenantID,
	}

	if err := h.store.CreateProperty(c.Context(), property); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create property",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(property.ToResponse())
}

func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property id",
		})
	}

	property, err := h.store.GetProperty(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrPropertyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch property",
		})
	}

	var req models.PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validation.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if req.TenantID != nil {
		if _, err := h.store.GetTenant(c.Context(), *req.TenantID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown tenant",
			})
		}
	}

	property.Address = req.Address
	property.City = req.City
	property.PostalCode = req.PostalCode
	property.MonthlyRent = req.MonthlyRent
	property.Status = req.Status
	property.TenantID = req.TenantID

	if err := h.store.SaveProperty(c.Context(), property); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update property",
		})
	}

	return c.JSON(property.ToResponse())
}

func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property id",
		})
	}

	if err := h.store.DeleteProperty(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, storage.ErrPropertyNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		case errors.Is(err, storage.ErrPropertyInUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Property is still referenced by payments",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete property",
			})
		}
	}

	return c.JSON(fiber.Map{"message": "Property deleted"})
}
