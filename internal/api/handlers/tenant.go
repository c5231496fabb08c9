package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hcastells/fincas/internal/models"
	"github.com/hcastells/fincas/internal/storage"
	"github.com/hcastells/fincas/internal/validation"
)

type TenantHandler struct {
	store storage.Storage
}

func NewTenantHandler(store storage.Storage) *TenantHandler {
	return &TenantHandler{store: store}
}

func (h *TenantHandler) List(c *fiber.Ctx) error {
	tenants, err := h.store.ListTenants(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tenants",
		})
	}
	return c.JSON(tenants)
}

func (h *TenantHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tenant id",
		})
	}

	tenant, err := h.store.GetTenant(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrTenantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Tenant not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tenant",
		})
	}
	return c.JSON(tenant)
}

func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var req models.TenantRequest
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

	tenant := &models.Tenant{
		Name:  req.Name,
		DNI:   req.DNI,
		Phone: req.Phone,
		Email: req.Email,
	}

	if err := h.store.CreateTenant(c.Context(), tenant); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to create tenant",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(tenant)
}

func (h *TenantHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tenant id",
		})
	}

	tenant, err := h.store.GetTenant(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrTenantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Tenant not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tenant",
		})
	}

	var req models.TenantRequest
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

	tenant.Name = req.Name
	tenant.DNI = req.DNI
	tenant.Phone = req.Phone
	tenant.Email = req.Email

	if err := h.store.SaveTenant(c.Context(), tenant); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update tenant",
		})
	}

	return c.JSON(tenant)
}

// Delete refuses to remove a tenant that is still assigned to a property
// or referenced by payments.
func (h *TenantHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tenant id",
		})
	}

	if err := h.store.DeleteTenant(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, storage.ErrTenantNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Tenant not found",
			})
		case errors.Is(err, storage.ErrTenantInUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Tenant is still referenced by a property or payments",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete tenant",
			})
		}
	}

	return c.JSON(fiber.Map{"message": "Tenant deleted"})
}
