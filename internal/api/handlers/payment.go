package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hcastells/fincas/internal/models"
	"github.com/hcastells/fincas/internal/service"
	"github.com/hcastells/fincas/internal/storage"
	"github.com/hcastells/fincas/internal/validation"
)

// PaymentHandler serves payments in their reduced projection and routes
// every write through the reconciliation service.
type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func toPaymentResponses(payments []models.Payment) []models.PaymentResponse {
	resp := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, payments[i].ToResponse())
	}
	return resp
}

func (h *PaymentHandler) List(c *fiber.Ctx) error {
	payments, err := h.payments.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}
	return c.JSON(toPaymentResponses(payments))
}

func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	payment, err := h.payments.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrPaymentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Payment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payment",
		})
	}
	return c.JSON(payment.ToResponse())
}

func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req models.PaymentRequest
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

	payment := &models.Payment{
		Year:       req.Year,
		Month:      req.Month,
		RentAmount: req.RentAmount,
		Paid:       *req.Paid,
		TenantID:   req.TenantID,
		PropertyID: req.PropertyID,
	}

	if err := h.payments.Save(c.Context(), payment); err != nil {
		if errors.Is(err, storage.ErrPropertyNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown property",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save payment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(payment.ToResponse())
}

// Update overwrites the payment and re-runs the debt reconciliation for
// the owning property.
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	payment, err := h.payments.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrPaymentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Payment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payment",
		})
	}

	var req models.PaymentRequest
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

	payment.Year = req.Year
	payment.Month = req.Month
	payment.Paid = *req.Paid
	payment.TenantID = req.TenantID
	payment.PropertyID = req.PropertyID

	if err := h.payments.Save(c.Context(), payment); err != nil {
		if errors.Is(err, storage.ErrPropertyNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown property",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save payment",
		})
	}

	return c.JSON(payment.ToResponse())
}

func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	if err := h.payments.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, storage.ErrPaymentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Payment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete payment",
		})
	}

	return c.JSON(fiber.Map{"message": "Payment deleted"})
}

func (h *PaymentHandler) ByProperty(c *fiber.Ctx) error {
	id, err := c.ParamsInt("idInmueble")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property id",
		})
	}

	payments, err := h.payments.ByProperty(c.Context(), uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}
	return c.JSON(toPaymentResponses(payments))
}

func (h *PaymentHandler) Unpaid(c *fiber.Ctx) error {
	payments, err := h.payments.Unpaid(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}
	return c.JSON(toPaymentResponses(payments))
}

func (h *PaymentHandler) ByDate(c *fiber.Ctx) error {
	year, err := c.ParamsInt("anio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid year",
		})
	}
	month, err := c.ParamsInt("mes")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month",
		})
	}

	payments, err := h.payments.ByDate(c.Context(), &year, &month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}
	return c.JSON(toPaymentResponses(payments))
}
