package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-service/internal/api/dto"
	"github.com/spec-kit/enquiry-service/internal/auth"
	"github.com/spec-kit/enquiry-service/internal/domain"
	"github.com/spec-kit/enquiry-service/internal/service"
	apperrors "github.com/spec-kit/enquiry-service/pkg/util"
)

// BillingHandler manages the billing sub-ledger endpoints.
type BillingHandler struct {
	service *service.BillingService
}

// NewBillingHandler constructs handler.
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{service: billingService}
}

// GetBilling GET /enquiries/:id/billing.
func (h *BillingHandler) GetBilling(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	billing, err := h.service.GetBilling(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	if billing == nil {
		// not initialized yet; the console shows the "Create Billing" action
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": billingResponse(billing)})
}

// CreateBilling POST /enquiries/:id/billing.
func (h *BillingHandler) CreateBilling(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	billing, err := h.service.CreateBilling(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": billingResponse(billing)})
}

// UpdateBilling PUT /enquiries/:id/billing.
func (h *BillingHandler) UpdateBilling(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.UpdateBillingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	billing, err := h.service.UpdateBilling(c.Context(), principal.User, c.Params("id"), service.BillingUpdateInput{
		Total:    req.Total,
		Paid:     req.Paid,
		Discount: req.Discount,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": billingResponse(billing)})
}

func billingResponse(billing *domain.BillingDetails) dto.BillingResponse {
	return dto.BillingResponse{
		EnquiryID: billing.EnquiryID,
		Total:     billing.Total,
		Paid:      billing.Paid,
		Discount:  billing.Discount,
		Balance:   billing.Balance(),
		CreatedAt: billing.CreatedAt,
		UpdatedAt: billing.UpdatedAt,
	}
}
