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

// LogsHandler manages activity note endpoints.
type LogsHandler struct {
	service *service.LogService
}

// NewLogsHandler constructs handler.
func NewLogsHandler(logService *service.LogService) *LogsHandler {
	return &LogsHandler{service: logService}
}

// ListLogs GET /logs/:enquiryId.
func (h *LogsHandler) ListLogs(c *fiber.Ctx) error {
	limit := parseIntQuery(c.Query("page_size"), 50)
	page := parseIntQuery(c.Query("page"), 1)
	logs, err := h.service.ListLogs(c.Context(), c.Params("enquiryId"), limit, (page-1)*limit)
	if err != nil {
		return err
	}
	items := make([]dto.LogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, logResponse(&logs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateLog POST /logs.
func (h *LogsHandler) CreateLog(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CreateLogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	log, err := h.service.CreateLog(c.Context(), principal.User, req.EnquiryID, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "log added", "data": logResponse(log)})
}

// UpdateLog PUT /logs/:id.
func (h *LogsHandler) UpdateLog(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.UpdateLogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	log, err := h.service.UpdateLog(c.Context(), principal.User, c.Params("id"), req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "log updated", "data": logResponse(log)})
}

func logResponse(log *domain.ActivityLog) dto.LogResponse {
	return dto.LogResponse{
		ID:          log.ID,
		EnquiryID:   log.EnquiryID,
		Title:       log.Title,
		Description: log.Description,
		AuthorID:    log.AuthorID,
		AuthorRole:  log.AuthorRole,
		CreatedAt:   log.CreatedAt,
		UpdatedAt:   log.UpdatedAt,
	}
}
