package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-service/internal/api/dto"
	"github.com/spec-kit/enquiry-service/internal/auth"
	"github.com/spec-kit/enquiry-service/internal/domain"
	"github.com/spec-kit/enquiry-service/internal/policy"
	"github.com/spec-kit/enquiry-service/internal/service"
	apperrors "github.com/spec-kit/enquiry-service/pkg/util"
)

// EnquiriesHandler manages candidate endpoints.
type EnquiriesHandler struct {
	service *service.EnquiryService
}

// NewEnquiriesHandler constructs handler.
func NewEnquiriesHandler(enquiryService *service.EnquiryService) *EnquiriesHandler {
	return &EnquiriesHandler{service: enquiryService}
}

// CreateEnquiry POST /enquiries. Intake is open: prospects submit the
// form themselves, so there may be no authenticated principal.
func (h *EnquiriesHandler) CreateEnquiry(c *fiber.Ctx) error {
	var actor *domain.User
	if principal, ok := auth.PrincipalFromContext(c); ok {
		actor = principal.User
	}
	var req dto.CreateEnquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.EnquiryCreateInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Location:      req.Location,
		PackageID:     req.PackageID,
		SubjectIDs:    req.SubjectIDs,
		TrainingMode:  req.TrainingMode,
		TrainingTime:  req.TrainingTime,
		StartTime:     req.StartTime,
		Profession:    req.Profession,
		Qualification: req.Qualification,
		Experience:    req.Experience,
		Referral:      req.Referral,
		Consent:       req.Consent,
	}
	enquiry, err := h.service.CreateEnquiry(c.Context(), actor, input)
	if err != nil {
		return err
	}
	resp, err := enquiryResponse(enquiry)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// ListEnquiries GET /enquiries.
func (h *EnquiriesHandler) ListEnquiries(c *fiber.Ctx) error {
	filter := parseEnquiryQuery(c)
	enquiries, err := h.service.ListEnquiries(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.EnquiryResponse, 0, len(enquiries))
	for i := range enquiries {
		resp, err := enquiryResponse(&enquiries[i])
		if err != nil {
			return err
		}
		items = append(items, resp)
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetEnquiry GET /enquiries/:id.
func (h *EnquiriesHandler) GetEnquiry(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	enquiry, err := h.service.GetEnquiry(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	resp, err := enquiryDetail(enquiry, principal.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resp})
}

// UpdateEnquiry PUT /enquiries/:id.
func (h *EnquiriesHandler) UpdateEnquiry(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.UpdateEnquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.EnquiryUpdateInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Location:      req.Location,
		PackageID:     req.PackageID,
		SubjectIDs:    req.SubjectIDs,
		TrainingMode:  req.TrainingMode,
		TrainingTime:  req.TrainingTime,
		StartTime:     req.StartTime,
		Profession:    req.Profession,
		Qualification: req.Qualification,
		Experience:    req.Experience,
		Referral:      req.Referral,
		DemoStatus:    req.DemoStatus,
	}
	enquiry, err := h.service.UpdateEnquiry(c.Context(), principal.User, c.Params("id"), input)
	if err != nil {
		return err
	}
	resp, err := enquiryResponse(enquiry)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ChangeStatus POST /enquiries/change-status.
func (h *EnquiriesHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	enquiry, err := h.service.ChangeStage(c.Context(), principal.User, req.EnquiryID, req.NewStatus)
	if err != nil {
		return err
	}
	resp, err := enquiryResponse(enquiry)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "status updated", "data": resp})
}

// ListStageHistory GET /enquiries/:id/history.
func (h *EnquiriesHandler) ListStageHistory(c *fiber.Ctx) error {
	limit := parseIntQuery(c.Query("page_size"), 50)
	page := parseIntQuery(c.Query("page"), 1)
	entries, err := h.service.ListStageHistory(c.Context(), c.Params("id"), limit, (page-1)*limit)
	if err != nil {
		return err
	}
	items := make([]dto.StageHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.StageHistoryResponse{
			ID:          entry.ID,
			ChangedByID: entry.ChangedByID,
			OldStage:    entry.OldStage,
			NewStage:    entry.NewStage,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseEnquiryQuery(c *fiber.Ctx) service.EnquiryListFilter {
	filter := service.EnquiryListFilter{}
	if stageStr := c.Query("stage"); stageStr != "" {
		for _, part := range strings.Split(stageStr, ",") {
			filter.Stages = append(filter.Stages, domain.Stage(strings.TrimSpace(part)))
		}
	}
	if pkg := c.Query("package_id"); pkg != "" {
		filter.PackageID = &pkg
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseIntQuery(c.Query("page"), 1)
	pageSize := parseIntQuery(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseIntQuery(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func enquiryResponse(enquiry *domain.Enquiry) (dto.EnquiryResponse, error) {
	idx, err := domain.StageIndex(enquiry.Stage)
	if err != nil {
		// a stored value outside the enum must surface, not render wrong
		return dto.EnquiryResponse{}, apperrors.NewInternalError(err)
	}
	return dto.EnquiryResponse{
		ID:            enquiry.ID,
		Name:          enquiry.Name,
		Email:         enquiry.Email,
		Phone:         enquiry.Phone,
		Location:      enquiry.Location,
		PackageID:     enquiry.PackageID,
		SubjectIDs:    enquiry.SubjectIDs,
		TrainingMode:  enquiry.TrainingMode,
		TrainingTime:  enquiry.TrainingTime,
		StartTime:     enquiry.StartTime,
		Profession:    enquiry.Profession,
		Qualification: enquiry.Qualification,
		Experience:    enquiry.Experience,
		Referral:      enquiry.Referral,
		Consent:       enquiry.Consent,
		Stage:         enquiry.Stage,
		StageIndex:    idx,
		DemoStatus:    enquiry.DemoStatus,
		CreatedAt:     enquiry.CreatedAt,
		UpdatedAt:     enquiry.UpdatedAt,
	}, nil
}

func enquiryDetail(enquiry *domain.Enquiry, role domain.Role) (dto.EnquiryDetailResponse, error) {
	resp, err := enquiryResponse(enquiry)
	if err != nil {
		return dto.EnquiryDetailResponse{}, err
	}
	return dto.EnquiryDetailResponse{
		EnquiryResponse: resp,
		Pipeline: dto.PipelineView{
			Stages:             domain.Stages(),
			VisibleStages:      policy.VisibleStages(role),
			DemoStatusEditable: policy.IsDemoStatusEditable(role, enquiry.Stage),
			BillingAuthorized:  policy.IsBillingAuthorized(role),
		},
	}, nil
}
