package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-service/internal/api/dto"
	"github.com/spec-kit/enquiry-service/internal/domain"
	"github.com/spec-kit/enquiry-service/internal/service"
	apperrors "github.com/spec-kit/enquiry-service/pkg/util"
)

// CatalogHandler manages package and subject reference-data endpoints.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// ListPackages GET /packages.
func (h *CatalogHandler) ListPackages(c *fiber.Ctx) error {
	packages, err := h.service.ListPackages(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.PackageResponse, 0, len(packages))
	for i := range packages {
		items = append(items, packageResponse(&packages[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreatePackage POST /packages.
func (h *CatalogHandler) CreatePackage(c *fiber.Ctx) error {
	var req dto.CreatePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	pkg, err := h.service.CreatePackage(c.Context(), req.Name, req.Code, req.SubjectIDs)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "package created", "data": packageResponse(pkg)})
}

// UpdatePackage PUT /packages/:id.
func (h *CatalogHandler) UpdatePackage(c *fiber.Ctx) error {
	var req dto.UpdatePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pkg, err := h.service.UpdatePackage(c.Context(), c.Params("id"), req.Name, req.Code, req.SubjectIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "package updated", "data": packageResponse(pkg)})
}

// DeletePackage DELETE /packages/:id.
func (h *CatalogHandler) DeletePackage(c *fiber.Ctx) error {
	if err := h.service.DeletePackage(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "package deleted"})
}

// ListSubjects GET /subjects.
func (h *CatalogHandler) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.service.ListSubjects(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		items = append(items, subjectResponse(&subjects[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateSubject POST /subjects.
func (h *CatalogHandler) CreateSubject(c *fiber.Ctx) error {
	var req dto.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	subject, err := h.service.CreateSubject(c.Context(), req.Name, req.Code)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "subject created", "data": subjectResponse(subject)})
}

// UpdateSubject PUT /subjects/:id.
func (h *CatalogHandler) UpdateSubject(c *fiber.Ctx) error {
	var req dto.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	subject, err := h.service.UpdateSubject(c.Context(), c.Params("id"), req.Name, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "subject updated", "data": subjectResponse(subject)})
}

// DeleteSubject DELETE /subjects/:id.
func (h *CatalogHandler) DeleteSubject(c *fiber.Ctx) error {
	if err := h.service.DeleteSubject(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "subject deleted"})
}

func packageResponse(pkg *domain.Package) dto.PackageResponse {
	return dto.PackageResponse{
		ID:         pkg.ID,
		Name:       pkg.Name,
		Code:       pkg.Code,
		SubjectIDs: pkg.SubjectIDs,
		CreatedAt:  pkg.CreatedAt,
		UpdatedAt:  pkg.UpdatedAt,
	}
}

func subjectResponse(subject *domain.Subject) dto.SubjectResponse {
	return dto.SubjectResponse{
		ID:        subject.ID,
		Name:      subject.Name,
		Code:      subject.Code,
		CreatedAt: subject.CreatedAt,
		UpdatedAt: subject.UpdatedAt,
	}
}
