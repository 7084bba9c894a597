package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal/internal/service"
)

// ApplicationHandler handles application endpoints.
type ApplicationHandler struct {
	applicationService service.ApplicationService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(applicationService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// UpdateStatusRequest carries the target status.
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required" example:"Selected"`
}

// Apply godoc
// @Summary Apply to a vacancy
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vacancy ID"
// @Success 201 {object} model.Application
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /student/vacancies/{id}/apply [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	vacancyID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	application, err := h.applicationService.Apply(c.Request().Context(), identity(c), vacancyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, application)
}

// ListForStudent godoc
// @Summary List the caller's applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Application
// @Failure 403 {object} errors.ErrorResponse
// @Router /student/applications [get]
func (h *ApplicationHandler) ListForStudent(c echo.Context) error {
	applications, err := h.applicationService.ListForStudent(c.Request().Context(), identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, applications)
}

// ListForCompany godoc
// @Summary List applications to the caller's vacancies
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Application
// @Failure 403 {object} errors.ErrorResponse
// @Router /company/applications [get]
func (h *ApplicationHandler) ListForCompany(c echo.Context) error {
	applications, err := h.applicationService.ListForCompanyVacancies(c.Request().Context(), identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, applications)
}

// UpdateStatus godoc
// @Summary Select or reject an application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body UpdateStatusRequest true "Target status"
// @Success 200 {object} model.Application
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /company/applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	application, err := h.applicationService.UpdateStatus(c.Request().Context(), identity(c), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, application)
}
