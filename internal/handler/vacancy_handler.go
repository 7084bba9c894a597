package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"jobportal/internal/service"
)

// VacancyHandler handles vacancy endpoints.
type VacancyHandler struct {
	vacancyService service.VacancyService
}

// NewVacancyHandler creates a new vacancy handler.
func NewVacancyHandler(vacancyService service.VacancyService) *VacancyHandler {
	return &VacancyHandler{vacancyService: vacancyService}
}

// CreateVacancyRequest represents a new job posting.
type CreateVacancyRequest struct {
	Title       string           `json:"title" form:"title" validate:"required,max=100"`
	Description string           `json:"description" form:"description" validate:"required"`
	Location    string           `json:"location" form:"location" validate:"required,max=100"`
	LastDate    string           `json:"last_date" form:"last_date" validate:"required" example:"2026-12-31"`
	Salary      *decimal.Decimal `json:"salary,omitempty" swaggertype:"string" example:"1500.00"`
}

// Create godoc
// @Summary Post a vacancy
// @Tags vacancies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateVacancyRequest true "Vacancy data"
// @Success 201 {object} model.Vacancy
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /company/vacancies [post]
func (h *VacancyHandler) Create(c echo.Context) error {
	var req CreateVacancyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	vacancy, err := h.vacancyService.Create(c.Request().Context(), identity(c), service.CreateVacancyInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		LastDate:    req.LastDate,
		Salary:      req.Salary,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, vacancy)
}

// ListOwn godoc
// @Summary List the caller's vacancies
// @Tags vacancies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Vacancy
// @Failure 403 {object} errors.ErrorResponse
// @Router /company/vacancies [get]
func (h *VacancyHandler) ListOwn(c echo.Context) error {
	vacancies, err := h.vacancyService.ListForCompany(c.Request().Context(), identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, vacancies)
}

// ListAll godoc
// @Summary Browse all vacancies
// @Tags vacancies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Vacancy
// @Failure 403 {object} errors.ErrorResponse
// @Router /vacancies [get]
func (h *VacancyHandler) ListAll(c echo.Context) error {
	vacancies, err := h.vacancyService.ListAll(c.Request().Context(), identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, vacancies)
}

// Get godoc
// @Summary Get a vacancy
// @Tags vacancies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vacancy ID"
// @Success 200 {object} model.Vacancy
// @Failure 404 {object} errors.ErrorResponse
// @Router /vacancies/{id} [get]
func (h *VacancyHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	vacancy, err := h.vacancyService.Get(c.Request().Context(), identity(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, vacancy)
}

// Delete godoc
// @Summary Delete a vacancy and its applications
// @Tags vacancies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vacancy ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /company/vacancies/{id} [delete]
func (h *VacancyHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.vacancyService.Delete(c.Request().Context(), identity(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "vacancy deleted"})
}
