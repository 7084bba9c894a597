package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal/internal/service"
)

const profilePicField = "profile_pic"

// ProfileHandler handles profile and student details endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
	detailsService service.StudentDetailsService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService, detailsService service.StudentDetailsService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, detailsService: detailsService}
}

// ProfileRequest carries the editable profile fields. The picture travels as the
// multipart file field profile_pic.
type ProfileRequest struct {
	FullName string `json:"full_name" form:"full_name" validate:"max=100"`
	Bio      string `json:"bio" form:"bio"`
}

// StudentDetailsRequest carries a student's academic and contact information.
type StudentDetailsRequest struct {
	Education string `json:"education" form:"education" validate:"max=500"`
	Skills    string `json:"skills" form:"skills" validate:"max=500"`
	Contact   string `json:"contact" form:"contact" validate:"max=15"`
	Address   string `json:"address" form:"address" validate:"max=300"`
}

func (r StudentDetailsRequest) input() service.StudentDetailsInput {
	return service.StudentDetailsInput{
		Education: r.Education,
		Skills:    r.Skills,
		Contact:   r.Contact,
		Address:   r.Address,
	}
}

// CreateProfile godoc
// @Summary Create the caller's profile
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param full_name formData string true "Full name"
// @Param bio formData string false "Bio"
// @Param profile_pic formData file false "Picture (png, jpg, jpeg, gif)"
// @Success 201 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /profile [post]
func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	var req ProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	picture, closeFile, err := formUpload(c, profilePicField)
	if err != nil {
		return err
	}
	defer closeFile()

	profile, err := h.profileService.Create(c.Request().Context(), identity(c), service.ProfileInput{
		FullName: req.FullName,
		Bio:      req.Bio,
	}, picture)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, profile)
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profileService.Get(c.Request().Context(), identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param full_name formData string false "Full name"
// @Param bio formData string false "Bio"
// @Param profile_pic formData file false "New picture"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req ProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	picture, closeFile, err := formUpload(c, profilePicField)
	if err != nil {
		return err
	}
	defer closeFile()

	profile, err := h.profileService.Update(c.Request().Context(), identity(c), service.ProfileInput{
		FullName: req.FullName,
		Bio:      req.Bio,
	}, picture)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// DeleteProfile godoc
// @Summary Delete the caller's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile [delete]
func (h *ProfileHandler) DeleteProfile(c echo.Context) error {
	if err := h.profileService.Delete(c.Request().Context(), identity(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "profile deleted"})
}

// CreateDetails godoc
// @Summary Create the caller's student details
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StudentDetailsRequest true "Details"
// @Success 201 {object} model.StudentDetails
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /student/details [post]
func (h *ProfileHandler) CreateDetails(c echo.Context) error {
	var req StudentDetailsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	details, err := h.detailsService.Create(c.Request().Context(), identity(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, details)
}

// GetDetails godoc
// @Summary Get the caller's student details
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.StudentDetails
// @Failure 404 {object} errors.ErrorResponse
// @Router /student/details [get]
func (h *ProfileHandler) GetDetails(c echo.Context) error {
	details, err := h.detailsService.Get(c.Request().Context(), identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// UpdateDetails godoc
// @Summary Update the caller's student details
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StudentDetailsRequest true "Details"
// @Success 200 {object} model.StudentDetails
// @Failure 404 {object} errors.ErrorResponse
// @Router /student/details [put]
func (h *ProfileHandler) UpdateDetails(c echo.Context) error {
	var req StudentDetailsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	details, err := h.detailsService.Update(c.Request().Context(), identity(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// DeleteDetails godoc
// @Summary Delete the caller's student details
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /student/details [delete]
func (h *ProfileHandler) DeleteDetails(c echo.Context) error {
	if err := h.detailsService.Delete(c.Request().Context(), identity(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "student details deleted"})
}
