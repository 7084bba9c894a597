package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "jobportal/internal/errors"
	"jobportal/internal/service"
)

const resumeField = "resume"

// ResumeHandler handles resume endpoints.
type ResumeHandler struct {
	resumeService service.ResumeService
}

// NewResumeHandler creates a new resume handler.
func NewResumeHandler(resumeService service.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

func requiredUpload(c echo.Context) (*service.Upload, func(), error) {
	up, closeFile, err := formUpload(c, resumeField)
	if err != nil {
		return nil, closeFile, err
	}
	if up == nil {
		return nil, closeFile, respondError(c, apperrors.ErrMissingFile)
	}
	return up, closeFile, nil
}

// Upload godoc
// @Summary Upload a resume
// @Tags resumes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param resume formData file true "Resume (pdf, doc, docx)"
// @Success 201 {object} model.Resume
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /student/resumes [post]
func (h *ResumeHandler) Upload(c echo.Context) error {
	file, closeFile, err := requiredUpload(c)
	defer closeFile()
	if err != nil {
		return err
	}

	resume, err := h.resumeService.Upload(c.Request().Context(), identity(c), file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resume)
}

// List godoc
// @Summary List the caller's resumes
// @Tags resumes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Resume
// @Failure 403 {object} errors.ErrorResponse
// @Router /student/resumes [get]
func (h *ResumeHandler) List(c echo.Context) error {
	resumes, err := h.resumeService.List(c.Request().Context(), identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resumes)
}

// Update godoc
// @Summary Replace a resume file
// @Tags resumes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resume ID"
// @Param resume formData file true "Resume (pdf, doc, docx)"
// @Success 200 {object} model.Resume
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /student/resumes/{id} [put]
func (h *ResumeHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	file, closeFile, err := requiredUpload(c)
	defer closeFile()
	if err != nil {
		return err
	}

	resume, err := h.resumeService.Update(c.Request().Context(), identity(c), id, file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resume)
}

// Delete godoc
// @Summary Delete a resume
// @Tags resumes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resume ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /student/resumes/{id} [delete]
func (h *ResumeHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.resumeService.Delete(c.Request().Context(), identity(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "resume deleted"})
}

// Download godoc
// @Summary Download a resume
// @Tags resumes
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Resume ID"
// @Success 200 {file} file
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /student/resumes/{id}/download [get]
func (h *ResumeHandler) Download(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	resume, body, err := h.resumeService.Open(c.Request().Context(), identity(c), id)
	if err != nil {
		return respondError(c, err)
	}
	defer body.Close()

	contentType := resume.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", resume.OriginalName))
	return c.Stream(http.StatusOK, contentType, body)
}
