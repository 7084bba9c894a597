package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobportal/internal/auth"
	"jobportal/internal/db"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/model"
	"jobportal/internal/repository"
	"jobportal/internal/service"
	"jobportal/internal/storage"
)

const testUserHeader = "X-Test-User"

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memoryStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type testServer struct {
	e       *echo.Echo
	repos   repository.Repositories
	company *model.User
	student *model.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	repos := repository.New(gdb)
	store := &memoryStore{objects: map[string][]byte{}}
	uploads := service.DefaultUploadConfig()

	applications := service.NewApplicationService(repos, nil)
	vacancyHandler := NewVacancyHandler(service.NewVacancyService(repos.Vacancies, repository.NewTransactor(gdb), applications, nil, time.Minute, nil))
	applicationHandler := NewApplicationHandler(applications)
	resumeHandler := NewResumeHandler(service.NewResumeService(repos.Resumes, store, uploads, nil))

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	// stands in for the JWT middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if v := c.Request().Header.Get(testUserHeader); v != "" {
				parts := strings.SplitN(v, ":", 2)
				id, _ := strconv.Atoi(parts[0])
				c.Set(ClaimsKey, &auth.Claims{UserID: uint(id), Role: model.Role(parts[1])})
			}
			return next(c)
		}
	})

	e.GET("/vacancies", vacancyHandler.ListAll)
	e.POST("/company/vacancies", vacancyHandler.Create)
	e.DELETE("/company/vacancies/:id", vacancyHandler.Delete)
	e.POST("/student/vacancies/:id/apply", applicationHandler.Apply)
	e.GET("/student/applications", applicationHandler.ListForStudent)
	e.PATCH("/company/applications/:id/status", applicationHandler.UpdateStatus)
	e.POST("/student/resumes", resumeHandler.Upload)
	e.GET("/student/resumes/:id/download", resumeHandler.Download)

	s := &testServer{e: e, repos: repos}
	s.company = s.user(t, "acme", model.RoleCompany)
	s.student = s.user(t, "alice", model.RoleStudent)
	return s
}

func (s *testServer) user(t *testing.T, name string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, s.repos.Users.Create(context.Background(), u))
	return u
}

func (s *testServer) do(as *model.User, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if as != nil {
		req.Header.Set(testUserHeader, fmt.Sprintf("%d:%s", as.ID, as.Role))
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(as *model.User, method, path, body string) *httptest.ResponseRecorder {
	return s.do(as, method, path, strings.NewReader(body), echo.MIMEApplicationJSON)
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Code
}

func multipartFile(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestApplicationFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	lastDate := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")

	rec := s.doJSON(s.student, http.MethodPost, "/company/vacancies",
		`{"title":"Go Dev","description":"d","location":"Remote","last_date":"`+lastDate+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ACCESS_DENIED", errorCode(t, rec))

	rec = s.doJSON(s.company, http.MethodPost, "/company/vacancies",
		`{"title":"Go Dev","description":"d","location":"Remote","last_date":"not-a-date"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATE", errorCode(t, rec))

	rec = s.doJSON(s.company, http.MethodPost, "/company/vacancies",
		`{"title":"Go Dev","description":"d","location":"Remote","last_date":"`+lastDate+`","salary":"2500.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var vacancy model.Vacancy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vacancy))
	assert.Equal(t, "2500", vacancy.Salary.Decimal.String())

	rec = s.do(nil, http.MethodGet, "/vacancies", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	applyPath := fmt.Sprintf("/student/vacancies/%d/apply", vacancy.ID)
	rec = s.do(s.student, http.MethodPost, applyPath, nil, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var application model.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &application))
	assert.Equal(t, model.ApplicationStatusPending, application.Status)

	rec = s.do(s.student, http.MethodPost, applyPath, nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_APPLIED", errorCode(t, rec))

	statusPath := fmt.Sprintf("/company/applications/%d/status", application.ID)
	rec = s.doJSON(s.company, http.MethodPatch, statusPath, `{"status":"hired"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STATUS", errorCode(t, rec))

	other := s.user(t, "globex", model.RoleCompany)
	rec = s.doJSON(other, http.MethodPatch, statusPath, `{"status":"Selected"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.doJSON(s.company, http.MethodPatch, statusPath, `{"status":"Selected"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.doJSON(s.company, http.MethodPatch, statusPath, `{"status":"Rejected"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", errorCode(t, rec))

	rec = s.do(other, http.MethodDelete, fmt.Sprintf("/company/vacancies/%d", vacancy.ID), nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(s.company, http.MethodDelete, fmt.Sprintf("/company/vacancies/%d", vacancy.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(s.student, http.MethodGet, "/student/applications", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(s.company, http.MethodDelete, "/company/vacancies/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID", errorCode(t, rec))
}

func TestResumeUploadOverHTTP(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartFile(t, "resume", "virus.exe", "MZ")
	rec := s.do(s.student, http.MethodPost, "/student/resumes", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FILE_TYPE", errorCode(t, rec))

	rec = s.do(s.student, http.MethodPost, "/student/resumes", strings.NewReader("{}"), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_FILE", errorCode(t, rec))

	body, contentType = multipartFile(t, "resume", "cv.pdf", "%PDF-1.7")
	rec = s.do(s.student, http.MethodPost, "/student/resumes", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resume model.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resume))

	downloadPath := fmt.Sprintf("/student/resumes/%d/download", resume.ID)
	rec = s.do(s.student, http.MethodGet, downloadPath, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.7", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "cv.pdf")

	bob := s.user(t, "bob", model.RoleStudent)
	rec = s.do(bob, http.MethodGet, downloadPath, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
