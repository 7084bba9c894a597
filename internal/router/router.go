package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"jobportal/internal/auth"
	"jobportal/internal/config"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/handler"
	"jobportal/internal/metrics"
)

var errRevokedToken = errors.New("token revoked")

// Handlers groups the HTTP handlers exposed by the API.
type Handlers struct {
	Auth         *handler.AuthHandler
	Vacancies    *handler.VacancyHandler
	Applications *handler.ApplicationHandler
	Profiles     *handler.ProfileHandler
	Resumes      *handler.ResumeHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(metrics.EchoMiddleware())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	if cfg.Upload.MaxBytes > 0 {
		// leave room for the multipart envelope and form fields
		e.Use(middleware.BodyLimit(formatBytes(cfg.Upload.MaxBytes + 1<<20)))
	}

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// Secured routes (require JWT authentication)
	secured := api.Group("", JWTMiddleware(jwtService, tokenStore))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/me", h.Auth.Me)

	secured.GET("/vacancies", h.Vacancies.ListAll)
	secured.GET("/vacancies/:id", h.Vacancies.Get)

	company := secured.Group("/company")
	company.POST("/vacancies", h.Vacancies.Create)
	company.GET("/vacancies", h.Vacancies.ListOwn)
	company.DELETE("/vacancies/:id", h.Vacancies.Delete)
	company.GET("/applications", h.Applications.ListForCompany)
	company.PATCH("/applications/:id/status", h.Applications.UpdateStatus)

	student := secured.Group("/student")
	student.POST("/vacancies/:id/apply", h.Applications.Apply)
	student.GET("/applications", h.Applications.ListForStudent)
	student.POST("/details", h.Profiles.CreateDetails)
	student.GET("/details", h.Profiles.GetDetails)
	student.PUT("/details", h.Profiles.UpdateDetails)
	student.DELETE("/details", h.Profiles.DeleteDetails)
	student.POST("/resumes", h.Resumes.Upload)
	student.GET("/resumes", h.Resumes.List)
	student.PUT("/resumes/:id", h.Resumes.Update)
	student.DELETE("/resumes/:id", h.Resumes.Delete)
	student.GET("/resumes/:id/download", h.Resumes.Download)

	secured.POST("/profile", h.Profiles.CreateProfile)
	secured.GET("/profile", h.Profiles.GetProfile)
	secured.PUT("/profile", h.Profiles.UpdateProfile)
	secured.DELETE("/profile", h.Profiles.DeleteProfile)
}

// JWTMiddleware validates bearer access tokens and stores their *auth.Claims under
// handler.ClaimsKey. Refresh tokens and blacklisted access tokens are rejected.
func JWTMiddleware(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ClaimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			if !claims.IsAccess() {
				return nil, errors.New("not an access token")
			}
			revoked, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, errRevokedToken
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "missing or invalid access token",
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.Any("error", v.Error))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(context.Background(), level, "request completed", attrs...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
