package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"jobportal/internal/auth"
	"jobportal/internal/authz"
	"jobportal/internal/config"
	"jobportal/internal/db"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/model"
	"jobportal/internal/repository"
	"jobportal/internal/service"
)

const demoPassword = "password123"

// demoVacancy describes a posting created for the demo company.
type demoVacancy struct {
	Title       string
	Description string
	Location    string
	Salary      string
}

var demoVacancies = []demoVacancy{
	{"Backend Engineer", "Build and operate Go services.", "Remote", "65000"},
	{"Data Analyst Intern", "Six month internship with the analytics team.", "Berlin", ""},
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	repos := repository.New(gormDB)
	// token issuance is not needed here; Register only hashes and stores
	authService := service.NewAuthService(repos.Users, auth.NewBcryptHasher(0), auth.NewJWTService(cfg.JWTSecret), nil)
	applications := service.NewApplicationService(repos, nil)
	vacancies := service.NewVacancyService(repos.Vacancies, repository.NewTransactor(gormDB), applications, nil, 0, nil)

	company, err := ensureUser(ctx, authService, repos.Users, "acme", "hr@acme.test", model.RoleCompany)
	if err != nil {
		log.Fatalf("Failed to seed company: %v", err)
	}
	student, err := ensureUser(ctx, authService, repos.Users, "jdoe", "jdoe@student.test", model.RoleStudent)
	if err != nil {
		log.Fatalf("Failed to seed student: %v", err)
	}

	companyID := authz.NewIdentity(company.ID, company.Role)
	existing, err := vacancies.ListForCompany(ctx, companyID)
	if err != nil {
		log.Fatalf("Failed to list vacancies: %v", err)
	}

	created := 0
	for _, v := range demoVacancies {
		if hasTitle(existing, v.Title) {
			continue
		}
		in := service.CreateVacancyInput{
			Title:       v.Title,
			Description: v.Description,
			Location:    v.Location,
			LastDate:    time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		}
		if v.Salary != "" {
			salary := decimal.RequireFromString(v.Salary)
			in.Salary = &salary
		}
		vacancy, err := vacancies.Create(ctx, companyID, in)
		if err != nil {
			log.Fatalf("Failed to create vacancy %q: %v", v.Title, err)
		}
		existing = append(existing, *vacancy)
		created++
	}

	if len(existing) > 0 {
		_, err := applications.Apply(ctx, authz.NewIdentity(student.ID, student.Role), existing[0].ID)
		if err != nil && !errors.Is(err, apperrors.ErrAlreadyApplied) {
			log.Fatalf("Failed to apply: %v", err)
		}
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Company login: %s / %s", company.Email, demoPassword)
	log.Printf("  - Student login: %s / %s", student.Email, demoPassword)
	log.Printf("  - New vacancies created: %d", created)
}

// ensureUser registers the account or returns the existing one with the same email.
func ensureUser(ctx context.Context, svc service.AuthService, users repository.UserRepository, username, email string, role model.Role) (*model.User, error) {
	user, err := svc.Register(ctx, service.RegisterInput{
		Username: username,
		Email:    email,
		Password: demoPassword,
		Role:     string(role),
	})
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicateUser) {
		return nil, err
	}

	user, err = users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", email, err)
	}
	if user.Role != role {
		return nil, fmt.Errorf("%s already registered as %s", email, user.Role)
	}
	return user, nil
}

func hasTitle(vacancies []model.Vacancy, title string) bool {
	for _, v := range vacancies {
		if v.Title == title {
			return true
		}
	}
	return false
}
