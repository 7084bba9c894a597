package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/internal/authz"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/model"
)

func TestApplicationService_Apply(t *testing.T) {
	f := newVacancyFixture(t)
	ctx := context.Background()
	v := f.post(t, f.company, "Go Dev")

	application, err := f.applications.Apply(ctx, f.student, v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, application.Status)
	assert.Equal(t, f.student.UserID, application.StudentID)
	assert.False(t, application.AppliedDate.IsZero())

	_, err = f.applications.Apply(ctx, f.student, v.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)

	mine, err := f.applications.ListForStudent(ctx, f.student)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.applications.Apply(ctx, f.student, 9999)
	assert.ErrorIs(t, err, apperrors.ErrVacancyNotFound)

	_, err = f.applications.Apply(ctx, f.company, v.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	_, err = f.applications.Apply(ctx, authz.Anonymous, v.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestApplicationService_ListForCompanyVacancies(t *testing.T) {
	f := newVacancyFixture(t)
	ctx := context.Background()
	other := createUser(t, f.repos, "globex", model.RoleCompany)
	bob := createUser(t, f.repos, "bob", model.RoleStudent)

	own1 := f.post(t, f.company, "Backend")
	own2 := f.post(t, f.company, "Frontend")
	foreign := f.post(t, other, "Ops")

	details := NewStudentDetailsService(f.repos.StudentDetails)
	_, err := details.Create(ctx, bob, StudentDetailsInput{Education: "MSc", Skills: "Go, SQL"})
	require.NoError(t, err)

	for _, apply := range []struct {
		student authz.Identity
		vacancy uint
	}{
		{f.student, own1.ID}, {bob, own1.ID}, {bob, own2.ID}, {f.student, foreign.ID},
	} {
		_, err := f.applications.Apply(ctx, apply.student, apply.vacancy)
		require.NoError(t, err)
	}

	applications, err := f.applications.ListForCompanyVacancies(ctx, f.company)
	require.NoError(t, err)
	require.Len(t, applications, 3)
	for _, a := range applications {
		require.NotNil(t, a.Vacancy)
		require.NotNil(t, a.Student)
		assert.Equal(t, f.company.UserID, a.Vacancy.CompanyID)
		assert.NotEmpty(t, a.Student.Username)
		if a.StudentID == bob.UserID {
			require.NotNil(t, a.StudentDetails)
			assert.Equal(t, "Go, SQL", a.StudentDetails.Skills)
		} else {
			assert.Nil(t, a.StudentDetails)
		}
	}

	empty := createUser(t, f.repos, "initech", model.RoleCompany)
	applications, err = f.applications.ListForCompanyVacancies(ctx, empty)
	require.NoError(t, err)
	assert.Empty(t, applications)

	_, err = f.applications.ListForCompanyVacancies(ctx, f.student)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	studentView, err := f.applications.ListForStudent(ctx, bob)
	require.NoError(t, err)
	require.Len(t, studentView, 2)
	assert.Equal(t, "Backend", studentView[0].Vacancy.Title)
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*vacancyFixture, *model.Application) {
		f := newVacancyFixture(t)
		v := f.post(t, f.company, "Go Dev")
		a, err := f.applications.Apply(ctx, f.student, v.ID)
		require.NoError(t, err)
		return f, a
	}

	t.Run("owner selects", func(t *testing.T) {
		f, a := setup(t)
		updated, err := f.applications.UpdateStatus(ctx, f.company, a.ID, "selected")
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusSelected, updated.Status)
		assert.True(t, a.AppliedDate.Equal(updated.AppliedDate))

		stored, err := f.repos.Applications.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusSelected, stored.Status)
	})

	t.Run("non-owning company is denied and status unchanged", func(t *testing.T) {
		f, a := setup(t)
		other := createUser(t, f.repos, "globex", model.RoleCompany)

		_, err := f.applications.UpdateStatus(ctx, other, a.ID, "Rejected")
		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

		stored, err := f.repos.Applications.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusPending, stored.Status)
	})

	t.Run("non-owner with unknown status is denied", func(t *testing.T) {
		f, a := setup(t)
		other := createUser(t, f.repos, "initech", model.RoleCompany)

		_, err := f.applications.UpdateStatus(ctx, other, a.ID, "bogus")
		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	})

	t.Run("student is denied", func(t *testing.T) {
		f, a := setup(t)
		_, err := f.applications.UpdateStatus(ctx, f.student, a.ID, "Selected")
		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	})

	t.Run("unknown status", func(t *testing.T) {
		f, a := setup(t)
		_, err := f.applications.UpdateStatus(ctx, f.company, a.ID, "Hired")
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	})

	t.Run("missing application", func(t *testing.T) {
		f, _ := setup(t)
		_, err := f.applications.UpdateStatus(ctx, f.company, 9999, "Selected")
		assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
	})

	t.Run("terminal states do not move", func(t *testing.T) {
		f, a := setup(t)
		_, err := f.applications.UpdateStatus(ctx, f.company, a.ID, "Rejected")
		require.NoError(t, err)

		for _, next := range []string{"Selected", "Pending", "Rejected"} {
			_, err := f.applications.UpdateStatus(ctx, f.company, a.ID, next)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, next)
		}
	})

	t.Run("pending to pending is not a transition", func(t *testing.T) {
		f, a := setup(t)
		_, err := f.applications.UpdateStatus(ctx, f.company, a.ID, "PENDING")
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})
}

func TestApplicationLifecycleScenario(t *testing.T) {
	f := newVacancyFixture(t)
	ctx := context.Background()
	details := NewStudentDetailsService(f.repos.StudentDetails)

	_, err := details.Create(ctx, f.student, StudentDetailsInput{Education: "BSc", Skills: "Go"})
	require.NoError(t, err)

	v := f.post(t, f.company, "Go Dev")
	a, err := f.applications.Apply(ctx, f.student, v.ID)
	require.NoError(t, err)

	_, err = f.applications.UpdateStatus(ctx, f.company, a.ID, "Selected")
	require.NoError(t, err)

	mine, err := f.applications.ListForStudent(ctx, f.student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, model.ApplicationStatusSelected, mine[0].Status)

	require.NoError(t, f.vacancies.Delete(ctx, f.company, v.ID))

	mine, err = f.applications.ListForStudent(ctx, f.student)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
