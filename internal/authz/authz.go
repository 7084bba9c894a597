// Package authz decides whether an identity may perform an action on a resource.
//
// Rules are evaluated in a fixed order: an unauthenticated caller may only register or
// log in, then the caller's role must be one the action allows, then, for owned
// resources, the caller must be the owner. Every denial surfaces as the same
// apperrors.ErrAccessDenied.
package authz

import (
	apperrors "jobportal/internal/errors"
	"jobportal/internal/model"
)

// Identity is the authenticated caller as resolved by the session layer.
type Identity struct {
	UserID        uint
	Role          model.Role
	Authenticated bool
}

// Anonymous is the identity of a caller without a valid session.
var Anonymous = Identity{}

// NewIdentity returns an authenticated identity.
func NewIdentity(userID uint, role model.Role) Identity {
	return Identity{UserID: userID, Role: role, Authenticated: true}
}

// Resource is the target of an owned action, reduced to its owner.
// For applications the owner is the company owning the referenced vacancy.
type Resource struct {
	OwnerID uint
}

// Owned returns a resource owned by ownerID.
func Owned(ownerID uint) *Resource {
	return &Resource{OwnerID: ownerID}
}

// Action names an operation exposed to callers.
type Action string

const (
	ActionRegister Action = "register"
	ActionLogin    Action = "login"

	ActionCreateVacancy        Action = "createVacancy"
	ActionListCompanyVacancies Action = "listCompanyVacancies"
	ActionDeleteVacancy        Action = "deleteVacancy"
	ActionListVacancies        Action = "listVacancies"
	ActionGetVacancy           Action = "getVacancy"

	ActionApplyVacancy            Action = "applyVacancy"
	ActionListStudentApplications Action = "listStudentApplications"
	ActionListCompanyApplications Action = "listCompanyApplications"
	ActionUpdateApplicationStatus Action = "updateApplicationStatus"

	ActionUploadResume   Action = "uploadResume"
	ActionListResumes    Action = "listResumes"
	ActionUpdateResume   Action = "updateResume"
	ActionDeleteResume   Action = "deleteResume"
	ActionDownloadResume Action = "downloadResume"

	ActionCreateStudentDetails Action = "createStudentDetails"
	ActionGetStudentDetails    Action = "getStudentDetails"
	ActionUpdateStudentDetails Action = "updateStudentDetails"
	ActionDeleteStudentDetails Action = "deleteStudentDetails"

	ActionCreateProfile Action = "createProfile"
	ActionGetProfile    Action = "getProfile"
	ActionUpdateProfile Action = "updateProfile"
	ActionDeleteProfile Action = "deleteProfile"
)

type policy struct {
	public bool
	roles  []model.Role
	owned  bool
}

var (
	studentOnly = []model.Role{model.RoleStudent}
	companyOnly = []model.Role{model.RoleCompany}
	anyRole     = []model.Role{model.RoleStudent, model.RoleCompany}
)

var policies = map[Action]policy{
	ActionRegister: {public: true},
	ActionLogin:    {public: true},

	ActionCreateVacancy:        {roles: companyOnly},
	ActionListCompanyVacancies: {roles: companyOnly},
	ActionDeleteVacancy:        {roles: companyOnly, owned: true},
	ActionListVacancies:        {roles: anyRole},
	ActionGetVacancy:           {roles: anyRole},

	ActionApplyVacancy:            {roles: studentOnly},
	ActionListStudentApplications: {roles: studentOnly},
	ActionListCompanyApplications: {roles: companyOnly},
	ActionUpdateApplicationStatus: {roles: companyOnly, owned: true},

	ActionUploadResume:   {roles: studentOnly},
	ActionListResumes:    {roles: studentOnly},
	ActionUpdateResume:   {roles: studentOnly, owned: true},
	ActionDeleteResume:   {roles: studentOnly, owned: true},
	ActionDownloadResume: {roles: studentOnly, owned: true},

	ActionCreateStudentDetails: {roles: studentOnly, owned: true},
	ActionGetStudentDetails:    {roles: studentOnly, owned: true},
	ActionUpdateStudentDetails: {roles: studentOnly, owned: true},
	ActionDeleteStudentDetails: {roles: studentOnly, owned: true},

	ActionCreateProfile: {roles: anyRole, owned: true},
	ActionGetProfile:    {roles: anyRole, owned: true},
	ActionUpdateProfile: {roles: anyRole, owned: true},
	ActionDeleteProfile: {roles: anyRole, owned: true},
}

// Can reports whether id may perform action on res.
//
// A nil res evaluates the authentication and role rules only; callers use it to reject
// a wrong-role caller before looking the resource up, then call again with the loaded
// resource. Unknown actions are always denied.
func Can(id Identity, action Action, res *Resource) bool {
	p, ok := policies[action]
	if !ok {
		return false
	}
	if p.public {
		return true
	}
	if !id.Authenticated {
		return false
	}
	if !hasRole(p.roles, id.Role) {
		return false
	}
	if p.owned && res != nil && res.OwnerID != id.UserID {
		return false
	}
	return true
}

// Authorize is Can returning apperrors.ErrAccessDenied on denial.
func Authorize(id Identity, action Action, res *Resource) error {
	if !Can(id, action, res) {
		return apperrors.ErrAccessDenied
	}
	return nil
}

func hasRole(roles []model.Role, role model.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
