package domain

// Role is the permission level attached to a user identity
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleModerator         Role = "moderator"
	RoleInstitutionalLead Role = "institutional-lead"
	RoleLearner           Role = "learner"
	RoleVolunteer         Role = "volunteer"
)

// DefaultRole is assigned to every newly registered user
const DefaultRole = RoleVolunteer

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleInstitutionalLead, RoleLearner, RoleVolunteer:
		return true
	}
	return false
}

// AccessLevel is the minimum classification required to view a resource item
type AccessLevel string

const (
	AccessPublic  AccessLevel = "public"
	AccessLearner AccessLevel = "learner"
	AccessLead    AccessLevel = "lead"
	AccessAdmin   AccessLevel = "admin"
)

// IsValid reports whether a is one of the known access levels
func (a AccessLevel) IsValid() bool {
	switch a {
	case AccessPublic, AccessLearner, AccessLead, AccessAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller of an operation
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// DisplayName falls back to a generic label when the identity has no name
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return "Anonymous"
}
