// Package permission holds the pure authorization rules shared by the
// resource library, the forum and the admin endpoints.
package permission

import "github.com/atanasster/pad-champions/internal/domain"

// CanManage reports whether role may create folders and upload files.
func CanManage(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleModerator, domain.RoleInstitutionalLead:
		return true
	}
	return false
}

// CanModerate reports whether role may act on content it does not own.
func CanModerate(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleModerator
}

// IsAdmin reports whether role is the administrator role.
func IsAdmin(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// IsOwner reports whether actorID created or uploaded the item.
// An empty actorID owns nothing.
func IsOwner(item *domain.ResourceItem, actorID string) bool {
	if item == nil || actorID == "" {
		return false
	}
	return item.CreatedBy == actorID || item.UploadedBy == actorID
}

// CanView reports whether role may see an item classified at level.
func CanView(role domain.Role, level domain.AccessLevel) bool {
	if level == domain.AccessPublic {
		return true
	}
	if CanModerate(role) {
		return true
	}
	switch level {
	case domain.AccessLearner:
		return role == domain.RoleLearner || role == domain.RoleInstitutionalLead
	case domain.AccessLead:
		return role == domain.RoleInstitutionalLead
	}
	return false
}

// CanEditResource reports whether actor may rename or delete item:
// moderators always, institutional leads only for items they own.
func CanEditResource(actor domain.Actor, item *domain.ResourceItem) bool {
	if CanModerate(actor.Role) {
		return true
	}
	return actor.Role == domain.RoleInstitutionalLead && IsOwner(item, actor.ID)
}

// CanDeleteAuthored reports whether actor may delete a post or comment
// written by authorID.
func CanDeleteAuthored(actor domain.Actor, authorID string) bool {
	if actor.ID != "" && actor.ID == authorID {
		return true
	}
	return CanModerate(actor.Role)
}
