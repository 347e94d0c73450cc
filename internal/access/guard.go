package access

import "myersadmin/pkg/domain"

// Messages shown when an identity guard rejects an otherwise permitted edit.
const (
	MsgOwnRole    = "You cannot change your own role"
	MsgOwnStatus  = "You cannot change your own status"
	MsgOwnAccount = "You cannot delete your own account"
	MsgGrantAdmin = "Only administrators can assign the admin role"
)

// IsSelf reports whether the target record is the acting principal.
func IsSelf(actor *domain.User, targetID string) bool {
	return actor != nil && targetID != "" && actor.ID == targetID
}

// CheckUserWrite layers the identity guards on top of the role check for a
// user create (before is nil) or edit. The caller is expected to have
// authorized the base action already.
func CheckUserWrite(actor *domain.User, before *domain.User, after domain.User) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if before != nil && IsSelf(actor, before.ID) {
		if after.Role != before.Role {
			return forbid(actor, domain.ActionUpdate, MsgOwnRole)
		}
		if after.Status != before.Status {
			return forbid(actor, domain.ActionUpdate, MsgOwnStatus)
		}
	}
	grants := after.Role == domain.RoleAdmin && (before == nil || before.Role != domain.RoleAdmin)
	if grants && !Can(actor.Role, domain.EntityUser, domain.ActionGrantAdmin) {
		return forbid(actor, domain.ActionGrantAdmin, MsgGrantAdmin)
	}
	return nil
}

// CheckUserDelete rejects self-deletion regardless of role.
func CheckUserDelete(actor *domain.User, targetID string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if IsSelf(actor, targetID) {
		return forbid(actor, domain.ActionDelete, MsgOwnAccount)
	}
	return nil
}

func forbid(actor *domain.User, action domain.Action, reason string) error {
	return domain.ForbiddenError{Role: actor.Role, Entity: domain.EntityUser, Action: action, Reason: reason}
}
