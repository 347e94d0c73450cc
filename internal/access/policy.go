// Package access decides whether a principal may perform an action. Every
// decision is a pure function of the principal's role, a static policy table
// and, for user records, the identity of the target.
package access

import (
	"fmt"
	"slices"

	"myersadmin/pkg/domain"
)

// RoleSet is the set of roles allowed to perform an action. A nil set means
// the action declares no restriction; an empty non-nil set admits nobody.
type RoleSet []domain.Role

// Roles builds a RoleSet from the given roles.
func Roles(roles ...domain.Role) RoleSet {
	if roles == nil {
		return RoleSet{}
	}
	return RoleSet(roles)
}

// Contains reports whether role is a member of the set.
func (s RoleSet) Contains(role domain.Role) bool {
	return slices.Contains(s, role)
}

// IsAuthorized reports whether role may perform an action restricted to
// allowed. The absent role and any value outside the canonical roles are
// always denied.
func IsAuthorized(role domain.Role, allowed RoleSet) bool {
	if !role.Valid() {
		return false
	}
	if allowed == nil {
		return true
	}
	return allowed.Contains(role)
}

// Permission names an entity/action pair in the policy table.
type Permission struct {
	Entity domain.EntityType
	Action domain.Action
}

func (p Permission) String() string {
	return fmt.Sprintf("%s.%s", p.Entity, p.Action)
}

var (
	everyone     = Roles(domain.RoleAdmin, domain.RoleManager, domain.RoleUser)
	staff        = Roles(domain.RoleAdmin, domain.RoleManager)
	adminOnly    = Roles(domain.RoleAdmin)
	crudForStaff = map[domain.Action]RoleSet{
		domain.ActionView:   staff,
		domain.ActionCreate: staff,
		domain.ActionUpdate: staff,
		domain.ActionDelete: adminOnly,
	}
)

var policy = buildPolicy()

func buildPolicy() map[Permission]RoleSet {
	p := map[Permission]RoleSet{}
	for _, entity := range []domain.EntityType{
		domain.EntityUser,
		domain.EntitySupportEngineer,
		domain.EntityInvoice,
		domain.EntityPayment,
		domain.EntityServiceAgreement,
	} {
		for action, roles := range crudForStaff {
			p[Permission{entity, action}] = roles
		}
	}

	p[Permission{domain.EntityUser, domain.ActionGrantAdmin}] = adminOnly

	p[Permission{domain.EntityDispensary, domain.ActionView}] = everyone
	p[Permission{domain.EntityDispensary, domain.ActionCreate}] = staff
	p[Permission{domain.EntityDispensary, domain.ActionUpdate}] = staff
	p[Permission{domain.EntityDispensary, domain.ActionAssign}] = staff
	p[Permission{domain.EntityDispensary, domain.ActionDelete}] = adminOnly

	p[Permission{domain.EntityServiceRequest, domain.ActionView}] = everyone
	p[Permission{domain.EntityServiceRequest, domain.ActionCreate}] = everyone
	p[Permission{domain.EntityServiceRequest, domain.ActionUpdate}] = staff
	p[Permission{domain.EntityServiceRequest, domain.ActionRespond}] = staff
	p[Permission{domain.EntityServiceRequest, domain.ActionUpdateStatus}] = staff
	p[Permission{domain.EntityServiceRequest, domain.ActionDelete}] = adminOnly

	p[Permission{domain.EntityKnowledgeBase, domain.ActionView}] = everyone
	p[Permission{domain.EntityKnowledgeBase, domain.ActionCreate}] = staff
	p[Permission{domain.EntityKnowledgeBase, domain.ActionUpdate}] = staff
	p[Permission{domain.EntityKnowledgeBase, domain.ActionDelete}] = adminOnly

	p[Permission{domain.EntityDashboard, domain.ActionView}] = everyone
	p[Permission{domain.EntitySettings, domain.ActionView}] = adminOnly
	p[Permission{domain.EntitySettings, domain.ActionUpdate}] = adminOnly
	return p
}

// Allowed returns the role set declared for an entity/action pair. An
// undeclared pair yields a nil set, which IsAuthorized treats as unrestricted.
func Allowed(entity domain.EntityType, action domain.Action) RoleSet {
	return policy[Permission{entity, action}]
}

// Permissions lists every declared pair, sorted for stable output.
func Permissions() []Permission {
	out := make([]Permission, 0, len(policy))
	for p := range policy {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Permission) int {
		if a.Entity != b.Entity {
			if a.Entity < b.Entity {
				return -1
			}
			return 1
		}
		switch {
		case a.Action < b.Action:
			return -1
		case a.Action > b.Action:
			return 1
		}
		return 0
	})
	return out
}

// Can reports whether role may perform action on entity.
func Can(role domain.Role, entity domain.EntityType, action domain.Action) bool {
	return IsAuthorized(role, Allowed(entity, action))
}

// CanView reports whether role may list or read records of entity.
func CanView(role domain.Role, entity domain.EntityType) bool {
	return Can(role, entity, domain.ActionView)
}

// CanAdd reports whether role may create records of entity.
func CanAdd(role domain.Role, entity domain.EntityType) bool {
	return Can(role, entity, domain.ActionCreate)
}

// CanEdit reports whether role may replace records of entity.
func CanEdit(role domain.Role, entity domain.EntityType) bool {
	return Can(role, entity, domain.ActionUpdate)
}

// CanDelete reports whether role may remove records of entity.
func CanDelete(role domain.Role, entity domain.EntityType) bool {
	return Can(role, entity, domain.ActionDelete)
}

// Authorize returns nil when actor may perform action on entity,
// domain.ErrUnauthenticated when there is no principal, and a
// domain.ForbiddenError otherwise.
func Authorize(actor *domain.User, entity domain.EntityType, action domain.Action) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !Can(actor.Role, entity, action) {
		return domain.ForbiddenError{Role: actor.Role, Entity: entity, Action: action}
	}
	return nil
}
