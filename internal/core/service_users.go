package core

import (
	"context"
	"strings"

	"myersadmin/internal/access"
	"myersadmin/internal/collection"
	"myersadmin/internal/notify"
	"myersadmin/pkg/domain"
)

const (
	opUserList       = "user.list"
	opUserGet        = "user.get"
	opUserCreate     = "user.create"
	opUserUpdate     = "user.update"
	opUserDelete     = "user.delete"
	opEngineerList   = "support_engineer.list"
	opEngineerCreate = "support_engineer.create"
	opEngineerUpdate = "support_engineer.update"
	opEngineerDelete = "support_engineer.delete"
)

// MsgDuplicateEmail is the reason given when an email is already taken.
const MsgDuplicateEmail = "A user with this email already exists"

// ListUsers pages users matching q.Search (name or email), q.Role and q.Status.
func (s *Service) ListUsers(ctx context.Context, actor *domain.User, q Query) (Page[domain.User], error) {
	var page Page[domain.User]
	err := s.run(ctx, opUserList, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityUser, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		page = list(s.users.All(ctx), q, s.pageSize, func(u domain.User) bool {
			return contains(q.Search, u.Name, u.Email) && matches(q.Role, u.Role) && matches(q.Status, u.Status)
		}, nil)
		return notify.Notification{}, nil
	})
	return page, err
}

// GetUser returns the user carrying id.
func (s *Service) GetUser(ctx context.Context, actor *domain.User, id string) (domain.User, error) {
	var user domain.User
	err := s.run(ctx, opUserGet, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityUser, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		found, ok := s.users.Find(ctx, id)
		if !ok {
			return notify.Notification{}, domain.NotFoundError{Entity: domain.EntityUser, ID: id}
		}
		user = found
		return notify.Notification{}, nil
	})
	return user, err
}

// CreateUser adds a user. Status defaults to active and role to user.
func (s *Service) CreateUser(ctx context.Context, actor *domain.User, in domain.User) (domain.User, Result, error) {
	return s.createUser(ctx, opUserCreate, domain.EntityUser, actor, in, "User added successfully")
}

// UpdateUser replaces a user. Nobody may change their own role or status, and
// only an admin may grant the admin role.
func (s *Service) UpdateUser(ctx context.Context, actor *domain.User, in domain.User) (domain.User, Result, error) {
	return s.updateUser(ctx, opUserUpdate, domain.EntityUser, actor, in, nil, "User updated successfully")
}

// DeleteUser removes a user. Deleting your own account is forbidden.
func (s *Service) DeleteUser(ctx context.Context, actor *domain.User, id string) (Result, error) {
	return s.deleteUser(ctx, opUserDelete, domain.EntityUser, actor, id, nil, "User deleted successfully")
}

// ListSupportEngineers pages users with the user role, searching by name.
func (s *Service) ListSupportEngineers(ctx context.Context, actor *domain.User, q Query) (Page[domain.User], error) {
	var page Page[domain.User]
	err := s.run(ctx, opEngineerList, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntitySupportEngineer, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		page = list(s.users.All(ctx), q, s.pageSize, func(u domain.User) bool {
			return u.Role == domain.RoleUser && contains(q.Search, u.Name, u.Email) && matches(q.Status, u.Status)
		}, nil)
		return notify.Notification{}, nil
	})
	return page, err
}

// AddSupportEngineer creates a user whose role is forced to user.
func (s *Service) AddSupportEngineer(ctx context.Context, actor *domain.User, in domain.User) (domain.User, Result, error) {
	in.Role = domain.RoleUser
	return s.createUser(ctx, opEngineerCreate, domain.EntitySupportEngineer, actor, in, "Support engineer added successfully")
}

// EditSupportEngineer replaces an engineer, keeping the user role.
func (s *Service) EditSupportEngineer(ctx context.Context, actor *domain.User, in domain.User) (domain.User, Result, error) {
	in.Role = domain.RoleUser
	return s.updateUser(ctx, opEngineerUpdate, domain.EntitySupportEngineer, actor, in, isEngineer, "Support engineer updated successfully")
}

// DeleteSupportEngineer removes an engineer.
func (s *Service) DeleteSupportEngineer(ctx context.Context, actor *domain.User, id string) (Result, error) {
	return s.deleteUser(ctx, opEngineerDelete, domain.EntitySupportEngineer, actor, id, isEngineer, "Support engineer deleted successfully")
}

func isEngineer(u domain.User) bool { return u.Role == domain.RoleUser }

func normalizeUser(u *domain.User) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
}

func emailTaken(users []domain.User, email, exceptID string) bool {
	for _, u := range users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *Service) createUser(ctx context.Context, op string, entity domain.EntityType, actor *domain.User, in domain.User, done string) (domain.User, Result, error) {
	var res Result
	err := s.run(ctx, op, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, entity, domain.ActionCreate); err != nil {
			return notify.Notification{}, err
		}
		normalizeUser(&in)
		if in.Role == "" {
			in.Role = domain.RoleUser
		}
		if in.Status == "" {
			in.Status = domain.UserActive
		}
		if err := access.CheckUserWrite(actor, nil, in); err != nil {
			return notify.Notification{}, err
		}
		s.stamp(&in.Base)
		if err := domain.Validate(entity, in); err != nil {
			return notify.Notification{}, err
		}
		var err error
		res, err = commit(ctx, s, s.users, func(items []domain.User) ([]domain.User, []Change, error) {
			if emailTaken(items, in.Email, "") {
				return nil, nil, domain.ValidationError{Entity: entity, Field: "email", Reason: MsgDuplicateEmail}
			}
			return collection.UpsertByID(items, in), []Change{{Entity: domain.EntityUser, Action: ActionCreate, After: in}}, nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Success", done), nil
	})
	if err != nil {
		return domain.User{}, res, err
	}
	return in, res, nil
}

func (s *Service) updateUser(ctx context.Context, op string, entity domain.EntityType, actor *domain.User, in domain.User, accept func(domain.User) bool, done string) (domain.User, Result, error) {
	var res Result
	err := s.run(ctx, op, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, entity, domain.ActionUpdate); err != nil {
			return notify.Notification{}, err
		}
		normalizeUser(&in)
		var err error
		res, err = commit(ctx, s, s.users, func(items []domain.User) ([]domain.User, []Change, error) {
			before, ok := collection.FindByID(items, in.ID)
			if !ok || (accept != nil && !accept(before)) {
				return nil, nil, domain.NotFoundError{Entity: entity, ID: in.ID}
			}
			if err := access.CheckUserWrite(actor, &before, in); err != nil {
				return nil, nil, err
			}
			in.CreatedAt = before.CreatedAt
			if err := domain.Validate(entity, in); err != nil {
				return nil, nil, err
			}
			if emailTaken(items, in.Email, in.ID) {
				return nil, nil, domain.ValidationError{Entity: entity, Field: "email", Reason: MsgDuplicateEmail}
			}
			return collection.UpsertByID(items, in), []Change{{Entity: domain.EntityUser, Action: ActionUpdate, Before: before, After: in}}, nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Success", done), nil
	})
	if err != nil {
		return domain.User{}, res, err
	}
	return in, res, nil
}

func (s *Service) deleteUser(ctx context.Context, op string, entity domain.EntityType, actor *domain.User, id string, accept func(domain.User) bool, done string) (Result, error) {
	var res Result
	err := s.run(ctx, op, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, entity, domain.ActionDelete); err != nil {
			return notify.Notification{}, err
		}
		if err := access.CheckUserDelete(actor, id); err != nil {
			return notify.Notification{}, err
		}
		var err error
		res, err = remove(ctx, s, s.users, entity, id, func(before domain.User) error {
			if accept != nil && !accept(before) {
				return domain.NotFoundError{Entity: entity, ID: id}
			}
			return nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Success", done), nil
	})
	return res, err
}
