package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"myersadmin/internal/notify"
	"myersadmin/pkg/domain"
)

const (
	opDispensaryList     = "dispensary.list"
	opDispensaryGet      = "dispensary.get"
	opDispensaryCreate   = "dispensary.create"
	opDispensaryUpdate   = "dispensary.update"
	opDispensaryDelete   = "dispensary.delete"
	opDispensaryAssign   = "dispensary.assign"
	opDispensaryUnassign = "dispensary.unassign"
)

// ListDispensaries pages dispensaries matching q.Search (name or address),
// q.Status and q.Category.
func (s *Service) ListDispensaries(ctx context.Context, actor *domain.User, q Query) (Page[domain.Dispensary], error) {
	var page Page[domain.Dispensary]
	err := s.run(ctx, opDispensaryList, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityDispensary, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		page = list(s.dispensaries.All(ctx), q, s.pageSize, func(d domain.Dispensary) bool {
			return contains(q.Search, d.Name, d.Address) && matches(q.Status, d.Status) && matches(q.Category, d.Category)
		}, nil)
		return notify.Notification{}, nil
	})
	return page, err
}

// GetDispensary returns the dispensary carrying id.
func (s *Service) GetDispensary(ctx context.Context, actor *domain.User, id string) (domain.Dispensary, error) {
	var d domain.Dispensary
	err := s.run(ctx, opDispensaryGet, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityDispensary, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		var err error
		d, err = get(ctx, s.dispensaries, domain.EntityDispensary, id)
		return notify.Notification{}, err
	})
	return d, err
}

// CreateDispensary adds a dispensary. Status defaults to open.
func (s *Service) CreateDispensary(ctx context.Context, actor *domain.User, in domain.Dispensary) (domain.Dispensary, Result, error) {
	var res Result
	err := s.run(ctx, opDispensaryCreate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityDispensary, domain.ActionCreate); err != nil {
			return notify.Notification{}, err
		}
		normalizeDispensary(&in)
		if in.Status == "" {
			in.Status = domain.DispensaryOpen
		}
		s.stamp(&in.Base)
		var err error
		res, err = create(ctx, s, s.dispensaries, domain.EntityDispensary, in)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Dispensary added", fmt.Sprintf("Dispensary %s added successfully", in.Name)), nil
	})
	if err != nil {
		return domain.Dispensary{}, res, err
	}
	return in, res, nil
}

// UpdateDispensary replaces a dispensary.
func (s *Service) UpdateDispensary(ctx context.Context, actor *domain.User, in domain.Dispensary) (domain.Dispensary, Result, error) {
	var (
		out domain.Dispensary
		res Result
	)
	err := s.run(ctx, opDispensaryUpdate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityDispensary, domain.ActionUpdate); err != nil {
			return notify.Notification{}, err
		}
		normalizeDispensary(&in)
		var err error
		out, res, err = replace(ctx, s, s.dispensaries, domain.EntityDispensary, in, func(before domain.Dispensary, next *domain.Dispensary) error {
			keepCreatedAt(&before.Base, &next.Base)
			return nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Dispensary updated", fmt.Sprintf("Dispensary %s updated successfully", out.Name)), nil
	})
	return out, res, err
}

// DeleteDispensary removes a dispensary. Records that reference it are kept.
func (s *Service) DeleteDispensary(ctx context.Context, actor *domain.User, id string) (Result, error) {
	var res Result
	err := s.run(ctx, opDispensaryDelete, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityDispensary, domain.ActionDelete); err != nil {
			return notify.Notification{}, err
		}
		var err error
		res, err = remove(ctx, s, s.dispensaries, domain.EntityDispensary, id, nil)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Dispensary deleted", "Dispensary deleted successfully"), nil
	})
	return res, err
}

// AssignEngineer adds an active support engineer to a dispensary. Assigning
// an engineer twice is a no-op.
func (s *Service) AssignEngineer(ctx context.Context, actor *domain.User, dispensaryID, engineerID string) (domain.Dispensary, error) {
	var out domain.Dispensary
	err := s.run(ctx, opDispensaryAssign, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityDispensary, domain.ActionAssign); err != nil {
			return notify.Notification{}, err
		}
		engineer, ok := s.users.Find(ctx, engineerID)
		if !ok {
			return notify.Notification{}, domain.NotFoundError{Entity: domain.EntitySupportEngineer, ID: engineerID}
		}
		if !engineer.ActiveEngineer() {
			return notify.Notification{}, domain.ValidationError{Entity: domain.EntityDispensary, Field: "engineers", Reason: fmt.Sprintf("%s is not an active support engineer", engineer.Name)}
		}
		var err error
		out, _, err = replace(ctx, s, s.dispensaries, domain.EntityDispensary, domain.Dispensary{Base: domain.Base{ID: dispensaryID}}, func(before domain.Dispensary, next *domain.Dispensary) error {
			*next = before
			if !slices.Contains(before.Engineers, engineerID) {
				next.Engineers = append(slices.Clone(before.Engineers), engineerID)
			}
			return nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Engineer assigned", fmt.Sprintf("%s assigned to %s", engineer.Name, out.Name)), nil
	})
	return out, err
}

// UnassignEngineer removes an engineer id from a dispensary.
func (s *Service) UnassignEngineer(ctx context.Context, actor *domain.User, dispensaryID, engineerID string) (domain.Dispensary, error) {
	var out domain.Dispensary
	err := s.run(ctx, opDispensaryUnassign, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityDispensary, domain.ActionAssign); err != nil {
			return notify.Notification{}, err
		}
		var err error
		out, _, err = replace(ctx, s, s.dispensaries, domain.EntityDispensary, domain.Dispensary{Base: domain.Base{ID: dispensaryID}}, func(before domain.Dispensary, next *domain.Dispensary) error {
			*next = before
			next.Engineers = slices.DeleteFunc(slices.Clone(before.Engineers), func(id string) bool { return id == engineerID })
			if next.Engineers == nil {
				next.Engineers = []string{}
			}
			return nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Engineer unassigned", fmt.Sprintf("Engineer removed from %s", out.Name)), nil
	})
	return out, err
}

func normalizeDispensary(d *domain.Dispensary) {
	d.Name = strings.TrimSpace(d.Name)
	d.Address = strings.TrimSpace(d.Address)
	engineers := make([]string, 0, len(d.Engineers))
	for _, id := range d.Engineers {
		if id != "" && !slices.Contains(engineers, id) {
			engineers = append(engineers, id)
		}
	}
	d.Engineers = engineers
}
