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
	opRequestList   = "service_request.list"
	opRequestGet    = "service_request.get"
	opRequestCreate = "service_request.create"
	opRequestUpdate = "service_request.update"
	opRequestDelete = "service_request.delete"
	opRequestNote   = "service_request.respond"
	opRequestStatus = "service_request.update_status"
)

// ListServiceRequests pages requests matching q.Search (title or
// description), q.Status, q.Priority and q.DispensaryID, newest first.
func (s *Service) ListServiceRequests(ctx context.Context, actor *domain.User, q Query) (Page[domain.ServiceRequest], error) {
	var page Page[domain.ServiceRequest]
	err := s.run(ctx, opRequestList, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceRequest, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		page = list(s.requests.All(ctx), q, s.pageSize, func(r domain.ServiceRequest) bool {
			return contains(q.Search, r.Title, r.Description) &&
				matches(q.Status, r.Status) &&
				matches(q.Priority, r.Priority) &&
				(q.DispensaryID == "" || r.DispensaryID == q.DispensaryID)
		}, func(a, b domain.ServiceRequest) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
		return notify.Notification{}, nil
	})
	return page, err
}

// GetServiceRequest returns the request carrying id.
func (s *Service) GetServiceRequest(ctx context.Context, actor *domain.User, id string) (domain.ServiceRequest, error) {
	var r domain.ServiceRequest
	err := s.run(ctx, opRequestGet, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceRequest, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		var err error
		r, err = get(ctx, s.requests, domain.EntityServiceRequest, id)
		return notify.Notification{}, err
	})
	return r, err
}

// CreateServiceRequest opens a pending request against an existing
// dispensary. Priority defaults to medium.
func (s *Service) CreateServiceRequest(ctx context.Context, actor *domain.User, in domain.ServiceRequest) (domain.ServiceRequest, Result, error) {
	var res Result
	err := s.run(ctx, opRequestCreate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceRequest, domain.ActionCreate); err != nil {
			return notify.Notification{}, err
		}
		dispensary, err := s.requireDispensary(ctx, domain.EntityServiceRequest, in.DispensaryID)
		if err != nil {
			return notify.Notification{}, err
		}
		in.Title = strings.TrimSpace(in.Title)
		in.Description = strings.TrimSpace(in.Description)
		if in.Priority == "" {
			in.Priority = domain.PriorityMedium
		}
		in.Status = domain.RequestPending
		in.ResolvedAt = nil
		in.ResponseNotes = []domain.ResponseNote{}
		s.stamp(&in.Base)
		res, err = create(ctx, s, s.requests, domain.EntityServiceRequest, in)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Service request added", fmt.Sprintf("Service request added for %s", dispensary.Name)), nil
	})
	if err != nil {
		return domain.ServiceRequest{}, res, err
	}
	return in, res, nil
}

// UpdateServiceRequest replaces the editable fields of a request: title,
// description, priority and dispensary. Status, notes and timestamps are
// kept; use UpdateServiceRequestStatus and AddResponseNote for those.
func (s *Service) UpdateServiceRequest(ctx context.Context, actor *domain.User, in domain.ServiceRequest) (domain.ServiceRequest, Result, error) {
	var (
		out domain.ServiceRequest
		res Result
	)
	err := s.run(ctx, opRequestUpdate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceRequest, domain.ActionUpdate); err != nil {
			return notify.Notification{}, err
		}
		if _, err := s.requireDispensary(ctx, domain.EntityServiceRequest, in.DispensaryID); err != nil {
			return notify.Notification{}, err
		}
		var err error
		out, res, err = replace(ctx, s, s.requests, domain.EntityServiceRequest, in, func(before domain.ServiceRequest, next *domain.ServiceRequest) error {
			keepCreatedAt(&before.Base, &next.Base)
			next.Title = strings.TrimSpace(next.Title)
			next.Description = strings.TrimSpace(next.Description)
			next.Status = before.Status
			next.ResolvedAt = before.ResolvedAt
			next.ResponseNotes = before.ResponseNotes
			return nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Service request updated", fmt.Sprintf("Service request %s updated", out.Title)), nil
	})
	return out, res, err
}

// DeleteServiceRequest removes a request.
func (s *Service) DeleteServiceRequest(ctx context.Context, actor *domain.User, id string) (Result, error) {
	var res Result
	err := s.run(ctx, opRequestDelete, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceRequest, domain.ActionDelete); err != nil {
			return notify.Notification{}, err
		}
		var err error
		res, err = remove(ctx, s, s.requests, domain.EntityServiceRequest, id, nil)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Service request deleted", "Service request deleted successfully"), nil
	})
	return res, err
}

// AddResponseNote appends a note written by actor. A pending request moves to
// in-progress; other statuses are left alone and resolvedAt is untouched.
func (s *Service) AddResponseNote(ctx context.Context, actor *domain.User, requestID, text string) (domain.ServiceRequest, error) {
	var out domain.ServiceRequest
	err := s.run(ctx, opRequestNote, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceRequest, domain.ActionRespond); err != nil {
			return notify.Notification{}, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return notify.Notification{}, domain.ValidationError{Entity: domain.EntityServiceRequest, Field: "text", Reason: "is required"}
		}
		note := domain.ResponseNote{ID: s.newID(), Text: text, CreatedAt: s.now(), CreatedBy: actor.ID}
		var err error
		out, _, err = replace(ctx, s, s.requests, domain.EntityServiceRequest, domain.ServiceRequest{Base: domain.Base{ID: requestID}}, func(before domain.ServiceRequest, next *domain.ServiceRequest) error {
			*next = before
			next.ResponseNotes = append(slices.Clone(before.ResponseNotes), note)
			if before.Status == domain.RequestPending {
				next.Status = domain.RequestInProgress
			}
			return nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Response Added", "Your response has been added to the service request"), nil
	})
	return out, err
}

// UpdateServiceRequestStatus moves a request along its state machine.
// Entering resolved stamps resolvedAt; a resolved request accepts nothing.
func (s *Service) UpdateServiceRequestStatus(ctx context.Context, actor *domain.User, requestID string, status domain.RequestStatus) (domain.ServiceRequest, error) {
	var out domain.ServiceRequest
	err := s.run(ctx, opRequestStatus, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceRequest, domain.ActionUpdateStatus); err != nil {
			return notify.Notification{}, err
		}
		if !status.Valid() {
			return notify.Notification{}, domain.ValidationError{Entity: domain.EntityServiceRequest, Field: "status", Reason: fmt.Sprintf("unknown value %q", status)}
		}
		var err error
		out, _, err = replace(ctx, s, s.requests, domain.EntityServiceRequest, domain.ServiceRequest{Base: domain.Base{ID: requestID}}, func(before domain.ServiceRequest, next *domain.ServiceRequest) error {
			if before.Status.IsTerminal() {
				return domain.ValidationError{Entity: domain.EntityServiceRequest, Field: "status", Reason: fmt.Sprintf("request is already %s", before.Status)}
			}
			*next = before
			next.Status = status
			if status == domain.RequestResolved && before.Status != domain.RequestResolved {
				resolvedAt := s.now()
				next.ResolvedAt = &resolvedAt
			}
			return nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Status Updated", fmt.Sprintf("Service request status updated to %s", strings.ReplaceAll(string(status), "-", " "))), nil
	})
	return out, err
}

// requireDispensary reports a missing referenced dispensary as a validation
// error on the referencing entity.
func (s *Service) requireDispensary(ctx context.Context, entity domain.EntityType, id string) (domain.Dispensary, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Dispensary{}, domain.ValidationError{Entity: entity, Field: "dispensaryId", Reason: "is required"}
	}
	d, ok := s.dispensaries.Find(ctx, id)
	if !ok {
		return domain.Dispensary{}, domain.ValidationError{Entity: entity, Field: "dispensaryId", Reason: fmt.Sprintf("dispensary %s does not exist", id)}
	}
	return d, nil
}
