package core

import (
	"context"
	"strings"

	"myersadmin/internal/notify"
	"myersadmin/pkg/domain"
)

const (
	opKnowledgeList   = "knowledge_base.list"
	opKnowledgeGet    = "knowledge_base.get"
	opKnowledgeCreate = "knowledge_base.create"
	opKnowledgeUpdate = "knowledge_base.update"
	opKnowledgeDelete = "knowledge_base.delete"
)

// ListKnowledgeBase pages entries matching q.Search (title or description),
// q.Category and q.Status.
func (s *Service) ListKnowledgeBase(ctx context.Context, actor *domain.User, q Query) (Page[domain.KnowledgeBaseEntry], error) {
	var page Page[domain.KnowledgeBaseEntry]
	err := s.run(ctx, opKnowledgeList, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityKnowledgeBase, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		page = list(s.knowledge.All(ctx), q, s.pageSize, func(e domain.KnowledgeBaseEntry) bool {
			return contains(q.Search, e.Title, e.Description) && matches(q.Category, e.Category) && matches(q.Status, e.Status)
		}, nil)
		return notify.Notification{}, nil
	})
	return page, err
}

// GetKnowledgeBaseEntry returns the entry carrying id.
func (s *Service) GetKnowledgeBaseEntry(ctx context.Context, actor *domain.User, id string) (domain.KnowledgeBaseEntry, error) {
	var e domain.KnowledgeBaseEntry
	err := s.run(ctx, opKnowledgeGet, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityKnowledgeBase, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		var err error
		e, err = get(ctx, s.knowledge, domain.EntityKnowledgeBase, id)
		return notify.Notification{}, err
	})
	return e, err
}

// CreateKnowledgeBaseEntry adds an entry. Status defaults to active.
func (s *Service) CreateKnowledgeBaseEntry(ctx context.Context, actor *domain.User, in domain.KnowledgeBaseEntry) (domain.KnowledgeBaseEntry, Result, error) {
	var res Result
	err := s.run(ctx, opKnowledgeCreate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityKnowledgeBase, domain.ActionCreate); err != nil {
			return notify.Notification{}, err
		}
		normalizeEntry(&in)
		if in.Status == "" {
			in.Status = domain.EntryActive
		}
		s.stamp(&in.Base)
		var err error
		res, err = create(ctx, s, s.knowledge, domain.EntityKnowledgeBase, in)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Success", "Knowledge base entry added successfully"), nil
	})
	if err != nil {
		return domain.KnowledgeBaseEntry{}, res, err
	}
	return in, res, nil
}

// UpdateKnowledgeBaseEntry replaces an entry.
func (s *Service) UpdateKnowledgeBaseEntry(ctx context.Context, actor *domain.User, in domain.KnowledgeBaseEntry) (domain.KnowledgeBaseEntry, Result, error) {
	var (
		out domain.KnowledgeBaseEntry
		res Result
	)
	err := s.run(ctx, opKnowledgeUpdate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityKnowledgeBase, domain.ActionUpdate); err != nil {
			return notify.Notification{}, err
		}
		normalizeEntry(&in)
		var err error
		out, res, err = replace(ctx, s, s.knowledge, domain.EntityKnowledgeBase, in, func(before domain.KnowledgeBaseEntry, next *domain.KnowledgeBaseEntry) error {
			keepCreatedAt(&before.Base, &next.Base)
			return nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Success", "Knowledge base entry updated successfully"), nil
	})
	return out, res, err
}

// DeleteKnowledgeBaseEntry removes an entry.
func (s *Service) DeleteKnowledgeBaseEntry(ctx context.Context, actor *domain.User, id string) (Result, error) {
	var res Result
	err := s.run(ctx, opKnowledgeDelete, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityKnowledgeBase, domain.ActionDelete); err != nil {
			return notify.Notification{}, err
		}
		var err error
		res, err = remove(ctx, s, s.knowledge, domain.EntityKnowledgeBase, id, nil)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Success", "Knowledge base entry deleted successfully"), nil
	})
	return res, err
}

func normalizeEntry(e *domain.KnowledgeBaseEntry) {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.VideoURL = strings.TrimSpace(e.VideoURL)
	e.BlogURL = strings.TrimSpace(e.BlogURL)
	e.FileURL = strings.TrimSpace(e.FileURL)
}
