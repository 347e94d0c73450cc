package core

import (
	"context"
	"fmt"

	"myersadmin/pkg/domain"
)

const ruleResolvedTimestamp = "resolved_timestamp"

// ResolvedTimestampRule requires resolvedAt to be present exactly when a
// service request is resolved.
func ResolvedTimestampRule() domain.Rule { return resolvedTimestampRule{} }

type resolvedTimestampRule struct{}

func (resolvedTimestampRule) Name() string { return ruleResolvedTimestamp }

func (resolvedTimestampRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var res domain.Result
	for _, change := range changes {
		if change.Entity != domain.EntityServiceRequest {
			continue
		}
		req, ok := asServiceRequest(change.After)
		if !ok {
			continue
		}
		resolved := req.Status == domain.RequestResolved
		switch {
		case resolved && req.ResolvedAt == nil:
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     ruleResolvedTimestamp,
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("service request %s is resolved without resolvedAt", req.ID),
				Entity:   domain.EntityServiceRequest,
				EntityID: req.ID,
			})
		case !resolved && req.ResolvedAt != nil:
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     ruleResolvedTimestamp,
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("service request %s carries resolvedAt while %s", req.ID, req.Status),
				Entity:   domain.EntityServiceRequest,
				EntityID: req.ID,
			})
		}
	}
	return res, nil
}
