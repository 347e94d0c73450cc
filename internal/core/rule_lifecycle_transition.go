package core

import (
	"context"
	"fmt"

	"myersadmin/pkg/domain"
)

const ruleServiceRequestLifecycle = "service_request_lifecycle"

// ServiceRequestLifecycleRule blocks status changes the request state machine
// does not allow: pending to in-progress or resolved, in-progress to resolved,
// and nothing out of resolved.
func ServiceRequestLifecycleRule() domain.Rule {
	return lifecycleTransitionRule{}
}

type lifecycleTransitionRule struct{}

type lifecycleMachine struct {
	label     string
	valid     func(state string) bool
	allowed   func(from, to string) bool
	extractor func(payload any) (id string, state string, ok bool)
}

var lifecycleMachines = map[domain.EntityType]lifecycleMachine{
	domain.EntityServiceRequest: {
		label: "service request",
		valid: func(state string) bool { return domain.RequestStatus(state).Valid() },
		allowed: func(from, to string) bool {
			return domain.CanTransition(domain.RequestStatus(from), domain.RequestStatus(to))
		},
		extractor: func(payload any) (string, string, bool) {
			req, ok := asServiceRequest(payload)
			if !ok {
				return "", "", false
			}
			return req.ID, string(req.Status), true
		},
	},
}

func (lifecycleTransitionRule) Name() string { return ruleServiceRequestLifecycle }

func (lifecycleTransitionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		machine, ok := lifecycleMachines[change.Entity]
		if !ok {
			continue
		}
		afterID, afterState, ok := machine.extractor(change.After)
		if !ok {
			continue
		}
		if !machine.valid(afterState) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     ruleServiceRequestLifecycle,
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s %s is set to invalid state %s", machine.label, afterID, afterState),
				Entity:   change.Entity,
				EntityID: afterID,
			})
			continue
		}
		_, beforeState, ok := machine.extractor(change.Before)
		if !ok || beforeState == afterState {
			continue
		}
		if !machine.allowed(beforeState, afterState) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     ruleServiceRequestLifecycle,
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("cannot move %s %s from %s to %s", machine.label, afterID, beforeState, afterState),
				Entity:   change.Entity,
				EntityID: afterID,
			})
		}
	}
	return res, nil
}

func asServiceRequest(payload any) (domain.ServiceRequest, bool) {
	switch v := payload.(type) {
	case domain.ServiceRequest:
		return v, true
	case *domain.ServiceRequest:
		if v == nil {
			return domain.ServiceRequest{}, false
		}
		return *v, true
	default:
		return domain.ServiceRequest{}, false
	}
}
