package core

import (
	"context"
	"fmt"

	"myersadmin/pkg/domain"
)

const ruleAgreementPeriod = "agreement_period"

// AgreementPeriodRule blocks service agreements whose end date is not after
// their start date.
func AgreementPeriodRule() domain.Rule { return agreementPeriodRule{} }

type agreementPeriodRule struct{}

func (agreementPeriodRule) Name() string { return ruleAgreementPeriod }

func (agreementPeriodRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var res domain.Result
	for _, change := range changes {
		if change.Entity != domain.EntityServiceAgreement {
			continue
		}
		agreement, ok := change.After.(domain.ServiceAgreement)
		if !ok {
			continue
		}
		if !agreement.EndDate.After(agreement.StartDate) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     ruleAgreementPeriod,
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("service agreement %s must end after it starts", agreement.ID),
				Entity:   domain.EntityServiceAgreement,
				EntityID: agreement.ID,
			})
		}
	}
	return res, nil
}
