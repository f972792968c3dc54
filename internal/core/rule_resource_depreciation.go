package core

import (
	"context"
	"fmt"

	"stockcore/pkg/domain"
)

// NewResourceDepreciationRule returns the default in-transaction rule
// enforcing resource pricing exclusivity: a depreciation resource carries
// initial price and service life and no flat price, a plain resource the
// inverse.
func NewResourceDepreciationRule() domain.Rule {
	return resourceDepreciationRule{}
}

type resourceDepreciationRule struct{}

func (resourceDepreciationRule) Name() string { return "resource_depreciation" }

func (resourceDepreciationRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	block := func(id, msg string) {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "resource_depreciation",
			Severity: domain.SeverityBlock,
			Message:  msg,
			Entity:   domain.EntityResource,
			EntityID: id,
		})
	}

	for _, resource := range view.ListResources() {
		if resource.IsDepreciation {
			if resource.Price != nil {
				block(resource.ID, fmt.Sprintf("depreciation resource %s (%s) carries a flat price", resource.Title, resource.ID))
			}
			if resource.InitialPrice == nil || resource.ServiceLife == nil {
				block(resource.ID, fmt.Sprintf("depreciation resource %s (%s) is missing initial price or service life", resource.Title, resource.ID))
			}
			continue
		}
		if resource.InitialPrice != nil || resource.ServiceLife != nil {
			block(resource.ID, fmt.Sprintf("resource %s (%s) carries depreciation fields without the flag", resource.Title, resource.ID))
		}
		if resource.Price == nil {
			block(resource.ID, fmt.Sprintf("resource %s (%s) is missing a price", resource.Title, resource.ID))
		}
	}
	return res, nil
}
