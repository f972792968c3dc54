package core

import (
	"context"
	"fmt"

	"stockcore/pkg/domain"
)

// NewComponentIntegrityRule returns the default in-transaction rule enforcing
// product component invariants: the target resolves, the component unit
// shares the target unit's group, and a target appears at most once per
// product.
func NewComponentIntegrityRule() domain.Rule {
	return componentIntegrityRule{}
}

type componentIntegrityRule struct{}

func (componentIntegrityRule) Name() string { return "component_integrity" }

func (componentIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	block := func(id, msg string) {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "component_integrity",
			Severity: domain.SeverityBlock,
			Message:  msg,
			Entity:   domain.EntityProductComponent,
			EntityID: id,
		})
	}

	type pair struct {
		product string
		ref     domain.ComponentRef
	}
	seen := make(map[pair]string)

	for _, component := range view.ListProductComponents() {
		if _, ok := view.FindProduct(component.ProductID); !ok {
			block(component.ID, fmt.Sprintf("component %s references missing product %s", component.ID, component.ProductID))
			continue
		}

		_, targetUnitID, ok := domain.ResolveComponent(view, component.Component)
		if !ok {
			block(component.ID, fmt.Sprintf("component %s references missing %s %s", component.ID, component.Component.Kind, component.Component.ID))
			continue
		}

		unit, okUnit := view.FindUnit(component.UnitID)
		targetUnit, okTarget := view.FindUnit(targetUnitID)
		if !okUnit || !okTarget {
			block(component.ID, fmt.Sprintf("component %s references missing unit", component.ID))
		} else if unit.GroupID != targetUnit.GroupID {
			block(component.ID, fmt.Sprintf("component %s unit group %s does not match target unit group %s", component.ID, unit.GroupID, targetUnit.GroupID))
		}

		key := pair{product: component.ProductID, ref: component.Component}
		if firstID, dup := seen[key]; dup {
			block(component.ID, fmt.Sprintf("component %s duplicates %s within product %s", component.ID, firstID, component.ProductID))
			continue
		}
		seen[key] = component.ID
	}
	return res, nil
}
