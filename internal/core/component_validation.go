package core

import "stockcore/pkg/domain"

// validateComponent checks one component specification against the
// transactional view. Checks run in a fixed order and the first failure
// wins: quantity sign, target resolution, target ownership, unit group
// compatibility, then uniqueness of the (product, target) pair.
// excludeID names the component row being updated so it does not count
// as its own duplicate.
func validateComponent(view TransactionView, userID, productID, excludeID string, in ComponentInput) error {
	if in.Quantity.IsNegative() {
		return domain.NewValidationError("quantity", "quantity must not be negative")
	}

	target, targetUnitID, ok := domain.ResolveComponent(view, in.Component)
	if !ok {
		return domain.NewValidationError("object_id", "object not found")
	}

	if !domain.BelongsToUser(view, target, userID) {
		return domain.NewValidationError("content_type", "component does not belong to user")
	}

	unit, ok := view.FindUnit(in.UnitID)
	if !ok {
		return domain.NewValidationError("unit", "unit not found")
	}
	targetUnit, ok := view.FindUnit(targetUnitID)
	if !ok || unit.GroupID != targetUnit.GroupID {
		return domain.NewValidationError("unit", "unit does not match component's unit group")
	}

	for _, existing := range view.ListProductComponents() {
		if existing.ProductID != productID || existing.ID == excludeID {
			continue
		}
		if existing.Component == in.Component {
			return domain.NewValidationError("object_id", "component already in product")
		}
	}
	return nil
}
