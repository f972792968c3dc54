package domain

// OwnershipView is the read surface ownership resolution needs:
// composite entities delegate to their parent row.
type OwnershipView interface {
	FindWarehouse(id string) (Warehouse, bool)
	FindMaterial(id string) (Material, bool)
	FindProduct(id string) (Product, bool)
	FindResource(id string) (Resource, bool)
}

// Owned is implemented by every entity exposing restricted access.
// OwnerID resolves the owning user, walking parent references through
// the view; ok is false when the owner cannot be resolved.
type Owned interface {
	OwnerID(view OwnershipView) (owner string, ok bool)
}

// OwnerID implements Owned for Category.
func (c Category) OwnerID(OwnershipView) (string, bool) { return c.UserID, true }

// OwnerID implements Owned for Warehouse.
func (w Warehouse) OwnerID(OwnershipView) (string, bool) { return w.UserID, true }

// OwnerID implements Owned for Resource.
func (r Resource) OwnerID(OwnershipView) (string, bool) { return r.UserID, true }

// OwnerID implements Owned for Material: ownership flows through the
// parent warehouse.
func (m Material) OwnerID(view OwnershipView) (string, bool) {
	warehouse, ok := view.FindWarehouse(m.WarehouseID)
	if !ok {
		return "", false
	}
	return warehouse.OwnerID(view)
}

// OwnerID implements Owned for Product: ownership flows through the
// parent warehouse.
func (p Product) OwnerID(view OwnershipView) (string, bool) {
	warehouse, ok := view.FindWarehouse(p.WarehouseID)
	if !ok {
		return "", false
	}
	return warehouse.OwnerID(view)
}

// OwnerID implements Owned for ProductComponent: ownership flows
// through the parent product.
func (c ProductComponent) OwnerID(view OwnershipView) (string, bool) {
	product, ok := view.FindProduct(c.ProductID)
	if !ok {
		return "", false
	}
	return product.OwnerID(view)
}

// OwnerID implements Owned for FileAttachment by resolving the target
// variant and delegating. Unknown kinds and missing targets fail
// closed.
func (a FileAttachment) OwnerID(view OwnershipView) (string, bool) {
	switch a.Target.Kind {
	case AttachWarehouse:
		if w, ok := view.FindWarehouse(a.Target.ID); ok {
			return w.OwnerID(view)
		}
	case AttachMaterial:
		if m, ok := view.FindMaterial(a.Target.ID); ok {
			return m.OwnerID(view)
		}
	case AttachProduct:
		if p, ok := view.FindProduct(a.Target.ID); ok {
			return p.OwnerID(view)
		}
	case AttachResource:
		if r, ok := view.FindResource(a.Target.ID); ok {
			return r.OwnerID(view)
		}
	}
	return "", false
}

// ResolveComponent looks up a component reference's target, returning
// it as an Owned value alongside its unit id. ok is false when the
// reference does not resolve.
func ResolveComponent(view OwnershipView, ref ComponentRef) (target Owned, unitID string, ok bool) {
	switch ref.Kind {
	case ComponentMaterial:
		if m, found := view.FindMaterial(ref.ID); found {
			return m, m.UnitID, true
		}
	case ComponentResource:
		if r, found := view.FindResource(ref.ID); found {
			return r, r.UnitID, true
		}
	}
	return nil, "", false
}

// BelongsToUser reports whether the entity is owned, directly or
// transitively, by the given user. It is a pure predicate.
func BelongsToUser(view OwnershipView, entity Owned, userID string) bool {
	owner, ok := entity.OwnerID(view)
	return ok && owner == userID
}
