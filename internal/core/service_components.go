package core

import (
	"context"

	"stockcore/pkg/domain"
)

// CreateComponent validates and persists a single component of a
// product the user owns. Unlike the product aggregate, the standalone
// operation opens its own transaction and fails fast.
func (s *Service) CreateComponent(ctx context.Context, userID, productID string, in ComponentInput) (ProductComponent, Result, error) {
	ctx, done := s.begin(ctx, "create_component")
	var created ProductComponent
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		view := tx.Snapshot()
		product, ok := view.FindProduct(productID)
		if !ok || !domain.BelongsToUser(view, product, userID) {
			return domain.NotFoundError{Entity: EntityProduct, ID: productID}
		}
		if err := validateComponent(view, userID, productID, "", in); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateProductComponent(ProductComponent{
			ProductID: productID,
			Component: in.Component,
			Quantity:  in.Quantity,
			UnitID:    in.UnitID,
		})
		return err
	})
	done(created.ID, err)
	return created, res, err
}

// UpdateComponent overwrites the target reference, quantity and unit of
// a component the user owns. The row being updated is excluded from the
// duplicate check so a spec may restate its current target.
func (s *Service) UpdateComponent(ctx context.Context, userID, id string, in ComponentInput) (ProductComponent, Result, error) {
	ctx, done := s.begin(ctx, "update_component")
	var updated ProductComponent
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		view := tx.Snapshot()
		existing, ok := view.FindProductComponent(id)
		if !ok || !domain.BelongsToUser(view, existing, userID) {
			return domain.NotFoundError{Entity: EntityProductComponent, ID: id}
		}
		if err := validateComponent(view, userID, existing.ProductID, id, in); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateProductComponent(id, func(component *ProductComponent) error {
			component.Component = in.Component
			component.Quantity = in.Quantity
			component.UnitID = in.UnitID
			return nil
		})
		return err
	})
	done(id, err)
	return updated, res, err
}

// DeleteComponent removes a component of a product the user owns.
func (s *Service) DeleteComponent(ctx context.Context, userID, id string) (Result, error) {
	ctx, done := s.begin(ctx, "delete_component")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		view := tx.Snapshot()
		existing, ok := view.FindProductComponent(id)
		if !ok || !domain.BelongsToUser(view, existing, userID) {
			return domain.NotFoundError{Entity: EntityProductComponent, ID: id}
		}
		return tx.DeleteProductComponent(id)
	})
	done(id, err)
	return res, err
}
