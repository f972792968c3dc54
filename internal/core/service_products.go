package core

import (
	"context"
	"errors"

	"stockcore/pkg/domain"
)

// componentFieldErrors flattens a component validation failure into the
// per-index error map entry.
func componentFieldErrors(err error) domain.FieldErrors {
	var validation domain.ValidationError
	if errors.As(err, &validation) {
		return validation.Fields
	}
	fields := domain.FieldErrors{}
	fields.Add("non_field_errors", err.Error())
	return fields
}

// CreateProduct validates and persists a new product together with its
// ordered component list in one transaction. Component failures are
// collected per index instead of aborting on the first one; a non-empty
// collection rolls back the whole transaction, including the product
// row and every component already inserted.
func (s *Service) CreateProduct(ctx context.Context, userID string, in ProductInput) (Product, Result, error) {
	ctx, done := s.begin(ctx, "create_product")
	var created Product
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		view := tx.Snapshot()
		if err := validateStorageEntityInput(view, userID, in.StorageEntityInput, StorageProductType, CategoryProduct); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateProduct(Product{
			WarehouseID:  in.WarehouseID,
			UnitID:       in.UnitID,
			Title:        in.Title,
			SKU:          in.SKU,
			Notes:        in.Notes,
			Price:        in.Price,
			Remaining:    in.Remaining,
			MinRemaining: in.MinRemaining,
			CategoryIDs:  dedupeIDs(in.CategoryIDs),
		})
		if err != nil {
			return err
		}

		componentErrs := domain.ComponentErrors{}
		for i, spec := range in.Components {
			if err := validateComponent(view, userID, created.ID, "", spec); err != nil {
				componentErrs[i] = componentFieldErrors(err)
				continue
			}
			if _, err := tx.CreateProductComponent(ProductComponent{
				ProductID: created.ID,
				Component: spec.Component,
				Quantity:  spec.Quantity,
				UnitID:    spec.UnitID,
			}); err != nil {
				return err
			}
		}
		if len(componentErrs) > 0 {
			return domain.ComponentValidationError{Components: componentErrs}
		}
		return nil
	})
	done(created.ID, err)
	if err != nil {
		return Product{}, res, err
	}
	return created, res, err
}

// UpdateProduct overwrites all mutable fields of a product the user
// owns, replaces its category set, and reconciles the component list:
// specs addressing an existing component of the product update it,
// everything else inserts. Components absent from the incoming list are
// left in place. Component failures are collected per index; any
// failure rolls back the whole transaction.
func (s *Service) UpdateProduct(ctx context.Context, userID, id string, in ProductInput) (Product, Result, error) {
	ctx, done := s.begin(ctx, "update_product")
	var updated Product
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		view := tx.Snapshot()
		existing, ok := view.FindProduct(id)
		if !ok || !domain.BelongsToUser(view, existing, userID) {
			return domain.NotFoundError{Entity: EntityProduct, ID: id}
		}
		if err := validateStorageEntityInput(view, userID, in.StorageEntityInput, StorageProductType, CategoryProduct); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateProduct(id, func(product *Product) error {
			product.WarehouseID = in.WarehouseID
			product.UnitID = in.UnitID
			product.Title = in.Title
			product.SKU = in.SKU
			product.Notes = in.Notes
			product.Price = in.Price
			product.Remaining = in.Remaining
			product.MinRemaining = in.MinRemaining
			product.CategoryIDs = dedupeIDs(in.CategoryIDs)
			return nil
		})
		if err != nil {
			return err
		}

		componentErrs := domain.ComponentErrors{}
		for i, spec := range in.Components {
			if spec.ID != "" {
				if component, ok := view.FindProductComponent(spec.ID); ok && component.ProductID == id {
					if err := validateComponent(view, userID, id, spec.ID, spec); err != nil {
						componentErrs[i] = componentFieldErrors(err)
						continue
					}
					if _, err := tx.UpdateProductComponent(spec.ID, func(component *ProductComponent) error {
						component.Component = spec.Component
						component.Quantity = spec.Quantity
						component.UnitID = spec.UnitID
						return nil
					}); err != nil {
						return err
					}
					continue
				}
			}
			if err := validateComponent(view, userID, id, "", spec); err != nil {
				componentErrs[i] = componentFieldErrors(err)
				continue
			}
			if _, err := tx.CreateProductComponent(ProductComponent{
				ProductID: id,
				Component: spec.Component,
				Quantity:  spec.Quantity,
				UnitID:    spec.UnitID,
			}); err != nil {
				return err
			}
		}
		if len(componentErrs) > 0 {
			return domain.ComponentValidationError{Components: componentErrs}
		}
		return nil
	})
	done(id, err)
	if err != nil {
		return Product{}, res, err
	}
	return updated, res, err
}

// DeleteProduct removes a product the user owns, cascading its
// components in the same transaction. The store refuses while
// attachments still reference the product.
func (s *Service) DeleteProduct(ctx context.Context, userID, id string) (Result, error) {
	ctx, done := s.begin(ctx, "delete_product")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		view := tx.Snapshot()
		existing, ok := view.FindProduct(id)
		if !ok || !domain.BelongsToUser(view, existing, userID) {
			return domain.NotFoundError{Entity: EntityProduct, ID: id}
		}
		for _, component := range view.ListProductComponents() {
			if component.ProductID != id {
				continue
			}
			if err := tx.DeleteProductComponent(component.ID); err != nil {
				return err
			}
		}
		return tx.DeleteProduct(id)
	})
	done(id, err)
	return res, err
}
