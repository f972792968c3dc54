package core

import (
	"context"

	"stockcore/pkg/domain"
)

// validateStorageEntityInput runs the checks shared by materials and
// products: the warehouse resolves within the user's scope and matches
// the wanted storage type, the unit exists, and every assigned category
// carries the entity's type and belongs to the warehouse.
func validateStorageEntityInput(view TransactionView, userID string, in StorageEntityInput, wantStorage StorageType, wantCategory CategoryType) error {
	if in.Title == "" {
		return domain.NewValidationError("title", "title must not be empty")
	}
	warehouse, ok := view.FindWarehouse(in.WarehouseID)
	if !ok || warehouse.UserID != userID {
		return domain.NewValidationError("warehouse", "object not found")
	}
	if warehouse.StorageType != wantStorage {
		return domain.NewValidationError("warehouse", "storage type does not match warehouse")
	}
	if _, ok := view.FindUnit(in.UnitID); !ok {
		return domain.NewValidationError("unit", "object not found")
	}
	if in.Price.IsNegative() {
		return domain.NewValidationError("price", "price must not be negative")
	}
	if in.Remaining.IsNegative() {
		return domain.NewValidationError("remaining", "remaining must not be negative")
	}
	categories, err := resolveCategories(view, userID, in.CategoryIDs)
	if err != nil {
		return err
	}
	if err := validateCategoryType(categories, wantCategory); err != nil {
		return err
	}
	return validateWarehouseMembership(warehouse, categories)
}

// CreateMaterial validates and persists a new material in one of the
// user's material warehouses.
func (s *Service) CreateMaterial(ctx context.Context, userID string, in MaterialInput) (Material, Result, error) {
	ctx, done := s.begin(ctx, "create_material")
	var created Material
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if err := validateStorageEntityInput(tx.Snapshot(), userID, in.StorageEntityInput, StorageMaterialType, CategoryMaterial); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateMaterial(Material{
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
		return err
	})
	done(created.ID, err)
	return created, res, err
}

// UpdateMaterial overwrites all mutable fields of a material the user
// owns and replaces its category set.
func (s *Service) UpdateMaterial(ctx context.Context, userID, id string, in MaterialInput) (Material, Result, error) {
	ctx, done := s.begin(ctx, "update_material")
	var updated Material
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		view := tx.Snapshot()
		existing, ok := view.FindMaterial(id)
		if !ok || !domain.BelongsToUser(view, existing, userID) {
			return domain.NotFoundError{Entity: EntityMaterial, ID: id}
		}
		if err := validateStorageEntityInput(view, userID, in.StorageEntityInput, StorageMaterialType, CategoryMaterial); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateMaterial(id, func(material *Material) error {
			material.WarehouseID = in.WarehouseID
			material.UnitID = in.UnitID
			material.Title = in.Title
			material.SKU = in.SKU
			material.Notes = in.Notes
			material.Price = in.Price
			material.Remaining = in.Remaining
			material.MinRemaining = in.MinRemaining
			material.CategoryIDs = dedupeIDs(in.CategoryIDs)
			return nil
		})
		return err
	})
	done(id, err)
	return updated, res, err
}

// DeleteMaterial removes a material the user owns. The store refuses
// while product components or attachments still reference it.
func (s *Service) DeleteMaterial(ctx context.Context, userID, id string) (Result, error) {
	ctx, done := s.begin(ctx, "delete_material")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		view := tx.Snapshot()
		existing, ok := view.FindMaterial(id)
		if !ok || !domain.BelongsToUser(view, existing, userID) {
			return domain.NotFoundError{Entity: EntityMaterial, ID: id}
		}
		return tx.DeleteMaterial(id)
	})
	done(id, err)
	return res, err
}
