package core

import (
	"context"

	"stockcore/pkg/domain"
)

func validateWarehouseInput(view TransactionView, userID string, in WarehouseInput) error {
	if in.Title == "" {
		return domain.NewValidationError("title", "title must not be empty")
	}
	if !domain.ValidStorageType(in.StorageType) {
		return domain.NewValidationError("storage_type", "unknown storage type")
	}
	categories, err := resolveCategories(view, userID, in.CategoryIDs)
	if err != nil {
		return err
	}
	return validateWarehouseCategoryTypes(categories, in.StorageType)
}

// CreateWarehouse validates and persists a new warehouse for the user.
// The category set may mix categories of the warehouse's storage type
// and resource categories.
func (s *Service) CreateWarehouse(ctx context.Context, userID string, in WarehouseInput) (Warehouse, Result, error) {
	ctx, done := s.begin(ctx, "create_warehouse")
	var created Warehouse
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if err := validateWarehouseInput(tx.Snapshot(), userID, in); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateWarehouse(Warehouse{
			UserID:      userID,
			Title:       in.Title,
			StorageType: in.StorageType,
			CategoryIDs: dedupeIDs(in.CategoryIDs),
		})
		return err
	})
	done(created.ID, err)
	return created, res, err
}

// UpdateWarehouse overwrites all mutable fields of a warehouse the user
// owns and replaces its category set.
func (s *Service) UpdateWarehouse(ctx context.Context, userID, id string, in WarehouseInput) (Warehouse, Result, error) {
	ctx, done := s.begin(ctx, "update_warehouse")
	var updated Warehouse
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		existing, ok := tx.FindWarehouse(id)
		if !ok || existing.UserID != userID {
			return domain.NotFoundError{Entity: EntityWarehouse, ID: id}
		}
		if err := validateWarehouseInput(tx.Snapshot(), userID, in); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateWarehouse(id, func(warehouse *Warehouse) error {
			warehouse.Title = in.Title
			warehouse.StorageType = in.StorageType
			warehouse.CategoryIDs = dedupeIDs(in.CategoryIDs)
			return nil
		})
		return err
	})
	done(id, err)
	return updated, res, err
}

// DeleteWarehouse removes a warehouse the user owns. The store refuses
// while the warehouse still holds storage entities or attachments.
func (s *Service) DeleteWarehouse(ctx context.Context, userID, id string) (Result, error) {
	ctx, done := s.begin(ctx, "delete_warehouse")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		existing, ok := tx.FindWarehouse(id)
		if !ok || existing.UserID != userID {
			return domain.NotFoundError{Entity: EntityWarehouse, ID: id}
		}
		return tx.DeleteWarehouse(id)
	})
	done(id, err)
	return res, err
}
