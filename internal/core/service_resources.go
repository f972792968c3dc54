package core

import (
	"context"

	"stockcore/pkg/domain"
)

// validateResourceInput checks a normalized resource input: the unit
// exists, the pricing mode selected by the depreciation flag is fully
// specified, and every assigned category is a resource category owned
// by the user.
func validateResourceInput(view TransactionView, userID string, in ResourceInput) error {
	if in.Title == "" {
		return domain.NewValidationError("title", "title must not be empty")
	}
	if _, ok := view.FindUnit(in.UnitID); !ok {
		return domain.NewValidationError("unit", "object not found")
	}
	fields := domain.FieldErrors{}
	if in.IsDepreciation {
		if in.InitialPrice == nil {
			fields.Add("initial_price", "required for a depreciation resource")
		}
		if in.ServiceLife == nil {
			fields.Add("service_life", "required for a depreciation resource")
		}
	} else if in.Price == nil {
		fields.Add("price", "required")
	}
	if len(fields) > 0 {
		return domain.ValidationError{Fields: fields}
	}
	categories, err := resolveCategories(view, userID, in.CategoryIDs)
	if err != nil {
		return err
	}
	if err := validateCategoryType(categories, CategoryResource); err != nil {
		return err
	}
	return validateUserCategories(categories, userID)
}

// CreateResource normalizes, validates and persists a new resource for
// the user. Normalization clears the pricing fields excluded by the
// depreciation flag before validation runs.
func (s *Service) CreateResource(ctx context.Context, userID string, in ResourceInput) (Resource, Result, error) {
	ctx, done := s.begin(ctx, "create_resource")
	in = in.normalize()
	var created Resource
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if err := validateResourceInput(tx.Snapshot(), userID, in); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateResource(Resource{
			UserID:         userID,
			UnitID:         in.UnitID,
			Title:          in.Title,
			Notes:          in.Notes,
			IsDepreciation: in.IsDepreciation,
			Price:          in.Price,
			InitialPrice:   in.InitialPrice,
			ServiceLife:    in.ServiceLife,
			CategoryIDs:    dedupeIDs(in.CategoryIDs),
		})
		return err
	})
	done(created.ID, err)
	return created, res, err
}

// UpdateResource overwrites all mutable fields of a resource the user
// owns, applying the same normalization as create.
func (s *Service) UpdateResource(ctx context.Context, userID, id string, in ResourceInput) (Resource, Result, error) {
	ctx, done := s.begin(ctx, "update_resource")
	in = in.normalize()
	var updated Resource
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		view := tx.Snapshot()
		existing, ok := view.FindResource(id)
		if !ok || existing.UserID != userID {
			return domain.NotFoundError{Entity: EntityResource, ID: id}
		}
		if err := validateResourceInput(view, userID, in); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateResource(id, func(resource *Resource) error {
			resource.UnitID = in.UnitID
			resource.Title = in.Title
			resource.Notes = in.Notes
			resource.IsDepreciation = in.IsDepreciation
			resource.Price = in.Price
			resource.InitialPrice = in.InitialPrice
			resource.ServiceLife = in.ServiceLife
			resource.CategoryIDs = dedupeIDs(in.CategoryIDs)
			return nil
		})
		return err
	})
	done(id, err)
	return updated, res, err
}

// DeleteResource removes a resource the user owns. The store refuses
// while product components or attachments still reference it.
func (s *Service) DeleteResource(ctx context.Context, userID, id string) (Result, error) {
	ctx, done := s.begin(ctx, "delete_resource")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		existing, ok := tx.Snapshot().FindResource(id)
		if !ok || existing.UserID != userID {
			return domain.NotFoundError{Entity: EntityResource, ID: id}
		}
		return tx.DeleteResource(id)
	})
	done(id, err)
	return res, err
}
