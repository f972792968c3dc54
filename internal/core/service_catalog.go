package core

import (
	"context"

	"stockcore/pkg/domain"
)

// CreateUnitGroup persists a new measurement unit group.
func (s *Service) CreateUnitGroup(ctx context.Context, in UnitGroupInput) (UnitGroup, Result, error) {
	ctx, done := s.begin(ctx, "create_unit_group")
	var created UnitGroup
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if in.Title == "" {
			return domain.NewValidationError("title", "title must not be empty")
		}
		var err error
		created, err = tx.CreateUnitGroup(UnitGroup{Title: in.Title})
		return err
	})
	done(created.ID, err)
	return created, res, err
}

// UpdateUnitGroup overwrites a unit group's fields.
func (s *Service) UpdateUnitGroup(ctx context.Context, id string, in UnitGroupInput) (UnitGroup, Result, error) {
	ctx, done := s.begin(ctx, "update_unit_group")
	var updated UnitGroup
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if in.Title == "" {
			return domain.NewValidationError("title", "title must not be empty")
		}
		var err error
		updated, err = tx.UpdateUnitGroup(id, func(group *UnitGroup) error {
			group.Title = in.Title
			return nil
		})
		return err
	})
	done(id, err)
	return updated, res, err
}

// DeleteUnitGroup removes a unit group. The store refuses while units
// still reference it.
func (s *Service) DeleteUnitGroup(ctx context.Context, id string) (Result, error) {
	ctx, done := s.begin(ctx, "delete_unit_group")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		return tx.DeleteUnitGroup(id)
	})
	done(id, err)
	return res, err
}

// CreateUnit persists a new measurement unit within a group.
func (s *Service) CreateUnit(ctx context.Context, in UnitInput) (Unit, Result, error) {
	ctx, done := s.begin(ctx, "create_unit")
	var created Unit
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if in.Coefficient.Sign() <= 0 {
			return domain.NewValidationError("coefficient", "coefficient must be positive")
		}
		var err error
		created, err = tx.CreateUnit(Unit{GroupID: in.GroupID, Coefficient: in.Coefficient})
		return err
	})
	done(created.ID, err)
	return created, res, err
}

// UpdateUnit overwrites a unit's fields.
func (s *Service) UpdateUnit(ctx context.Context, id string, in UnitInput) (Unit, Result, error) {
	ctx, done := s.begin(ctx, "update_unit")
	var updated Unit
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if in.Coefficient.Sign() <= 0 {
			return domain.NewValidationError("coefficient", "coefficient must be positive")
		}
		if _, ok := tx.Snapshot().FindUnitGroup(in.GroupID); !ok {
			return domain.NotFoundError{Entity: EntityUnitGroup, ID: in.GroupID}
		}
		var err error
		updated, err = tx.UpdateUnit(id, func(unit *Unit) error {
			unit.GroupID = in.GroupID
			unit.Coefficient = in.Coefficient
			return nil
		})
		return err
	})
	done(id, err)
	return updated, res, err
}

// DeleteUnit removes a unit. The store refuses while storage entities,
// resources or components still reference it.
func (s *Service) DeleteUnit(ctx context.Context, id string) (Result, error) {
	ctx, done := s.begin(ctx, "delete_unit")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		return tx.DeleteUnit(id)
	})
	done(id, err)
	return res, err
}

// CreateCategory persists a new category owned by the user.
func (s *Service) CreateCategory(ctx context.Context, userID string, in CategoryInput) (Category, Result, error) {
	ctx, done := s.begin(ctx, "create_category")
	var created Category
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if in.Title == "" {
			return domain.NewValidationError("title", "title must not be empty")
		}
		var err error
		created, err = tx.CreateCategory(Category{UserID: userID, Title: in.Title, Type: in.Type})
		return err
	})
	done(created.ID, err)
	return created, res, err
}

// UpdateCategory overwrites a category owned by the user.
func (s *Service) UpdateCategory(ctx context.Context, userID, id string, in CategoryInput) (Category, Result, error) {
	ctx, done := s.begin(ctx, "update_category")
	var updated Category
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		existing, ok := tx.FindCategory(id)
		if !ok || existing.UserID != userID {
			return domain.NotFoundError{Entity: EntityCategory, ID: id}
		}
		if in.Title == "" {
			return domain.NewValidationError("title", "title must not be empty")
		}
		var err error
		updated, err = tx.UpdateCategory(id, func(category *Category) error {
			category.Title = in.Title
			category.Type = in.Type
			return nil
		})
		return err
	})
	done(id, err)
	return updated, res, err
}

// DeleteCategory removes a category owned by the user. The store refuses
// while warehouses, storage entities or resources still reference it.
func (s *Service) DeleteCategory(ctx context.Context, userID, id string) (Result, error) {
	ctx, done := s.begin(ctx, "delete_category")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		existing, ok := tx.FindCategory(id)
		if !ok || existing.UserID != userID {
			return domain.NotFoundError{Entity: EntityCategory, ID: id}
		}
		return tx.DeleteCategory(id)
	})
	done(id, err)
	return res, err
}
