package core

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"stockcore/internal/infra/persistence/memory"
	"stockcore/pkg/domain"
)

// seedInconsistent builds a store with no engine so that states the
// service validators would refuse can be committed, then returns the
// ids needed to corrupt them further.
func seedInconsistent(t *testing.T, fn func(tx Transaction) error) *memory.Store {
	t.Helper()
	store := memory.NewStore(NewRulesEngine())
	if _, err := store.RunInTransaction(context.Background(), fn); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func evaluateDefaultRules(t *testing.T, store *memory.Store) Result {
	t.Helper()
	engine := NewDefaultRulesEngine()
	var result Result
	err := store.View(context.Background(), func(view TransactionView) error {
		res, err := engine.Evaluate(context.Background(), view, nil)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		t.Fatalf("evaluate rules: %v", err)
	}
	return result
}

func hasViolation(result Result, rule string) bool {
	for _, violation := range result.Violations {
		if violation.Rule == rule && violation.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

func TestStorageConsistencyRuleFlagsMismatchedWarehouse(t *testing.T) {
	store := seedInconsistent(t, func(tx Transaction) error {
		group, err := tx.CreateUnitGroup(UnitGroup{Title: "mass"})
		if err != nil {
			return err
		}
		unit, err := tx.CreateUnit(Unit{GroupID: group.ID, Coefficient: decimal.NewFromInt(1)})
		if err != nil {
			return err
		}
		warehouse, err := tx.CreateWarehouse(Warehouse{UserID: testUser, Title: "Goods", StorageType: StorageProductType})
		if err != nil {
			return err
		}
		// A material held in a product warehouse.
		_, err = tx.CreateMaterial(Material{WarehouseID: warehouse.ID, UnitID: unit.ID, Title: "Steel"})
		return err
	})

	result := evaluateDefaultRules(t, store)
	if !hasViolation(result, "storage_consistency") {
		t.Fatalf("expected storage_consistency violation, got %+v", result.Violations)
	}
}

func TestStorageConsistencyRuleFlagsForeignCategoryType(t *testing.T) {
	store := seedInconsistent(t, func(tx Transaction) error {
		category, err := tx.CreateCategory(Category{UserID: testUser, Title: "Furniture", Type: CategoryProduct})
		if err != nil {
			return err
		}
		_, err = tx.CreateWarehouse(Warehouse{
			UserID:      testUser,
			Title:       "Raw",
			StorageType: StorageMaterialType,
			CategoryIDs: []string{category.ID},
		})
		return err
	})

	result := evaluateDefaultRules(t, store)
	if !hasViolation(result, "storage_consistency") {
		t.Fatalf("expected storage_consistency violation, got %+v", result.Violations)
	}
}

func TestComponentIntegrityRuleFlagsDuplicatesAndMismatches(t *testing.T) {
	store := seedInconsistent(t, func(tx Transaction) error {
		mass, err := tx.CreateUnitGroup(UnitGroup{Title: "mass"})
		if err != nil {
			return err
		}
		volume, err := tx.CreateUnitGroup(UnitGroup{Title: "volume"})
		if err != nil {
			return err
		}
		kilo, err := tx.CreateUnit(Unit{GroupID: mass.ID, Coefficient: decimal.NewFromInt(1)})
		if err != nil {
			return err
		}
		liter, err := tx.CreateUnit(Unit{GroupID: volume.ID, Coefficient: decimal.NewFromInt(1)})
		if err != nil {
			return err
		}
		raw, err := tx.CreateWarehouse(Warehouse{UserID: testUser, Title: "Raw", StorageType: StorageMaterialType})
		if err != nil {
			return err
		}
		goods, err := tx.CreateWarehouse(Warehouse{UserID: testUser, Title: "Goods", StorageType: StorageProductType})
		if err != nil {
			return err
		}
		material, err := tx.CreateMaterial(Material{WarehouseID: raw.ID, UnitID: kilo.ID, Title: "Steel"})
		if err != nil {
			return err
		}
		product, err := tx.CreateProduct(Product{WarehouseID: goods.ID, UnitID: kilo.ID, Title: "Table"})
		if err != nil {
			return err
		}
		ref := ComponentRef{Kind: ComponentMaterial, ID: material.ID}
		// Duplicate pair, the second with a unit from a foreign group.
		if _, err := tx.CreateProductComponent(ProductComponent{ProductID: product.ID, Component: ref, Quantity: decimal.NewFromInt(1), UnitID: kilo.ID}); err != nil {
			return err
		}
		_, err = tx.CreateProductComponent(ProductComponent{ProductID: product.ID, Component: ref, Quantity: decimal.NewFromInt(2), UnitID: liter.ID})
		return err
	})

	result := evaluateDefaultRules(t, store)
	if !hasViolation(result, "component_integrity") {
		t.Fatalf("expected component_integrity violation, got %+v", result.Violations)
	}
}

func TestResourceDepreciationRuleFlagsMixedPricing(t *testing.T) {
	store := seedInconsistent(t, func(tx Transaction) error {
		group, err := tx.CreateUnitGroup(UnitGroup{Title: "mass"})
		if err != nil {
			return err
		}
		unit, err := tx.CreateUnit(Unit{GroupID: group.ID, Coefficient: decimal.NewFromInt(1)})
		if err != nil {
			return err
		}
		price := decimal.NewFromInt(10)
		_, err = tx.CreateResource(Resource{
			UserID:         testUser,
			UnitID:         unit.ID,
			Title:          "Lathe",
			IsDepreciation: true,
			Price:          &price,
		})
		return err
	})

	result := evaluateDefaultRules(t, store)
	if !hasViolation(result, "resource_depreciation") {
		t.Fatalf("expected resource_depreciation violation, got %+v", result.Violations)
	}
}

func TestDefaultRulesBlockInvalidatingCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCreateMaterial(t)

	// Flipping the category's type would leave the warehouse and the
	// material carrying a mismatched category. The service validators
	// never see this path, the commit-time rule does.
	_, _, err := f.svc.UpdateCategory(ctx, testUser, f.matCatID, CategoryInput{Title: "Metals", Type: CategoryProduct})
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if !violation.Result.HasBlocking() {
		t.Fatalf("expected blocking violations, got %+v", violation.Result)
	}

	// The category kept its original type.
	category, err := f.svc.GetCategory(ctx, testUser, f.matCatID)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if category.Type != CategoryMaterial {
		t.Fatalf("expected rollback to keep category type, got %s", category.Type)
	}
}
