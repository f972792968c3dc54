package memory_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"stockcore/internal/infra/persistence/memory"
	"stockcore/pkg/domain"

	"github.com/shopspring/decimal"
)

type storeIDs struct {
	groupID      string
	unitID       string
	categoryID   string
	warehouseID  string
	productWhID  string
	materialID   string
	productID    string
	resourceID   string
	componentID  string
	attachmentID string
}

func TestMemoryStoreCRUDAndQueries(t *testing.T) {
	store := memory.NewStore(nil)

	ids := seedMemoryStore(t, store)
	verifyMemoryStorePostCreate(t, store, ids)
	exerciseMemoryUpdates(t, store, ids)
	exerciseMemoryDeletes(t, store, ids)
	verifyMemoryStorePostDelete(t, store)
}

func seedMemoryStore(t *testing.T, store *memory.Store) storeIDs {
	t.Helper()
	ctx := context.Background()

	var ids storeIDs
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		groupVal, err := tx.CreateUnitGroup(domain.UnitGroup{Title: "mass"})
		group := must(t, groupVal, err)
		ids.groupID = group.ID

		if _, err := tx.CreateUnit(domain.Unit{GroupID: ids.groupID, Coefficient: decimal.Zero}); err == nil {
			return fmt.Errorf("expected coefficient validation error")
		}
		if _, err := tx.CreateUnit(domain.Unit{GroupID: "missing-group", Coefficient: decimal.NewFromInt(1)}); err == nil {
			return fmt.Errorf("expected missing group error")
		}

		unitVal, err := tx.CreateUnit(domain.Unit{GroupID: ids.groupID, Coefficient: decimal.NewFromInt(1)})
		unit := must(t, unitVal, err)
		ids.unitID = unit.ID

		foundUnit, ok := tx.FindUnit(ids.unitID)
		requireFound(t, foundUnit, ok, "expected to find unit")
		if foundUnit.GroupID != ids.groupID {
			t.Fatalf("unexpected unit returned from lookup")
		}
		_, ok = tx.FindUnit("missing-unit")
		requireMissing(t, ok, "unexpected unit lookup success")

		categoryVal, err := tx.CreateCategory(domain.Category{UserID: "user-1", Title: "metals", Type: domain.CategoryMaterial})
		category := must(t, categoryVal, err)
		ids.categoryID = category.ID

		if _, err := tx.CreateCategory(domain.Category{UserID: "user-1", Title: "bogus", Type: "storage_rack"}); err == nil {
			return fmt.Errorf("expected category type error")
		}

		warehouseVal, err := tx.CreateWarehouse(domain.Warehouse{
			UserID:      "user-1",
			Title:       "Raw stock",
			StorageType: domain.StorageMaterialType,
			CategoryIDs: []string{ids.categoryID},
		})
		warehouse := must(t, warehouseVal, err)
		ids.warehouseID = warehouse.ID

		productWhVal, err := tx.CreateWarehouse(domain.Warehouse{
			UserID:      "user-1",
			Title:       "Finished goods",
			StorageType: domain.StorageProductType,
		})
		productWh := must(t, productWhVal, err)
		ids.productWhID = productWh.ID

		foundWarehouse, ok := tx.FindWarehouse(ids.warehouseID)
		requireFound(t, foundWarehouse, ok, "expected to find warehouse")
		if foundWarehouse.StorageType != domain.StorageMaterialType {
			t.Fatalf("unexpected warehouse storage type")
		}

		if _, err := tx.CreateMaterial(domain.Material{WarehouseID: "missing", UnitID: ids.unitID, Title: "Copper"}); err == nil {
			return fmt.Errorf("expected missing warehouse error")
		}

		materialVal, err := tx.CreateMaterial(domain.Material{
			WarehouseID: ids.warehouseID,
			UnitID:      ids.unitID,
			Title:       "Copper wire",
			SKU:         "CU-01",
			Price:       decimal.NewFromInt(12),
			Remaining:   decimal.NewFromInt(40),
			CategoryIDs: []string{ids.categoryID},
		})
		material := must(t, materialVal, err)
		ids.materialID = material.ID

		productVal, err := tx.CreateProduct(domain.Product{
			WarehouseID: ids.productWhID,
			UnitID:      ids.unitID,
			Title:       "Cable",
			SKU:         "CB-01",
			Price:       decimal.NewFromInt(99),
		})
		product := must(t, productVal, err)
		ids.productID = product.ID

		price := decimal.NewFromInt(500)
		resourceVal, err := tx.CreateResource(domain.Resource{
			UserID: "user-1",
			UnitID: ids.unitID,
			Title:  "Crimping machine",
			Price:  &price,
		})
		resource := must(t, resourceVal, err)
		ids.resourceID = resource.ID

		if _, err := tx.CreateProductComponent(domain.ProductComponent{
			ProductID: ids.productID,
			Component: domain.ComponentRef{Kind: "gadget", ID: ids.materialID},
			Quantity:  decimal.NewFromInt(1),
			UnitID:    ids.unitID,
		}); err == nil {
			return fmt.Errorf("expected component kind error")
		}

		componentVal, err := tx.CreateProductComponent(domain.ProductComponent{
			ProductID: ids.productID,
			Component: domain.ComponentRef{Kind: domain.ComponentMaterial, ID: ids.materialID},
			Quantity:  decimal.NewFromInt(3),
			UnitID:    ids.unitID,
		})
		component := must(t, componentVal, err)
		ids.componentID = component.ID

		attachmentVal, err := tx.CreateFileAttachment(domain.FileAttachment{
			Target:   domain.AttachmentTarget{Kind: domain.AttachProduct, ID: ids.productID},
			Filename: "datasheet.pdf",
			Key:      "attachments/product/x/2026/01/02/datasheet.pdf",
			Size:     128,
		})
		attachment := must(t, attachmentVal, err)
		ids.attachmentID = attachment.ID

		if _, err := tx.CreateFileAttachment(domain.FileAttachment{
			Target:   domain.AttachmentTarget{Kind: domain.AttachResource, ID: "missing"},
			Filename: "photo.png",
			Key:      "attachments/resource/missing/photo.png",
		}); err == nil {
			return fmt.Errorf("expected missing attachment target error")
		}
		return nil
	}); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return ids
}

func verifyMemoryStorePostCreate(t *testing.T, store *memory.Store, ids storeIDs) {
	t.Helper()

	requireLen(t, store.ListUnitGroups(), 1, "unit groups")
	requireLen(t, store.ListUnits(), 1, "units")
	requireLen(t, store.ListCategories(), 1, "categories")
	requireLen(t, store.ListWarehouses(), 2, "warehouses")
	requireLen(t, store.ListMaterials(), 1, "materials")
	requireLen(t, store.ListProducts(), 1, "products")
	requireLen(t, store.ListResources(), 1, "resources")
	requireLen(t, store.ListProductComponents(), 1, "components")
	requireLen(t, store.ListFileAttachments(), 1, "attachments")

	material, ok := store.GetMaterial(ids.materialID)
	requireFound(t, material, ok, "expected material")
	if material.Title != "Copper wire" || !material.Remaining.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected material state: %+v", material)
	}
	if _, ok := store.GetWarehouse("missing"); ok {
		t.Fatalf("unexpected warehouse lookup success")
	}

	if err := store.View(context.Background(), func(view domain.TransactionView) error {
		if _, ok := view.FindProductComponent(ids.componentID); !ok {
			return fmt.Errorf("component missing from view")
		}
		if _, ok := view.FindFileAttachment(ids.attachmentID); !ok {
			return fmt.Errorf("attachment missing from view")
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func exerciseMemoryUpdates(t *testing.T, store *memory.Store, ids storeIDs) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.UpdateMaterial(ids.materialID, func(m *domain.Material) error {
			m.Remaining = decimal.NewFromInt(35)
			return nil
		}); err != nil {
			return err
		}
		if _, err := tx.UpdateProductComponent(ids.componentID, func(c *domain.ProductComponent) error {
			c.Quantity = decimal.NewFromInt(5)
			return nil
		}); err != nil {
			return err
		}
		min := decimal.NewFromInt(10)
		_, err := tx.UpdateProduct(ids.productID, func(p *domain.Product) error {
			p.MinRemaining = &min
			return nil
		})
		return err
	}); err != nil {
		t.Fatalf("update transaction: %v", err)
	}

	material := mustGetMaterial(store, ids.materialID)
	if !material.Remaining.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("material remaining not updated: %s", material.Remaining)
	}

	// Mutator errors roll the record back untouched.
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateMaterial(ids.materialID, func(m *domain.Material) error {
			m.Remaining = decimal.NewFromInt(-1)
			return fmt.Errorf("rejected")
		})
		return err
	}); err == nil || !strings.Contains(err.Error(), "rejected") {
		t.Fatalf("expected mutator error, got %v", err)
	}
	material = mustGetMaterial(store, ids.materialID)
	if !material.Remaining.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("material mutated despite rollback: %s", material.Remaining)
	}
}

func exerciseMemoryDeletes(t *testing.T, store *memory.Store, ids storeIDs) {
	t.Helper()
	ctx := context.Background()

	// Referential guards refuse deletes while dependents remain.
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteMaterial(ids.materialID)
	}); err == nil || !strings.Contains(err.Error(), "still referenced") {
		t.Fatalf("expected material delete guard, got %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteWarehouse(ids.warehouseID)
	}); err == nil || !strings.Contains(err.Error(), "still holds") {
		t.Fatalf("expected warehouse delete guard, got %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteUnitGroup(ids.groupID)
	}); err == nil || !strings.Contains(err.Error(), "still referenced") {
		t.Fatalf("expected unit group delete guard, got %v", err)
	}

	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if err := tx.DeleteFileAttachment(ids.attachmentID); err != nil {
			return err
		}
		if err := tx.DeleteProductComponent(ids.componentID); err != nil {
			return err
		}
		if err := tx.DeleteProduct(ids.productID); err != nil {
			return err
		}
		if err := tx.DeleteMaterial(ids.materialID); err != nil {
			return err
		}
		if err := tx.DeleteResource(ids.resourceID); err != nil {
			return err
		}
		if err := tx.DeleteWarehouse(ids.warehouseID); err != nil {
			return err
		}
		if err := tx.DeleteWarehouse(ids.productWhID); err != nil {
			return err
		}
		if err := tx.DeleteCategory(ids.categoryID); err != nil {
			return err
		}
		if err := tx.DeleteUnit(ids.unitID); err != nil {
			return err
		}
		return tx.DeleteUnitGroup(ids.groupID)
	}); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
}

func verifyMemoryStorePostDelete(t *testing.T, store *memory.Store) {
	t.Helper()
	requireLen(t, store.ListUnitGroups(), 0, "unit groups")
	requireLen(t, store.ListWarehouses(), 0, "warehouses")
	requireLen(t, store.ListMaterials(), 0, "materials")
	requireLen(t, store.ListProducts(), 0, "products")
	requireLen(t, store.ListProductComponents(), 0, "components")
	requireLen(t, store.ListFileAttachments(), 0, "attachments")
}

func TestMemoryStoreBlockingRuleRollsBack(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(staticRule{name: "always-block", severity: domain.SeverityBlock})
	store := memory.NewStore(engine)

	res, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateUnitGroup(domain.UnitGroup{Title: "volume"})
		return err
	})
	if err == nil {
		t.Fatalf("expected rule violation error")
	}
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected RuleViolationError, got %T", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking result")
	}
	requireLen(t, store.ListUnitGroups(), 0, "unit groups after rollback")
}

func TestMemoryStoreSnapshotRoundTrip(t *testing.T) {
	store := memory.NewStore(nil)
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return fixed })

	ids := seedMemoryStore(t, store)

	snapshot := store.ExportState()
	restored := memory.NewStore(nil)
	restored.ImportState(snapshot)

	material, ok := restored.GetMaterial(ids.materialID)
	requireFound(t, material, ok, "expected material after import")
	if !material.CreatedAt.Equal(fixed) {
		t.Fatalf("expected creation time %v, got %v", fixed, material.CreatedAt)
	}
	requireLen(t, restored.ListProductComponents(), 1, "components after import")
}

func TestMemoryStoreSnapshotMigrationDropsBrokenRefs(t *testing.T) {
	store := memory.NewStore(nil)
	ids := seedMemoryStore(t, store)

	snapshot := store.ExportState()
	delete(snapshot.Products, ids.productID)

	restored := memory.NewStore(nil)
	restored.ImportState(snapshot)

	requireLen(t, restored.ListProductComponents(), 0, "components referencing the dropped product")
	requireLen(t, restored.ListFileAttachments(), 0, "attachments referencing the dropped product")
	requireLen(t, restored.ListMaterials(), 1, "materials survive migration")
}

type staticRule struct {
	name     string
	severity domain.Severity
}

func (r staticRule) Name() string { return r.name }

func (r staticRule) Evaluate(_ context.Context, _ domain.RuleView, _ []domain.Change) (domain.Result, error) {
	return domain.Result{Violations: []domain.Violation{{Rule: r.name, Severity: r.severity}}}, nil
}

func mustGetMaterial(store *memory.Store, id string) domain.Material {
	m, _ := store.GetMaterial(id)
	return m
}

func must[T any](t *testing.T, value T, err error) T {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return value
}

func requireFound[T any](t *testing.T, value T, ok bool, msg string) T {
	t.Helper()
	if !ok {
		t.Fatal(msg)
	}
	return value
}

func requireMissing(t *testing.T, ok bool, msg string) {
	t.Helper()
	if ok {
		t.Fatal(msg)
	}
}

func requireLen[T any](t *testing.T, items []T, expected int, msg string) {
	t.Helper()
	if len(items) != expected {
		t.Fatalf("%s: expected %d, got %d", msg, expected, len(items))
	}
}
