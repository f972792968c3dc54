package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"stockcore/pkg/domain"

	"github.com/shopspring/decimal"
)

func TestSQLiteStorePersistAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	var warehouseID string
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		warehouse, e := tx.CreateWarehouse(domain.Warehouse{
			UserID:      "user-1",
			Title:       "Persist",
			StorageType: domain.StorageMaterialType,
		})
		warehouseID = warehouse.ID
		return e
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	if got := len(reloaded.ListWarehouses()); got != 1 {
		t.Fatalf("expected 1 warehouse, got %d", got)
	}
	if _, ok := reloaded.GetWarehouse(warehouseID); !ok {
		t.Fatalf("expected warehouse %s after reload", warehouseID)
	}
}

func TestSQLiteStoreSnapshotsEveryBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		group, e := tx.CreateUnitGroup(domain.UnitGroup{Title: "mass"})
		if e != nil {
			return e
		}
		_, e = tx.CreateUnit(domain.Unit{GroupID: group.ID, Coefficient: decimal.NewFromInt(1)})
		return e
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count buckets: %v", err)
	}
	if count != len(sqliteBuckets) {
		t.Fatalf("expected %d buckets, got %d", len(sqliteBuckets), count)
	}
}

func TestSQLiteStoreBlockingRuleSkipsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	engine := domain.NewRulesEngine()
	engine.Register(blockAllRule{})
	store, err := NewStore(path, engine)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, e := tx.CreateUnitGroup(domain.UnitGroup{Title: "volume"})
		return e
	}); err == nil {
		t.Fatalf("expected rule violation error")
	}

	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count buckets: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no snapshot after blocked transaction, got %d buckets", count)
	}
}

type blockAllRule struct{}

func (blockAllRule) Name() string { return "block-all" }

func (blockAllRule) Evaluate(_ context.Context, _ domain.RuleView, _ []domain.Change) (domain.Result, error) {
	return domain.Result{Violations: []domain.Violation{{Rule: "block-all", Severity: domain.SeverityBlock}}}, nil
}
