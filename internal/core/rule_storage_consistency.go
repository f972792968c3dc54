package core

import (
	"context"
	"fmt"

	"stockcore/pkg/domain"
)

// NewStorageConsistencyRule returns the default in-transaction rule enforcing
// warehouse and storage entity consistency: storage entities sit in a
// warehouse of their own kind, and every assigned category matches the
// holder's type and, for storage entities, the warehouse's category set.
func NewStorageConsistencyRule() domain.Rule {
	return storageConsistencyRule{}
}

type storageConsistencyRule struct{}

func (storageConsistencyRule) Name() string { return "storage_consistency" }

func (storageConsistencyRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	block := func(entity domain.EntityType, id, msg string) {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "storage_consistency",
			Severity: domain.SeverityBlock,
			Message:  msg,
			Entity:   entity,
			EntityID: id,
		})
	}

	for _, warehouse := range view.ListWarehouses() {
		allowed := categoryTypeForStorage(warehouse.StorageType)
		for _, catID := range warehouse.CategoryIDs {
			cat, ok := view.FindCategory(catID)
			if !ok {
				block(domain.EntityWarehouse, warehouse.ID, fmt.Sprintf("warehouse %s references missing category %s", warehouse.ID, catID))
				continue
			}
			if cat.Type != allowed && cat.Type != domain.CategoryResource {
				block(domain.EntityWarehouse, warehouse.ID, fmt.Sprintf("warehouse %s (%s) carries category %s of type %s", warehouse.Title, warehouse.ID, cat.Title, cat.Type))
			}
		}
	}

	for _, material := range view.ListMaterials() {
		checkStorageEntity(view, block, domain.EntityMaterial, material.ID, material.Title, material.WarehouseID, material.CategoryIDs, domain.StorageMaterialType, domain.CategoryMaterial)
	}
	for _, product := range view.ListProducts() {
		checkStorageEntity(view, block, domain.EntityProduct, product.ID, product.Title, product.WarehouseID, product.CategoryIDs, domain.StorageProductType, domain.CategoryProduct)
	}
	return res, nil
}

func checkStorageEntity(view domain.RuleView, block func(domain.EntityType, string, string), entity domain.EntityType, id, title, warehouseID string, categoryIDs []string, wantStorage domain.StorageType, wantCategory domain.CategoryType) {
	warehouse, ok := view.FindWarehouse(warehouseID)
	if !ok {
		block(entity, id, fmt.Sprintf("%s %s references missing warehouse %s", entity, id, warehouseID))
		return
	}
	if warehouse.StorageType != wantStorage {
		block(entity, id, fmt.Sprintf("%s %s (%s) held in %s warehouse %s", entity, title, id, warehouse.StorageType, warehouse.ID))
	}
	held := make(map[string]struct{}, len(warehouse.CategoryIDs))
	for _, catID := range warehouse.CategoryIDs {
		held[catID] = struct{}{}
	}
	for _, catID := range categoryIDs {
		cat, ok := view.FindCategory(catID)
		if !ok {
			block(entity, id, fmt.Sprintf("%s %s references missing category %s", entity, id, catID))
			continue
		}
		if cat.Type != wantCategory {
			block(entity, id, fmt.Sprintf("%s %s (%s) carries category %s of type %s", entity, title, id, cat.Title, cat.Type))
		}
		if _, ok := held[catID]; !ok {
			block(entity, id, fmt.Sprintf("%s %s (%s) carries category %s not held by warehouse %s", entity, title, id, cat.Title, warehouse.ID))
		}
	}
}
