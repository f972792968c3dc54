package core

import (
	"fmt"
	"sort"
	"strings"

	"stockcore/pkg/domain"
)

func categoryTypeForStorage(storageType StorageType) CategoryType {
	if storageType == StorageProductType {
		return CategoryProduct
	}
	return CategoryMaterial
}

// resolveCategories loads the referenced categories from the acting
// user's scope, deduplicating ids. Ids that resolve to no row, or to a
// row owned by another user, fail together on the categories field.
func resolveCategories(view TransactionView, userID string, ids []string) ([]Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	categories := make([]Category, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	var missing []string
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		category, ok := view.FindCategory(id)
		if !ok || category.UserID != userID {
			missing = append(missing, id)
			continue
		}
		categories = append(categories, category)
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError("categories", "category not found: "+strings.Join(missing, ", "))
	}
	return categories, nil
}

// validateCategoryType fails listing by title every category whose type
// differs from the required one. An empty candidate set is valid.
func validateCategoryType(categories []Category, required CategoryType) error {
	var offending []string
	for _, category := range categories {
		if category.Type != required {
			offending = append(offending, category.Title)
		}
	}
	if len(offending) > 0 {
		return domain.NewValidationError("categories", fmt.Sprintf("categories %s are not of type %s", strings.Join(offending, ", "), required))
	}
	return nil
}

// validateWarehouseCategoryTypes checks a warehouse's own category set:
// every category must match the warehouse storage type or be a resource
// category.
func validateWarehouseCategoryTypes(categories []Category, storageType StorageType) error {
	allowed := categoryTypeForStorage(storageType)
	var offending []string
	for _, category := range categories {
		if category.Type != allowed && category.Type != CategoryResource {
			offending = append(offending, category.Title)
		}
	}
	if len(offending) > 0 {
		return domain.NewValidationError("categories", fmt.Sprintf("categories %s are not allowed in a %s warehouse", strings.Join(offending, ", "), storageType))
	}
	return nil
}

// validateWarehouseMembership fails listing by title every candidate
// category the warehouse does not hold.
func validateWarehouseMembership(warehouse Warehouse, categories []Category) error {
	held := make(map[string]struct{}, len(warehouse.CategoryIDs))
	for _, id := range warehouse.CategoryIDs {
		held[id] = struct{}{}
	}
	var offending []string
	for _, category := range categories {
		if _, ok := held[category.ID]; !ok {
			offending = append(offending, category.Title)
		}
	}
	if len(offending) > 0 {
		return domain.NewValidationError("categories", fmt.Sprintf("categories %s do not belong to warehouse %s", strings.Join(offending, ", "), warehouse.Title))
	}
	return nil
}

// validateUserCategories fails listing by title every candidate category
// not owned by the user. Used for resources, which have no warehouse.
func validateUserCategories(categories []Category, userID string) error {
	var offending []string
	for _, category := range categories {
		if category.UserID != userID {
			offending = append(offending, category.Title)
		}
	}
	if len(offending) > 0 {
		return domain.NewValidationError("categories", fmt.Sprintf("categories %s do not belong to user", strings.Join(offending, ", ")))
	}
	return nil
}

// dedupeIDs returns the ids with duplicates removed, sorted for stable
// persistence of category sets.
func dedupeIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
