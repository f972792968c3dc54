package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateUnitGroup(UnitGroup) (UnitGroup, error)
	UpdateUnitGroup(id string, mutator func(*UnitGroup) error) (UnitGroup, error)
	DeleteUnitGroup(id string) error
	CreateUnit(Unit) (Unit, error)
	UpdateUnit(id string, mutator func(*Unit) error) (Unit, error)
	DeleteUnit(id string) error
	CreateCategory(Category) (Category, error)
	UpdateCategory(id string, mutator func(*Category) error) (Category, error)
	DeleteCategory(id string) error
	CreateWarehouse(Warehouse) (Warehouse, error)
	UpdateWarehouse(id string, mutator func(*Warehouse) error) (Warehouse, error)
	DeleteWarehouse(id string) error
	CreateMaterial(Material) (Material, error)
	UpdateMaterial(id string, mutator func(*Material) error) (Material, error)
	DeleteMaterial(id string) error
	CreateProduct(Product) (Product, error)
	UpdateProduct(id string, mutator func(*Product) error) (Product, error)
	DeleteProduct(id string) error
	CreateResource(Resource) (Resource, error)
	UpdateResource(id string, mutator func(*Resource) error) (Resource, error)
	DeleteResource(id string) error
	CreateProductComponent(ProductComponent) (ProductComponent, error)
	UpdateProductComponent(id string, mutator func(*ProductComponent) error) (ProductComponent, error)
	DeleteProductComponent(id string) error
	CreateFileAttachment(FileAttachment) (FileAttachment, error)
	DeleteFileAttachment(id string) error
	FindUnit(id string) (Unit, bool)
	FindCategory(id string) (Category, bool)
	FindWarehouse(id string) (Warehouse, bool)
}

// TransactionView provides read-only access to snapshot data for rules and
// validators. It satisfies both RuleView and OwnershipView.
type TransactionView interface {
	ListUnitGroups() []UnitGroup
	ListUnits() []Unit
	ListCategories() []Category
	ListWarehouses() []Warehouse
	ListMaterials() []Material
	ListProducts() []Product
	ListResources() []Resource
	ListProductComponents() []ProductComponent
	ListFileAttachments() []FileAttachment
	FindUnitGroup(id string) (UnitGroup, bool)
	FindUnit(id string) (Unit, bool)
	FindCategory(id string) (Category, bool)
	FindWarehouse(id string) (Warehouse, bool)
	FindMaterial(id string) (Material, bool)
	FindProduct(id string) (Product, bool)
	FindResource(id string) (Resource, bool)
	FindProductComponent(id string) (ProductComponent, bool)
	FindFileAttachment(id string) (FileAttachment, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetWarehouse(id string) (Warehouse, bool)
	ListWarehouses() []Warehouse
	GetMaterial(id string) (Material, bool)
	ListMaterials() []Material
	GetProduct(id string) (Product, bool)
	ListProducts() []Product
	GetResource(id string) (Resource, bool)
	ListResources() []Resource
	ListCategories() []Category
	ListUnits() []Unit
	ListUnitGroups() []UnitGroup
	ListProductComponents() []ProductComponent
	ListFileAttachments() []FileAttachment
}
