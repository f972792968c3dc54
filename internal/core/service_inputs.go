package core

import "github.com/shopspring/decimal"

// UnitGroupInput carries the writable fields of a unit group.
type UnitGroupInput struct {
	Title string
}

// UnitInput carries the writable fields of a measurement unit.
type UnitInput struct {
	GroupID     string
	Coefficient decimal.Decimal
}

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Title string
	Type  CategoryType
}

// WarehouseInput carries the writable fields of a warehouse.
type WarehouseInput struct {
	Title       string
	StorageType StorageType
	CategoryIDs []string
}

// StorageEntityInput holds the fields shared by materials and products.
type StorageEntityInput struct {
	WarehouseID  string
	UnitID       string
	Title        string
	SKU          string
	Notes        string
	Price        decimal.Decimal
	Remaining    decimal.Decimal
	MinRemaining *decimal.Decimal
	CategoryIDs  []string
}

// MaterialInput carries the writable fields of a material.
type MaterialInput struct {
	StorageEntityInput
}

// ComponentInput carries one component entry of a product. ID is set
// when the entry addresses an existing component row.
type ComponentInput struct {
	ID        string
	Component ComponentRef
	Quantity  decimal.Decimal
	UnitID    string
}

// ProductInput carries the writable fields of a product together with
// its ordered component specifications.
type ProductInput struct {
	StorageEntityInput
	Components []ComponentInput
}

// ResourceInput carries the writable fields of a resource.
type ResourceInput struct {
	UnitID         string
	Title          string
	Notes          string
	IsDepreciation bool
	Price          *decimal.Decimal
	InitialPrice   *decimal.Decimal
	ServiceLife    *decimal.Decimal
	CategoryIDs    []string
}

// normalize clears the pricing fields excluded by the depreciation flag
// so that validation only has to check presence. It returns a new value
// and leaves the receiver untouched.
func (in ResourceInput) normalize() ResourceInput {
	if in.IsDepreciation {
		in.Price = nil
	} else {
		in.InitialPrice = nil
		in.ServiceLife = nil
	}
	return in
}

// AttachmentInput describes a file to attach to an entity.
type AttachmentInput struct {
	Target      AttachmentTarget
	Filename    string
	ContentType string
}
