// Package domain defines the persistent entities, value types, and
// rule evaluation primitives used by stockcore.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityCategory identifies a user-defined category record.
	EntityCategory EntityType = "category"
	// EntityWarehouse identifies a warehouse record.
	EntityWarehouse EntityType = "warehouse"
	// EntityMaterial identifies a material record.
	EntityMaterial EntityType = "material"
	// EntityProduct identifies a product record.
	EntityProduct EntityType = "product"
	// EntityResource identifies a resource record.
	EntityResource EntityType = "resource"
	// EntityProductComponent identifies a product composition row.
	EntityProductComponent EntityType = "product_component"
	// EntityUnit identifies a measurement unit record.
	EntityUnit EntityType = "unit"
	// EntityUnitGroup identifies a measurement unit group record.
	EntityUnitGroup EntityType = "unit_group"
	// EntityFileAttachment identifies a file attachment record.
	EntityFileAttachment EntityType = "file_attachment"
)

// CategoryType partitions categories by the entity kind they label.
type CategoryType string

// Category types mirror the entity kinds a category may be attached to.
const (
	CategoryProduct  CategoryType = "product"
	CategoryMaterial CategoryType = "material"
	CategoryResource CategoryType = "resource"
)

// StorageType declares which storage entity kind a warehouse holds.
type StorageType string

// A warehouse stores either materials or products, never both.
const (
	StorageMaterialType StorageType = "material"
	StorageProductType  StorageType = "product"
)

// ComponentKind tags the target variant of a product component reference.
type ComponentKind string

// Product components reference either a material or a resource.
const (
	ComponentMaterial ComponentKind = "material"
	ComponentResource ComponentKind = "resource"
)

// AttachmentKind tags the target variant of a file attachment.
type AttachmentKind string

// Entity kinds that accept file attachments.
const (
	AttachProduct   AttachmentKind = "product"
	AttachMaterial  AttachmentKind = "material"
	AttachResource  AttachmentKind = "resource"
	AttachWarehouse AttachmentKind = "warehouse"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitGroup is a family of measurement units convertible to one another.
type UnitGroup struct {
	Base
	Title string `json:"title"`
}

// Unit is a measurement unit with a conversion coefficient relative to
// its group's base. Only group equality is consulted by validation; no
// arithmetic conversion happens in this core.
type Unit struct {
	Base
	GroupID     string          `json:"group_id"`
	Coefficient decimal.Decimal `json:"coefficient"`
}

// Category is a user-owned label applied to warehouses, storage
// entities, and resources. Referencing entities never mutate it.
type Category struct {
	Base
	UserID string       `json:"user_id"`
	Title  string       `json:"title"`
	Type   CategoryType `json:"category_type"`
}

// Warehouse holds storage entities of a single kind for one user.
// Every assigned category's type must be the warehouse's storage type
// or resource.
type Warehouse struct {
	Base
	UserID      string      `json:"user_id"`
	Title       string      `json:"title"`
	StorageType StorageType `json:"storage_type"`
	CategoryIDs []string    `json:"category_ids"`
}

// Material is a storage entity held by a material warehouse.
type Material struct {
	Base
	WarehouseID  string           `json:"warehouse_id"`
	UnitID       string           `json:"unit_id"`
	Title        string           `json:"title"`
	SKU          string           `json:"sku"`
	Notes        string           `json:"notes"`
	Price        decimal.Decimal  `json:"price"`
	Remaining    decimal.Decimal  `json:"remaining"`
	MinRemaining *decimal.Decimal `json:"min_remaining"`
	CategoryIDs  []string         `json:"category_ids"`
}

// Product is a storage entity held by a product warehouse, composed of
// material and resource components.
type Product struct {
	Base
	WarehouseID  string           `json:"warehouse_id"`
	UnitID       string           `json:"unit_id"`
	Title        string           `json:"title"`
	SKU          string           `json:"sku"`
	Notes        string           `json:"notes"`
	Price        decimal.Decimal  `json:"price"`
	Remaining    decimal.Decimal  `json:"remaining"`
	MinRemaining *decimal.Decimal `json:"min_remaining"`
	CategoryIDs  []string         `json:"category_ids"`
}

// Resource is a user-owned asset consumed in product composition.
// Exactly one pricing mode holds: flat price, or depreciation
// accounting via initial price and service life.
type Resource struct {
	Base
	UserID         string           `json:"user_id"`
	UnitID         string           `json:"unit_id"`
	Title          string           `json:"title"`
	Notes          string           `json:"notes"`
	IsDepreciation bool             `json:"is_depreciation"`
	Price          *decimal.Decimal `json:"price"`
	InitialPrice   *decimal.Decimal `json:"initial_price"`
	ServiceLife    *decimal.Decimal `json:"service_life"`
	CategoryIDs    []string         `json:"category_ids"`
}

// ComponentRef is a tagged reference to a product component target.
type ComponentRef struct {
	Kind ComponentKind `json:"kind"`
	ID   string        `json:"id"`
}

// ProductComponent links a product to one material or resource with a
// quantity in a unit compatible with the target's unit group. The
// (product, component) pair is unique per product.
type ProductComponent struct {
	Base
	ProductID string          `json:"product_id"`
	Component ComponentRef    `json:"component"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitID    string          `json:"unit_id"`
}

// AttachmentTarget is a tagged reference to the entity a file is
// attached to.
type AttachmentTarget struct {
	Kind AttachmentKind `json:"kind"`
	ID   string         `json:"id"`
}

// FileAttachment records a stored file and the entity it belongs to.
// The bytes themselves live in blob storage under Key.
type FileAttachment struct {
	Base
	Target      AttachmentTarget `json:"target"`
	Filename    string           `json:"filename"`
	Key         string           `json:"key"`
	Size        int64            `json:"size_bytes"`
	ContentType string           `json:"content_type,omitempty"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}

// ValidStorageType reports whether v names a known storage type.
func ValidStorageType(v StorageType) bool {
	return v == StorageMaterialType || v == StorageProductType
}

// ValidComponentKind reports whether v names a known component kind.
func ValidComponentKind(v ComponentKind) bool {
	return v == ComponentMaterial || v == ComponentResource
}

// ValidAttachmentKind reports whether v names a known attachment kind.
func ValidAttachmentKind(v AttachmentKind) bool {
	switch v {
	case AttachProduct, AttachMaterial, AttachResource, AttachWarehouse:
		return true
	}
	return false
}
