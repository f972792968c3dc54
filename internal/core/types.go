package core

import "stockcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	CategoryType       = domain.CategoryType
	StorageType        = domain.StorageType
	ComponentKind      = domain.ComponentKind
	AttachmentKind     = domain.AttachmentKind
	Severity           = domain.Severity
	Base               = domain.Base
	UnitGroup          = domain.UnitGroup
	Unit               = domain.Unit
	Category           = domain.Category
	Warehouse          = domain.Warehouse
	Material           = domain.Material
	Product            = domain.Product
	Resource           = domain.Resource
	ComponentRef       = domain.ComponentRef
	ProductComponent   = domain.ProductComponent
	AttachmentTarget   = domain.AttachmentTarget
	FileAttachment     = domain.FileAttachment
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
)

const (
	EntityCategory         = domain.EntityCategory
	EntityWarehouse        = domain.EntityWarehouse
	EntityMaterial         = domain.EntityMaterial
	EntityProduct          = domain.EntityProduct
	EntityResource         = domain.EntityResource
	EntityProductComponent = domain.EntityProductComponent
	EntityUnit             = domain.EntityUnit
	EntityUnitGroup        = domain.EntityUnitGroup
	EntityFileAttachment   = domain.EntityFileAttachment
)

const (
	CategoryProduct  = domain.CategoryProduct
	CategoryMaterial = domain.CategoryMaterial
	CategoryResource = domain.CategoryResource
)

const (
	StorageMaterialType = domain.StorageMaterialType
	StorageProductType  = domain.StorageProductType
)

const (
	ComponentMaterial = domain.ComponentMaterial
	ComponentResource = domain.ComponentResource
)

const (
	AttachProduct   = domain.AttachProduct
	AttachMaterial  = domain.AttachMaterial
	AttachResource  = domain.AttachResource
	AttachWarehouse = domain.AttachWarehouse
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
