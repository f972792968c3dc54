// Package core implements the transactional inventory services: owner
// scoped CRUD for warehouses, storage entities, resources, categories
// and measurement units, the product aggregate with per-index component
// error collection, and file attachments backed by blob storage.
package core

import (
	"context"
	"time"

	"stockcore/internal/blob"
	"stockcore/internal/infra/persistence/memory"
	"stockcore/pkg/domain"
)

// Service exposes higher-level transactional operations for the
// inventory schema. Every mutation runs inside exactly one store
// transaction; validation failures roll back all of its writes.
type Service struct {
	store   PersistentStore
	blobs   blob.Store
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	clock   Clock
	nowFn   func() time.Time
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		audit:   noopAuditRecorder{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.nowFn = selectNowFunc(store, s.clock)
	return s
}

// NewInMemoryService creates a service and in-memory store with the given rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// RulesEngine returns the engine of the underlying store, nil when the
// store does not expose one.
func (s *Service) RulesEngine() *domain.RulesEngine {
	return extractRulesEngine(s.store)
}

// begin opens a span for the operation and returns the callback that
// closes it, feeding the tracer, metrics, audit trail and logger.
func (s *Service) begin(ctx context.Context, operation string) (context.Context, func(entityID string, err error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, operation)
	return ctx, func(entityID string, err error) {
		duration := time.Since(start)
		span.End(err)
		s.metrics.Observe(ctx, operation, err == nil, duration)
		if err != nil {
			s.recordAuditError(ctx, operation, entityID, duration)
			s.logger.Error(operation+" failed", "entity_id", entityID, "error", err)
			return
		}
		s.recordAuditSuccess(ctx, operation, entityID, duration)
		s.logger.Debug(operation+" completed", "entity_id", entityID)
	}
}

// GetWarehouse returns the warehouse when it belongs to the user.
func (s *Service) GetWarehouse(_ context.Context, userID, id string) (Warehouse, error) {
	warehouse, ok := s.store.GetWarehouse(id)
	if !ok || warehouse.UserID != userID {
		return Warehouse{}, domain.NotFoundError{Entity: EntityWarehouse, ID: id}
	}
	return warehouse, nil
}

// ListWarehouses returns the user's warehouses.
func (s *Service) ListWarehouses(_ context.Context, userID string) []Warehouse {
	all := s.store.ListWarehouses()
	out := make([]Warehouse, 0, len(all))
	for _, warehouse := range all {
		if warehouse.UserID == userID {
			out = append(out, warehouse)
		}
	}
	return out
}

// GetMaterial returns the material when it belongs to the user.
func (s *Service) GetMaterial(ctx context.Context, userID, id string) (Material, error) {
	var material Material
	err := s.store.View(ctx, func(view TransactionView) error {
		m, ok := view.FindMaterial(id)
		if !ok || !domain.BelongsToUser(view, m, userID) {
			return domain.NotFoundError{Entity: EntityMaterial, ID: id}
		}
		material = m
		return nil
	})
	return material, err
}

// ListMaterials returns the user's materials across all warehouses.
func (s *Service) ListMaterials(ctx context.Context, userID string) []Material {
	var out []Material
	_ = s.store.View(ctx, func(view TransactionView) error {
		for _, material := range view.ListMaterials() {
			if domain.BelongsToUser(view, material, userID) {
				out = append(out, material)
			}
		}
		return nil
	})
	return out
}

// GetProduct returns the product when it belongs to the user.
func (s *Service) GetProduct(ctx context.Context, userID, id string) (Product, error) {
	var product Product
	err := s.store.View(ctx, func(view TransactionView) error {
		p, ok := view.FindProduct(id)
		if !ok || !domain.BelongsToUser(view, p, userID) {
			return domain.NotFoundError{Entity: EntityProduct, ID: id}
		}
		product = p
		return nil
	})
	return product, err
}

// ListProducts returns the user's products across all warehouses.
func (s *Service) ListProducts(ctx context.Context, userID string) []Product {
	var out []Product
	_ = s.store.View(ctx, func(view TransactionView) error {
		for _, product := range view.ListProducts() {
			if domain.BelongsToUser(view, product, userID) {
				out = append(out, product)
			}
		}
		return nil
	})
	return out
}

// GetResource returns the resource when it belongs to the user.
func (s *Service) GetResource(_ context.Context, userID, id string) (Resource, error) {
	resource, ok := s.store.GetResource(id)
	if !ok || resource.UserID != userID {
		return Resource{}, domain.NotFoundError{Entity: EntityResource, ID: id}
	}
	return resource, nil
}

// ListResources returns the user's resources.
func (s *Service) ListResources(_ context.Context, userID string) []Resource {
	all := s.store.ListResources()
	out := make([]Resource, 0, len(all))
	for _, resource := range all {
		if resource.UserID == userID {
			out = append(out, resource)
		}
	}
	return out
}

// ListComponents returns the components of a product the user owns.
func (s *Service) ListComponents(ctx context.Context, userID, productID string) ([]ProductComponent, error) {
	var out []ProductComponent
	err := s.store.View(ctx, func(view TransactionView) error {
		product, ok := view.FindProduct(productID)
		if !ok || !domain.BelongsToUser(view, product, userID) {
			return domain.NotFoundError{Entity: EntityProduct, ID: productID}
		}
		for _, component := range view.ListProductComponents() {
			if component.ProductID == productID {
				out = append(out, component)
			}
		}
		return nil
	})
	return out, err
}

// ListUnitGroups returns all unit groups. Units are shared read-only
// reference data, not scoped per user.
func (s *Service) ListUnitGroups(context.Context) []UnitGroup {
	return s.store.ListUnitGroups()
}

// ListUnits returns all units.
func (s *Service) ListUnits(context.Context) []Unit {
	return s.store.ListUnits()
}

// GetCategory returns the category when it belongs to the user.
func (s *Service) GetCategory(ctx context.Context, userID, id string) (Category, error) {
	var category Category
	err := s.store.View(ctx, func(view TransactionView) error {
		c, ok := view.FindCategory(id)
		if !ok || c.UserID != userID {
			return domain.NotFoundError{Entity: EntityCategory, ID: id}
		}
		category = c
		return nil
	})
	return category, err
}

// ListCategories returns the user's categories.
func (s *Service) ListCategories(_ context.Context, userID string) []Category {
	all := s.store.ListCategories()
	out := make([]Category, 0, len(all))
	for _, category := range all {
		if category.UserID == userID {
			out = append(out, category)
		}
	}
	return out
}
