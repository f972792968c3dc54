// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"stockcore/pkg/domain"

	"github.com/shopspring/decimal"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// UnitGroup aliases domain.UnitGroup for in-memory persistence operations.
	UnitGroup = domain.UnitGroup
	// Unit aliases domain.Unit.
	Unit = domain.Unit
	// Category aliases domain.Category.
	Category = domain.Category
	// Warehouse aliases domain.Warehouse.
	Warehouse = domain.Warehouse
	// Material aliases domain.Material.
	Material = domain.Material
	// Product aliases domain.Product.
	Product = domain.Product
	// Resource aliases domain.Resource.
	Resource = domain.Resource
	// ProductComponent aliases domain.ProductComponent.
	ProductComponent = domain.ProductComponent
	// FileAttachment aliases domain.FileAttachment.
	FileAttachment = domain.FileAttachment
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore abstraction.
	PersistentStore = domain.PersistentStore
)

type memoryState struct {
	unitGroups  map[string]UnitGroup
	units       map[string]Unit
	categories  map[string]Category
	warehouses  map[string]Warehouse
	materials   map[string]Material
	products    map[string]Product
	resources   map[string]Resource
	components  map[string]ProductComponent
	attachments map[string]FileAttachment
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	UnitGroups  map[string]UnitGroup        `json:"unit_groups"`
	Units       map[string]Unit             `json:"units"`
	Categories  map[string]Category         `json:"categories"`
	Warehouses  map[string]Warehouse        `json:"warehouses"`
	Materials   map[string]Material         `json:"materials"`
	Products    map[string]Product          `json:"products"`
	Resources   map[string]Resource         `json:"resources"`
	Components  map[string]ProductComponent `json:"components"`
	Attachments map[string]FileAttachment   `json:"attachments"`
}

func newMemoryState() memoryState {
	return memoryState{
		unitGroups:  make(map[string]UnitGroup),
		units:       make(map[string]Unit),
		categories:  make(map[string]Category),
		warehouses:  make(map[string]Warehouse),
		materials:   make(map[string]Material),
		products:    make(map[string]Product),
		resources:   make(map[string]Resource),
		components:  make(map[string]ProductComponent),
		attachments: make(map[string]FileAttachment),
	}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		UnitGroups:  make(map[string]UnitGroup, len(state.unitGroups)),
		Units:       make(map[string]Unit, len(state.units)),
		Categories:  make(map[string]Category, len(state.categories)),
		Warehouses:  make(map[string]Warehouse, len(state.warehouses)),
		Materials:   make(map[string]Material, len(state.materials)),
		Products:    make(map[string]Product, len(state.products)),
		Resources:   make(map[string]Resource, len(state.resources)),
		Components:  make(map[string]ProductComponent, len(state.components)),
		Attachments: make(map[string]FileAttachment, len(state.attachments)),
	}
	for k, v := range state.unitGroups {
		s.UnitGroups[k] = cloneUnitGroup(v)
	}
	for k, v := range state.units {
		s.Units[k] = cloneUnit(v)
	}
	for k, v := range state.categories {
		s.Categories[k] = cloneCategory(v)
	}
	for k, v := range state.warehouses {
		s.Warehouses[k] = cloneWarehouse(v)
	}
	for k, v := range state.materials {
		s.Materials[k] = cloneMaterial(v)
	}
	for k, v := range state.products {
		s.Products[k] = cloneProduct(v)
	}
	for k, v := range state.resources {
		s.Resources[k] = cloneResource(v)
	}
	for k, v := range state.components {
		s.Components[k] = cloneComponent(v)
	}
	for k, v := range state.attachments {
		s.Attachments[k] = cloneAttachment(v)
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.UnitGroups {
		state.unitGroups[k] = cloneUnitGroup(v)
	}
	for k, v := range s.Units {
		state.units[k] = cloneUnit(v)
	}
	for k, v := range s.Categories {
		state.categories[k] = cloneCategory(v)
	}
	for k, v := range s.Warehouses {
		state.warehouses[k] = cloneWarehouse(v)
	}
	for k, v := range s.Materials {
		state.materials[k] = cloneMaterial(v)
	}
	for k, v := range s.Products {
		state.products[k] = cloneProduct(v)
	}
	for k, v := range s.Resources {
		state.resources[k] = cloneResource(v)
	}
	for k, v := range s.Components {
		state.components[k] = cloneComponent(v)
	}
	for k, v := range s.Attachments {
		state.attachments[k] = cloneAttachment(v)
	}
	return state
}

//nolint:gocyclo // migrateSnapshot aggregates multiple repair concerns in one pass for parity with existing snapshots.
func migrateSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.UnitGroups == nil {
		snapshot.UnitGroups = map[string]UnitGroup{}
	}
	if snapshot.Units == nil {
		snapshot.Units = map[string]Unit{}
	}
	if snapshot.Categories == nil {
		snapshot.Categories = map[string]Category{}
	}
	if snapshot.Warehouses == nil {
		snapshot.Warehouses = map[string]Warehouse{}
	}
	if snapshot.Materials == nil {
		snapshot.Materials = map[string]Material{}
	}
	if snapshot.Products == nil {
		snapshot.Products = map[string]Product{}
	}
	if snapshot.Resources == nil {
		snapshot.Resources = map[string]Resource{}
	}
	if snapshot.Components == nil {
		snapshot.Components = map[string]ProductComponent{}
	}
	if snapshot.Attachments == nil {
		snapshot.Attachments = map[string]FileAttachment{}
	}

	groupExists := func(id string) bool {
		_, ok := snapshot.UnitGroups[id]
		return ok
	}
	unitExists := func(id string) bool {
		_, ok := snapshot.Units[id]
		return ok
	}
	categoryExists := func(id string) bool {
		_, ok := snapshot.Categories[id]
		return ok
	}
	warehouseExists := func(id string) bool {
		_, ok := snapshot.Warehouses[id]
		return ok
	}

	for id, unit := range snapshot.Units {
		if unit.GroupID == "" || !groupExists(unit.GroupID) {
			delete(snapshot.Units, id)
		}
	}

	for id, warehouse := range snapshot.Warehouses {
		if !domain.ValidStorageType(warehouse.StorageType) {
			delete(snapshot.Warehouses, id)
			continue
		}
		if filtered, changed := filterIDs(warehouse.CategoryIDs, categoryExists); changed {
			warehouse.CategoryIDs = filtered
		}
		snapshot.Warehouses[id] = warehouse
	}

	for id, material := range snapshot.Materials {
		if material.WarehouseID == "" || !warehouseExists(material.WarehouseID) {
			delete(snapshot.Materials, id)
			continue
		}
		if material.UnitID == "" || !unitExists(material.UnitID) {
			delete(snapshot.Materials, id)
			continue
		}
		if filtered, changed := filterIDs(material.CategoryIDs, categoryExists); changed {
			material.CategoryIDs = filtered
		}
		snapshot.Materials[id] = material
	}

	for id, product := range snapshot.Products {
		if product.WarehouseID == "" || !warehouseExists(product.WarehouseID) {
			delete(snapshot.Products, id)
			continue
		}
		if product.UnitID == "" || !unitExists(product.UnitID) {
			delete(snapshot.Products, id)
			continue
		}
		if filtered, changed := filterIDs(product.CategoryIDs, categoryExists); changed {
			product.CategoryIDs = filtered
		}
		snapshot.Products[id] = product
	}

	for id, resource := range snapshot.Resources {
		if resource.UnitID == "" || !unitExists(resource.UnitID) {
			delete(snapshot.Resources, id)
			continue
		}
		if filtered, changed := filterIDs(resource.CategoryIDs, categoryExists); changed {
			resource.CategoryIDs = filtered
		}
		snapshot.Resources[id] = resource
	}

	for id, component := range snapshot.Components {
		if _, ok := snapshot.Products[component.ProductID]; !ok {
			delete(snapshot.Components, id)
			continue
		}
		switch component.Component.Kind {
		case domain.ComponentMaterial:
			if _, ok := snapshot.Materials[component.Component.ID]; !ok {
				delete(snapshot.Components, id)
				continue
			}
		case domain.ComponentResource:
			if _, ok := snapshot.Resources[component.Component.ID]; !ok {
				delete(snapshot.Components, id)
				continue
			}
		default:
			delete(snapshot.Components, id)
			continue
		}
		if component.UnitID == "" || !unitExists(component.UnitID) {
			delete(snapshot.Components, id)
		}
	}

	for id, attachment := range snapshot.Attachments {
		exists := false
		switch attachment.Target.Kind {
		case domain.AttachProduct:
			_, exists = snapshot.Products[attachment.Target.ID]
		case domain.AttachMaterial:
			_, exists = snapshot.Materials[attachment.Target.ID]
		case domain.AttachResource:
			_, exists = snapshot.Resources[attachment.Target.ID]
		case domain.AttachWarehouse:
			_, exists = snapshot.Warehouses[attachment.Target.ID]
		}
		if !exists {
			delete(snapshot.Attachments, id)
		}
	}

	return snapshot
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.unitGroups {
		cloned.unitGroups[k] = cloneUnitGroup(v)
	}
	for k, v := range s.units {
		cloned.units[k] = cloneUnit(v)
	}
	for k, v := range s.categories {
		cloned.categories[k] = cloneCategory(v)
	}
	for k, v := range s.warehouses {
		cloned.warehouses[k] = cloneWarehouse(v)
	}
	for k, v := range s.materials {
		cloned.materials[k] = cloneMaterial(v)
	}
	for k, v := range s.products {
		cloned.products[k] = cloneProduct(v)
	}
	for k, v := range s.resources {
		cloned.resources[k] = cloneResource(v)
	}
	for k, v := range s.components {
		cloned.components[k] = cloneComponent(v)
	}
	for k, v := range s.attachments {
		cloned.attachments[k] = cloneAttachment(v)
	}
	return cloned
}

func cloneDecimalPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}

func cloneUnitGroup(g UnitGroup) UnitGroup { return g }
func cloneUnit(u Unit) Unit                { return u }
func cloneCategory(c Category) Category    { return c }

func cloneWarehouse(w Warehouse) Warehouse {
	cp := w
	cp.CategoryIDs = append([]string(nil), w.CategoryIDs...)
	return cp
}

func cloneMaterial(m Material) Material {
	cp := m
	cp.MinRemaining = cloneDecimalPtr(m.MinRemaining)
	cp.CategoryIDs = append([]string(nil), m.CategoryIDs...)
	return cp
}

func cloneProduct(p Product) Product {
	cp := p
	cp.MinRemaining = cloneDecimalPtr(p.MinRemaining)
	cp.CategoryIDs = append([]string(nil), p.CategoryIDs...)
	return cp
}

func cloneResource(r Resource) Resource {
	cp := r
	cp.Price = cloneDecimalPtr(r.Price)
	cp.InitialPrice = cloneDecimalPtr(r.InitialPrice)
	cp.ServiceLife = cloneDecimalPtr(r.ServiceLife)
	cp.CategoryIDs = append([]string(nil), r.CategoryIDs...)
	return cp
}

func cloneComponent(c ProductComponent) ProductComponent { return c }
func cloneAttachment(a FileAttachment) FileAttachment    { return a }

func containsString(values []string, id string) bool {
	for _, existing := range values {
		if existing == id {
			return true
		}
	}
	return false
}

func filterIDs(values []string, exists func(string) bool) ([]string, bool) {
	if len(values) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	changed := false
	for _, v := range values {
		if _, ok := seen[v]; ok {
			changed = true
			continue
		}
		seen[v] = struct{}{}
		if !exists(v) {
			changed = true
			continue
		}
		out = append(out, v)
	}
	if !changed && len(out) == len(values) {
		return values, false
	}
	return out, true
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc overrides the time provider, primarily for tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

// transactionView exposes a read-only snapshot of the transactional state to rules.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// ListUnitGroups returns all unit groups within the snapshot.
func (v transactionView) ListUnitGroups() []UnitGroup {
	out := make([]UnitGroup, 0, len(v.state.unitGroups))
	for _, g := range v.state.unitGroups {
		out = append(out, cloneUnitGroup(g))
	}
	return out
}

// ListUnits returns all units within the snapshot.
func (v transactionView) ListUnits() []Unit {
	out := make([]Unit, 0, len(v.state.units))
	for _, u := range v.state.units {
		out = append(out, cloneUnit(u))
	}
	return out
}

// ListCategories returns all categories within the snapshot.
func (v transactionView) ListCategories() []Category {
	out := make([]Category, 0, len(v.state.categories))
	for _, c := range v.state.categories {
		out = append(out, cloneCategory(c))
	}
	return out
}

// ListWarehouses returns all warehouses within the snapshot.
func (v transactionView) ListWarehouses() []Warehouse {
	out := make([]Warehouse, 0, len(v.state.warehouses))
	for _, w := range v.state.warehouses {
		out = append(out, cloneWarehouse(w))
	}
	return out
}

// ListMaterials returns all materials within the snapshot.
func (v transactionView) ListMaterials() []Material {
	out := make([]Material, 0, len(v.state.materials))
	for _, m := range v.state.materials {
		out = append(out, cloneMaterial(m))
	}
	return out
}

// ListProducts returns all products within the snapshot.
func (v transactionView) ListProducts() []Product {
	out := make([]Product, 0, len(v.state.products))
	for _, p := range v.state.products {
		out = append(out, cloneProduct(p))
	}
	return out
}

// ListResources returns all resources within the snapshot.
func (v transactionView) ListResources() []Resource {
	out := make([]Resource, 0, len(v.state.resources))
	for _, r := range v.state.resources {
		out = append(out, cloneResource(r))
	}
	return out
}

// ListProductComponents returns all product components within the snapshot.
func (v transactionView) ListProductComponents() []ProductComponent {
	out := make([]ProductComponent, 0, len(v.state.components))
	for _, c := range v.state.components {
		out = append(out, cloneComponent(c))
	}
	return out
}

// ListFileAttachments returns all file attachments within the snapshot.
func (v transactionView) ListFileAttachments() []FileAttachment {
	out := make([]FileAttachment, 0, len(v.state.attachments))
	for _, a := range v.state.attachments {
		out = append(out, cloneAttachment(a))
	}
	return out
}

// FindUnitGroup retrieves a unit group by ID from the snapshot.
func (v transactionView) FindUnitGroup(id string) (UnitGroup, bool) {
	g, ok := v.state.unitGroups[id]
	if !ok {
		return UnitGroup{}, false
	}
	return cloneUnitGroup(g), true
}

// FindUnit retrieves a unit by ID from the snapshot.
func (v transactionView) FindUnit(id string) (Unit, bool) {
	u, ok := v.state.units[id]
	if !ok {
		return Unit{}, false
	}
	return cloneUnit(u), true
}

// FindCategory retrieves a category by ID from the snapshot.
func (v transactionView) FindCategory(id string) (Category, bool) {
	c, ok := v.state.categories[id]
	if !ok {
		return Category{}, false
	}
	return cloneCategory(c), true
}

// FindWarehouse retrieves a warehouse by ID from the snapshot.
func (v transactionView) FindWarehouse(id string) (Warehouse, bool) {
	w, ok := v.state.warehouses[id]
	if !ok {
		return Warehouse{}, false
	}
	return cloneWarehouse(w), true
}

// FindMaterial retrieves a material by ID from the snapshot.
func (v transactionView) FindMaterial(id string) (Material, bool) {
	m, ok := v.state.materials[id]
	if !ok {
		return Material{}, false
	}
	return cloneMaterial(m), true
}

// FindProduct retrieves a product by ID from the snapshot.
func (v transactionView) FindProduct(id string) (Product, bool) {
	p, ok := v.state.products[id]
	if !ok {
		return Product{}, false
	}
	return cloneProduct(p), true
}

// FindResource retrieves a resource by ID from the snapshot.
func (v transactionView) FindResource(id string) (Resource, bool) {
	r, ok := v.state.resources[id]
	if !ok {
		return Resource{}, false
	}
	return cloneResource(r), true
}

// FindProductComponent retrieves a product component by ID from the snapshot.
func (v transactionView) FindProductComponent(id string) (ProductComponent, bool) {
	c, ok := v.state.components[id]
	if !ok {
		return ProductComponent{}, false
	}
	return cloneComponent(c), true
}

// FindFileAttachment retrieves a file attachment by ID from the snapshot.
func (v transactionView) FindFileAttachment(id string) (FileAttachment, bool) {
	a, ok := v.state.attachments[id]
	if !ok {
		return FileAttachment{}, false
	}
	return cloneAttachment(a), true
}

// RunInTransaction executes fn within a transactional copy of the store state.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// FindUnit exposes unit lookup within the transaction scope.
func (tx *transaction) FindUnit(id string) (Unit, bool) {
	u, ok := tx.state.units[id]
	if !ok {
		return Unit{}, false
	}
	return cloneUnit(u), true
}

// FindCategory exposes category lookup within the transaction scope.
func (tx *transaction) FindCategory(id string) (Category, bool) {
	c, ok := tx.state.categories[id]
	if !ok {
		return Category{}, false
	}
	return cloneCategory(c), true
}

// FindWarehouse exposes warehouse lookup within the transaction scope.
func (tx *transaction) FindWarehouse(id string) (Warehouse, bool) {
	w, ok := tx.state.warehouses[id]
	if !ok {
		return Warehouse{}, false
	}
	return cloneWarehouse(w), true
}

// CreateUnitGroup stores a new unit group within the transaction.
func (tx *transaction) CreateUnitGroup(g UnitGroup) (UnitGroup, error) {
	if g.ID == "" {
		g.ID = tx.store.newID()
	}
	if _, exists := tx.state.unitGroups[g.ID]; exists {
		return UnitGroup{}, fmt.Errorf("unit group %q already exists", g.ID)
	}
	if g.Title == "" {
		return UnitGroup{}, errors.New("unit group requires title")
	}
	g.CreatedAt = tx.now
	g.UpdatedAt = tx.now
	tx.state.unitGroups[g.ID] = cloneUnitGroup(g)
	tx.recordChange(Change{Entity: domain.EntityUnitGroup, Action: domain.ActionCreate, After: cloneUnitGroup(g)})
	return cloneUnitGroup(g), nil
}

// UpdateUnitGroup mutates a unit group using the provided mutator function.
func (tx *transaction) UpdateUnitGroup(id string, mutator func(*UnitGroup) error) (UnitGroup, error) {
	current, ok := tx.state.unitGroups[id]
	if !ok {
		return UnitGroup{}, fmt.Errorf("unit group %q not found", id)
	}
	before := cloneUnitGroup(current)
	if err := mutator(&current); err != nil {
		return UnitGroup{}, err
	}
	if current.Title == "" {
		return UnitGroup{}, errors.New("unit group requires title")
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.unitGroups[id] = cloneUnitGroup(current)
	tx.recordChange(Change{Entity: domain.EntityUnitGroup, Action: domain.ActionUpdate, Before: before, After: cloneUnitGroup(current)})
	return cloneUnitGroup(current), nil
}

// DeleteUnitGroup removes a unit group from the transaction state.
func (tx *transaction) DeleteUnitGroup(id string) error {
	current, ok := tx.state.unitGroups[id]
	if !ok {
		return fmt.Errorf("unit group %q not found", id)
	}
	for _, unit := range tx.state.units {
		if unit.GroupID == id {
			return fmt.Errorf("unit group %q still referenced by unit %q", id, unit.ID)
		}
	}
	delete(tx.state.unitGroups, id)
	tx.recordChange(Change{Entity: domain.EntityUnitGroup, Action: domain.ActionDelete, Before: cloneUnitGroup(current)})
	return nil
}

// CreateUnit stores a new measurement unit.
func (tx *transaction) CreateUnit(u Unit) (Unit, error) {
	if u.ID == "" {
		u.ID = tx.store.newID()
	}
	if _, exists := tx.state.units[u.ID]; exists {
		return Unit{}, fmt.Errorf("unit %q already exists", u.ID)
	}
	if u.GroupID == "" {
		return Unit{}, errors.New("unit requires group id")
	}
	if _, ok := tx.state.unitGroups[u.GroupID]; !ok {
		return Unit{}, fmt.Errorf("unit group %q not found", u.GroupID)
	}
	if u.Coefficient.Sign() <= 0 {
		return Unit{}, errors.New("unit coefficient must be positive")
	}
	u.CreatedAt = tx.now
	u.UpdatedAt = tx.now
	tx.state.units[u.ID] = cloneUnit(u)
	tx.recordChange(Change{Entity: domain.EntityUnit, Action: domain.ActionCreate, After: cloneUnit(u)})
	return cloneUnit(u), nil
}

// UpdateUnit mutates an existing unit.
func (tx *transaction) UpdateUnit(id string, mutator func(*Unit) error) (Unit, error) {
	current, ok := tx.state.units[id]
	if !ok {
		return Unit{}, fmt.Errorf("unit %q not found", id)
	}
	before := cloneUnit(current)
	if err := mutator(&current); err != nil {
		return Unit{}, err
	}
	if current.GroupID == "" {
		return Unit{}, errors.New("unit requires group id")
	}
	if _, ok := tx.state.unitGroups[current.GroupID]; !ok {
		return Unit{}, fmt.Errorf("unit group %q not found", current.GroupID)
	}
	if current.Coefficient.Sign() <= 0 {
		return Unit{}, errors.New("unit coefficient must be positive")
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.units[id] = cloneUnit(current)
	tx.recordChange(Change{Entity: domain.EntityUnit, Action: domain.ActionUpdate, Before: before, After: cloneUnit(current)})
	return cloneUnit(current), nil
}

// DeleteUnit removes a unit from the transaction state.
func (tx *transaction) DeleteUnit(id string) error {
	current, ok := tx.state.units[id]
	if !ok {
		return fmt.Errorf("unit %q not found", id)
	}
	for _, material := range tx.state.materials {
		if material.UnitID == id {
			return fmt.Errorf("unit %q still referenced by material %q", id, material.ID)
		}
	}
	for _, product := range tx.state.products {
		if product.UnitID == id {
			return fmt.Errorf("unit %q still referenced by product %q", id, product.ID)
		}
	}
	for _, resource := range tx.state.resources {
		if resource.UnitID == id {
			return fmt.Errorf("unit %q still referenced by resource %q", id, resource.ID)
		}
	}
	for _, component := range tx.state.components {
		if component.UnitID == id {
			return fmt.Errorf("unit %q still referenced by product component %q", id, component.ID)
		}
	}
	delete(tx.state.units, id)
	tx.recordChange(Change{Entity: domain.EntityUnit, Action: domain.ActionDelete, Before: cloneUnit(current)})
	return nil
}

// CreateCategory stores a new category.
func (tx *transaction) CreateCategory(c Category) (Category, error) {
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.categories[c.ID]; exists {
		return Category{}, fmt.Errorf("category %q already exists", c.ID)
	}
	if c.UserID == "" {
		return Category{}, errors.New("category requires user id")
	}
	if c.Type != domain.CategoryProduct && c.Type != domain.CategoryMaterial && c.Type != domain.CategoryResource {
		return Category{}, fmt.Errorf("category type %q unknown", c.Type)
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.categories[c.ID] = cloneCategory(c)
	tx.recordChange(Change{Entity: domain.EntityCategory, Action: domain.ActionCreate, After: cloneCategory(c)})
	return cloneCategory(c), nil
}

// UpdateCategory mutates an existing category.
func (tx *transaction) UpdateCategory(id string, mutator func(*Category) error) (Category, error) {
	current, ok := tx.state.categories[id]
	if !ok {
		return Category{}, fmt.Errorf("category %q not found", id)
	}
	before := cloneCategory(current)
	if err := mutator(&current); err != nil {
		return Category{}, err
	}
	if current.UserID == "" {
		return Category{}, errors.New("category requires user id")
	}
	if current.Type != domain.CategoryProduct && current.Type != domain.CategoryMaterial && current.Type != domain.CategoryResource {
		return Category{}, fmt.Errorf("category type %q unknown", current.Type)
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.categories[id] = cloneCategory(current)
	tx.recordChange(Change{Entity: domain.EntityCategory, Action: domain.ActionUpdate, Before: before, After: cloneCategory(current)})
	return cloneCategory(current), nil
}

// DeleteCategory removes a category from the transaction state.
func (tx *transaction) DeleteCategory(id string) error {
	current, ok := tx.state.categories[id]
	if !ok {
		return fmt.Errorf("category %q not found", id)
	}
	for _, warehouse := range tx.state.warehouses {
		if containsString(warehouse.CategoryIDs, id) {
			return fmt.Errorf("category %q still referenced by warehouse %q", id, warehouse.ID)
		}
	}
	for _, material := range tx.state.materials {
		if containsString(material.CategoryIDs, id) {
			return fmt.Errorf("category %q still referenced by material %q", id, material.ID)
		}
	}
	for _, product := range tx.state.products {
		if containsString(product.CategoryIDs, id) {
			return fmt.Errorf("category %q still referenced by product %q", id, product.ID)
		}
	}
	for _, resource := range tx.state.resources {
		if containsString(resource.CategoryIDs, id) {
			return fmt.Errorf("category %q still referenced by resource %q", id, resource.ID)
		}
	}
	delete(tx.state.categories, id)
	tx.recordChange(Change{Entity: domain.EntityCategory, Action: domain.ActionDelete, Before: cloneCategory(current)})
	return nil
}

// CreateWarehouse stores a new warehouse.
func (tx *transaction) CreateWarehouse(w Warehouse) (Warehouse, error) {
	if w.ID == "" {
		w.ID = tx.store.newID()
	}
	if _, exists := tx.state.warehouses[w.ID]; exists {
		return Warehouse{}, fmt.Errorf("warehouse %q already exists", w.ID)
	}
	if w.UserID == "" {
		return Warehouse{}, errors.New("warehouse requires user id")
	}
	if !domain.ValidStorageType(w.StorageType) {
		return Warehouse{}, fmt.Errorf("storage type %q unknown", w.StorageType)
	}
	if err := tx.checkCategoryRefs(w.CategoryIDs); err != nil {
		return Warehouse{}, err
	}
	w.CreatedAt = tx.now
	w.UpdatedAt = tx.now
	tx.state.warehouses[w.ID] = cloneWarehouse(w)
	tx.recordChange(Change{Entity: domain.EntityWarehouse, Action: domain.ActionCreate, After: cloneWarehouse(w)})
	return cloneWarehouse(w), nil
}

// UpdateWarehouse mutates an existing warehouse.
func (tx *transaction) UpdateWarehouse(id string, mutator func(*Warehouse) error) (Warehouse, error) {
	current, ok := tx.state.warehouses[id]
	if !ok {
		return Warehouse{}, fmt.Errorf("warehouse %q not found", id)
	}
	before := cloneWarehouse(current)
	if err := mutator(&current); err != nil {
		return Warehouse{}, err
	}
	if current.UserID == "" {
		return Warehouse{}, errors.New("warehouse requires user id")
	}
	if !domain.ValidStorageType(current.StorageType) {
		return Warehouse{}, fmt.Errorf("storage type %q unknown", current.StorageType)
	}
	if err := tx.checkCategoryRefs(current.CategoryIDs); err != nil {
		return Warehouse{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.warehouses[id] = cloneWarehouse(current)
	tx.recordChange(Change{Entity: domain.EntityWarehouse, Action: domain.ActionUpdate, Before: before, After: cloneWarehouse(current)})
	return cloneWarehouse(current), nil
}

// DeleteWarehouse removes a warehouse from the transaction state.
func (tx *transaction) DeleteWarehouse(id string) error {
	current, ok := tx.state.warehouses[id]
	if !ok {
		return fmt.Errorf("warehouse %q not found", id)
	}
	for _, material := range tx.state.materials {
		if material.WarehouseID == id {
			return fmt.Errorf("warehouse %q still holds material %q", id, material.ID)
		}
	}
	for _, product := range tx.state.products {
		if product.WarehouseID == id {
			return fmt.Errorf("warehouse %q still holds product %q", id, product.ID)
		}
	}
	for _, attachment := range tx.state.attachments {
		if attachment.Target.Kind == domain.AttachWarehouse && attachment.Target.ID == id {
			return fmt.Errorf("warehouse %q still referenced by attachment %q", id, attachment.ID)
		}
	}
	delete(tx.state.warehouses, id)
	tx.recordChange(Change{Entity: domain.EntityWarehouse, Action: domain.ActionDelete, Before: cloneWarehouse(current)})
	return nil
}

// CreateMaterial stores a new material.
func (tx *transaction) CreateMaterial(m Material) (Material, error) {
	if m.ID == "" {
		m.ID = tx.store.newID()
	}
	if _, exists := tx.state.materials[m.ID]; exists {
		return Material{}, fmt.Errorf("material %q already exists", m.ID)
	}
	if err := tx.checkStorageRefs(m.WarehouseID, m.UnitID, m.CategoryIDs); err != nil {
		return Material{}, err
	}
	m.CreatedAt = tx.now
	m.UpdatedAt = tx.now
	tx.state.materials[m.ID] = cloneMaterial(m)
	tx.recordChange(Change{Entity: domain.EntityMaterial, Action: domain.ActionCreate, After: cloneMaterial(m)})
	return cloneMaterial(m), nil
}

// UpdateMaterial mutates an existing material.
func (tx *transaction) UpdateMaterial(id string, mutator func(*Material) error) (Material, error) {
	current, ok := tx.state.materials[id]
	if !ok {
		return Material{}, fmt.Errorf("material %q not found", id)
	}
	before := cloneMaterial(current)
	if err := mutator(&current); err != nil {
		return Material{}, err
	}
	if err := tx.checkStorageRefs(current.WarehouseID, current.UnitID, current.CategoryIDs); err != nil {
		return Material{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.materials[id] = cloneMaterial(current)
	tx.recordChange(Change{Entity: domain.EntityMaterial, Action: domain.ActionUpdate, Before: before, After: cloneMaterial(current)})
	return cloneMaterial(current), nil
}

// DeleteMaterial removes a material from the transaction state.
func (tx *transaction) DeleteMaterial(id string) error {
	current, ok := tx.state.materials[id]
	if !ok {
		return fmt.Errorf("material %q not found", id)
	}
	for _, component := range tx.state.components {
		if component.Component.Kind == domain.ComponentMaterial && component.Component.ID == id {
			return fmt.Errorf("material %q still referenced by product component %q", id, component.ID)
		}
	}
	for _, attachment := range tx.state.attachments {
		if attachment.Target.Kind == domain.AttachMaterial && attachment.Target.ID == id {
			return fmt.Errorf("material %q still referenced by attachment %q", id, attachment.ID)
		}
	}
	delete(tx.state.materials, id)
	tx.recordChange(Change{Entity: domain.EntityMaterial, Action: domain.ActionDelete, Before: cloneMaterial(current)})
	return nil
}

// CreateProduct stores a new product.
func (tx *transaction) CreateProduct(p Product) (Product, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.products[p.ID]; exists {
		return Product{}, fmt.Errorf("product %q already exists", p.ID)
	}
	if err := tx.checkStorageRefs(p.WarehouseID, p.UnitID, p.CategoryIDs); err != nil {
		return Product{}, err
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.products[p.ID] = cloneProduct(p)
	tx.recordChange(Change{Entity: domain.EntityProduct, Action: domain.ActionCreate, After: cloneProduct(p)})
	return cloneProduct(p), nil
}

// UpdateProduct mutates an existing product.
func (tx *transaction) UpdateProduct(id string, mutator func(*Product) error) (Product, error) {
	current, ok := tx.state.products[id]
	if !ok {
		return Product{}, fmt.Errorf("product %q not found", id)
	}
	before := cloneProduct(current)
	if err := mutator(&current); err != nil {
		return Product{}, err
	}
	if err := tx.checkStorageRefs(current.WarehouseID, current.UnitID, current.CategoryIDs); err != nil {
		return Product{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.products[id] = cloneProduct(current)
	tx.recordChange(Change{Entity: domain.EntityProduct, Action: domain.ActionUpdate, Before: before, After: cloneProduct(current)})
	return cloneProduct(current), nil
}

// DeleteProduct removes a product from the transaction state. Components
// referencing the product must be deleted first within the same transaction.
func (tx *transaction) DeleteProduct(id string) error {
	current, ok := tx.state.products[id]
	if !ok {
		return fmt.Errorf("product %q not found", id)
	}
	for _, component := range tx.state.components {
		if component.ProductID == id {
			return fmt.Errorf("product %q still composed of component %q", id, component.ID)
		}
	}
	for _, attachment := range tx.state.attachments {
		if attachment.Target.Kind == domain.AttachProduct && attachment.Target.ID == id {
			return fmt.Errorf("product %q still referenced by attachment %q", id, attachment.ID)
		}
	}
	delete(tx.state.products, id)
	tx.recordChange(Change{Entity: domain.EntityProduct, Action: domain.ActionDelete, Before: cloneProduct(current)})
	return nil
}

// CreateResource stores a new resource.
func (tx *transaction) CreateResource(r Resource) (Resource, error) {
	if r.ID == "" {
		r.ID = tx.store.newID()
	}
	if _, exists := tx.state.resources[r.ID]; exists {
		return Resource{}, fmt.Errorf("resource %q already exists", r.ID)
	}
	if r.UserID == "" {
		return Resource{}, errors.New("resource requires user id")
	}
	if r.UnitID == "" {
		return Resource{}, errors.New("resource requires unit id")
	}
	if _, ok := tx.state.units[r.UnitID]; !ok {
		return Resource{}, fmt.Errorf("unit %q not found", r.UnitID)
	}
	if err := tx.checkCategoryRefs(r.CategoryIDs); err != nil {
		return Resource{}, err
	}
	r.CreatedAt = tx.now
	r.UpdatedAt = tx.now
	tx.state.resources[r.ID] = cloneResource(r)
	tx.recordChange(Change{Entity: domain.EntityResource, Action: domain.ActionCreate, After: cloneResource(r)})
	return cloneResource(r), nil
}

// UpdateResource mutates an existing resource.
func (tx *transaction) UpdateResource(id string, mutator func(*Resource) error) (Resource, error) {
	current, ok := tx.state.resources[id]
	if !ok {
		return Resource{}, fmt.Errorf("resource %q not found", id)
	}
	before := cloneResource(current)
	if err := mutator(&current); err != nil {
		return Resource{}, err
	}
	if current.UserID == "" {
		return Resource{}, errors.New("resource requires user id")
	}
	if current.UnitID == "" {
		return Resource{}, errors.New("resource requires unit id")
	}
	if _, ok := tx.state.units[current.UnitID]; !ok {
		return Resource{}, fmt.Errorf("unit %q not found", current.UnitID)
	}
	if err := tx.checkCategoryRefs(current.CategoryIDs); err != nil {
		return Resource{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.resources[id] = cloneResource(current)
	tx.recordChange(Change{Entity: domain.EntityResource, Action: domain.ActionUpdate, Before: before, After: cloneResource(current)})
	return cloneResource(current), nil
}

// DeleteResource removes a resource from the transaction state.
func (tx *transaction) DeleteResource(id string) error {
	current, ok := tx.state.resources[id]
	if !ok {
		return fmt.Errorf("resource %q not found", id)
	}
	for _, component := range tx.state.components {
		if component.Component.Kind == domain.ComponentResource && component.Component.ID == id {
			return fmt.Errorf("resource %q still referenced by product component %q", id, component.ID)
		}
	}
	for _, attachment := range tx.state.attachments {
		if attachment.Target.Kind == domain.AttachResource && attachment.Target.ID == id {
			return fmt.Errorf("resource %q still referenced by attachment %q", id, attachment.ID)
		}
	}
	delete(tx.state.resources, id)
	tx.recordChange(Change{Entity: domain.EntityResource, Action: domain.ActionDelete, Before: cloneResource(current)})
	return nil
}

// CreateProductComponent stores a new product composition row.
func (tx *transaction) CreateProductComponent(c ProductComponent) (ProductComponent, error) {
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.components[c.ID]; exists {
		return ProductComponent{}, fmt.Errorf("product component %q already exists", c.ID)
	}
	if err := tx.checkComponentRefs(c); err != nil {
		return ProductComponent{}, err
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.components[c.ID] = cloneComponent(c)
	tx.recordChange(Change{Entity: domain.EntityProductComponent, Action: domain.ActionCreate, After: cloneComponent(c)})
	return cloneComponent(c), nil
}

// UpdateProductComponent mutates an existing product composition row.
func (tx *transaction) UpdateProductComponent(id string, mutator func(*ProductComponent) error) (ProductComponent, error) {
	current, ok := tx.state.components[id]
	if !ok {
		return ProductComponent{}, fmt.Errorf("product component %q not found", id)
	}
	before := cloneComponent(current)
	if err := mutator(&current); err != nil {
		return ProductComponent{}, err
	}
	if err := tx.checkComponentRefs(current); err != nil {
		return ProductComponent{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.components[id] = cloneComponent(current)
	tx.recordChange(Change{Entity: domain.EntityProductComponent, Action: domain.ActionUpdate, Before: before, After: cloneComponent(current)})
	return cloneComponent(current), nil
}

// DeleteProductComponent removes a product composition row.
func (tx *transaction) DeleteProductComponent(id string) error {
	current, ok := tx.state.components[id]
	if !ok {
		return fmt.Errorf("product component %q not found", id)
	}
	delete(tx.state.components, id)
	tx.recordChange(Change{Entity: domain.EntityProductComponent, Action: domain.ActionDelete, Before: cloneComponent(current)})
	return nil
}

// CreateFileAttachment stores a new file attachment row.
func (tx *transaction) CreateFileAttachment(a FileAttachment) (FileAttachment, error) {
	if a.ID == "" {
		a.ID = tx.store.newID()
	}
	if _, exists := tx.state.attachments[a.ID]; exists {
		return FileAttachment{}, fmt.Errorf("attachment %q already exists", a.ID)
	}
	if a.Filename == "" {
		return FileAttachment{}, errors.New("attachment requires filename")
	}
	if a.Key == "" {
		return FileAttachment{}, errors.New("attachment requires storage key")
	}
	if err := tx.checkAttachmentTarget(a.Target); err != nil {
		return FileAttachment{}, err
	}
	a.CreatedAt = tx.now
	a.UpdatedAt = tx.now
	tx.state.attachments[a.ID] = cloneAttachment(a)
	tx.recordChange(Change{Entity: domain.EntityFileAttachment, Action: domain.ActionCreate, After: cloneAttachment(a)})
	return cloneAttachment(a), nil
}

// DeleteFileAttachment removes a file attachment row.
func (tx *transaction) DeleteFileAttachment(id string) error {
	current, ok := tx.state.attachments[id]
	if !ok {
		return fmt.Errorf("attachment %q not found", id)
	}
	delete(tx.state.attachments, id)
	tx.recordChange(Change{Entity: domain.EntityFileAttachment, Action: domain.ActionDelete, Before: cloneAttachment(current)})
	return nil
}

func (tx *transaction) checkCategoryRefs(ids []string) error {
	for _, id := range ids {
		if _, ok := tx.state.categories[id]; !ok {
			return fmt.Errorf("category %q not found", id)
		}
	}
	return nil
}

func (tx *transaction) checkStorageRefs(warehouseID, unitID string, categoryIDs []string) error {
	if warehouseID == "" {
		return errors.New("storage entity requires warehouse id")
	}
	if _, ok := tx.state.warehouses[warehouseID]; !ok {
		return fmt.Errorf("warehouse %q not found", warehouseID)
	}
	if unitID == "" {
		return errors.New("storage entity requires unit id")
	}
	if _, ok := tx.state.units[unitID]; !ok {
		return fmt.Errorf("unit %q not found", unitID)
	}
	return tx.checkCategoryRefs(categoryIDs)
}

func (tx *transaction) checkComponentRefs(c ProductComponent) error {
	if c.ProductID == "" {
		return errors.New("product component requires product id")
	}
	if _, ok := tx.state.products[c.ProductID]; !ok {
		return fmt.Errorf("product %q not found", c.ProductID)
	}
	switch c.Component.Kind {
	case domain.ComponentMaterial:
		if _, ok := tx.state.materials[c.Component.ID]; !ok {
			return fmt.Errorf("material %q not found", c.Component.ID)
		}
	case domain.ComponentResource:
		if _, ok := tx.state.resources[c.Component.ID]; !ok {
			return fmt.Errorf("resource %q not found", c.Component.ID)
		}
	default:
		return fmt.Errorf("component kind %q unknown", c.Component.Kind)
	}
	if c.UnitID == "" {
		return errors.New("product component requires unit id")
	}
	if _, ok := tx.state.units[c.UnitID]; !ok {
		return fmt.Errorf("unit %q not found", c.UnitID)
	}
	return nil
}

func (tx *transaction) checkAttachmentTarget(target domain.AttachmentTarget) error {
	switch target.Kind {
	case domain.AttachProduct:
		if _, ok := tx.state.products[target.ID]; !ok {
			return fmt.Errorf("product %q not found", target.ID)
		}
	case domain.AttachMaterial:
		if _, ok := tx.state.materials[target.ID]; !ok {
			return fmt.Errorf("material %q not found", target.ID)
		}
	case domain.AttachResource:
		if _, ok := tx.state.resources[target.ID]; !ok {
			return fmt.Errorf("resource %q not found", target.ID)
		}
	case domain.AttachWarehouse:
		if _, ok := tx.state.warehouses[target.ID]; !ok {
			return fmt.Errorf("warehouse %q not found", target.ID)
		}
	default:
		return fmt.Errorf("attachment kind %q unknown", target.Kind)
	}
	return nil
}

// GetWarehouse retrieves a warehouse from committed state.
func (s *Store) GetWarehouse(id string) (Warehouse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.state.warehouses[id]
	if !ok {
		return Warehouse{}, false
	}
	return cloneWarehouse(w), true
}

// ListWarehouses returns all warehouses in committed state.
func (s *Store) ListWarehouses() []Warehouse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Warehouse, 0, len(s.state.warehouses))
	for _, w := range s.state.warehouses {
		out = append(out, cloneWarehouse(w))
	}
	return out
}

// GetMaterial retrieves a material from committed state.
func (s *Store) GetMaterial(id string) (Material, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.state.materials[id]
	if !ok {
		return Material{}, false
	}
	return cloneMaterial(m), true
}

// ListMaterials returns all materials in committed state.
func (s *Store) ListMaterials() []Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Material, 0, len(s.state.materials))
	for _, m := range s.state.materials {
		out = append(out, cloneMaterial(m))
	}
	return out
}

// GetProduct retrieves a product from committed state.
func (s *Store) GetProduct(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.products[id]
	if !ok {
		return Product{}, false
	}
	return cloneProduct(p), true
}

// ListProducts returns all products in committed state.
func (s *Store) ListProducts() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.state.products))
	for _, p := range s.state.products {
		out = append(out, cloneProduct(p))
	}
	return out
}

// GetResource retrieves a resource from committed state.
func (s *Store) GetResource(id string) (Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.state.resources[id]
	if !ok {
		return Resource{}, false
	}
	return cloneResource(r), true
}

// ListResources returns all resources in committed state.
func (s *Store) ListResources() []Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Resource, 0, len(s.state.resources))
	for _, r := range s.state.resources {
		out = append(out, cloneResource(r))
	}
	return out
}

// ListCategories returns all categories in committed state.
func (s *Store) ListCategories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Category, 0, len(s.state.categories))
	for _, c := range s.state.categories {
		out = append(out, cloneCategory(c))
	}
	return out
}

// ListUnits returns all units in committed state.
func (s *Store) ListUnits() []Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Unit, 0, len(s.state.units))
	for _, u := range s.state.units {
		out = append(out, cloneUnit(u))
	}
	return out
}

// ListUnitGroups returns all unit groups in committed state.
func (s *Store) ListUnitGroups() []UnitGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UnitGroup, 0, len(s.state.unitGroups))
	for _, g := range s.state.unitGroups {
		out = append(out, cloneUnitGroup(g))
	}
	return out
}

// ListProductComponents returns all product components in committed state.
func (s *Store) ListProductComponents() []ProductComponent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ProductComponent, 0, len(s.state.components))
	for _, c := range s.state.components {
		out = append(out, cloneComponent(c))
	}
	return out
}

// ListFileAttachments returns all file attachments in committed state.
func (s *Store) ListFileAttachments() []FileAttachment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FileAttachment, 0, len(s.state.attachments))
	for _, a := range s.state.attachments {
		out = append(out, cloneAttachment(a))
	}
	return out
}
