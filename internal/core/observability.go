package core

import (
	"context"
	"time"

	"stockcore/pkg/domain"
)

// Clock supplies the timestamps stamped onto audit entries.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface. A nil function
// falls back to the current UTC time.
type ClockFunc func() time.Time

// Now returns the clock's current time in UTC.
func (f ClockFunc) Now() time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f().UTC()
}

// AuditStatus reports the outcome recorded on an audit entry.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one completed service operation.
type AuditEntry struct {
	Operation string
	Entity    EntityType
	Action    Action
	EntityID  string
	Status    AuditStatus
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives audit entries for completed operations.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

// MetricsRecorder observes per-operation timing and outcome.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

// TraceSpan terminates a span started by a Tracer.
type TraceSpan interface {
	End(err error)
}

// Tracer opens a span per service operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

type noopTracer struct{}

type noopSpan struct{}

func (noopSpan) End(error) {}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type operationMetadata struct {
	Entity EntityType
	Action Action
}

// auditOperations maps service operation names to the entity and action
// recorded on their audit entries. Operations absent from the map are
// not audited.
var auditOperations = map[string]operationMetadata{
	"create_unit_group": {Entity: EntityUnitGroup, Action: ActionCreate},
	"update_unit_group": {Entity: EntityUnitGroup, Action: ActionUpdate},
	"delete_unit_group": {Entity: EntityUnitGroup, Action: ActionDelete},
	"create_unit":       {Entity: EntityUnit, Action: ActionCreate},
	"update_unit":       {Entity: EntityUnit, Action: ActionUpdate},
	"delete_unit":       {Entity: EntityUnit, Action: ActionDelete},
	"create_category":   {Entity: EntityCategory, Action: ActionCreate},
	"update_category":   {Entity: EntityCategory, Action: ActionUpdate},
	"delete_category":   {Entity: EntityCategory, Action: ActionDelete},
	"create_warehouse":  {Entity: EntityWarehouse, Action: ActionCreate},
	"update_warehouse":  {Entity: EntityWarehouse, Action: ActionUpdate},
	"delete_warehouse":  {Entity: EntityWarehouse, Action: ActionDelete},
	"create_material":   {Entity: EntityMaterial, Action: ActionCreate},
	"update_material":   {Entity: EntityMaterial, Action: ActionUpdate},
	"delete_material":   {Entity: EntityMaterial, Action: ActionDelete},
	"create_resource":   {Entity: EntityResource, Action: ActionCreate},
	"update_resource":   {Entity: EntityResource, Action: ActionUpdate},
	"delete_resource":   {Entity: EntityResource, Action: ActionDelete},
	"create_product":    {Entity: EntityProduct, Action: ActionCreate},
	"update_product":    {Entity: EntityProduct, Action: ActionUpdate},
	"delete_product":    {Entity: EntityProduct, Action: ActionDelete},
	"create_component":  {Entity: EntityProductComponent, Action: ActionCreate},
	"update_component":  {Entity: EntityProductComponent, Action: ActionUpdate},
	"delete_component":  {Entity: EntityProductComponent, Action: ActionDelete},
	"create_attachment": {Entity: EntityFileAttachment, Action: ActionCreate},
	"delete_attachment": {Entity: EntityFileAttachment, Action: ActionDelete},
}

func (s *Service) recordAudit(ctx context.Context, operation, entityID string, status AuditStatus, duration time.Duration) {
	meta, ok := auditOperations[operation]
	if !ok {
		return
	}
	s.audit.Record(ctx, AuditEntry{
		Operation: operation,
		Entity:    meta.Entity,
		Action:    meta.Action,
		EntityID:  entityID,
		Status:    status,
		Duration:  duration,
		Timestamp: s.nowFn(),
	})
}

func (s *Service) recordAuditSuccess(ctx context.Context, operation, entityID string, duration time.Duration) {
	s.recordAudit(ctx, operation, entityID, AuditStatusSuccess, duration)
}

func (s *Service) recordAuditError(ctx context.Context, operation, entityID string, duration time.Duration) {
	s.recordAudit(ctx, operation, entityID, AuditStatusError, duration)
}

// extractRulesEngine returns the engine of stores exposing one, nil
// otherwise.
func extractRulesEngine(store PersistentStore) *domain.RulesEngine {
	type engineProvider interface {
		RulesEngine() *domain.RulesEngine
	}
	if provider, ok := store.(engineProvider); ok {
		return provider.RulesEngine()
	}
	return nil
}

// selectNowFunc picks the service time source: an explicitly configured
// clock wins, then the store's own time source so audit timestamps line
// up with persisted records, then wall-clock UTC.
func selectNowFunc(store PersistentStore, clock Clock) func() time.Time {
	if clock != nil {
		return clock.Now
	}
	type nowProvider interface {
		NowFunc() func() time.Time
	}
	if provider, ok := store.(nowProvider); ok {
		if fn := provider.NowFunc(); fn != nil {
			return fn
		}
	}
	return func() time.Time { return time.Now().UTC() }
}
