package core

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"stockcore/pkg/domain"
)

func (f *fixture) productInput(components ...ComponentInput) ProductInput {
	return ProductInput{
		StorageEntityInput: StorageEntityInput{
			WarehouseID: f.productWh,
			UnitID:      f.unitID,
			Title:       "Table",
			SKU:         "TB-01",
			Price:       decimal.NewFromInt(200),
			Remaining:   decimal.NewFromInt(5),
			CategoryIDs: []string{f.prodCatID},
		},
		Components: components,
	}
}

func materialRef(id string) ComponentRef {
	return ComponentRef{Kind: ComponentMaterial, ID: id}
}

func requireComponentErrors(t *testing.T, err error, indexes ...int) domain.ComponentErrors {
	t.Helper()
	var aggregate domain.ComponentValidationError
	if !errors.As(err, &aggregate) {
		t.Fatalf("expected aggregated component errors, got %v", err)
	}
	if len(aggregate.Components) != len(indexes) {
		t.Fatalf("expected errors at %v, got %v", indexes, aggregate.Components)
	}
	for _, i := range indexes {
		if _, ok := aggregate.Components[i]; !ok {
			t.Fatalf("expected error at index %d, got %v", i, aggregate.Components)
		}
	}
	return aggregate.Components
}

func TestProductAggregateCreateCollectsPerIndexErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.mustCreateMaterial(t)

	in := f.productInput(
		ComponentInput{Component: materialRef(material.ID), Quantity: decimal.NewFromInt(2), UnitID: f.unitID},
		ComponentInput{Component: materialRef(material.ID), Quantity: decimal.NewFromInt(-1), UnitID: f.unitID},
		ComponentInput{Component: materialRef(material.ID), Quantity: decimal.NewFromInt(3), UnitID: f.unitID},
	)
	_, _, err := f.svc.CreateProduct(ctx, testUser, in)
	componentErrs := requireComponentErrors(t, err, 1, 2)
	if _, ok := componentErrs[1]["quantity"]; !ok {
		t.Fatalf("expected quantity error at index 1, got %v", componentErrs[1])
	}
	if _, ok := componentErrs[2]["object_id"]; !ok {
		t.Fatalf("expected duplicate error at index 2, got %v", componentErrs[2])
	}

	// The aggregate rolled back: no product and no component row
	// survived, including the valid one at index 0.
	if got := len(f.svc.ListProducts(ctx, testUser)); got != 0 {
		t.Fatalf("expected no products after rollback, got %d", got)
	}
	if got := len(f.svc.Store().ListProductComponents()); got != 0 {
		t.Fatalf("expected no components after rollback, got %d", got)
	}
}

func TestDuplicateComponentSecondCallFailsFirstRowSurvives(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.mustCreateMaterial(t)

	product, _, err := f.svc.CreateProduct(ctx, testUser, f.productInput(
		ComponentInput{Component: materialRef(material.ID), Quantity: decimal.NewFromInt(2), UnitID: f.unitID},
	))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	_, _, err = f.svc.CreateComponent(ctx, testUser, product.ID, ComponentInput{
		Component: materialRef(material.ID),
		Quantity:  decimal.NewFromInt(4),
		UnitID:    f.unitID,
	})
	requireFieldError(t, err, "object_id")

	components, err := f.svc.ListComponents(ctx, testUser, product.ID)
	if err != nil {
		t.Fatalf("list components: %v", err)
	}
	if len(components) != 1 {
		t.Fatalf("expected first component row to survive, got %d rows", len(components))
	}
	if !components[0].Quantity.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected first row unaffected, got quantity %s", components[0].Quantity)
	}
}

func TestComponentUnitGroupMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.mustCreateMaterial(t)

	volume, _, err := f.svc.CreateUnitGroup(ctx, UnitGroupInput{Title: "volume"})
	if err != nil {
		t.Fatalf("create unit group: %v", err)
	}
	liter, _, err := f.svc.CreateUnit(ctx, UnitInput{GroupID: volume.ID, Coefficient: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}

	// A unit from a foreign group fails regardless of quantity validity.
	_, _, err = f.svc.CreateProduct(ctx, testUser, f.productInput(
		ComponentInput{Component: materialRef(material.ID), Quantity: decimal.NewFromInt(1), UnitID: liter.ID},
	))
	componentErrs := requireComponentErrors(t, err, 0)
	if _, ok := componentErrs[0]["unit"]; !ok {
		t.Fatalf("expected unit error, got %v", componentErrs[0])
	}
}

func TestComponentForeignTargetRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	price := decimal.NewFromInt(10)
	foreign, _, err := f.svc.CreateResource(ctx, otherUser, ResourceInput{
		UnitID: f.unitID,
		Title:  "Their drill",
		Price:  &price,
	})
	if err != nil {
		t.Fatalf("create foreign resource: %v", err)
	}

	_, _, err = f.svc.CreateProduct(ctx, testUser, f.productInput(
		ComponentInput{
			Component: ComponentRef{Kind: ComponentResource, ID: foreign.ID},
			Quantity:  decimal.NewFromInt(1),
			UnitID:    f.unitID,
		},
	))
	componentErrs := requireComponentErrors(t, err, 0)
	if _, ok := componentErrs[0]["content_type"]; !ok {
		t.Fatalf("expected ownership error, got %v", componentErrs[0])
	}
}

func TestProductUpdateRollsBackEntirely(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.mustCreateMaterial(t)

	product, _, err := f.svc.CreateProduct(ctx, testUser, f.productInput(
		ComponentInput{Component: materialRef(material.ID), Quantity: decimal.NewFromInt(5), UnitID: f.unitID},
	))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	components, err := f.svc.ListComponents(ctx, testUser, product.ID)
	if err != nil {
		t.Fatalf("list components: %v", err)
	}

	// One valid update spec and one duplicate insert spec: both are
	// processed, the aggregated error rolls back the whole transaction.
	in := f.productInput(
		ComponentInput{ID: components[0].ID, Component: materialRef(material.ID), Quantity: decimal.NewFromInt(7), UnitID: f.unitID},
		ComponentInput{Component: materialRef(material.ID), Quantity: decimal.NewFromInt(1), UnitID: f.unitID},
	)
	in.Title = "Renamed table"
	_, _, err = f.svc.UpdateProduct(ctx, testUser, product.ID, in)
	requireComponentErrors(t, err, 1)

	after, err := f.svc.GetProduct(ctx, testUser, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if after.Title != "Table" {
		t.Fatalf("expected title unchanged after rollback, got %q", after.Title)
	}
	components, err = f.svc.ListComponents(ctx, testUser, product.ID)
	if err != nil {
		t.Fatalf("list components: %v", err)
	}
	if len(components) != 1 || !components[0].Quantity.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected component quantity unchanged after rollback, got %v", components)
	}
}

func TestProductUpdateIsAdditiveOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.mustCreateMaterial(t)

	product, _, err := f.svc.CreateProduct(ctx, testUser, f.productInput(
		ComponentInput{Component: materialRef(material.ID), Quantity: decimal.NewFromInt(5), UnitID: f.unitID},
	))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	// Components omitted from the incoming list stay in place.
	in := f.productInput()
	in.Title = "Renamed table"
	updated, _, err := f.svc.UpdateProduct(ctx, testUser, product.ID, in)
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Title != "Renamed table" {
		t.Fatalf("expected overwritten title, got %q", updated.Title)
	}
	components, err := f.svc.ListComponents(ctx, testUser, product.ID)
	if err != nil {
		t.Fatalf("list components: %v", err)
	}
	if len(components) != 1 {
		t.Fatalf("expected omitted component to survive, got %d rows", len(components))
	}
}

func TestProductUpdateRoutesSpecsByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.mustCreateMaterial(t)
	resource := f.mustCreateResource(t)

	product, _, err := f.svc.CreateProduct(ctx, testUser, f.productInput(
		ComponentInput{Component: materialRef(material.ID), Quantity: decimal.NewFromInt(5), UnitID: f.unitID},
	))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	components, err := f.svc.ListComponents(ctx, testUser, product.ID)
	if err != nil {
		t.Fatalf("list components: %v", err)
	}

	in := f.productInput(
		ComponentInput{ID: components[0].ID, Component: materialRef(material.ID), Quantity: decimal.NewFromInt(7), UnitID: f.unitID},
		ComponentInput{Component: ComponentRef{Kind: ComponentResource, ID: resource.ID}, Quantity: decimal.NewFromInt(1), UnitID: f.unitID},
	)
	if _, _, err := f.svc.UpdateProduct(ctx, testUser, product.ID, in); err != nil {
		t.Fatalf("update product: %v", err)
	}

	components, err = f.svc.ListComponents(ctx, testUser, product.ID)
	if err != nil {
		t.Fatalf("list components: %v", err)
	}
	if len(components) != 2 {
		t.Fatalf("expected one updated and one inserted component, got %d", len(components))
	}
	byID := make(map[string]ProductComponent, len(components))
	for _, component := range components {
		byID[component.ID] = component
	}
	if got := byID[componentsID(components, materialRef(material.ID))].Quantity; !got.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected updated quantity 7, got %s", got)
	}
}

func componentsID(components []ProductComponent, ref ComponentRef) string {
	for _, component := range components {
		if component.Component == ref {
			return component.ID
		}
	}
	return ""
}

func TestProductDeleteCascadesComponents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.mustCreateMaterial(t)

	product, _, err := f.svc.CreateProduct(ctx, testUser, f.productInput(
		ComponentInput{Component: materialRef(material.ID), Quantity: decimal.NewFromInt(5), UnitID: f.unitID},
	))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if _, err := f.svc.DeleteProduct(ctx, testUser, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if got := len(f.svc.Store().ListProductComponents()); got != 0 {
		t.Fatalf("expected components cascaded, got %d rows", got)
	}
	// The referenced material is released with the components gone.
	if _, err := f.svc.DeleteMaterial(ctx, testUser, material.ID); err != nil {
		t.Fatalf("delete material after cascade: %v", err)
	}
}
