package usecase

import (
	"context"
	"testing"

	"studio-booking/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestSeedDefaultsOnce(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	if err := app.catalog.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	if err := app.catalog.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults again: %v", err)
	}

	list, err := app.catalog.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list.Total != 6 {
		t.Fatalf("total = %d, want 6", list.Total)
	}
	if list.Services[0].Slug != "wedding" || list.Services[0].PriceLabel != "Starting at $1499" {
		t.Fatalf("first service: %+v", list.Services[0])
	}

	portrait, err := app.catalog.FindBySlug(ctx, "portrait")
	if err != nil || portrait.Title != "Portrait Sessions" {
		t.Fatalf("FindBySlug: %+v, %v", portrait, err)
	}
}

func TestServiceCatalogCRUD(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	req := &dto.ServiceOfferingRequest{
		Slug:          " Newborn ",
		Title:         "Newborn Sessions",
		StartingPrice: decimal.RequireFromString("249.50"),
		SortOrder:     7,
	}
	created, err := app.catalog.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Slug != "newborn" {
		t.Fatalf("slug = %q", created.Slug)
	}

	_, err = app.catalog.Create(ctx, req)
	assertErr(t, err, ErrServiceSlugExists)

	req.Title = "Newborn & Family"
	req.StartingPrice = decimal.NewFromInt(-1)
	_, err = app.catalog.Update(ctx, created.ID, req)
	assertErr(t, err, ErrInvalidPrice)

	req.StartingPrice = decimal.NewFromInt(299)
	updated, err := app.catalog.Update(ctx, created.ID, req)
	if err != nil || updated.Title != "Newborn & Family" {
		t.Fatalf("Update: %+v, %v", updated, err)
	}

	if err := app.catalog.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = app.catalog.GetByID(ctx, created.ID)
	assertErr(t, err, ErrServiceNotFound)
	assertErr(t, app.catalog.Delete(ctx, uuid.New()), ErrServiceNotFound)
}
