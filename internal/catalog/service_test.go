package catalog

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/davemtz/storefront-api/pkg/config"
	"github.com/davemtz/storefront-api/pkg/db"
	"github.com/davemtz/storefront-api/pkg/db/models"
	pkgerrors "github.com/davemtz/storefront-api/pkg/errors"
	"github.com/davemtz/storefront-api/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestService(t *testing.T) (*Service, *db.Client) {
	t.Helper()

	cfg := config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
	}
	client, err := db.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	log := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	return NewService(client, NewRepository(client.DB()), log), client
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	desc := "a fine widget"
	created, err := svc.Create(ctx, CreateProductInput{
		Name:        "Widget",
		PriceCents:  1999,
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected a generated product ID")
	}
	if created.Stock != 0 {
		t.Fatalf("expected stock to default to 0, got %d", created.Stock)
	}
	if created.Price != 19.99 {
		t.Fatalf("expected price 19.99, got %v", created.Price)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Widget" || got.Description == nil || *got.Description != desc {
		t.Fatalf("fetched product does not match created one: %+v", got)
	}
}

func TestGetMissingProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error for missing product")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestPartialUpdateLeavesOtherFieldsUntouched(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	stock := 7
	created, err := svc.Create(ctx, CreateProductInput{Name: "Widget", PriceCents: 500, Stock: &stock})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Gadget"
	updated, err := svc.Update(ctx, created.ID, UpdateProductInput{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Gadget" {
		t.Fatalf("expected name update, got %q", updated.Name)
	}
	if updated.Price != 5 || updated.Stock != 7 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	svc, _ := newTestService(t)

	name := "nope"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteProductRemovesCartItems(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	stock := 3
	created, err := svc.Create(ctx, CreateProductInput{Name: "Widget", PriceCents: 100, Stock: &stock})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	item := models.CartItem{ID: uuid.New(), ProductID: created.ID, Quantity: 2}
	if err := client.DB().Create(&item).Error; err != nil {
		t.Fatalf("seeding cart item: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.CartItem{}).Where("product_id = ?", created.ID).Count(&count).Error; err != nil {
		t.Fatalf("counting cart items: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cart items to be removed, found %d", count)
	}

	_, err = svc.Get(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}
}

func TestDeleteMissingProduct(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListProducts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	empty, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty list, got %d items", len(empty))
	}

	for _, name := range []string{"First", "Second"} {
		if _, err := svc.Create(ctx, CreateProductInput{Name: name, PriceCents: 100}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 products, got %d", len(listed))
	}
}

func TestReserveStockConditionalUpdate(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	repo := NewRepository(client.DB())

	stock := 5
	created, err := svc.Create(ctx, CreateProductInput{Name: "Widget", PriceCents: 100, Stock: &stock})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := repo.ReserveStock(ctx, created.ID, 2)
	if err != nil || !ok {
		t.Fatalf("expected reservation to succeed, ok=%v err=%v", ok, err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 3 || got.ReservedStock != 2 {
		t.Fatalf("expected stock=3 reserved=2, got stock=%d reserved=%d", got.Stock, got.ReservedStock)
	}

	// stock - reserved is 1 now, a 2-unit reservation must not apply
	ok, err = repo.ReserveStock(ctx, created.ID, 2)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if ok {
		t.Fatal("expected reservation to be refused")
	}

	if err := repo.ReleaseStock(ctx, created.ID, 2); err != nil {
		t.Fatalf("release: %v", err)
	}
	got, err = svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 5 || got.ReservedStock != 0 {
		t.Fatalf("expected restored stock, got stock=%d reserved=%d", got.Stock, got.ReservedStock)
	}
}

func TestReserveStockMissingProduct(t *testing.T) {
	_, client := newTestService(t)
	repo := NewRepository(client.DB())

	ok, err := repo.ReserveStock(context.Background(), uuid.New(), 1)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if ok {
		t.Fatal("expected reservation of a missing product to be refused")
	}

	// releasing for a missing product is a no-op, not an error
	if err := repo.ReleaseStock(context.Background(), uuid.New(), 1); err != nil {
		t.Fatalf("release: %v", err)
	}
}
