package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/davemtz/storefront-api/internal/catalog"
	pkgerrors "github.com/davemtz/storefront-api/pkg/errors"
)

type stubProductService struct {
	product *catalog.ProductDTO
	list    []catalog.ProductDTO
	err     error

	createInput *catalog.CreateProductInput
	updateInput *catalog.UpdateProductInput
	deletedID   uuid.UUID
}

func (s *stubProductService) Create(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	s.createInput = &input
	return s.product, s.err
}

func (s *stubProductService) Get(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) List(ctx context.Context) ([]catalog.ProductDTO, error) {
	return s.list, s.err
}

func (s *stubProductService) Update(ctx context.Context, id uuid.UUID, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	s.updateInput = &input
	return s.product, s.err
}

func (s *stubProductService) Delete(ctx context.Context, id uuid.UUID) error {
	s.deletedID = id
	return s.err
}

func productRouter(svc ProductService) http.Handler {
	r := chi.NewRouter()
	r.Get("/products", ListProducts(svc, nil))
	r.Post("/products", CreateProduct(svc, nil))
	r.Get("/products/{productId}", GetProduct(svc, nil))
	r.Put("/products/{productId}", UpdateProduct(svc, nil))
	r.Delete("/products/{productId}", DeleteProduct(svc, nil))
	return r
}

func TestCreateProductSuccess(t *testing.T) {
	dto := &catalog.ProductDTO{ID: uuid.New(), Name: "Widget", Price: 19.99}
	svc := &stubProductService{product: dto}

	body := `{"name":"Widget","price":19.99,"stock":5}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createInput == nil {
		t.Fatal("expected service to receive create input")
	}
	if svc.createInput.PriceCents != 1999 {
		t.Fatalf("expected price converted to 1999 cents, got %d", svc.createInput.PriceCents)
	}
	if svc.createInput.Stock == nil || *svc.createInput.Stock != 5 {
		t.Fatalf("expected stock 5, got %v", svc.createInput.Stock)
	}

	var envelope struct {
		Data catalog.ProductDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != dto.ID {
		t.Fatalf("unexpected product id %s", envelope.Data.ID)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := &stubProductService{}

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"price":1}`))
	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if svc.createInput != nil {
		t.Fatal("service must not be called on validation failure")
	}
}

func TestCreateProductRejectsUnknownFields(t *testing.T) {
	svc := &stubProductService{}

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"x","price":1,"bogus":true}`))
	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "Product not found by ID")}

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestGetProductInvalidID(t *testing.T) {
	svc := &stubProductService{}

	req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestUpdateProductPartialBody(t *testing.T) {
	dto := &catalog.ProductDTO{ID: uuid.New(), Name: "Gadget"}
	svc := &stubProductService{product: dto}

	req := httptest.NewRequest(http.MethodPut, "/products/"+dto.ID.String(), strings.NewReader(`{"name":"Gadget"}`))
	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.updateInput == nil || svc.updateInput.Name == nil || *svc.updateInput.Name != "Gadget" {
		t.Fatalf("expected name in update input, got %+v", svc.updateInput)
	}
	if svc.updateInput.PriceCents != nil || svc.updateInput.Stock != nil {
		t.Fatalf("absent fields must stay nil, got %+v", svc.updateInput)
	}
}

func TestDeleteProductNoContent(t *testing.T) {
	id := uuid.New()
	svc := &stubProductService{}

	req := httptest.NewRequest(http.MethodDelete, "/products/"+id.String(), nil)
	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if svc.deletedID != id {
		t.Fatalf("expected delete with id %s, got %s", id, svc.deletedID)
	}
}
