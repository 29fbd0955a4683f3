package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"snapbook/internal/apperr"
	"snapbook/internal/models"
)

func validServiceInput() CreateServiceInput {
	return CreateServiceInput{
		Name:            "Wedding Full Day",
		Description:     "Full day wedding coverage with two photographers",
		Price:           1500,
		DurationMinutes: 480,
		Category:        "Wedding",
	}
}

func TestCatalogCreateService(t *testing.T) {
	cs := NewCatalogService(newFakeServiceRepo())

	service, err := cs.CreateService(context.Background(), adminCaller(), validServiceInput())
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	if service.ID.IsZero() {
		t.Error("service id was not assigned")
	}
	if service.Category != models.CategoryWedding {
		t.Errorf("category = %s, want Wedding", service.Category)
	}
	if !service.IsAvailable {
		t.Error("new service should default to available")
	}
	if service.ImageURL != models.DefaultServiceImage {
		t.Errorf("image url = %q, want placeholder default", service.ImageURL)
	}
}

func TestCatalogCreateServiceRequiresAdmin(t *testing.T) {
	cs := NewCatalogService(newFakeServiceRepo())

	for _, caller := range []Caller{{}, {UserID: "some-user", Role: "user"}} {
		if _, err := cs.CreateService(context.Background(), caller, validServiceInput()); apperr.KindOf(err) != apperr.KindForbidden {
			t.Errorf("role %q: got %v, want forbidden", caller.Role, err)
		}
	}
}

func TestCatalogCreateServiceValidation(t *testing.T) {
	cs := NewCatalogService(newFakeServiceRepo())
	ctx := context.Background()
	admin := adminCaller()

	cases := map[string]func(*CreateServiceInput){
		"missing name":        func(in *CreateServiceInput) { in.Name = "" },
		"missing description": func(in *CreateServiceInput) { in.Description = "" },
		"zero price":          func(in *CreateServiceInput) { in.Price = 0 },
		"zero duration":       func(in *CreateServiceInput) { in.DurationMinutes = 0 },
		"missing category":    func(in *CreateServiceInput) { in.Category = "" },
		"unknown category":    func(in *CreateServiceInput) { in.Category = "Astrophotography" },
		"negative price":      func(in *CreateServiceInput) { in.Price = -50 },
		"tiny duration":       func(in *CreateServiceInput) { in.DurationMinutes = 5 },
	}

	for name, mutate := range cases {
		in := validServiceInput()
		mutate(&in)
		if _, err := cs.CreateService(ctx, admin, in); apperr.KindOf(err) != apperr.KindValidation {
			t.Errorf("%s: got %v, want validation error", name, err)
		}
	}
}

func TestCatalogCreateServiceDuplicateName(t *testing.T) {
	cs := NewCatalogService(newFakeServiceRepo())
	ctx := context.Background()
	admin := adminCaller()

	if _, err := cs.CreateService(ctx, admin, validServiceInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := cs.CreateService(ctx, admin, validServiceInput()); apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("duplicate name: got %v, want conflict", err)
	}
}

func TestCatalogGetServiceByID(t *testing.T) {
	repo := newFakeServiceRepo()
	cs := NewCatalogService(repo)
	ctx := context.Background()

	created, err := cs.CreateService(ctx, adminCaller(), validServiceInput())
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	got, err := cs.GetServiceByID(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("GetServiceByID: %v", err)
	}
	if got.Name != created.Name {
		t.Errorf("name = %q, want %q", got.Name, created.Name)
	}

	if _, err := cs.GetServiceByID(ctx, "not-a-hex-id"); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("malformed id: got %v, want validation error", err)
	}
	if _, err := cs.GetServiceByID(ctx, primitive.NewObjectID().Hex()); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("unknown id: got %v, want not found", err)
	}
}

func TestCatalogListServices(t *testing.T) {
	cs := NewCatalogService(newFakeServiceRepo())
	ctx := context.Background()
	admin := adminCaller()

	listed, err := cs.ListServices(ctx)
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("fresh repo listed %d services", len(listed))
	}

	in := validServiceInput()
	if _, err := cs.CreateService(ctx, admin, in); err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	in.Name = "Portrait Mini"
	in.Category = "Portrait"
	if _, err := cs.CreateService(ctx, admin, in); err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	listed, err = cs.ListServices(ctx)
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("listed %d services, want 2", len(listed))
	}
}
