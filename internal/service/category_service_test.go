package service

import (
	"context"
	"errors"
	"testing"

	dom "github.com/mrgear111/GROW/internal/domain"
)

func TestSeedDefaultsIdempotent(t *testing.T) {
	repo := newMemCategoryRepo()
	svc := NewCategoryService(repo)
	ctx := context.Background()

	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != len(dom.DefaultCategories) {
		t.Fatalf("category count = %d, want %d", len(list), len(dom.DefaultCategories))
	}
	seen := make(map[string]int)
	for _, c := range list {
		seen[c.Name]++
	}
	for _, want := range dom.DefaultCategories {
		if seen[want.Name] != 1 {
			t.Fatalf("category %q seeded %d times", want.Name, seen[want.Name])
		}
	}
}

func TestSeedDefaultsSkippedWhenNotEmpty(t *testing.T) {
	repo := newMemCategoryRepo()
	svc := NewCategoryService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Custom", "#123456"); err != nil {
		t.Fatal(err)
	}
	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatal(err)
	}
	list, _ := svc.List(ctx)
	if len(list) != 1 {
		t.Fatalf("seed ran over a non-empty collection: %d categories", len(list))
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	svc := NewCategoryService(newMemCategoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "   ", "#ffffff")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	c, err := svc.Create(ctx, "  Errands  ", " #abcdef ")
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Errands" || c.Color != "#abcdef" {
		t.Fatalf("got %q/%q", c.Name, c.Color)
	}
}
