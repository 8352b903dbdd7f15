package service

import (
	"context"
	"log"
	"strings"

	dom "github.com/mrgear111/GROW/internal/domain"
	"github.com/mrgear111/GROW/internal/repo"
	"github.com/mrgear111/GROW/internal/utils"
)

// CategoryService handles category listing, creation and first-run seeding.
type CategoryService struct {
	repo repo.CategoryRepo
}

// NewCategoryService returns a new CategoryService.
func NewCategoryService(repo repo.CategoryRepo) *CategoryService {
	return &CategoryService{repo: repo}
}

// List returns all categories, ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]dom.Category, error) {
	return s.repo.List(ctx)
}

// Create adds a new category. Duplicate names are rejected.
func (s *CategoryService) Create(ctx context.Context, name, color string) (dom.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dom.Category{}, newValidationError("name", "category name is required")
	}
	c, err := s.repo.Create(ctx, name, strings.TrimSpace(color))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.Category{}, ErrCategoryExists
		}
		return dom.Category{}, err
	}
	return c, nil
}

// SeedDefaults inserts the default category set, but only when the
// collection is completely empty. Safe to call on every startup.
func (s *CategoryService) SeedDefaults(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := s.repo.SeedDefaults(ctx, dom.DefaultCategories); err != nil {
		return err
	}
	log.Printf("seeded %d default categories", len(dom.DefaultCategories))
	return nil
}
