package service

import (
	"context"
	"sort"
	"time"

	dom "github.com/mrgear111/GROW/internal/domain"
	"github.com/mrgear111/GROW/internal/repo"

	"github.com/jackc/pgx/v5"
)

// In-memory repo fakes. They mirror the Postgres adapters' observable
// behavior, including pgx.ErrNoRows for missing rows.

type memTaskRepo struct {
	nextID int64
	now    time.Time
	tasks  map[int64]dom.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{
		now:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		tasks: make(map[int64]dom.Task),
	}
}

func (r *memTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.nextID++
	r.now = r.now.Add(time.Second)
	t.ID = r.nextID
	t.CreatedAt = r.now
	t.UpdatedAt = r.now
	r.tasks[t.ID] = t
	return t, nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id int64) (dom.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *memTaskRepo) List(_ context.Context, f repo.TaskFilter) ([]dom.Task, error) {
	var list []dom.Task
	for _, t := range r.tasks {
		if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		day := t.CreatedAt.UTC().Format("2006-01-02")
		if f.DateField != "created" {
			if t.DueDate == nil {
				day = ""
			} else {
				day = *t.DueDate
			}
		}
		if f.Date != nil && day != *f.Date {
			continue
		}
		if f.StartDate != nil && (day == "" || day < *f.StartDate) {
			continue
		}
		if f.EndDate != nil && (day == "" || day > *f.EndDate) {
			continue
		}
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *memTaskRepo) Update(_ context.Context, id int64, t dom.Task) (dom.Task, error) {
	existing, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	r.now = r.now.Add(time.Second)
	t.ID = id
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = r.now
	r.tasks[id] = t
	return t, nil
}

func (r *memTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) UpdateCategoryFields(_ context.Context, id int64, name, color string) error {
	t, ok := r.tasks[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.CategoryName = name
	t.CategoryColor = color
	r.tasks[id] = t
	return nil
}

type memCategoryRepo struct {
	nextID     int64
	categories map[int64]dom.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[int64]dom.Category)}
}

func (r *memCategoryRepo) List(_ context.Context) ([]dom.Category, error) {
	var list []dom.Category
	for _, c := range r.categories {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, id int64) (dom.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return dom.Category{}, pgx.ErrNoRows
	}
	return c, nil
}

func (r *memCategoryRepo) Create(_ context.Context, name, color string) (dom.Category, error) {
	r.nextID++
	c := dom.Category{ID: r.nextID, Name: name, Color: color}
	r.categories[c.ID] = c
	return c, nil
}

func (r *memCategoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.categories)), nil
}

func (r *memCategoryRepo) SeedDefaults(ctx context.Context, categories []dom.Category) error {
	for _, c := range categories {
		exists := false
		for _, have := range r.categories {
			if have.Name == c.Name {
				exists = true
				break
			}
		}
		if !exists {
			if _, err := r.Create(ctx, c.Name, c.Color); err != nil {
				return err
			}
		}
	}
	return nil
}
