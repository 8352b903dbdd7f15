package service

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mrgear111/GROW/internal/cache"
	dom "github.com/mrgear111/GROW/internal/domain"
	"github.com/mrgear111/GROW/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

// dueTimeRe validates 24-hour "HH:MM" times, with or without a leading zero.
var dueTimeRe = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

const dayLayout = "2006-01-02"

// NewTaskInput is the raw, untrusted input for creating a task.
type NewTaskInput struct {
	Title      string
	CategoryID *int64
	Priority   string
	DueDate    string
	DueTime    string
}

// TaskPatch is a partial update. The Set flags distinguish "leave alone"
// from "clear" for the nullable fields.
type TaskPatch struct {
	Title     *string
	Completed *bool
	Priority  *string

	CategoryID    *int64
	CategoryIDSet bool

	DueDate    *string
	DueDateSet bool

	DueTime    *string
	DueTimeSet bool
}

// Empty reports whether the patch carries no fields at all.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil && p.Priority == nil &&
		!p.CategoryIDSet && !p.DueDateSet && !p.DueTimeSet
}

// TaskService validates and normalizes task input, enriches tasks with
// category display fields and orders result sets.
type TaskService struct {
	tasks      repo.TaskRepo
	categories repo.CategoryRepo
	cache      *cache.TaskCache
	sf         singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(tasks repo.TaskRepo, categories repo.CategoryRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{tasks: tasks, categories: categories, cache: c}
}

// NormalizeNew validates raw input and produces an unpersisted task.
// Empty titles are rejected; priority is clamped to low/medium/high;
// an unparseable due date or malformed due time is dropped, not an error.
func (s *TaskService) NormalizeNew(in NewTaskInput) (dom.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return dom.Task{}, newValidationError("title", "task title is required")
	}
	return dom.Task{
		Title:      title,
		Completed:  false,
		CategoryID: in.CategoryID,
		Priority:   clampPriority(in.Priority),
		DueDate:    normalizeDueDate(in.DueDate),
		DueTime:    normalizeDueTime(in.DueTime),
	}, nil
}

// EnrichWithCategory resolves the task's category reference and fills the
// denormalized display fields. A nil or unresolved category_id maps to the
// sentinel pair; the dangling id itself is kept.
func (s *TaskService) EnrichWithCategory(ctx context.Context, t dom.Task) (dom.Task, error) {
	t.CategoryName = dom.NoCategoryName
	t.CategoryColor = dom.NoCategoryColor
	if t.CategoryID == nil {
		return t, nil
	}
	c, err := s.categories.GetByID(ctx, *t.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, nil
		}
		return dom.Task{}, err
	}
	t.CategoryName = c.Name
	t.CategoryColor = c.Color
	return t, nil
}

// Create validates, enriches and persists a new task.
func (s *TaskService) Create(ctx context.Context, in NewTaskInput) (dom.Task, error) {
	t, err := s.NormalizeNew(in)
	if err != nil {
		return dom.Task{}, err
	}
	t, err = s.EnrichWithCategory(ctx, t)
	if err != nil {
		return dom.Task{}, err
	}
	created, err := s.tasks.Create(ctx, t)
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx)
	return created, nil
}

// List returns tasks matching the filter, sorted for display.
func (s *TaskService) List(ctx context.Context, f repo.TaskFilter) ([]dom.Task, error) {
	if s.cache != nil {
		key := f.Key()
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, key); err == nil && list != nil {
				return list, nil
			}
			list, err := s.tasks.List(ctx, f)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, key, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.tasks.List(ctx, f)
}

func (s *TaskService) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// Update merges the patch into the stored task (read-merge-write) and
// persists it. Changing the category re-derives the display fields.
func (s *TaskService) Update(ctx context.Context, id int64, p TaskPatch) (dom.Task, error) {
	if p.Empty() {
		return dom.Task{}, ErrNoFields
	}
	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}

	patch := existing
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return dom.Task{}, newValidationError("title", "task title is required")
		}
		patch.Title = title
	}
	if p.Completed != nil {
		patch.Completed = *p.Completed
	}
	if p.Priority != nil {
		patch.Priority = clampPriority(*p.Priority)
	}
	if p.CategoryIDSet {
		patch.CategoryID = p.CategoryID
		patch, err = s.EnrichWithCategory(ctx, patch)
		if err != nil {
			return dom.Task{}, err
		}
	}
	if p.DueDateSet {
		patch.DueDate = nil
		if p.DueDate != nil {
			patch.DueDate = normalizeDueDate(*p.DueDate)
		}
	}
	if p.DueTimeSet {
		patch.DueTime = nil
		if p.DueTime != nil {
			patch.DueTime = normalizeDueTime(*p.DueTime)
		}
	}

	t, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Delete permanently removes a task. Deleting an unknown id is an error.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// RepairCategories recomputes every task's denormalized category fields
// from the authoritative category collection. Idempotent; returns the
// number of tasks that were out of sync.
func (s *TaskService) RepairCategories(ctx context.Context) (int, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return 0, err
	}
	byID := make(map[int64]dom.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	tasks, err := s.tasks.List(ctx, repo.TaskFilter{})
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, t := range tasks {
		wantName, wantColor := dom.NoCategoryName, dom.NoCategoryColor
		if t.CategoryID != nil {
			if c, ok := byID[*t.CategoryID]; ok {
				wantName, wantColor = c.Name, c.Color
			}
		}
		if t.CategoryName == wantName && t.CategoryColor == wantColor {
			continue
		}
		if err := s.tasks.UpdateCategoryFields(ctx, t.ID, wantName, wantColor); err != nil {
			return fixed, err
		}
		fixed++
	}
	if fixed > 0 {
		s.invalidateCache(ctx)
	}
	return fixed, nil
}

func (s *TaskService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}

// SortForDisplay orders tasks so dated ones come first in ascending due
// date order, undated ones last, ties and the undated group newest first.
func SortForDisplay(tasks []dom.Task) []dom.Task {
	out := make([]dom.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && b.DueDate != nil && *a.DueDate != *b.DueDate:
			return *a.DueDate < *b.DueDate
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}

// FilterByView keeps tasks matching a named view: "today" keeps tasks due
// today, "upcoming" keeps tasks due within [today, today+7d] inclusive,
// anything else is the identity filter. This is the single authoritative
// definition of the view windows.
func FilterByView(tasks []dom.Task, view string, today time.Time) []dom.Task {
	switch view {
	case "today":
		day := today.UTC().Format(dayLayout)
		var out []dom.Task
		for _, t := range tasks {
			if t.DueDate != nil && *t.DueDate == day {
				out = append(out, t)
			}
		}
		return out
	case "upcoming":
		start := today.UTC().Format(dayLayout)
		end := today.UTC().AddDate(0, 0, 7).Format(dayLayout)
		var out []dom.Task
		for _, t := range tasks {
			if t.DueDate != nil && *t.DueDate >= start && *t.DueDate <= end {
				out = append(out, t)
			}
		}
		return out
	default:
		return tasks
	}
}

func clampPriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case dom.PriorityLow:
		return dom.PriorityLow
	case dom.PriorityHigh:
		return dom.PriorityHigh
	default:
		return dom.PriorityMedium
	}
}

// normalizeDueDate returns the canonical "2006-01-02" form of s, or nil
// when s is empty or not a parseable calendar date.
func normalizeDueDate(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := time.Parse(dayLayout, s)
	if err != nil {
		return nil
	}
	canonical := d.Format(dayLayout)
	return &canonical
}

// normalizeDueTime returns s if it is a valid 24-hour "HH:MM" time, else nil.
func normalizeDueTime(s string) *string {
	s = strings.TrimSpace(s)
	if !dueTimeRe.MatchString(s) {
		return nil
	}
	return &s
}
