package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "github.com/mrgear111/GROW/internal/domain"
	"github.com/mrgear111/GROW/internal/repo"
)

func newTestService() (*TaskService, *memTaskRepo, *memCategoryRepo) {
	tasks := newMemTaskRepo()
	categories := newMemCategoryRepo()
	return NewTaskService(tasks, categories, nil), tasks, categories
}

func strPtr(s string) *string { return &s }

func TestNormalizeNew(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name    string
		in      NewTaskInput
		wantErr bool
		check   func(t *testing.T, task dom.Task)
	}{
		{
			name:    "empty title rejected",
			in:      NewTaskInput{Title: ""},
			wantErr: true,
		},
		{
			name:    "whitespace title rejected",
			in:      NewTaskInput{Title: "   \t"},
			wantErr: true,
		},
		{
			name: "title trimmed",
			in:   NewTaskInput{Title: "  buy milk  "},
			check: func(t *testing.T, task dom.Task) {
				if task.Title != "buy milk" {
					t.Fatalf("title = %q", task.Title)
				}
			},
		},
		{
			name: "missing priority defaults to medium",
			in:   NewTaskInput{Title: "x"},
			check: func(t *testing.T, task dom.Task) {
				if task.Priority != dom.PriorityMedium {
					t.Fatalf("priority = %q", task.Priority)
				}
			},
		},
		{
			name: "invalid priority clamped to medium",
			in:   NewTaskInput{Title: "x", Priority: "urgent"},
			check: func(t *testing.T, task dom.Task) {
				if task.Priority != dom.PriorityMedium {
					t.Fatalf("priority = %q", task.Priority)
				}
			},
		},
		{
			name: "high priority kept, case-insensitive",
			in:   NewTaskInput{Title: "x", Priority: "HIGH"},
			check: func(t *testing.T, task dom.Task) {
				if task.Priority != dom.PriorityHigh {
					t.Fatalf("priority = %q", task.Priority)
				}
			},
		},
		{
			name: "valid due date kept",
			in:   NewTaskInput{Title: "x", DueDate: "2026-04-01"},
			check: func(t *testing.T, task dom.Task) {
				if task.DueDate == nil || *task.DueDate != "2026-04-01" {
					t.Fatalf("due date = %v", task.DueDate)
				}
			},
		},
		{
			name: "unparseable due date dropped",
			in:   NewTaskInput{Title: "x", DueDate: "next tuesday"},
			check: func(t *testing.T, task dom.Task) {
				if task.DueDate != nil {
					t.Fatalf("due date = %v, want nil", *task.DueDate)
				}
			},
		},
		{
			name: "due time without leading zero kept",
			in:   NewTaskInput{Title: "x", DueTime: "9:30"},
			check: func(t *testing.T, task dom.Task) {
				if task.DueTime == nil || *task.DueTime != "9:30" {
					t.Fatalf("due time = %v", task.DueTime)
				}
			},
		},
		{
			name: "malformed due time dropped",
			in:   NewTaskInput{Title: "x", DueTime: "25:00"},
			check: func(t *testing.T, task dom.Task) {
				if task.DueTime != nil {
					t.Fatalf("due time = %v, want nil", *task.DueTime)
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task, err := svc.NormalizeNew(tc.in)
			if tc.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("err = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if task.Completed {
				t.Fatal("new task must start incomplete")
			}
			tc.check(t, task)
		})
	}
}

func TestEnrichWithCategory(t *testing.T) {
	svc, _, categories := newTestService()
	ctx := context.Background()
	work, _ := categories.Create(ctx, "Work", "#4f46e5")

	t.Run("resolved category", func(t *testing.T) {
		task, err := svc.EnrichWithCategory(ctx, dom.Task{Title: "x", CategoryID: &work.ID})
		if err != nil {
			t.Fatal(err)
		}
		if task.CategoryName != "Work" || task.CategoryColor != "#4f46e5" {
			t.Fatalf("got %q/%q", task.CategoryName, task.CategoryColor)
		}
	})

	t.Run("nil category maps to sentinel", func(t *testing.T) {
		task, err := svc.EnrichWithCategory(ctx, dom.Task{Title: "x"})
		if err != nil {
			t.Fatal(err)
		}
		if task.CategoryName != dom.NoCategoryName || task.CategoryColor != dom.NoCategoryColor {
			t.Fatalf("got %q/%q", task.CategoryName, task.CategoryColor)
		}
	})

	t.Run("dangling category id maps to sentinel, id kept", func(t *testing.T) {
		gone := int64(999)
		task, err := svc.EnrichWithCategory(ctx, dom.Task{Title: "x", CategoryID: &gone})
		if err != nil {
			t.Fatal(err)
		}
		if task.CategoryName != dom.NoCategoryName || task.CategoryColor != dom.NoCategoryColor {
			t.Fatalf("got %q/%q", task.CategoryName, task.CategoryColor)
		}
		if task.CategoryID == nil || *task.CategoryID != gone {
			t.Fatalf("dangling category id not preserved: %v", task.CategoryID)
		}
	})
}

func TestSortForDisplay(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tasks := []dom.Task{
		{ID: 1, DueDate: nil, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, DueDate: strPtr("2024-03-01"), CreatedAt: base},
		{ID: 3, DueDate: strPtr("2024-01-01"), CreatedAt: base},
		{ID: 4, DueDate: nil, CreatedAt: base.Add(5 * time.Hour)},
	}
	got := SortForDisplay(tasks)
	wantOrder := []int64{3, 2, 4, 1}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("position %d: got task %d, want %d", i, got[i].ID, want)
		}
	}

	// Ties on due date break by newest created first.
	tied := SortForDisplay([]dom.Task{
		{ID: 1, DueDate: strPtr("2026-05-05"), CreatedAt: base},
		{ID: 2, DueDate: strPtr("2026-05-05"), CreatedAt: base.Add(time.Hour)},
	})
	if tied[0].ID != 2 {
		t.Fatalf("tie break: got task %d first, want 2", tied[0].ID)
	}
}

func TestFilterByView(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := []dom.Task{
		{ID: 1, DueDate: strPtr("2026-03-10")},
		{ID: 2, DueDate: strPtr("2026-03-17")}, // today+7, inclusive
		{ID: 3, DueDate: strPtr("2026-03-18")}, // outside the window
		{ID: 4, DueDate: strPtr("2026-03-09")}, // past
		{ID: 5},                                // no due date
	}

	got := FilterByView(tasks, "today", today)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("today view = %v", ids(got))
	}

	got = FilterByView(tasks, "upcoming", today)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("upcoming view = %v", ids(got))
	}

	if got := FilterByView(tasks, "all", today); len(got) != len(tasks) {
		t.Fatalf("all view filtered tasks: %v", ids(got))
	}
}

func ids(tasks []dom.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestCreateThenListRoundTrip(t *testing.T) {
	svc, _, categories := newTestService()
	ctx := context.Background()
	work, _ := categories.Create(ctx, "Work", "#4f46e5")

	created, err := svc.Create(ctx, NewTaskInput{
		Title:      "write report",
		CategoryID: &work.ID,
		Priority:   "high",
		DueDate:    "2026-03-15",
		DueTime:    "14:30",
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Fatal("created task has no id")
	}
	if created.CategoryName != "Work" {
		t.Fatalf("category name = %q", created.CategoryName)
	}

	list, err := svc.List(ctx, repo.TaskFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("list length = %d", len(list))
	}
	got := list[0]
	if got.ID != created.ID || got.Title != "write report" ||
		got.Priority != dom.PriorityHigh ||
		got.DueDate == nil || *got.DueDate != "2026-03-15" ||
		got.DueTime == nil || *got.DueTime != "14:30" ||
		got.CategoryName != "Work" || got.CategoryColor != "#4f46e5" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestUpdate(t *testing.T) {
	svc, _, categories := newTestService()
	ctx := context.Background()
	work, _ := categories.Create(ctx, "Work", "#4f46e5")

	created, err := svc.Create(ctx, NewTaskInput{Title: "t", CategoryID: &work.ID, DueDate: "2026-03-15"})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("empty patch rejected", func(t *testing.T) {
		if _, err := svc.Update(ctx, created.ID, TaskPatch{}); !errors.Is(err, ErrNoFields) {
			t.Fatalf("err = %v, want ErrNoFields", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		done := true
		if _, err := svc.Update(ctx, 9999, TaskPatch{Completed: &done}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("empty title rejected, nothing persisted", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, TaskPatch{Title: strPtr("  ")})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
		got, _ := svc.GetByID(ctx, created.ID)
		if got.Title != "t" {
			t.Fatalf("title changed to %q after failed update", got.Title)
		}
	})

	t.Run("toggle completion refreshes updated_at, keeps rest", func(t *testing.T) {
		done := true
		got, err := svc.Update(ctx, created.ID, TaskPatch{Completed: &done})
		if err != nil {
			t.Fatal(err)
		}
		if !got.Completed {
			t.Fatal("completed not set")
		}
		if got.Title != "t" || got.CategoryName != "Work" {
			t.Fatalf("unrelated fields changed: %+v", got)
		}
		if !got.UpdatedAt.After(created.UpdatedAt) {
			t.Fatal("updated_at not refreshed")
		}
		if got.ID != created.ID || !got.CreatedAt.Equal(created.CreatedAt) {
			t.Fatal("id or created_at changed across update")
		}
	})

	t.Run("clearing category re-enriches to sentinel", func(t *testing.T) {
		got, err := svc.Update(ctx, created.ID, TaskPatch{CategoryIDSet: true, CategoryID: nil})
		if err != nil {
			t.Fatal(err)
		}
		if got.CategoryID != nil {
			t.Fatalf("category id = %v, want nil", *got.CategoryID)
		}
		if got.CategoryName != dom.NoCategoryName || got.CategoryColor != dom.NoCategoryColor {
			t.Fatalf("got %q/%q, want sentinel", got.CategoryName, got.CategoryColor)
		}
	})

	t.Run("clearing due date", func(t *testing.T) {
		got, err := svc.Update(ctx, created.ID, TaskPatch{DueDateSet: true, DueDate: nil})
		if err != nil {
			t.Fatal(err)
		}
		if got.DueDate != nil {
			t.Fatalf("due date = %v, want nil", *got.DueDate)
		}
	})
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, NewTaskInput{Title: "t"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
	done := true
	if _, err := svc.Update(ctx, created.ID, TaskPatch{Completed: &done}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update after delete err = %v, want ErrNotFound", err)
	}
	list, err := svc.List(ctx, repo.TaskFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Fatalf("deleted task still listed: %v", ids(list))
	}
}

func TestRepairCategories(t *testing.T) {
	svc, tasks, categories := newTestService()
	ctx := context.Background()
	work, _ := categories.Create(ctx, "Work", "#4f46e5")

	// A task whose denormalized fields drifted and one pointing at a
	// category that no longer exists.
	gone := int64(42)
	if _, err := tasks.Create(ctx, dom.Task{Title: "drifted", CategoryID: &work.ID, CategoryName: "Old", CategoryColor: "#000000"}); err != nil {
		t.Fatal(err)
	}
	if _, err := tasks.Create(ctx, dom.Task{Title: "orphan", CategoryID: &gone, CategoryName: "Ghost", CategoryColor: "#ffffff"}); err != nil {
		t.Fatal(err)
	}
	if _, err := tasks.Create(ctx, dom.Task{Title: "fine", CategoryName: dom.NoCategoryName, CategoryColor: dom.NoCategoryColor}); err != nil {
		t.Fatal(err)
	}

	fixed, err := svc.RepairCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fixed != 2 {
		t.Fatalf("fixed = %d, want 2", fixed)
	}

	list, _ := svc.List(ctx, repo.TaskFilter{})
	for _, task := range list {
		switch task.Title {
		case "drifted":
			if task.CategoryName != "Work" || task.CategoryColor != "#4f46e5" {
				t.Fatalf("drifted task not repaired: %q/%q", task.CategoryName, task.CategoryColor)
			}
		case "orphan":
			if task.CategoryName != dom.NoCategoryName || task.CategoryColor != dom.NoCategoryColor {
				t.Fatalf("orphan task not repaired: %q/%q", task.CategoryName, task.CategoryColor)
			}
		}
	}

	// Second run is a no-op.
	fixed, err = svc.RepairCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fixed != 0 {
		t.Fatalf("second repair fixed = %d, want 0", fixed)
	}
}

func TestListFilters(t *testing.T) {
	svc, _, categories := newTestService()
	ctx := context.Background()
	work, _ := categories.Create(ctx, "Work", "#4f46e5")

	mustCreate := func(in NewTaskInput) dom.Task {
		t.Helper()
		task, err := svc.Create(ctx, in)
		if err != nil {
			t.Fatal(err)
		}
		return task
	}
	a := mustCreate(NewTaskInput{Title: "a", CategoryID: &work.ID, DueDate: "2026-03-10"})
	b := mustCreate(NewTaskInput{Title: "b", DueDate: "2026-03-12"})
	mustCreate(NewTaskInput{Title: "c"})

	done := true
	if _, err := svc.Update(ctx, b.ID, TaskPatch{Completed: &done}); err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(ctx, repo.TaskFilter{CategoryID: &work.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("category filter = %v", ids(list))
	}

	completed := true
	list, _ = svc.List(ctx, repo.TaskFilter{Completed: &completed})
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("completed filter = %v", ids(list))
	}

	day := "2026-03-10"
	list, _ = svc.List(ctx, repo.TaskFilter{Date: &day})
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("date filter = %v", ids(list))
	}

	start, end := "2026-03-09", "2026-03-11"
	list, _ = svc.List(ctx, repo.TaskFilter{StartDate: &start, EndDate: &end})
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("range filter = %v", ids(list))
	}
}
