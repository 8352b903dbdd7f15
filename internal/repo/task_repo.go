package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	dom "github.com/mrgear111/GROW/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskFilter is a conjunction of optional criteria for listing tasks.
// Nil fields apply no filtering. Date criteria compare against the task's
// due date by default, or its creation day when DateField is "created".
type TaskFilter struct {
	CategoryID *int64
	Completed  *bool
	DateField  string // "due" (default) or "created"
	Date       *string
	StartDate  *string
	EndDate    *string
}

// Key returns a stable string form of the filter, used as a cache key.
func (f TaskFilter) Key() string {
	var b strings.Builder
	if f.CategoryID != nil {
		b.WriteString("c" + strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.Completed != nil {
		b.WriteString("d" + strconv.FormatBool(*f.Completed))
	}
	if f.DateField != "" {
		b.WriteString("f" + f.DateField)
	}
	if f.Date != nil {
		b.WriteString("=" + *f.Date)
	}
	if f.StartDate != nil {
		b.WriteString(">" + *f.StartDate)
	}
	if f.EndDate != nil {
		b.WriteString("<" + *f.EndDate)
	}
	if b.Len() == 0 {
		return "all"
	}
	return b.String()
}

// TaskRepo provides task persistence.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, id int64) (dom.Task, error)
	List(ctx context.Context, f TaskFilter) ([]dom.Task, error)
	Update(ctx context.Context, id int64, t dom.Task) (dom.Task, error)
	Delete(ctx context.Context, id int64) error
	UpdateCategoryFields(ctx context.Context, id int64, name, color string) error
}

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, title, completed, category_id, category_name, category_color, priority, due_date, due_time, created_at, updated_at`

func scanTask(row pgx.Row) (dom.Task, error) {
	var t dom.Task
	err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.CategoryID,
		&t.CategoryName, &t.CategoryColor, &t.Priority,
		&t.DueDate, &t.DueTime, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (title, completed, category_id, category_name, category_color, priority, due_date, due_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		t.Title, t.Completed, t.CategoryID, t.CategoryName, t.CategoryColor,
		t.Priority, t.DueDate, t.DueTime))
}

func (r *PGTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRow(ctx, query, id))
}

// List returns all tasks matching the filter, ordered for display: tasks
// with a due date first (ascending), then undated tasks, newest created
// first within each group.
func (r *PGTaskRepo) List(ctx context.Context, f TaskFilter) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	var args []any

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.Completed != nil {
		args = append(args, *f.Completed)
		query += fmt.Sprintf(" AND completed = $%d", len(args))
	}

	dateCol := "due_date"
	if f.DateField == "created" {
		dateCol = "to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	}
	if f.Date != nil {
		args = append(args, *f.Date)
		query += fmt.Sprintf(" AND %s = $%d", dateCol, len(args))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		query += fmt.Sprintf(" AND %s >= $%d", dateCol, len(args))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		query += fmt.Sprintf(" AND %s <= $%d", dateCol, len(args))
	}

	query += `
		ORDER BY CASE WHEN due_date IS NULL THEN 1 ELSE 0 END,
			due_date ASC,
			created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, id int64, t dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks
		SET title = $2, completed = $3, category_id = $4, category_name = $5,
			category_color = $6, priority = $7, due_date = $8, due_time = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id,
		t.Title, t.Completed, t.CategoryID, t.CategoryName, t.CategoryColor,
		t.Priority, t.DueDate, t.DueTime))
}

// Delete removes the task permanently. Returns pgx.ErrNoRows when the id
// does not exist, so absence surfaces as NotFound instead of a silent no-op.
func (r *PGTaskRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateCategoryFields rewrites only the denormalized display fields.
// updated_at is left alone: reconciliation is not a user mutation.
func (r *PGTaskRepo) UpdateCategoryFields(ctx context.Context, id int64, name, color string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE tasks SET category_name = $2, category_color = $3 WHERE id = $1`,
		id, name, color)
	return err
}
