package repo

import (
	"context"

	dom "github.com/mrgear111/GROW/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepo provides category persistence.
type CategoryRepo interface {
	List(ctx context.Context) ([]dom.Category, error)
	GetByID(ctx context.Context, id int64) (dom.Category, error)
	Create(ctx context.Context, name, color string) (dom.Category, error)
	Count(ctx context.Context) (int64, error)
	SeedDefaults(ctx context.Context, categories []dom.Category) error
}

// PGCategoryRepo implements CategoryRepo with Postgres.
type PGCategoryRepo struct {
	db *pgxpool.Pool
}

func NewPGCategoryRepo(db *pgxpool.Pool) *PGCategoryRepo {
	return &PGCategoryRepo{db: db}
}

// List returns all categories ordered by name.
func (r *PGCategoryRepo) List(ctx context.Context) ([]dom.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, color FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Category
	for rows.Next() {
		var c dom.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PGCategoryRepo) GetByID(ctx context.Context, id int64) (dom.Category, error) {
	var c dom.Category
	err := r.db.QueryRow(ctx, `SELECT id, name, color FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Color)
	return c, err
}

func (r *PGCategoryRepo) Create(ctx context.Context, name, color string) (dom.Category, error) {
	query := `
		INSERT INTO categories (name, color)
		VALUES ($1, $2)
		RETURNING id, name, color`
	var c dom.Category
	err := r.db.QueryRow(ctx, query, name, color).Scan(&c.ID, &c.Name, &c.Color)
	return c, err
}

func (r *PGCategoryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}

// SeedDefaults inserts the given categories, skipping names already present.
func (r *PGCategoryRepo) SeedDefaults(ctx context.Context, categories []dom.Category) error {
	for _, c := range categories {
		_, err := r.db.Exec(ctx,
			`INSERT INTO categories (name, color) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			c.Name, c.Color)
		if err != nil {
			return err
		}
	}
	return nil
}
